// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package main

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/tomtom215/bundlecraft/internal/config"
	"github.com/tomtom215/bundlecraft/internal/events"
	"github.com/tomtom215/bundlecraft/internal/gateway"
	"github.com/tomtom215/bundlecraft/internal/logging"
	"github.com/tomtom215/bundlecraft/internal/models"
	"github.com/tomtom215/bundlecraft/internal/recommend"
)

func testConfig() *config.Config {
	return &config.Config{
		Upstream: config.UpstreamConfig{BaseURL: "http://127.0.0.1:1"},
		Recommend: config.RecommendConfig{
			ManualEnabled:     true,
			CoPurchaseEnabled: false,
			PlatformEnabled:   true,
			DefaultLimit:      6,
			MaxLimit:          20,
			OrderSampleSize:   40,
			CandidatePoolSize: 30,
			PriceBandMin:      0.25,
			PriceBandMax:      3,
			ViewBoost:         1.2,
			CartBoost:         1.4,
			TimeOfDayBoost:    1.3,
			RecencyBoost:      1.1,
			RecencyWindow:     3,
			StrategyTimeout:   time.Second,
		},
		Discount: config.DiscountConfig{DefaultShopAOV: 80},
		Signals:  config.SignalsConfig{Source: "local", InMemory: true, MaxListLength: 10},
		Events: config.EventsConfig{
			Enabled:   true,
			Transport: "channel",
			Topic:     "test-interactions",
			QueueSize: 16,
		},
	}
}

func TestResolverConfig(t *testing.T) {
	cfg := testConfig()
	rc := resolverConfig(cfg)

	if rc.CoPurchaseEnabled || !rc.ManualEnabled || !rc.PlatformEnabled {
		t.Errorf("tier switches not mapped: %+v", rc)
	}
	if rc.DefaultLimit != 6 || rc.MaxLimit != 20 {
		t.Errorf("limits = %d/%d, want 6/20", rc.DefaultLimit, rc.MaxLimit)
	}
	if rc.PriceBand != (recommend.PriceBand{Min: 0.25, Max: 3}) {
		t.Errorf("PriceBand = %+v", rc.PriceBand)
	}
	if rc.Booster != (recommend.Booster{ViewBoost: 1.2, CartBoost: 1.4}) {
		t.Errorf("Booster = %+v", rc.Booster)
	}
	if rc.DefaultShopAOV != 80 {
		t.Errorf("DefaultShopAOV = %v, want 80", rc.DefaultShopAOV)
	}
	if rc.Weights != recommend.DefaultConfig().Weights {
		t.Errorf("Weights = %+v, want defaults", rc.Weights)
	}
	if len(rc.TimeOfDayAffinity) != len(recommend.DefaultTimeOfDayAffinity()) {
		t.Errorf("TimeOfDayAffinity should keep defaults when unset")
	}
	if err := rc.Validate(); err != nil {
		t.Errorf("mapped config invalid: %v", err)
	}

	cfg.Recommend.TimeOfDayAffinity = map[string][]string{recommend.DaypartMorning: {"Granola"}}
	rc = resolverConfig(cfg)
	if got := rc.TimeOfDayAffinity[recommend.DaypartMorning]; !slices.Equal(got, []string{"Granola"}) {
		t.Errorf("morning affinity = %v, want [Granola]", got)
	}
}

func TestInitProfiles(t *testing.T) {
	logger := logging.NewNopLogger()
	gw := initGateway(testConfig(), logger)
	defer gw.catalog.Close()

	t.Run("http source uses the shop", func(t *testing.T) {
		profiles, store, err := initProfiles(config.SignalsConfig{Source: "http"}, gw.shop, logger)
		if err != nil {
			t.Fatalf("initProfiles: %v", err)
		}
		if store != nil {
			t.Error("http source should not open a store")
		}
		if _, ok := profiles.(*gateway.Shop); !ok {
			t.Errorf("profiles = %T, want *gateway.Shop", profiles)
		}
	})

	t.Run("local source opens badger", func(t *testing.T) {
		profiles, store, err := initProfiles(testConfig().Signals, gw.shop, logger)
		if err != nil {
			t.Fatalf("initProfiles: %v", err)
		}
		defer store.Close()
		if profiles != gateway.ProfileSource(store) {
			t.Error("profiles should be the local store")
		}
	})
}

func TestInitEventsDisabled(t *testing.T) {
	ev, err := initEvents(config.EventsConfig{Enabled: false}, nil, logging.NewNopLogger())
	if err != nil {
		t.Fatalf("initEvents: %v", err)
	}
	if ev != nil {
		t.Fatal("disabled events should yield no components")
	}
	// nil components are safe to close.
	ev.close(logging.NewNopLogger())
}

func TestInitEventsWithoutApplier(t *testing.T) {
	logger := logging.NewNopLogger()
	ev, err := initEvents(testConfig().Events, nil, logger)
	if err != nil {
		t.Fatalf("initEvents: %v", err)
	}
	defer ev.close(logger)

	if ev.consumer != nil {
		t.Error("no applier should mean no consumer")
	}
	if ev.transport.Name != "channel" {
		t.Errorf("transport = %q, want channel", ev.transport.Name)
	}
}

func TestEventPipelineUpdatesProfiles(t *testing.T) {
	logger := logging.NewNopLogger()
	cfg := testConfig()
	gw := initGateway(cfg, logger)
	defer gw.catalog.Close()

	profiles, store, err := initProfiles(cfg.Signals, gw.shop, logger)
	if err != nil {
		t.Fatalf("initProfiles: %v", err)
	}
	defer store.Close()

	ev, err := initEvents(cfg.Events, store, logger)
	if err != nil {
		t.Fatalf("initEvents: %v", err)
	}
	defer ev.close(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = ev.consumer.Serve(ctx) }()
	go func() { _ = ev.recorder.Serve(ctx) }()

	select {
	case <-ev.consumer.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not subscribe")
	}

	if err := ev.recorder.Record(events.NewInteraction(models.InteractionView, "sess-1", "p-1")); err != nil {
		t.Fatalf("Record: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		profile, err := profiles.FetchUserProfile(ctx, "sess-1")
		if err != nil {
			t.Fatalf("FetchUserProfile: %v", err)
		}
		if profile != nil && slices.Contains(profile.ViewedProducts, "p-1") {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("profile not updated, got %+v", profile)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestInitResolver(t *testing.T) {
	logger := logging.NewNopLogger()
	cfg := testConfig()
	gw := initGateway(cfg, logger)
	defer gw.catalog.Close()

	resolver, err := initResolver(cfg, gw, gw.shop, nil, logger)
	if err != nil {
		t.Fatalf("initResolver: %v", err)
	}
	if resolver == nil {
		t.Fatal("resolver is nil")
	}

	cfg.Recommend.DefaultLimit = 0
	if _, err := initResolver(cfg, gw, gw.shop, nil, logger); err == nil {
		t.Error("expected invalid config to be rejected")
	}
}
