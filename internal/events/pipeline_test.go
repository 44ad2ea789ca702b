// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package events

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bundlecraft/internal/models"
	"github.com/tomtom215/bundlecraft/internal/signals"
)

const testTopic = "bundlecraft-interactions-test"

func openTestStore(t *testing.T) *signals.Store {
	t.Helper()
	store, err := signals.Open(signals.Config{InMemory: true, ProfileTTL: time.Hour}, zerolog.Nop())
	if err != nil {
		t.Fatalf("signals.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// runPipeline wires recorder -> publisher -> transport -> consumer -> store
// and returns the recorder once the consumer is subscribed.
func runPipeline(t *testing.T, transport *Transport, store *signals.Store) *Recorder {
	t.Helper()
	logger := zerolog.Nop()

	publisher := NewPublisher(transport.Publisher, testTopic, logger)
	recorder := NewRecorder(publisher, RecorderConfig{QueueSize: 16}, logger)
	consumer := NewSignalConsumer(transport.Subscriber, testTopic, store, logger)

	ctx, cancel := context.WithCancel(context.Background())
	consumerDone := make(chan struct{})
	recorderDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		_ = consumer.Serve(ctx)
	}()
	go func() {
		defer close(recorderDone)
		_ = recorder.Serve(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-recorderDone
		<-consumerDone
		publisher.Close()
		_ = transport.Close()
	})

	select {
	case <-consumer.Ready():
	case <-time.After(10 * time.Second):
		t.Fatal("consumer did not subscribe")
	}
	return recorder
}

func waitForProfile(t *testing.T, store *signals.Store, session string, cond func(*models.UserProfile) bool) *models.UserProfile {
	t.Helper()
	var profile *models.UserProfile
	deadline := time.Now().Add(10 * time.Second)
	for {
		p, err := store.FetchUserProfile(context.Background(), session)
		if err != nil {
			t.Fatalf("FetchUserProfile() error = %v", err)
		}
		if p != nil && cond(p) {
			profile = p
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("profile for %s not updated in time (last %+v)", session, p)
		}
		time.Sleep(10 * time.Millisecond)
	}
	return profile
}

func recordAll(t *testing.T, recorder *Recorder, evs ...*models.InteractionEvent) {
	t.Helper()
	for _, ev := range evs {
		if err := recorder.Record(ev); err != nil {
			t.Fatalf("Record(%s) error = %v", ev.Kind, err)
		}
	}
}

func TestPipelineChannelTransport(t *testing.T) {
	store := openTestStore(t)
	recorder := runPipeline(t, NewChannelTransport(zerolog.Nop()), store)

	recordAll(t, recorder,
		NewInteraction(models.InteractionView, "sess-1", "p1"),
		NewInteraction(models.InteractionView, "sess-1", "p2"),
		NewInteraction(models.InteractionCartAdd, "sess-1", "p3"),
	)

	profile := waitForProfile(t, store, "sess-1", func(p *models.UserProfile) bool {
		return len(p.ViewedProducts) == 2 && len(p.CartedProducts) == 1
	})
	if profile.CartedProducts[0] != "p3" {
		t.Errorf("CartedProducts = %v, want [p3]", profile.CartedProducts)
	}
}

func TestPipelineEmbeddedNATS(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping embedded NATS test in short mode")
	}

	srv, err := StartEmbeddedServer(ServerConfig{Host: "127.0.0.1", Port: -1, StoreDir: t.TempDir()})
	if err != nil {
		t.Fatalf("StartEmbeddedServer() error = %v", err)
	}
	t.Cleanup(srv.Shutdown)

	cfg := DefaultNATSConfig(srv.ClientURL())
	cfg.CloseTimeout = 2 * time.Second
	transport, err := NewNATSTransport(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewNATSTransport() error = %v", err)
	}

	store := openTestStore(t)
	recorder := runPipeline(t, transport, store)

	recordAll(t, recorder,
		NewInteraction(models.InteractionCartAdd, "sess-nats", "p9"),
		NewInteraction(models.InteractionPurchase, "sess-nats", "p9"),
	)

	profile := waitForProfile(t, store, "sess-nats", func(p *models.UserProfile) bool {
		return len(p.PurchasedProducts) == 1
	})
	if len(profile.CartedProducts) != 0 {
		t.Errorf("CartedProducts = %v, want empty after purchase", profile.CartedProducts)
	}
}
