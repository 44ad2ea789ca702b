// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package main

import (
	"github.com/rs/zerolog"

	"github.com/tomtom215/bundlecraft/internal/config"
	"github.com/tomtom215/bundlecraft/internal/gateway"
	"github.com/tomtom215/bundlecraft/internal/recommend"
)

// resolverConfig maps the recommend and discount sections onto the
// resolver configuration. Strategy weights keep their defaults.
func resolverConfig(cfg *config.Config) recommend.Config {
	rc := recommend.DefaultConfig()
	r := cfg.Recommend

	rc.ManualEnabled = r.ManualEnabled
	rc.CoPurchaseEnabled = r.CoPurchaseEnabled
	rc.PlatformEnabled = r.PlatformEnabled
	rc.DefaultLimit = r.DefaultLimit
	rc.MaxLimit = r.MaxLimit
	rc.OrderSampleSize = r.OrderSampleSize
	rc.CandidatePoolSize = r.CandidatePoolSize
	rc.PriceBand = recommend.PriceBand{Min: r.PriceBandMin, Max: r.PriceBandMax}
	rc.Booster = recommend.Booster{ViewBoost: r.ViewBoost, CartBoost: r.CartBoost}
	rc.TimeOfDayBoost = r.TimeOfDayBoost
	rc.RecencyBoost = r.RecencyBoost
	rc.RecencyWindow = r.RecencyWindow
	rc.StrategyTimeout = r.StrategyTimeout
	if len(r.TimeOfDayAffinity) > 0 {
		rc.TimeOfDayAffinity = r.TimeOfDayAffinity
	}
	rc.DefaultShopAOV = cfg.Discount.DefaultShopAOV
	return rc
}

// initResolver wires the resolver to the gateways. recorder may be nil.
func initResolver(cfg *config.Config, gw *gatewayComponents, profiles gateway.ProfileSource, recorder recommend.Recorder, logger zerolog.Logger) (*recommend.Resolver, error) {
	deps := recommend.Dependencies{
		Catalog:  gw.catalog,
		Orders:   gw.shop,
		Profiles: profiles,
		Manual:   gw.shop,
		Platform: gw.shop,
		Recorder: recorder,
	}
	return recommend.NewResolver(resolverConfig(cfg), deps, logger)
}
