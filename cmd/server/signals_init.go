// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package main

import (
	"github.com/rs/zerolog"

	"github.com/tomtom215/bundlecraft/internal/config"
	"github.com/tomtom215/bundlecraft/internal/gateway"
	"github.com/tomtom215/bundlecraft/internal/signals"
)

// initProfiles selects where visitor profiles come from. The local badger
// store is returned so the caller can feed it events and close it; it is
// nil for the http source.
func initProfiles(cfg config.SignalsConfig, shop *gateway.Shop, logger zerolog.Logger) (gateway.ProfileSource, *signals.Store, error) {
	if cfg.Source == "http" {
		return shop, nil, nil
	}

	store, err := signals.Open(signals.Config{
		Path:          cfg.Path,
		InMemory:      cfg.InMemory,
		ProfileTTL:    cfg.ProfileTTL,
		MaxListLength: cfg.MaxListLength,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	return store, store, nil
}
