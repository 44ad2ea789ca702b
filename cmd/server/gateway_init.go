// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package main

import (
	"github.com/rs/zerolog"

	"github.com/tomtom215/bundlecraft/internal/cache"
	"github.com/tomtom215/bundlecraft/internal/config"
	"github.com/tomtom215/bundlecraft/internal/gateway"
)

// gatewayComponents are the shop data service adapters.
type gatewayComponents struct {
	client  *gateway.Client
	shop    *gateway.Shop
	catalog *gateway.CachedCatalog
}

// initGateway builds the upstream client, its typed adapters and the
// cached product catalog in front of them.
func initGateway(cfg *config.Config, logger zerolog.Logger) *gatewayComponents {
	up := cfg.Upstream
	client := gateway.NewClient(gateway.ClientConfig{
		BaseURL:           up.BaseURL,
		APIKey:            up.APIKey,
		RequestsPerSecond: up.RequestsPerSecond,
		Burst:             up.Burst,
		BreakerThreshold:  up.BreakerThreshold,
		BreakerTimeout:    up.BreakerTimeout,
		Timeouts: gateway.Timeouts{
			Product:     up.ProductTimeout,
			Batch:       up.BatchTimeout,
			BestSellers: up.BestSellersTimeout,
			Orders:      up.OrdersTimeout,
			Profile:     up.ProfileTimeout,
			Bundles:     up.BundlesTimeout,
			Platform:    up.PlatformTimeout,
		},
	}, logger)

	shop := gateway.NewShop(client)
	catalog := gateway.NewCachedCatalog(shop, gateway.CachedCatalogConfig{
		Cache: cache.Config{
			TTL:             cfg.Cache.TTL,
			Capacity:        cfg.Cache.Capacity,
			CleanupInterval: cfg.Cache.CleanupInterval,
		},
		PoolTTL:          cfg.Cache.PoolTTL,
		BatchChunkSize:   cfg.Cache.BatchChunkSize,
		BatchConcurrency: cfg.Cache.BatchConcurrency,
	}, logger)

	return &gatewayComponents{client: client, shop: shop, catalog: catalog}
}
