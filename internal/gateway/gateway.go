// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

// Package gateway holds the contracts of the upstream collaborators the
// engine reads from, their HTTP adapters for the shop data service, and a
// read-through catalog cache.
//
// Every adapter call runs under its own timeout, waits on a shared rate
// limiter and goes through a per-operation circuit breaker, so one slow or
// failing upstream operation never takes the others down with it.
package gateway

import (
	"context"
	"errors"

	"github.com/tomtom215/bundlecraft/internal/models"
)

var (
	// ErrNotFound is returned when the upstream has no such entity.
	ErrNotFound = errors.New("gateway: not found")

	// ErrUpstream wraps transport failures, unexpected statuses and
	// undecodable responses.
	ErrUpstream = errors.New("gateway: upstream unavailable")
)

// ProductCatalog reads product snapshots.
type ProductCatalog interface {
	// FetchProduct returns ErrNotFound for unknown ids.
	FetchProduct(ctx context.Context, id string) (*models.Product, error)

	// FetchProductsBatch returns the products it could resolve, in no
	// particular order. Unknown ids are silently absent.
	FetchProductsBatch(ctx context.Context, ids []string) ([]models.Product, error)

	// FetchBestSellers returns up to limit best-selling products.
	FetchBestSellers(ctx context.Context, limit int) ([]models.Product, error)
}

// OrderHistory reads recent orders containing a product.
type OrderHistory interface {
	FetchRecentOrders(ctx context.Context, anchorID string, limit int) ([]models.Order, error)
}

// ProfileSource reads visitor profiles. A nil profile with a nil error
// means the visitor is unknown.
type ProfileSource interface {
	FetchUserProfile(ctx context.Context, sessionID string) (*models.UserProfile, error)
}

// ManualBundleSource reads merchant-curated bundles containing a product.
type ManualBundleSource interface {
	FetchManualBundles(ctx context.Context, anchorID string) ([]models.ManualBundle, error)
}

// PlatformRecommender reads the platform's opaque "also bought" ranking.
type PlatformRecommender interface {
	FetchPlatformRecommendations(ctx context.Context, anchorID string) ([]string, error)
}
