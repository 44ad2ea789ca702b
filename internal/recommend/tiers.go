// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package recommend

import (
	"context"
	"fmt"
	"slices"

	"github.com/tomtom215/bundlecraft/internal/gateway"
	"github.com/tomtom215/bundlecraft/internal/models"
	"github.com/tomtom215/bundlecraft/internal/recommend/algorithms"
)

// Bundle names of the generated tiers. Manual bundles keep the merchant's
// name.
const (
	NameCoPurchase = "Frequently Bought Together"
	NamePlatform   = "Customers Also Bought"
	NameContent    = "You May Also Like"
)

const defaultManualName = "Curated Bundle"

// Tier is one link of the fallback chain. Attempt returns the bundles the
// tier can build for q; an empty result passes control to the next tier.
type Tier interface {
	Name() string
	Attempt(ctx context.Context, q *Query) ([]models.Bundle, error)
}

// manualTier offers merchant-curated bundles.
type manualTier struct {
	source   gateway.ManualBundleSource
	catalog  gateway.ProductCatalog
	composer *Composer
}

func (t *manualTier) Name() string { return models.BundleSourceManual }

func (t *manualTier) Attempt(ctx context.Context, q *Query) ([]models.Bundle, error) {
	curated, err := t.source.FetchManualBundles(ctx, q.Anchor.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch manual bundles: %w", err)
	}
	// Only bundles that contain the anchor belong to this tier.
	relevant := make([]models.ManualBundle, 0, len(curated))
	for _, mb := range curated {
		if slices.Contains(mb.ProductIDs, q.Anchor.ID) {
			relevant = append(relevant, mb)
		}
	}
	if len(relevant) == 0 {
		return nil, nil
	}

	var ids []string
	for _, mb := range relevant {
		ids = append(ids, mb.ProductIDs...)
	}
	products, err := fetchByID(ctx, t.catalog, ids, q.Anchor)
	if err != nil {
		return nil, fmt.Errorf("enrich manual bundles: %w", err)
	}

	// Limit counts usable bundles only.
	bundles := make([]models.Bundle, 0, min(len(relevant), q.Limit))
	for _, mb := range relevant {
		if len(bundles) == q.Limit {
			break
		}
		lines := make([]models.Product, 0, len(mb.ProductIDs))
		for _, id := range mb.ProductIDs {
			if p, ok := products[id]; ok {
				lines = append(lines, p)
			}
		}
		name := mb.Name
		if name == "" {
			name = defaultManualName
		}
		if b, ok := t.composer.ComposeManual(name, q.Anchor.ID, lines, q.AOV); ok {
			bundles = append(bundles, b)
		}
	}
	return bundles, nil
}

// coPurchaseTier builds a bundle from companions of past orders.
type coPurchaseTier struct {
	orders    gateway.OrderHistory
	catalog   gateway.ProductCatalog
	composer  *Composer
	band      PriceBand
	booster   Booster
	maxOrders int
	maxPool   int
}

func (t *coPurchaseTier) Name() string { return models.BundleSourceCoPurchase }

func (t *coPurchaseTier) Attempt(ctx context.Context, q *Query) ([]models.Bundle, error) {
	orders, err := t.orders.FetchRecentOrders(ctx, q.Anchor.ID, t.maxOrders)
	if err != nil {
		return nil, fmt.Errorf("fetch recent orders: %w", err)
	}
	if len(orders) == 0 {
		return nil, nil
	}

	analysis := algorithms.Analyze(q.Anchor.ID, orders, t.maxOrders)
	ranked := algorithms.RankCounts(t.booster.Boost(analysis.Counts, q.Profile), analysis.Order)

	candidates, err := t.rankedProducts(ctx, q, ranked)
	if err != nil {
		return nil, err
	}
	return composeOne(t.composer, models.BundleSourceCoPurchase, NameCoPurchase, q, t.band.Filter(q.Anchor.Price, candidates))
}

func (t *coPurchaseTier) rankedProducts(ctx context.Context, q *Query, ranked []string) ([]models.Product, error) {
	ids := excludeIDs(ranked, q)
	if len(ids) > t.maxPool {
		ids = ids[:t.maxPool]
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return fetchOrdered(ctx, t.catalog, ids)
}

// platformTier trusts the platform's ranking as is.
type platformTier struct {
	platform gateway.PlatformRecommender
	catalog  gateway.ProductCatalog
	composer *Composer
	band     PriceBand
}

func (t *platformTier) Name() string { return models.BundleSourcePlatform }

func (t *platformTier) Attempt(ctx context.Context, q *Query) ([]models.Bundle, error) {
	ranked, err := t.platform.FetchPlatformRecommendations(ctx, q.Anchor.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch platform recommendations: %w", err)
	}
	ids := excludeIDs(ranked, q)
	if len(ids) == 0 {
		return nil, nil
	}
	candidates, err := fetchOrdered(ctx, t.catalog, ids)
	if err != nil {
		return nil, err
	}
	return composeOne(t.composer, models.BundleSourcePlatform, NamePlatform, q, t.band.Filter(q.Anchor.Price, candidates))
}

// contentTier scores the best sellers against the anchor. It needs no
// history and yields a bundle whenever a pool product fits the price band.
type contentTier struct {
	catalog  gateway.ProductCatalog
	composer *Composer
	band     PriceBand
	poolSize int
}

func (t *contentTier) Name() string { return models.BundleSourceContent }

func (t *contentTier) Attempt(ctx context.Context, q *Query) ([]models.Bundle, error) {
	matches, err := contentMatches(ctx, t.catalog, t.poolSize, q)
	if err != nil {
		return nil, err
	}

	candidates := make([]models.Product, 0, len(matches))
	for i := range matches {
		candidates = append(candidates, matches[i].Product)
	}
	candidates = t.band.Filter(q.Anchor.Price, candidates)
	if depth := algorithms.ContentDepth(q.Limit); len(candidates) > depth {
		candidates = candidates[:depth]
	}
	return composeOne(t.composer, models.BundleSourceContent, NameContent, q, candidates)
}

// contentMatches ranks the best-seller pool against the anchor, without
// excluded products.
func contentMatches(ctx context.Context, catalog gateway.ProductCatalog, poolSize int, q *Query) ([]algorithms.ContentMatch, error) {
	pool, err := catalog.FetchBestSellers(ctx, poolSize)
	if err != nil {
		return nil, fmt.Errorf("fetch best sellers: %w", err)
	}
	kept := make([]models.Product, 0, len(pool))
	for i := range pool {
		if !q.Excluded(pool[i].ID) {
			kept = append(kept, pool[i])
		}
	}
	return algorithms.RankContent(&q.Anchor, kept), nil
}

func composeOne(c *Composer, source, name string, q *Query, candidates []models.Product) ([]models.Bundle, error) {
	b, ok := c.Compose(source, name, &q.Anchor, candidates, q.AOV)
	if !ok {
		return nil, nil
	}
	return []models.Bundle{b}, nil
}

// excludeIDs drops excluded, empty and repeated ids, keeping order.
func excludeIDs(ids []string, q *Query) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" || q.Excluded(id) {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// fetchByID loads ids from the catalog, keyed by id. The anchor is served
// from the query instead of the catalog.
func fetchByID(ctx context.Context, catalog gateway.ProductCatalog, ids []string, anchor models.Product) (map[string]models.Product, error) {
	byID := map[string]models.Product{anchor.ID: anchor}
	seen := map[string]struct{}{anchor.ID: {}}
	missing := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return byID, nil
	}

	products, err := catalog.FetchProductsBatch(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	for i := range products {
		byID[products[i].ID] = products[i]
	}
	return byID, nil
}

// fetchOrdered loads ids from the catalog and returns the resolvable ones
// in the order of ids.
func fetchOrdered(ctx context.Context, catalog gateway.ProductCatalog, ids []string) ([]models.Product, error) {
	products, err := catalog.FetchProductsBatch(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	byID := make(map[string]models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = products[i]
	}
	ordered := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}
