// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package gateway

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/bundlecraft/internal/cache"
	"github.com/tomtom215/bundlecraft/internal/metrics"
	"github.com/tomtom215/bundlecraft/internal/models"
)

// CachedCatalogConfig tunes a CachedCatalog.
type CachedCatalogConfig struct {
	Cache            cache.Config
	PoolTTL          time.Duration
	BatchChunkSize   int
	BatchConcurrency int
}

// DefaultCachedCatalogConfig returns a five-minute product cache with
// ten-id chunks fetched three at a time.
func DefaultCachedCatalogConfig() CachedCatalogConfig {
	return CachedCatalogConfig{
		Cache:            cache.DefaultConfig(),
		PoolTTL:          10 * time.Minute,
		BatchChunkSize:   10,
		BatchConcurrency: 3,
	}
}

// CachedCatalog is a read-through cache in front of a ProductCatalog.
//
// At most one upstream load is in flight per product id: concurrent
// requests for an id that is already loading wait for that load, whether
// it was started by FetchProduct or as part of a batch. Batch misses are
// split into chunks fetched with bounded concurrency; a failing chunk only
// loses its own ids.
type CachedCatalog struct {
	upstream ProductCatalog
	products *cache.Cache
	pools    *cache.Cache
	flight   *cache.Flight[models.Product]
	pool     *cache.Flight[[]models.Product]

	poolTTL     time.Duration
	chunkSize   int
	concurrency int
	logger      zerolog.Logger
}

var _ ProductCatalog = (*CachedCatalog)(nil)

// NewCachedCatalog wraps upstream. Call Close to stop the cache janitors.
func NewCachedCatalog(upstream ProductCatalog, cfg CachedCatalogConfig, logger zerolog.Logger) *CachedCatalog {
	if cfg.BatchChunkSize <= 0 {
		cfg.BatchChunkSize = 10
	}
	if cfg.BatchConcurrency <= 0 {
		cfg.BatchConcurrency = 3
	}
	if cfg.PoolTTL <= 0 {
		cfg.PoolTTL = cfg.Cache.TTL
	}

	return &CachedCatalog{
		upstream:    upstream,
		products:    cache.New(cfg.Cache),
		pools:       cache.New(cache.Config{TTL: cfg.PoolTTL, Capacity: 16, CleanupInterval: cfg.Cache.CleanupInterval}),
		flight:      cache.NewFlight[models.Product](),
		pool:        cache.NewFlight[[]models.Product](),
		poolTTL:     cfg.PoolTTL,
		chunkSize:   cfg.BatchChunkSize,
		concurrency: cfg.BatchConcurrency,
		logger:      logger.With().Str("component", "catalog_cache").Logger(),
	}
}

// Close stops background cleanup.
func (c *CachedCatalog) Close() {
	c.products.Close()
	c.pools.Close()
}

// Stats returns product cache statistics.
func (c *CachedCatalog) Stats() cache.Stats {
	return c.products.Stats()
}

func (c *CachedCatalog) cached(id string) (models.Product, bool) {
	v, ok := c.products.Get(id)
	if !ok {
		return models.Product{}, false
	}
	p, ok := v.(models.Product)
	return p, ok
}

// FetchProduct implements ProductCatalog.
func (c *CachedCatalog) FetchProduct(ctx context.Context, id string) (*models.Product, error) {
	if p, ok := c.cached(id); ok {
		metrics.RecordCatalogCache("hit", 1)
		return &p, nil
	}

	// The shared load outlives any single caller; the gateway applies its
	// own deadline.
	loadCtx := context.WithoutCancel(ctx)
	p, shared, err := c.flight.Do(ctx, id, func() (models.Product, error) {
		fetched, err := c.upstream.FetchProduct(loadCtx, id)
		if err != nil {
			return models.Product{}, err
		}
		c.products.Set(id, *fetched)
		return *fetched, nil
	})
	if shared {
		metrics.RecordCatalogCache("shared", 1)
	} else {
		metrics.RecordCatalogCache("miss", 1)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FetchProductsBatch implements ProductCatalog. Results keep the order of
// ids; duplicates and unresolvable ids are dropped. An error is returned
// only when nothing could be resolved and at least one load failed.
func (c *CachedCatalog) FetchProductsBatch(ctx context.Context, ids []string) ([]models.Product, error) {
	found := make(map[string]models.Product, len(ids))
	var misses []string
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if p, ok := c.cached(id); ok {
			found[id] = p
			continue
		}
		misses = append(misses, id)
	}
	metrics.RecordCatalogCache("hit", len(found))

	var firstErr error
	if len(misses) > 0 {
		owned, pending := c.flight.Claim(misses)
		metrics.RecordCatalogCache("miss", len(owned))
		metrics.RecordCatalogCache("shared", len(pending))

		loaded, err := c.loadChunks(ctx, owned)
		firstErr = err
		for id, p := range loaded {
			found[id] = p
		}

		for id, call := range pending {
			p, err := call.Wait(ctx)
			if err != nil {
				if firstErr == nil && !errors.Is(err, ErrNotFound) {
					firstErr = err
				}
				continue
			}
			found[id] = p
		}
	}

	out := make([]models.Product, 0, len(found))
	for _, id := range ids {
		if p, ok := found[id]; ok {
			out = append(out, p)
			delete(found, id)
		}
	}

	if len(out) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

// loadChunks fetches owned ids in chunks and resolves every one of them in
// the flight group, including ids the upstream did not return.
func (c *CachedCatalog) loadChunks(ctx context.Context, owned []string) (map[string]models.Product, error) {
	if len(owned) == 0 {
		return nil, nil
	}

	var (
		mu       sync.Mutex
		loaded   = make(map[string]models.Product, len(owned))
		firstErr error
	)

	loadCtx := context.WithoutCancel(ctx)
	g := new(errgroup.Group)
	g.SetLimit(c.concurrency)

	for start := 0; start < len(owned); start += c.chunkSize {
		end := min(start+c.chunkSize, len(owned))
		chunk := owned[start:end]

		g.Go(func() error {
			products, err := c.loadChunk(loadCtx, chunk)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return nil
			}
			for _, p := range products {
				loaded[p.ID] = p
			}
			return nil
		})
	}

	// Chunk failures are collected above so siblings keep running.
	_ = g.Wait()
	return loaded, firstErr
}

func (c *CachedCatalog) loadChunk(ctx context.Context, chunk []string) (products []models.Product, err error) {
	resolved := make(map[string]bool, len(chunk))
	defer func() {
		// Anything left unresolved (error or panic) releases its waiters.
		for _, id := range chunk {
			if resolved[id] {
				continue
			}
			loadErr := err
			if loadErr == nil {
				loadErr = ErrNotFound
			}
			c.flight.Resolve(id, models.Product{}, loadErr)
		}
	}()

	products, err = c.upstream.FetchProductsBatch(ctx, chunk)
	if err != nil {
		c.logger.Warn().Err(err).Int("ids", len(chunk)).Msg("Catalog batch chunk failed")
		return nil, fmt.Errorf("catalog batch of %d ids: %w", len(chunk), err)
	}

	wanted := make(map[string]bool, len(chunk))
	for _, id := range chunk {
		wanted[id] = true
	}
	kept := products[:0:0]
	for _, p := range products {
		if !wanted[p.ID] || resolved[p.ID] {
			continue
		}
		c.products.Set(p.ID, p)
		c.flight.Resolve(p.ID, p, nil)
		resolved[p.ID] = true
		kept = append(kept, p)
	}
	return kept, nil
}

// FetchBestSellers implements ProductCatalog. Pools are cached per size and
// their products are added to the product cache. The returned slice is
// shared and must not be modified.
func (c *CachedCatalog) FetchBestSellers(ctx context.Context, limit int) ([]models.Product, error) {
	key := "best-sellers:" + strconv.Itoa(limit)
	if v, ok := c.pools.Get(key); ok {
		if pool, ok := v.([]models.Product); ok {
			return pool, nil
		}
	}

	loadCtx := context.WithoutCancel(ctx)
	pool, _, err := c.pool.Do(ctx, key, func() ([]models.Product, error) {
		products, err := c.upstream.FetchBestSellers(loadCtx, limit)
		if err != nil {
			return nil, err
		}
		c.pools.SetWithTTL(key, products, c.poolTTL)
		for _, p := range products {
			c.products.Set(p.ID, p)
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return pool, nil
}
