// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package signals

import (
	"context"
	"time"
)

// GCService periodically reclaims value log space. It implements
// suture.Service.
type GCService struct {
	store    *Store
	interval time.Duration
}

// NewGCService creates a GC service running every interval (default 10m).
func NewGCService(store *Store, interval time.Duration) *GCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &GCService{store: store, interval: interval}
}

// Serve runs until ctx is cancelled.
func (g *GCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := g.store.RunGC(); err != nil {
				g.store.logger.Warn().Err(err).Msg("Signal store value log GC failed")
			}
		}
	}
}

// String implements fmt.Stringer for suture logging.
func (g *GCService) String() string {
	return "signals-gc"
}
