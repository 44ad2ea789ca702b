// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package recommend

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bundlecraft/internal/gateway"
	"github.com/tomtom215/bundlecraft/internal/models"
)

// fakeShop implements every gateway interface from in-memory data. errs
// fails an operation by name.
type fakeShop struct {
	mu          sync.Mutex
	products    map[string]models.Product
	bestSellers []string
	orders      []models.Order
	manual      []models.ManualBundle
	platform    []string
	profiles    map[string]*models.UserProfile
	errs        map[string]error
	calls       map[string]int
}

func newFakeShop(products ...models.Product) *fakeShop {
	s := &fakeShop{
		products: make(map[string]models.Product),
		profiles: make(map[string]*models.UserProfile),
		errs:     make(map[string]error),
		calls:    make(map[string]int),
	}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *fakeShop) enter(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[op]++
	return s.errs[op]
}

func (s *fakeShop) failAll(err error) {
	for _, op := range []string{
		gateway.OpFetchProduct, gateway.OpFetchProductsBatch, gateway.OpFetchBestSellers,
		gateway.OpFetchRecentOrders, gateway.OpFetchUserProfile, gateway.OpFetchManualBundles,
		gateway.OpFetchPlatformRecs,
	} {
		s.errs[op] = err
	}
}

func (s *fakeShop) callCount(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *fakeShop) FetchProduct(_ context.Context, id string) (*models.Product, error) {
	if err := s.enter(gateway.OpFetchProduct); err != nil {
		return nil, err
	}
	p, ok := s.products[id]
	if !ok {
		return nil, gateway.ErrNotFound
	}
	return &p, nil
}

// FetchProductsBatch answers in reverse request order, since callers must
// not rely on the upstream order.
func (s *fakeShop) FetchProductsBatch(_ context.Context, ids []string) ([]models.Product, error) {
	if err := s.enter(gateway.OpFetchProductsBatch); err != nil {
		return nil, err
	}
	var out []models.Product
	for i := len(ids) - 1; i >= 0; i-- {
		if p, ok := s.products[ids[i]]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeShop) FetchBestSellers(_ context.Context, limit int) ([]models.Product, error) {
	if err := s.enter(gateway.OpFetchBestSellers); err != nil {
		return nil, err
	}
	var out []models.Product
	for _, id := range s.bestSellers {
		if len(out) == limit {
			break
		}
		if p, ok := s.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeShop) FetchRecentOrders(_ context.Context, _ string, limit int) ([]models.Order, error) {
	if err := s.enter(gateway.OpFetchRecentOrders); err != nil {
		return nil, err
	}
	if len(s.orders) > limit {
		return s.orders[:limit], nil
	}
	return s.orders, nil
}

func (s *fakeShop) FetchUserProfile(_ context.Context, sessionID string) (*models.UserProfile, error) {
	if err := s.enter(gateway.OpFetchUserProfile); err != nil {
		return nil, err
	}
	return s.profiles[sessionID], nil
}

func (s *fakeShop) FetchManualBundles(_ context.Context, _ string) ([]models.ManualBundle, error) {
	if err := s.enter(gateway.OpFetchManualBundles); err != nil {
		return nil, err
	}
	return s.manual, nil
}

func (s *fakeShop) FetchPlatformRecommendations(_ context.Context, _ string) ([]string, error) {
	if err := s.enter(gateway.OpFetchPlatformRecs); err != nil {
		return nil, err
	}
	return s.platform, nil
}

type fakeRecorder struct {
	mu     sync.Mutex
	events []*models.InteractionEvent
}

func (f *fakeRecorder) Record(ev *models.InteractionEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeRecorder) recorded() []*models.InteractionEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.InteractionEvent(nil), f.events...)
}

// newTestResolver wires every dependency to shop.
func newTestResolver(t *testing.T, shop *fakeShop, mutate func(*Config)) (*Resolver, *fakeRecorder) {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	rec := &fakeRecorder{}
	r, err := NewResolver(cfg, Dependencies{
		Catalog:  shop,
		Orders:   shop,
		Profiles: shop,
		Manual:   shop,
		Platform: shop,
		Recorder: rec,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}
	return r, rec
}
