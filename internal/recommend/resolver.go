// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bundlecraft/internal/events"
	"github.com/tomtom215/bundlecraft/internal/gateway"
	"github.com/tomtom215/bundlecraft/internal/logging"
	"github.com/tomtom215/bundlecraft/internal/metrics"
	"github.com/tomtom215/bundlecraft/internal/models"
	"github.com/tomtom215/bundlecraft/internal/validation"
)

// Recorder accepts interaction events without blocking.
type Recorder interface {
	Record(ev *models.InteractionEvent) error
}

// Dependencies are the collaborators of a Resolver. Only Catalog is
// required; a nil gateway disables the tier or strategy that needs it.
type Dependencies struct {
	Catalog  gateway.ProductCatalog
	Orders   gateway.OrderHistory
	Profiles gateway.ProfileSource
	Manual   gateway.ManualBundleSource
	Platform gateway.PlatformRecommender
	Recorder Recorder
}

// Resolver is the entry point of the engine. It holds no per-request state
// and is safe for concurrent use.
type Resolver struct {
	cfg      Config
	deps     Dependencies
	composer *Composer
	tiers    []Tier
	logger   zerolog.Logger
	now      func() time.Time
}

// NewResolver creates a resolver.
func NewResolver(cfg Config, deps Dependencies, logger zerolog.Logger) (*Resolver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recommend config: %w", err)
	}
	if deps.Catalog == nil {
		return nil, errors.New("recommend: product catalog is required")
	}

	r := &Resolver{
		cfg:      cfg,
		deps:     deps,
		composer: NewComposer(NewDiscountCalculator(cfg.DiscountRules)),
		logger:   logger.With().Str("component", "resolver").Logger(),
		now:      time.Now,
	}
	r.tiers = r.buildTiers()
	return r, nil
}

func (r *Resolver) buildTiers() []Tier {
	var tiers []Tier
	if r.cfg.ManualEnabled && r.deps.Manual != nil {
		tiers = append(tiers, &manualTier{
			source:   r.deps.Manual,
			catalog:  r.deps.Catalog,
			composer: r.composer,
		})
	}
	if r.cfg.CoPurchaseEnabled && r.deps.Orders != nil {
		tiers = append(tiers, &coPurchaseTier{
			orders:    r.deps.Orders,
			catalog:   r.deps.Catalog,
			composer:  r.composer,
			band:      r.cfg.PriceBand,
			booster:   r.cfg.Booster,
			maxOrders: r.cfg.OrderSampleSize,
			maxPool:   r.cfg.CandidatePoolSize,
		})
	}
	if r.cfg.PlatformEnabled && r.deps.Platform != nil {
		tiers = append(tiers, &platformTier{
			platform: r.deps.Platform,
			catalog:  r.deps.Catalog,
			composer: r.composer,
			band:     r.cfg.PriceBand,
		})
	}
	return append(tiers, &contentTier{
		catalog:  r.deps.Catalog,
		composer: r.composer,
		band:     r.cfg.PriceBand,
		poolSize: r.cfg.CandidatePoolSize,
	})
}

// Tiers returns the names of the active tiers in fallback order.
func (r *Resolver) Tiers() []string {
	names := make([]string, len(r.tiers))
	for i, t := range r.tiers {
		names[i] = t.Name()
	}
	return names
}

// Resolve dispatches on req.Mode.
func (r *Resolver) Resolve(ctx context.Context, req Request) (*Result, error) {
	switch req.Mode {
	case "", ModeBundles:
		res, err := r.ResolveBundles(ctx, req)
		if err != nil {
			return nil, err
		}
		return &Result{Mode: ModeBundles, Bundles: res}, nil
	case ModeRecommendations:
		res, err := r.Recommend(ctx, req)
		if err != nil {
			return nil, err
		}
		return &Result{Mode: ModeRecommendations, Recommendations: res}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, req.Mode)
	}
}

// ResolveBundles returns the bundles of the first tier that yields any.
// Tier failures are logged and skipped; the only error is ErrInvalidAnchor.
func (r *Resolver) ResolveBundles(ctx context.Context, req Request) (*BundleResult, error) {
	start := time.Now()
	logger := logging.Enrich(ctx, r.logger)

	q, err := r.prepare(ctx, req, logger)
	if err != nil {
		metrics.RecordResolve(string(ModeBundles), "invalid", time.Since(start))
		return nil, err
	}

	result := &BundleResult{Bundles: []models.Bundle{}}
	if q != nil {
		for _, tier := range r.tiers {
			bundles, ok := r.attempt(ctx, tier, q, logger)
			if ok {
				result.Bundles = bundles
				result.Tier = tier.Name()
				break
			}
		}
	}

	outcome := "empty"
	if len(result.Bundles) > 0 {
		outcome = "hit"
		r.recordServed(q, result.Tier, bundleProductIDs(result.Bundles), logger)
	}
	metrics.RecordResolve(string(ModeBundles), outcome, time.Since(start))

	logger.Debug().
		Str("tier", result.Tier).
		Int("bundles", len(result.Bundles)).
		Dur("duration", time.Since(start)).
		Msg("Resolved bundles")
	return result, nil
}

// attempt runs one tier and reports whether it produced bundles.
func (r *Resolver) attempt(ctx context.Context, tier Tier, q *Query, logger zerolog.Logger) ([]models.Bundle, bool) {
	bundles, err := tier.Attempt(ctx, q)
	switch {
	case err != nil:
		metrics.RecordTierAttempt(tier.Name(), "error")
		logger.Warn().Err(err).Str("tier", tier.Name()).Str("anchor_id", q.Anchor.ID).Msg("Tier failed, falling back")
		return nil, false
	case len(bundles) == 0:
		metrics.RecordTierAttempt(tier.Name(), "empty")
		return nil, false
	}

	metrics.RecordTierAttempt(tier.Name(), "hit")
	for i := range bundles {
		metrics.RecordBundleDiscount(bundles[i].DiscountPercent)
	}
	return bundles, true
}

// prepare validates req and loads the anchor and the visitor profile in
// parallel. A nil query without error means the anchor product could not
// be loaded and the result is empty.
func (r *Resolver) prepare(ctx context.Context, req Request, logger zerolog.Logger) (*Query, error) {
	anchorID, cart := resolveAnchor(req)
	if !validation.IsValidProductID(anchorID) {
		return nil, ErrInvalidAnchor
	}

	var (
		wg        sync.WaitGroup
		anchor    *models.Product
		anchorErr error
		profile   *models.UserProfile
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		anchor, anchorErr = r.deps.Catalog.FetchProduct(ctx, anchorID)
	}()
	if req.Context.SessionID != "" && r.deps.Profiles != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			profile = r.fetchProfile(ctx, req.Context.SessionID, logger)
		}()
	}
	wg.Wait()

	if anchorErr != nil || anchor == nil {
		if anchorErr != nil && !errors.Is(anchorErr, gateway.ErrNotFound) {
			logger.Warn().Err(anchorErr).Str("anchor_id", anchorID).Msg("Failed to load anchor product")
		} else {
			logger.Debug().Str("anchor_id", anchorID).Msg("Anchor product not found")
		}
		return nil, nil
	}

	exclude := make(map[string]struct{}, len(cart)+1)
	exclude[anchor.ID] = struct{}{}
	for _, id := range cart {
		exclude[id] = struct{}{}
	}

	return &Query{
		Anchor:    *anchor,
		Limit:     r.limit(req.Limit),
		SessionID: req.Context.SessionID,
		Profile:   mergeCart(profile, cart),
		Exclude:   exclude,
		AOV:       r.aov(req.Context),
	}, nil
}

// fetchProfile never fails: personalization is skipped when the profile
// cannot be read.
func (r *Resolver) fetchProfile(ctx context.Context, sessionID string, logger zerolog.Logger) *models.UserProfile {
	profile, err := r.deps.Profiles.FetchUserProfile(ctx, sessionID)
	if err != nil {
		logger.Debug().Err(err).Str("session_id", logging.SanitizeSessionID(sessionID)).Msg("Profile unavailable, skipping personalization")
		return nil
	}
	return profile
}

func (r *Resolver) limit(n int) int {
	switch {
	case n <= 0:
		return r.cfg.DefaultLimit
	case n > r.cfg.MaxLimit:
		return r.cfg.MaxLimit
	default:
		return n
	}
}

func (r *Resolver) aov(rc RequestContext) AOV {
	aov := AOV{Shop: rc.ShopAOV, Customer: rc.CustomerAOV}
	if aov.Shop <= 0 {
		aov.Shop = r.cfg.DefaultShopAOV
	}
	if aov.Customer < 0 {
		aov.Customer = 0
	}
	return aov
}

// recordServed hands a recommendation_served event to the recorder. It
// never blocks; a full queue only loses the event.
func (r *Resolver) recordServed(q *Query, source string, productIDs []string, logger zerolog.Logger) {
	if r.deps.Recorder == nil || q == nil || q.SessionID == "" {
		return
	}
	ev := events.NewInteraction(models.InteractionRecommendationServed, q.SessionID, q.Anchor.ID)
	ev.ProductIDs = productIDs
	ev.Source = source
	if err := r.deps.Recorder.Record(ev); err != nil {
		logger.Debug().Err(err).Str("event_id", ev.ID).Msg("Served event not recorded")
	}
}

// resolveAnchor returns the anchor id and the cleaned cart. Without an
// explicit anchor, the most recently added cart product is used.
func resolveAnchor(req Request) (anchorID string, cart []string) {
	seen := make(map[string]struct{}, len(req.CartProductIDs))
	for _, id := range req.CartProductIDs {
		id = strings.TrimSpace(id)
		if !validation.IsValidProductID(id) {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		cart = append(cart, id)
	}

	anchorID = strings.TrimSpace(req.AnchorProductID)
	if anchorID == "" {
		for i := len(req.CartProductIDs) - 1; i >= 0; i-- {
			if id := strings.TrimSpace(req.CartProductIDs[i]); validation.IsValidProductID(id) {
				anchorID = id
				break
			}
		}
	}
	return anchorID, cart
}

// mergeCart returns a copy of profile with the cart products appended to
// its carted list.
func mergeCart(profile *models.UserProfile, cart []string) *models.UserProfile {
	merged := profile.Clone()
	carted := make(map[string]struct{}, len(merged.CartedProducts))
	for _, id := range merged.CartedProducts {
		carted[id] = struct{}{}
	}
	for _, id := range cart {
		if _, ok := carted[id]; !ok {
			merged.CartedProducts = append(merged.CartedProducts, id)
		}
	}
	return merged
}

func bundleProductIDs(bundles []models.Bundle) []string {
	var ids []string
	seen := make(map[string]struct{})
	for i := range bundles {
		for _, p := range bundles[i].Products {
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			ids = append(ids, p.ID)
		}
	}
	return ids
}
