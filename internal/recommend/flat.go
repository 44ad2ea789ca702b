// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/bundlecraft/internal/logging"
	"github.com/tomtom215/bundlecraft/internal/metrics"
	"github.com/tomtom215/bundlecraft/internal/models"
	"github.com/tomtom215/bundlecraft/internal/recommend/algorithms"
)

// Flat ranking strategies.
const (
	StrategyCoPurchase = "co_purchase"
	StrategyContent    = "content"
	StrategyPopularity = "popularity"
)

// flatSource is the served-event source of flat lists.
const flatSource = "recommendations"

// strategyOutput is one strategy's raw scores. ids keeps the strategy's
// own ranking so that combining is deterministic.
type strategyOutput struct {
	name     string
	ids      []string
	scores   map[string]float64
	reasons  map[string]models.Reason
	products map[string]models.Product
	err      error
}

// flatEntry accumulates the combined score of one product.
type flatEntry struct {
	score      float64
	strategies []string
	reason     models.Reason
	source     models.CandidateSource
	best       float64
}

// Recommend returns a flat ranked list that merges the co-purchase, content
// and popularity strategies. Failing strategies are skipped and a request
// that ends early yields an empty list; the only error is ErrInvalidAnchor.
func (r *Resolver) Recommend(ctx context.Context, req Request) (*RecommendationResult, error) {
	start := time.Now()
	logger := logging.Enrich(ctx, r.logger)

	q, err := r.prepare(ctx, req, logger)
	if err != nil {
		metrics.RecordResolve(string(ModeRecommendations), "invalid", time.Since(start))
		return nil, err
	}

	result := &RecommendationResult{
		Recommendations:     []models.Recommendation{},
		PersonalizationTier: TierNone,
	}
	if q != nil {
		result.PersonalizationTier = TierForProfile(q.Profile)
		weights := r.cfg.Weights.For(result.PersonalizationTier)
		outputs, err := r.runStrategies(ctx, q, weights, logger)
		if err != nil {
			logger.Debug().Err(err).Msg("Request ended before strategies finished")
			metrics.RecordResolve(string(ModeRecommendations), "canceled", time.Since(start))
			return result, nil
		}
		result.Recommendations = r.rank(ctx, q, req.Context.TimeOfDay, weights, outputs, logger)
	}

	outcome := "empty"
	if len(result.Recommendations) > 0 {
		outcome = "hit"
		ids := make([]string, len(result.Recommendations))
		for i := range result.Recommendations {
			ids[i] = result.Recommendations[i].Product.ID
		}
		r.recordServed(q, flatSource, ids, logger)
	}
	metrics.RecordResolve(string(ModeRecommendations), outcome, time.Since(start))
	return result, nil
}

// runStrategies runs every strategy with a positive weight in parallel,
// each under its own timeout. It fails only when ctx ends first.
func (r *Resolver) runStrategies(ctx context.Context, q *Query, weights StrategyWeights, logger zerolog.Logger) ([]strategyOutput, error) {
	type strategy struct {
		name string
		run  func(context.Context, *Query) strategyOutput
	}
	var strategies []strategy
	if weights.CoPurchase > 0 && r.cfg.CoPurchaseEnabled && r.deps.Orders != nil {
		strategies = append(strategies, strategy{StrategyCoPurchase, r.coPurchaseStrategy})
	}
	if weights.Content > 0 {
		strategies = append(strategies, strategy{StrategyContent, r.contentStrategy})
	}
	if weights.Popularity > 0 {
		strategies = append(strategies, strategy{StrategyPopularity, r.popularityStrategy})
	}

	// Strategy failures are carried in the outputs. Only the end of the
	// request itself stops the group.
	outputs := make([]strategyOutput, len(strategies))
	g, gctx := errgroup.WithContext(ctx)
	for i, s := range strategies {
		g.Go(func() error {
			sctx, cancel := context.WithTimeout(gctx, r.cfg.StrategyTimeout)
			defer cancel()
			out := s.run(sctx, q)
			out.name = s.name
			outputs[i] = out
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range outputs {
		switch {
		case outputs[i].err != nil:
			metrics.RecordStrategyAttempt(outputs[i].name, "error")
			logger.Warn().Err(outputs[i].err).Str("strategy", outputs[i].name).Msg("Strategy failed")
		case len(outputs[i].ids) == 0:
			metrics.RecordStrategyAttempt(outputs[i].name, "empty")
		default:
			metrics.RecordStrategyAttempt(outputs[i].name, "hit")
		}
	}
	return outputs, nil
}

func (r *Resolver) coPurchaseStrategy(ctx context.Context, q *Query) strategyOutput {
	orders, err := r.deps.Orders.FetchRecentOrders(ctx, q.Anchor.ID, r.cfg.OrderSampleSize)
	if err != nil {
		return strategyOutput{err: fmt.Errorf("fetch recent orders: %w", err)}
	}

	analysis := algorithms.Analyze(q.Anchor.ID, orders, r.cfg.OrderSampleSize)
	boosted := r.cfg.Booster.Boost(analysis.Counts, q.Profile)
	ids := excludeIDs(algorithms.RankCounts(boosted, analysis.Order), q)
	if len(ids) > r.cfg.CandidatePoolSize {
		ids = ids[:r.cfg.CandidatePoolSize]
	}

	out := strategyOutput{
		ids:     ids,
		scores:  make(map[string]float64, len(ids)),
		reasons: make(map[string]models.Reason, len(ids)),
	}
	for _, id := range ids {
		out.scores[id] = float64(boosted[id])
		out.reasons[id] = models.ReasonSimilarUsers
	}
	return out
}

func (r *Resolver) contentStrategy(ctx context.Context, q *Query) strategyOutput {
	matches, err := contentMatches(ctx, r.deps.Catalog, r.cfg.CandidatePoolSize, q)
	if err != nil {
		return strategyOutput{err: err}
	}
	if depth := algorithms.ContentDepth(q.Limit); len(matches) > depth {
		matches = matches[:depth]
	}

	out := strategyOutput{
		ids:      make([]string, 0, len(matches)),
		scores:   make(map[string]float64, len(matches)),
		reasons:  make(map[string]models.Reason, len(matches)),
		products: make(map[string]models.Product, len(matches)),
	}
	for i := range matches {
		id := matches[i].Product.ID
		out.ids = append(out.ids, id)
		out.scores[id] = matches[i].Score
		out.reasons[id] = matches[i].Reason
		out.products[id] = matches[i].Product
	}
	return out
}

func (r *Resolver) popularityStrategy(ctx context.Context, q *Query) strategyOutput {
	pool, err := r.deps.Catalog.FetchBestSellers(ctx, r.cfg.CandidatePoolSize)
	if err != nil {
		return strategyOutput{err: fmt.Errorf("fetch best sellers: %w", err)}
	}

	ranked := make([]string, len(pool))
	products := make(map[string]models.Product, len(pool))
	for i := range pool {
		ranked[i] = pool[i].ID
		products[pool[i].ID] = pool[i]
	}
	scores := algorithms.PopularityScores(ranked)

	out := strategyOutput{
		ids:      excludeIDs(ranked, q),
		scores:   scores,
		reasons:  make(map[string]models.Reason, len(ranked)),
		products: products,
	}
	for _, id := range out.ids {
		out.reasons[id] = models.ReasonPopular
	}
	return out
}

// rank combines the strategy outputs: max-normalize each, weight, sum per
// product, apply the time-of-day and recency multipliers, sort, apply the
// price band and truncate.
func (r *Resolver) rank(ctx context.Context, q *Query, timeOfDay string, weights StrategyWeights, outputs []strategyOutput, logger zerolog.Logger) []models.Recommendation {
	entries := make(map[string]*flatEntry)
	var order []string
	products := make(map[string]models.Product)

	for i := range outputs {
		out := &outputs[i]
		w := strategyWeight(weights, out.name)
		if out.err != nil || len(out.ids) == 0 || w <= 0 {
			continue
		}

		var maxScore float64
		for _, id := range out.ids {
			if out.scores[id] > maxScore {
				maxScore = out.scores[id]
			}
		}
		if maxScore <= 0 {
			continue
		}

		source := strategySource(out.name)
		for _, id := range out.ids {
			contribution := w * out.scores[id] / maxScore
			e, ok := entries[id]
			if !ok {
				e = &flatEntry{}
				entries[id] = e
				order = append(order, id)
			}
			e.score += contribution
			e.strategies = append(e.strategies, out.name)
			if contribution > e.best {
				e.best = contribution
				e.reason = out.reasons[id]
				e.source = source
			}
			if p, ok := out.products[id]; ok {
				products[id] = p
			}
		}
	}
	if len(order) == 0 {
		return []models.Recommendation{}
	}

	r.loadMissing(ctx, order, products, logger)

	affinity := r.affinityTypes(timeOfDay)
	recent := recentViews(q.Profile, r.cfg.RecencyWindow)

	ranked := make([]string, 0, len(order))
	for _, id := range order {
		p, ok := products[id]
		if !ok {
			continue
		}
		e := entries[id]
		if _, hit := affinity[p.ProductType]; hit && p.ProductType != "" {
			e.score *= r.cfg.TimeOfDayBoost
		}
		if _, hit := recent[id]; hit {
			e.score *= r.cfg.RecencyBoost
		}
		ranked = append(ranked, id)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return entries[ranked[i]].score > entries[ranked[j]].score
	})

	recs := make([]models.Recommendation, 0, q.Limit)
	for _, id := range ranked {
		if len(recs) == q.Limit {
			break
		}
		p := products[id]
		if !r.cfg.PriceBand.Allows(q.Anchor.Price, p.Price) {
			continue
		}
		e := entries[id]
		recs = append(recs, models.Recommendation{
			Product:     p,
			Score:       e.score,
			Reason:      e.reason,
			Source:      e.source,
			Strategies:  e.strategies,
			Explanation: Explain(e.strategies, e.reason),
		})
	}
	return recs
}

// loadMissing fetches the products only known by id. Products that cannot
// be loaded drop out of the ranking.
func (r *Resolver) loadMissing(ctx context.Context, ids []string, products map[string]models.Product, logger zerolog.Logger) {
	var missing []string
	for _, id := range ids {
		if _, ok := products[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return
	}
	loaded, err := fetchOrdered(ctx, r.deps.Catalog, missing)
	if err != nil {
		logger.Warn().Err(err).Int("missing", len(missing)).Msg("Failed to load recommended products")
		return
	}
	for i := range loaded {
		products[loaded[i].ID] = loaded[i]
	}
}

func (r *Resolver) affinityTypes(timeOfDay string) map[string]struct{} {
	daypart := strings.ToLower(strings.TrimSpace(timeOfDay))
	if !ValidDaypart(daypart) {
		daypart = DaypartAt(r.now())
	}
	types := make(map[string]struct{})
	for _, t := range r.cfg.TimeOfDayAffinity[daypart] {
		types[t] = struct{}{}
	}
	return types
}

// recentViews returns the last n viewed products.
func recentViews(profile *models.UserProfile, n int) map[string]struct{} {
	recent := make(map[string]struct{}, n)
	if profile == nil || n <= 0 {
		return recent
	}
	viewed := profile.ViewedProducts
	if len(viewed) > n {
		viewed = viewed[len(viewed)-n:]
	}
	for _, id := range viewed {
		recent[id] = struct{}{}
	}
	return recent
}

func strategyWeight(w StrategyWeights, name string) float64 {
	switch name {
	case StrategyCoPurchase:
		return w.CoPurchase
	case StrategyContent:
		return w.Content
	case StrategyPopularity:
		return w.Popularity
	default:
		return 0
	}
}

func strategySource(name string) models.CandidateSource {
	if name == StrategyCoPurchase {
		return models.SourceML
	}
	return models.SourceRules
}
