// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/bundlecraft/internal/recommend/algorithms"
)

// Config contains all configuration for the resolver.
type Config struct {
	// Tier switches. The content tier is always on.
	ManualEnabled     bool
	CoPurchaseEnabled bool
	PlatformEnabled   bool

	// DefaultLimit applies when a request has no limit. Larger limits are
	// capped at MaxLimit.
	DefaultLimit int
	MaxLimit     int

	// OrderSampleSize caps the orders analyzed for co-purchase.
	OrderSampleSize int

	// CandidatePoolSize is the number of best sellers scored by the content
	// and popularity strategies, and the cap on co-purchase candidates.
	CandidatePoolSize int

	PriceBand PriceBand
	Booster   Booster

	// TimeOfDayBoost multiplies flat scores of products whose type has an
	// affinity with the current daypart.
	TimeOfDayBoost    float64
	TimeOfDayAffinity map[string][]string

	// RecencyBoost multiplies flat scores of the RecencyWindow most
	// recently viewed products.
	RecencyBoost  float64
	RecencyWindow int

	// Weights of the flat ranking strategies by personalization tier.
	Weights TierWeights

	// StrategyTimeout bounds each flat ranking strategy.
	StrategyTimeout time.Duration

	// DefaultShopAOV is used when a request carries no shop AOV.
	DefaultShopAOV float64

	// DiscountRules override the default discount cascade when set.
	DiscountRules []DiscountRule
}

// StrategyWeights weights the flat ranking strategies.
type StrategyWeights struct {
	CoPurchase float64
	Content    float64
	Popularity float64
}

// TierWeights holds one StrategyWeights per personalization tier.
type TierWeights struct {
	None  StrategyWeights
	Light StrategyWeights
	Rich  StrategyWeights
}

// For returns the weights of tier.
func (w TierWeights) For(tier PersonalizationTier) StrategyWeights {
	switch tier {
	case TierRich:
		return w.Rich
	case TierLight:
		return w.Light
	default:
		return w.None
	}
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		ManualEnabled:     true,
		CoPurchaseEnabled: true,
		PlatformEnabled:   true,
		DefaultLimit:      4,
		MaxLimit:          50,
		OrderSampleSize:   algorithms.DefaultMaxOrders,
		CandidatePoolSize: 75,
		PriceBand:         DefaultPriceBand(),
		Booster:           DefaultBooster(),
		TimeOfDayBoost:    1.1,
		TimeOfDayAffinity: DefaultTimeOfDayAffinity(),
		RecencyBoost:      1.05,
		RecencyWindow:     5,
		Weights: TierWeights{
			None:  StrategyWeights{CoPurchase: 0.2, Content: 0.3, Popularity: 0.5},
			Light: StrategyWeights{CoPurchase: 0.4, Content: 0.3, Popularity: 0.3},
			Rich:  StrategyWeights{CoPurchase: 0.6, Content: 0.25, Popularity: 0.15},
		},
		StrategyTimeout: 1500 * time.Millisecond,
	}
}

// DefaultTimeOfDayAffinity returns product types that sell better in each
// daypart. Matching is exact on the product type.
func DefaultTimeOfDayAffinity() map[string][]string {
	return map[string][]string{
		DaypartMorning:   {"Coffee", "Tea", "Breakfast"},
		DaypartAfternoon: {"Snacks", "Accessories"},
		DaypartEvening:   {"Wine", "Candles", "Home Decor"},
		DaypartNight:     {"Sleepwear", "Books"},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.DefaultLimit < 1 {
		return fmt.Errorf("default_limit must be positive, got %d", c.DefaultLimit)
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("max_limit must be >= default_limit, got %d < %d", c.MaxLimit, c.DefaultLimit)
	}
	if c.OrderSampleSize < 1 {
		return fmt.Errorf("order_sample_size must be positive, got %d", c.OrderSampleSize)
	}
	if c.CandidatePoolSize < 1 {
		return fmt.Errorf("candidate_pool_size must be positive, got %d", c.CandidatePoolSize)
	}
	if c.PriceBand.Min < 0 || c.PriceBand.Max < c.PriceBand.Min {
		return fmt.Errorf("price band must satisfy 0 <= min <= max, got [%v, %v]", c.PriceBand.Min, c.PriceBand.Max)
	}
	if c.Booster.ViewBoost < 1 || c.Booster.CartBoost < 1 {
		return fmt.Errorf("view and cart boosts must be >= 1, got %v and %v", c.Booster.ViewBoost, c.Booster.CartBoost)
	}
	if c.TimeOfDayBoost < 1 || c.RecencyBoost < 1 {
		return fmt.Errorf("time of day and recency boosts must be >= 1, got %v and %v", c.TimeOfDayBoost, c.RecencyBoost)
	}
	if c.RecencyWindow < 0 {
		return fmt.Errorf("recency_window must be non-negative, got %d", c.RecencyWindow)
	}
	for name, w := range map[string]StrategyWeights{"none": c.Weights.None, "light": c.Weights.Light, "rich": c.Weights.Rich} {
		if w.CoPurchase < 0 || w.Content < 0 || w.Popularity < 0 {
			return fmt.Errorf("weights.%s must be non-negative, got %+v", name, w)
		}
	}
	if c.StrategyTimeout <= 0 {
		return fmt.Errorf("strategy_timeout must be positive, got %v", c.StrategyTimeout)
	}
	if c.DefaultShopAOV < 0 {
		return fmt.Errorf("default_shop_aov must be non-negative, got %v", c.DefaultShopAOV)
	}
	return nil
}
