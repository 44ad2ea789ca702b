// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package recommend

import (
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}
	if cfg.DefaultLimit != 4 {
		t.Errorf("DefaultLimit = %d, want 4", cfg.DefaultLimit)
	}
	if cfg.OrderSampleSize != 100 {
		t.Errorf("OrderSampleSize = %d, want 100", cfg.OrderSampleSize)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero default limit", func(c *Config) { c.DefaultLimit = 0 }},
		{"max below default", func(c *Config) { c.MaxLimit = 2 }},
		{"zero order sample", func(c *Config) { c.OrderSampleSize = 0 }},
		{"zero candidate pool", func(c *Config) { c.CandidatePoolSize = 0 }},
		{"negative band min", func(c *Config) { c.PriceBand.Min = -1 }},
		{"inverted band", func(c *Config) { c.PriceBand = PriceBand{Min: 2, Max: 1} }},
		{"view boost below one", func(c *Config) { c.Booster.ViewBoost = 0.5 }},
		{"time of day boost below one", func(c *Config) { c.TimeOfDayBoost = 0.9 }},
		{"negative recency window", func(c *Config) { c.RecencyWindow = -1 }},
		{"negative weight", func(c *Config) { c.Weights.Rich.Content = -0.1 }},
		{"zero strategy timeout", func(c *Config) { c.StrategyTimeout = 0 }},
		{"negative shop aov", func(c *Config) { c.DefaultShopAOV = -5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestConfigValidateAcceptsEdgeValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxLimit = cfg.DefaultLimit
	cfg.PriceBand = PriceBand{}
	cfg.RecencyWindow = 0
	cfg.Weights.None = StrategyWeights{}
	cfg.StrategyTimeout = time.Millisecond

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestTierWeightsFor(t *testing.T) {
	w := DefaultConfig().Weights

	tests := []struct {
		tier PersonalizationTier
		want StrategyWeights
	}{
		{TierNone, StrategyWeights{CoPurchase: 0.2, Content: 0.3, Popularity: 0.5}},
		{TierLight, StrategyWeights{CoPurchase: 0.4, Content: 0.3, Popularity: 0.3}},
		{TierRich, StrategyWeights{CoPurchase: 0.6, Content: 0.25, Popularity: 0.15}},
		{PersonalizationTier("unknown"), StrategyWeights{CoPurchase: 0.2, Content: 0.3, Popularity: 0.5}},
	}

	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			if got := w.For(tt.tier); got != tt.want {
				t.Errorf("For(%s) = %+v, want %+v", tt.tier, got, tt.want)
			}
		})
	}
}
