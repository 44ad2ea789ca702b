// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package recommend

import (
	"math"

	"github.com/tomtom215/bundlecraft/internal/models"
)

// Booster reweights co-occurrence counts with a visitor's history.
type Booster struct {
	ViewBoost float64
	CartBoost float64
}

// DefaultBooster returns the 1.5 view and 1.8 cart multipliers.
func DefaultBooster() Booster {
	return Booster{ViewBoost: 1.5, CartBoost: 1.8}
}

// Boost returns a copy of counts where carted ids are multiplied by
// CartBoost and viewed ids by ViewBoost, rounded to the nearest integer.
// An id gets at most one boost and the cart boost wins. Both apply to the
// original count.
func (b Booster) Boost(counts models.CoOccurrenceTable, profile *models.UserProfile) models.CoOccurrenceTable {
	out := counts.Clone()
	if profile == nil {
		return out
	}

	carted := make(map[string]struct{}, len(profile.CartedProducts))
	for _, id := range profile.CartedProducts {
		carted[id] = struct{}{}
	}
	for id := range carted {
		if n, ok := counts[id]; ok {
			out[id] = int(math.Round(float64(n) * b.CartBoost))
		}
	}
	for _, id := range profile.ViewedProducts {
		if _, isCarted := carted[id]; isCarted {
			continue
		}
		if n, ok := counts[id]; ok {
			out[id] = int(math.Round(float64(n) * b.ViewBoost))
		}
	}
	return out
}
