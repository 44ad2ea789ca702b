// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package recommend

import "github.com/tomtom215/bundlecraft/internal/models"

// PriceBand keeps companions priced between Min and Max times the anchor
// price, bounds included.
type PriceBand struct {
	Min float64
	Max float64
}

// DefaultPriceBand returns the [0.5, 2.0] band.
func DefaultPriceBand() PriceBand {
	return PriceBand{Min: 0.5, Max: 2.0}
}

// Allows reports whether price fits the band around anchorPrice. Every
// price fits when anchorPrice is zero.
func (b PriceBand) Allows(anchorPrice, price float64) bool {
	if anchorPrice == 0 {
		return true
	}
	return price >= b.Min*anchorPrice && price <= b.Max*anchorPrice
}

// Filter returns the candidates that fit the band, in their original order.
func (b PriceBand) Filter(anchorPrice float64, candidates []models.Product) []models.Product {
	if anchorPrice == 0 {
		return candidates
	}
	kept := make([]models.Product, 0, len(candidates))
	for i := range candidates {
		if b.Allows(anchorPrice, candidates[i].Price) {
			kept = append(kept, candidates[i])
		}
	}
	return kept
}
