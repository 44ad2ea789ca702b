// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package recommend

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"strconv"

	"github.com/tomtom215/bundlecraft/internal/models"
)

// Generated bundle sizes, anchor included.
const (
	maxBundleSize = 3
	minBundleSize = 2
)

// Composer turns ranked companions into priced bundles.
type Composer struct {
	discount *DiscountCalculator
}

// NewComposer creates a composer pricing with discount.
func NewComposer(discount *DiscountCalculator) *Composer {
	if discount == nil {
		discount = NewDiscountCalculator(nil)
	}
	return &Composer{discount: discount}
}

// Compose builds a bundle of the anchor and the best companions of ranked:
// two companions when at least two qualify, else one. Duplicates and the
// anchor are skipped. It reports false when no companion qualifies.
func (c *Composer) Compose(source, name string, anchor *models.Product, ranked []models.Product, aov AOV) (models.Bundle, bool) {
	lines := []models.Product{*anchor}
	seen := map[string]struct{}{anchor.ID: {}}
	for i := range ranked {
		if len(lines) == maxBundleSize {
			break
		}
		if _, dup := seen[ranked[i].ID]; dup {
			continue
		}
		seen[ranked[i].ID] = struct{}{}
		lines = append(lines, ranked[i])
	}
	if len(lines) < minBundleSize {
		return models.Bundle{}, false
	}
	return c.price(source, name, anchor.ID, lines, aov), true
}

// ComposeManual prices a curated bundle in the merchant's order. Repeated
// products are kept once. It reports false when fewer than two distinct
// products remain.
func (c *Composer) ComposeManual(name, anchorID string, products []models.Product, aov AOV) (models.Bundle, bool) {
	lines := make([]models.Product, 0, len(products))
	seen := make(map[string]struct{}, len(products))
	for i := range products {
		if _, dup := seen[products[i].ID]; dup {
			continue
		}
		seen[products[i].ID] = struct{}{}
		lines = append(lines, products[i])
	}
	if len(lines) < minBundleSize {
		return models.Bundle{}, false
	}
	return c.price(models.BundleSourceManual, name, anchorID, lines, aov), true
}

func (c *Composer) price(source, name, anchorID string, lines []models.Product, aov AOV) models.Bundle {
	prices := make([]float64, len(lines))
	products := make([]models.BundleProduct, len(lines))
	companions := make([]string, 0, len(lines))
	var total float64
	for i := range lines {
		prices[i] = lines[i].Price
		total += lines[i].Price
		products[i] = models.BundleProduct{
			ID:        lines[i].ID,
			VariantID: lines[i].VariantID,
			Title:     lines[i].Title,
			Price:     lines[i].Price,
		}
		if lines[i].ID != anchorID {
			companions = append(companions, lines[i].ID)
		}
	}

	percent := c.discount.Discount(prices, aov)
	regular := roundCents(total)
	bundlePrice := roundCents(math.Max(0, regular*(1-percent/100)))

	return models.Bundle{
		ID:              BundleID(source, anchorID, companions),
		Name:            name,
		Products:        products,
		RegularTotal:    regular,
		BundlePrice:     bundlePrice,
		SavingsAmount:   math.Max(0, regular-bundlePrice),
		DiscountPercent: percent,
		Status:          models.BundleStatusActive,
		Source:          source,
	}
}

// BundleID derives a stable id from the source tag, the anchor and the
// ordered companion ids. Every field is length-prefixed, so ids holding
// separator characters cannot collide.
func BundleID(source, anchorID string, companionIDs []string) string {
	h := sha256.New()
	writeField := func(s string) {
		h.Write([]byte(strconv.Itoa(len(s))))
		h.Write([]byte{':'})
		h.Write([]byte(s))
	}
	writeField(source)
	writeField(anchorID)
	for _, id := range companionIDs {
		writeField(id)
	}
	return source + "-" + hex.EncodeToString(h.Sum(nil))[:16]
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
