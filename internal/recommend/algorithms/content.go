// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package algorithms

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/tomtom215/bundlecraft/internal/models"
)

// Content similarity weights.
const (
	VendorBoost   = 0.3
	TypeBoost     = 0.2
	MaxPriceBoost = 0.3

	// ContentScoreFloor keeps every candidate above zero so the ranking is
	// always total.
	ContentScoreFloor = 0.15

	// minPriceScale is the smallest price distance (in currency units) over
	// which the price boost decays to zero.
	minPriceScale = 20.0

	// MinContentDepth is the smallest number of content candidates kept.
	MinContentDepth = 3
)

// ContentMatch is a candidate scored against an anchor.
type ContentMatch struct {
	Product models.Product
	Score   float64
	Reason  models.Reason
}

// Tokenize lowercases s, strips every rune that is not a letter, digit or
// whitespace, and splits on whitespace. Stripping joins hyphenated words:
// "T-Shirt" becomes "tshirt".
func Tokenize(s string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return unicode.ToLower(r)
		case unicode.IsSpace(r):
			return ' '
		default:
			return -1
		}
	}, s)
	return strings.Fields(cleaned)
}

// Jaccard returns |a ∩ b| / |a ∪ b| over the distinct tokens of a and b.
// The union size is floored at one.
func Jaccard(a, b []string) float64 {
	setA := make(map[string]struct{}, len(a))
	for _, tok := range a {
		setA[tok] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, tok := range b {
		setB[tok] = struct{}{}
	}

	intersection := 0
	for tok := range setB {
		if _, ok := setA[tok]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union < 1 {
		union = 1
	}
	return float64(intersection) / float64(union)
}

// PriceBoost decays linearly from MaxPriceBoost at equal prices to zero once
// the distance reaches max(20, anchorPrice/2). It is zero without an anchor
// price.
func PriceBoost(price, anchorPrice float64) float64 {
	if anchorPrice <= 0 {
		return 0
	}
	scale := math.Max(minPriceScale, anchorPrice*0.5)
	penalty := math.Min(MaxPriceBoost, math.Abs(price-anchorPrice)/scale*MaxPriceBoost)
	return math.Max(0, MaxPriceBoost-penalty)
}

// ScoreContent scores candidate against anchor. The reason is category when
// the product type is the only thing the two share, content otherwise.
func ScoreContent(anchor, candidate *models.Product) ContentMatch {
	jaccard := Jaccard(Tokenize(anchor.Title), Tokenize(candidate.Title))

	var vendor, typ float64
	if anchor.Vendor != "" && anchor.Vendor == candidate.Vendor {
		vendor = VendorBoost
	}
	if anchor.ProductType != "" && anchor.ProductType == candidate.ProductType {
		typ = TypeBoost
	}

	score := math.Max(ContentScoreFloor, jaccard+vendor+typ+PriceBoost(candidate.Price, anchor.Price))

	reason := models.ReasonContent
	if typ > 0 && vendor == 0 && jaccard == 0 {
		reason = models.ReasonCategory
	}
	return ContentMatch{Product: *candidate, Score: score, Reason: reason}
}

// RankContent scores every product of pool except the anchor and duplicates,
// sorted by score descending. Equal scores keep pool order.
func RankContent(anchor *models.Product, pool []models.Product) []ContentMatch {
	seen := map[string]struct{}{anchor.ID: {}}
	matches := make([]ContentMatch, 0, len(pool))
	for i := range pool {
		if _, dup := seen[pool[i].ID]; dup || pool[i].ID == "" {
			continue
		}
		seen[pool[i].ID] = struct{}{}
		matches = append(matches, ScoreContent(anchor, &pool[i]))
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// ContentDepth is the number of content candidates kept for limit.
func ContentDepth(limit int) int {
	if limit < MinContentDepth {
		return MinContentDepth
	}
	return limit
}
