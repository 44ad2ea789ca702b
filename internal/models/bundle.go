// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package models

// Reason explains why a candidate was suggested.
type Reason string

const (
	ReasonPopular      Reason = "popular"
	ReasonSimilarItems Reason = "similar_items"
	ReasonSimilarUsers Reason = "similar_users"
	ReasonCategory     Reason = "category"
	ReasonContent      Reason = "content"
)

// CandidateSource is the kind of signal that produced a candidate.
type CandidateSource string

const (
	SourceManual CandidateSource = "manual"
	SourceML     CandidateSource = "ml"
	SourceRules  CandidateSource = "rules"
)

// CandidateScore is a scored companion product. Scores are unit-less and
// only comparable within one ranking pass.
type CandidateScore struct {
	ProductID string          `json:"productId"`
	Score     float64         `json:"score"`
	Reason    Reason          `json:"reason"`
	Source    CandidateSource `json:"source"`
}

// CoOccurrenceTable maps a companion product id to the number of sampled
// orders it shared with the anchor.
type CoOccurrenceTable map[string]int

// Clone returns a copy of the table.
func (t CoOccurrenceTable) Clone() CoOccurrenceTable {
	out := make(CoOccurrenceTable, len(t))
	for id, n := range t {
		out[id] = n
	}
	return out
}

// Bundle tiers, used as Bundle.Source and as part of the bundle id.
const (
	BundleSourceManual     = "manual"
	BundleSourceCoPurchase = "co_purchase"
	BundleSourcePlatform   = "platform"
	BundleSourceContent    = "content"
)

// BundleStatusActive is the status of every emitted bundle.
const BundleStatusActive = "active"

// Bundle is a priced multi-product offer. It is built fresh for one
// response and never mutated afterwards.
//
// Invariants: at least two products, unique product ids,
// BundlePrice = RegularTotal × (1 − DiscountPercent/100) clamped at zero,
// SavingsAmount = max(0, RegularTotal − BundlePrice).
type Bundle struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Products        []BundleProduct `json:"products"`
	RegularTotal    float64         `json:"regularTotal"`
	BundlePrice     float64         `json:"bundlePrice"`
	SavingsAmount   float64         `json:"savingsAmount"`
	DiscountPercent float64         `json:"discountPercent"`
	Status          string          `json:"status"`
	Source          string          `json:"source"`
}

// BundleProduct is one priced line of a bundle.
type BundleProduct struct {
	ID        string  `json:"id"`
	VariantID string  `json:"variantId,omitempty"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
}

// Recommendation is one entry of a flat ranked list.
type Recommendation struct {
	Product     Product         `json:"product"`
	Score       float64         `json:"score"`
	Reason      Reason          `json:"reason"`
	Source      CandidateSource `json:"source"`
	Strategies  []string        `json:"strategies"`
	Explanation string          `json:"explanation,omitempty"`
}
