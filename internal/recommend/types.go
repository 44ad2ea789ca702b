// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package recommend

import (
	"errors"

	"github.com/tomtom215/bundlecraft/internal/models"
)

// ErrInvalidAnchor is returned when a request names no usable anchor
// product, neither directly nor through its cart.
var ErrInvalidAnchor = errors.New("recommend: invalid anchor product id")

// ErrInvalidMode is returned by Resolve for an unknown Request.Mode.
var ErrInvalidMode = errors.New("recommend: invalid mode")

// Mode selects the shape of a result.
type Mode string

const (
	// ModeBundles returns priced bundles from the first productive tier.
	ModeBundles Mode = "bundles"

	// ModeRecommendations returns a flat ranked list.
	ModeRecommendations Mode = "recommendations"
)

// Valid reports whether m is a known mode. The empty mode is valid and
// means ModeBundles.
func (m Mode) Valid() bool {
	switch m {
	case "", ModeBundles, ModeRecommendations:
		return true
	default:
		return false
	}
}

// PersonalizationTier classifies how much history a visitor has.
type PersonalizationTier string

const (
	TierNone  PersonalizationTier = "none"
	TierLight PersonalizationTier = "light"
	TierRich  PersonalizationTier = "rich"
)

// richHistoryThreshold is the number of distinct products a visitor must
// have interacted with to count as TierRich.
const richHistoryThreshold = 5

// TierForProfile classifies profile. A nil profile is TierNone.
func TierForProfile(profile *models.UserProfile) PersonalizationTier {
	switch n := profile.InteractionCount(); {
	case n >= richHistoryThreshold:
		return TierRich
	case n > 0:
		return TierLight
	default:
		return TierNone
	}
}

// Request is one resolution request.
type Request struct {
	// AnchorProductID is the product to find companions for. When empty
	// the most recently added cart product is used.
	AnchorProductID string

	// CartProductIDs are excluded from candidates and count as carted for
	// personalization. Oldest first.
	CartProductIDs []string

	// Limit bounds the flat list size, the number of manual bundles and
	// the content depth. Zero uses the configured default.
	Limit int

	Context RequestContext
	Mode    Mode
}

// RequestContext carries the caller's view of the visitor and the shop.
type RequestContext struct {
	SessionID   string
	Page        string
	ShopAOV     float64
	CustomerAOV float64

	// TimeOfDay is a daypart (morning, afternoon, evening, night). Empty
	// derives it from the server clock.
	TimeOfDay string
}

// Result is the outcome of Resolve. Exactly one of Bundles and
// Recommendations is set.
type Result struct {
	Mode            Mode
	Bundles         *BundleResult
	Recommendations *RecommendationResult
}

// BundleResult holds the bundles of the tier that won.
type BundleResult struct {
	Bundles []models.Bundle

	// Tier is the winning tier, empty when no tier produced a bundle.
	Tier string
}

// RecommendationResult holds a flat ranked list.
type RecommendationResult struct {
	Recommendations     []models.Recommendation
	PersonalizationTier PersonalizationTier
}

// Query is the prepared input a tier works on.
type Query struct {
	Anchor    models.Product
	Limit     int
	SessionID string

	// Profile includes the request's cart products. Never nil.
	Profile *models.UserProfile

	// Exclude holds the anchor and the cart products.
	Exclude map[string]struct{}

	AOV AOV
}

// Excluded reports whether id must not be offered as a companion.
func (q *Query) Excluded(id string) bool {
	_, ok := q.Exclude[id]
	return ok
}

// AOV is the average-order-value context of a pricing decision. Zero
// means unknown.
type AOV struct {
	Shop     float64
	Customer float64
}
