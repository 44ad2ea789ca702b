// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package models

import "time"

// InteractionKind is the type of a visitor interaction.
type InteractionKind string

const (
	InteractionView                 InteractionKind = "view"
	InteractionCartAdd              InteractionKind = "cart_add"
	InteractionPurchase             InteractionKind = "purchase"
	InteractionRecommendationServed InteractionKind = "recommendation_served"
)

// Valid reports whether k is a known kind.
func (k InteractionKind) Valid() bool {
	switch k {
	case InteractionView, InteractionCartAdd, InteractionPurchase, InteractionRecommendationServed:
		return true
	default:
		return false
	}
}

// InteractionEvent records one thing a visitor did, or one result the
// engine served them.
type InteractionEvent struct {
	ID         string          `json:"id"`
	Kind       InteractionKind `json:"kind"`
	SessionID  string          `json:"sessionId"`
	ProductID  string          `json:"productId"`
	ProductIDs []string        `json:"productIds,omitempty"` // served recommendations only
	Source     string          `json:"source,omitempty"`     // tier or mode that served them
	OccurredAt time.Time       `json:"occurredAt"`
}
