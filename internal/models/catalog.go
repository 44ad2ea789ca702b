// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package models

// Product is a catalog snapshot. It is fetched per request and never
// persisted by the engine.
type Product struct {
	// ID is the upstream product identifier.
	ID string `json:"id"`

	// VariantID is the default variant used when the product becomes a
	// bundle line. Empty when the shop does not expose variants.
	VariantID string `json:"variantId,omitempty"`

	// Title is the display title. Content similarity tokenizes it.
	Title string `json:"title"`

	// Vendor is the brand or manufacturer.
	Vendor string `json:"vendor,omitempty"`

	// ProductType is the merchant-assigned product category.
	ProductType string `json:"productType,omitempty"`

	// Price is the undiscounted unit price of the default variant.
	Price float64 `json:"price"`
}

// Order is one historical order reduced to the products it contained.
type Order struct {
	OrderID            string   `json:"orderId"`
	LineItemProductIDs []string `json:"lineItemProductIds"`
}

// Contains reports whether productID is one of the order's line items.
func (o *Order) Contains(productID string) bool {
	for _, id := range o.LineItemProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}

// ManualBundle is a merchant-curated bundle definition.
type ManualBundle struct {
	Name       string   `json:"name"`
	ProductIDs []string `json:"productIds"`
}

// UserProfile holds a visitor's interaction history, oldest first.
type UserProfile struct {
	ViewedProducts    []string `json:"viewedProducts"`
	CartedProducts    []string `json:"cartedProducts"`
	PurchasedProducts []string `json:"purchasedProducts"`
}

// InteractionCount returns the number of distinct products the visitor has
// interacted with in any way.
func (p *UserProfile) InteractionCount() int {
	if p == nil {
		return 0
	}
	seen := make(map[string]struct{}, len(p.ViewedProducts)+len(p.CartedProducts)+len(p.PurchasedProducts))
	for _, list := range [][]string{p.ViewedProducts, p.CartedProducts, p.PurchasedProducts} {
		for _, id := range list {
			seen[id] = struct{}{}
		}
	}
	return len(seen)
}

// Clone returns a deep copy. A nil profile clones to an empty one.
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return &UserProfile{}
	}
	return &UserProfile{
		ViewedProducts:    append([]string(nil), p.ViewedProducts...),
		CartedProducts:    append([]string(nil), p.CartedProducts...),
		PurchasedProducts: append([]string(nil), p.PurchasedProducts...),
	}
}
