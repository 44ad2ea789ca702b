// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

// Package recommend resolves companion products for an anchor product and
// composes them into discounted bundles.
//
// # Bundles
//
// ResolveBundles walks a fixed chain of tiers and returns the bundles of the
// first tier that yields any:
//
//  1. manual: merchant-curated bundles, kept in the merchant's order
//  2. co_purchase: companions counted from recent orders, boosted by the
//     visitor's views and cart
//  3. platform: the platform's opaque "also bought" ranking
//  4. content: title, vendor, type and price similarity over the best
//     sellers, which scores every candidate and so always yields a bundle
//     when the catalog is not empty
//
// Every tier applies the price band around the anchor price. Bundles are
// priced by a DiscountCalculator: an ordered list of rules where the first
// match wins.
//
// # Flat recommendations
//
// Recommend runs the co-purchase, content and popularity strategies
// concurrently, max-normalizes each, weights them by the visitor's
// personalization tier and sums the weighted scores per product. Time of
// day and recency multipliers are applied last.
//
// # Failure policy
//
// Upstream failures never reach the caller. A failing tier or strategy is
// logged, counted and treated as empty. The only error returned is
// ErrInvalidAnchor.
package recommend
