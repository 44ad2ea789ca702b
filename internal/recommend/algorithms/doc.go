// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

// Package algorithms implements the scoring primitives used by the resolver.
//
// # Algorithms
//
//   - Co-purchase: counts how often companions appear in orders containing
//     the anchor, with a minimum count that grows with the sample size.
//   - Content similarity: title token Jaccard plus vendor, product type and
//     price proximity boosts. Needs no history, so it always yields a score.
//   - Popularity: position-decayed scores over the best-seller list.
//
// All functions are pure. They never mutate their inputs and are safe for
// concurrent use.
package algorithms
