// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

/*
Package models defines the data shared between the gateways, the
recommendation engine and the HTTP API.

Catalog snapshots:

  - Product: an immutable snapshot fetched per request (id, default variant,
    title, vendor, product type, price)
  - Order: an order id plus the product ids of its line items
  - ManualBundle: a merchant-curated bundle (name, ordered product ids)
  - UserProfile: a visitor's viewed, carted and purchased product ids

Engine output:

  - CandidateScore: a scored companion with its reason and signal source
  - Bundle / BundleProduct: a priced multi-product offer
  - Recommendation: one entry of a flat, ranked recommendation list

API envelope:

  - APIResponse, Metadata, APIError

All JSON names follow the storefront contract (camelCase) except the API
envelope metadata, which keeps snake_case.
*/
package models
