// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package models

import (
	"time"
)

// APIResponse is the envelope of every HTTP response.
//
// Status is "success" (see Data) or "error" (see Error):
//
//	{
//	  "status": "success",
//	  "data": {"bundles": [...], "tier": "co_purchase"},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "query_time_ms": 41}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries timing information for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Tier        string    `json:"tier,omitempty"`
}

// APIError is a machine-readable error.
//
// Codes in use: VALIDATION_ERROR, NOT_FOUND, RATE_LIMIT_EXCEEDED, INTERNAL_ERROR.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// BundlesData is the payload of a bundle response.
type BundlesData struct {
	Bundles []Bundle `json:"bundles"`
	Tier    string   `json:"tier,omitempty"`
}

// RecommendationsData is the payload of a flat recommendation response.
type RecommendationsData struct {
	Recommendations     []Recommendation `json:"recommendations"`
	PersonalizationTier string           `json:"personalizationTier,omitempty"`
}
