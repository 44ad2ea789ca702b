// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

/*
Package api provides the HTTP API consumed by storefront widgets.

Routes:

	POST /api/v1/recommend                              bundles or a flat list for an anchor/cart
	GET  /api/v1/products/{productID}/bundles           bundles for a product page
	GET  /api/v1/products/{productID}/recommendations   flat list for a product page
	POST /api/v1/interactions                           view, cart_add and purchase signals (202)
	GET  /api/v1/health/live                            liveness probe
	GET  /api/v1/health/ready                           readiness, breaker states, queue depth
	GET  /metrics                                       Prometheus metrics

Every response uses the models.APIResponse envelope:

	{
	  "status": "success",
	  "data": {"bundles": [...], "tier": "co_purchase"},
	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "query_time_ms": 41, "tier": "co_purchase"}
	}

Bodies and payloads are camelCase; envelope metadata is snake_case.

An empty or unusable anchor is not an error: the response is 200 with an
empty list. Malformed JSON, an unknown mode or an out-of-range limit is a
400 VALIDATION_ERROR.

Middleware (go-chi): request id with logging context, real IP, panic
recovery, CORS (go-chi/cors), per-IP rate limits (go-chi/httprate),
security headers, Prometheus request metrics and request logging.
*/
package api
