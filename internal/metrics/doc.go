// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

/*
Package metrics defines the Prometheus metrics of Bundlecraft.

Metrics are registered with promauto on the default registry and served by
promhttp at /metrics:

	curl http://localhost:8080/metrics

# Available Metrics

API:
  - bundlecraft_api_requests_total{method, route, status}
  - bundlecraft_api_request_duration_seconds{method, route}
  - bundlecraft_api_active_requests

Resolution:
  - bundlecraft_resolve_total{mode, outcome}: outcome is hit, empty or invalid
  - bundlecraft_resolve_duration_seconds{mode}
  - bundlecraft_tier_attempts_total{tier, outcome}
  - bundlecraft_strategy_attempts_total{strategy, outcome}
  - bundlecraft_bundle_discount_percent

Upstream:
  - bundlecraft_gateway_request_duration_seconds{operation, outcome}
  - bundlecraft_upstream_breaker_state{operation}: 0=closed, 1=half-open, 2=open
  - bundlecraft_catalog_cache_requests_total{result}: hit, miss or shared

Interactions:
  - bundlecraft_interaction_events_total{kind, outcome}
  - bundlecraft_interaction_queue_depth

Route labels use chi route patterns, never raw paths, so product ids do
not create new series.

# Example Queries

Bundle hit ratio per tier:

	sum by (tier) (rate(bundlecraft_tier_attempts_total{outcome="hit"}[5m]))
	  / sum by (tier) (rate(bundlecraft_tier_attempts_total[5m]))

p95 resolution latency:

	histogram_quantile(0.95, sum by (le, mode) (rate(bundlecraft_resolve_duration_seconds_bucket[5m])))

Dropped interactions:

	rate(bundlecraft_interaction_events_total{outcome="dropped"}[5m])
*/
package metrics
