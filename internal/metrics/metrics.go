// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bundlecraft_api_requests_total",
			Help: "Total number of HTTP API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bundlecraft_api_request_duration_seconds",
			Help:    "HTTP API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bundlecraft_api_active_requests",
			Help: "Number of HTTP API requests currently being served",
		},
	)

	// Resolver
	ResolveTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bundlecraft_resolve_total",
			Help: "Total number of resolutions by mode and outcome (hit, empty, invalid)",
		},
		[]string{"mode", "outcome"},
	)

	ResolveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bundlecraft_resolve_duration_seconds",
			Help:    "End-to-end resolution latency in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"mode"},
	)

	TierAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bundlecraft_tier_attempts_total",
			Help: "Tier attempts by tier and outcome (hit, empty, error)",
		},
		[]string{"tier", "outcome"},
	)

	StrategyAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bundlecraft_strategy_attempts_total",
			Help: "Flat-ranking strategy runs by strategy and outcome (hit, empty, error)",
		},
		[]string{"strategy", "outcome"},
	)

	BundleDiscountPercent = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bundlecraft_bundle_discount_percent",
			Help:    "Discount percent of emitted bundles",
			Buckets: []float64{5, 10, 12, 15, 18, 20, 22, 30},
		},
	)

	// Gateways
	GatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bundlecraft_gateway_request_duration_seconds",
			Help:    "Upstream gateway call latency in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 0.8, 1.2, 2},
		},
		[]string{"operation", "outcome"},
	)

	UpstreamBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bundlecraft_upstream_breaker_state",
			Help: "Circuit breaker state per upstream operation (0=closed, 1=half-open, 2=open)",
		},
		[]string{"operation"},
	)

	CatalogCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bundlecraft_catalog_cache_requests_total",
			Help: "Catalog cache lookups by result (hit, miss, shared)",
		},
		[]string{"result"},
	)

	// Interaction events
	InteractionEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bundlecraft_interaction_events_total",
			Help: "Interaction events by kind and outcome (queued, dropped, published, failed, applied)",
		},
		[]string{"kind", "outcome"},
	)

	InteractionQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bundlecraft_interaction_queue_depth",
			Help: "Number of interaction events waiting to be published",
		},
	)
)

// RecordAPIRequest records one served HTTP request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordResolve records a finished resolution.
func RecordResolve(mode, outcome string, duration time.Duration) {
	ResolveTotal.WithLabelValues(mode, outcome).Inc()
	ResolveDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordTierAttempt records one tier of the fallback chain.
func RecordTierAttempt(tier, outcome string) {
	TierAttempts.WithLabelValues(tier, outcome).Inc()
}

// RecordStrategyAttempt records one strategy run of the flat ranking.
func RecordStrategyAttempt(strategy, outcome string) {
	StrategyAttempts.WithLabelValues(strategy, outcome).Inc()
}

// RecordBundleDiscount records the discount of an emitted bundle.
func RecordBundleDiscount(percent float64) {
	BundleDiscountPercent.Observe(percent)
}

// RecordGatewayCall records one upstream call.
func RecordGatewayCall(operation string, duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	GatewayRequestDuration.WithLabelValues(operation, outcome).Observe(duration.Seconds())
}

// SetBreakerState publishes the state of an upstream circuit breaker.
func SetBreakerState(operation string, state float64) {
	UpstreamBreakerState.WithLabelValues(operation).Set(state)
}

// RecordCatalogCache records catalog cache lookups.
func RecordCatalogCache(result string, n int) {
	if n <= 0 {
		return
	}
	CatalogCacheRequests.WithLabelValues(result).Add(float64(n))
}

// RecordInteractionEvent records an interaction event transition.
func RecordInteractionEvent(kind, outcome string) {
	InteractionEvents.WithLabelValues(kind, outcome).Inc()
}

// SetInteractionQueueDepth publishes the current recorder queue depth.
func SetInteractionQueueDepth(depth int) {
	InteractionQueueDepth.Set(float64(depth))
}
