// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package api

import (
	"context"
	"time"

	"github.com/tomtom215/bundlecraft/internal/models"
	"github.com/tomtom215/bundlecraft/internal/recommend"
)

// Resolver produces bundles or flat recommendations.
// *recommend.Resolver implements it.
type Resolver interface {
	Resolve(ctx context.Context, req recommend.Request) (*recommend.Result, error)
}

// InteractionRecorder queues interaction events without blocking.
// *events.Recorder implements it.
type InteractionRecorder interface {
	Record(ev *models.InteractionEvent) error
	Depth() int
	Capacity() int
}

// BreakerReporter reports upstream circuit breaker states by operation.
// *gateway.Client implements it.
type BreakerReporter interface {
	BreakerStates() map[string]string
}

// HandlerConfig configures the API handlers.
type HandlerConfig struct {
	// MaxLimit is the largest limit a request may ask for.
	MaxLimit int

	// RequestTimeout bounds one resolution.
	RequestTimeout time.Duration

	// CriticalOperations are upstream operations whose open breaker makes
	// the service not ready.
	CriticalOperations []string
}

// DefaultHandlerConfig returns the handler defaults.
func DefaultHandlerConfig() HandlerConfig {
	return HandlerConfig{
		MaxLimit:           50,
		RequestTimeout:     3 * time.Second,
		CriticalOperations: []string{"fetch_product"},
	}
}

// Handler contains the dependencies of the API handlers.
//
// Handler methods are split across files:
//   - handlers_recommend.go: bundle and recommendation endpoints
//   - handlers_interactions.go: interaction ingestion
//   - handlers_health.go: liveness and readiness probes
type Handler struct {
	resolver  Resolver
	recorder  InteractionRecorder
	breakers  BreakerReporter
	config    HandlerConfig
	startTime time.Time
}

// NewHandler creates the API handler. The recorder and breaker reporter
// are optional and set with SetRecorder and SetBreakerReporter.
func NewHandler(resolver Resolver, cfg HandlerConfig) *Handler {
	defaults := DefaultHandlerConfig()
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = defaults.MaxLimit
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaults.RequestTimeout
	}
	if cfg.CriticalOperations == nil {
		cfg.CriticalOperations = defaults.CriticalOperations
	}

	return &Handler{
		resolver:  resolver,
		config:    cfg,
		startTime: time.Now(),
	}
}

// SetRecorder enables interaction ingestion.
func (h *Handler) SetRecorder(recorder InteractionRecorder) {
	h.recorder = recorder
}

// SetBreakerReporter enables breaker states in the readiness probe.
func (h *Handler) SetBreakerReporter(breakers BreakerReporter) {
	h.breakers = breakers
}
