// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/bundlecraft/internal/models"
)

// breakerOpen is the state string of a tripped breaker.
const breakerOpen = "open"

// ReadinessStatus is the payload of the readiness probe.
type ReadinessStatus struct {
	Ready    bool              `json:"ready"`
	Uptime   float64           `json:"uptime"`
	Breakers map[string]string `json:"breakers,omitempty"`
	Queue    *QueueStatus      `json:"interactionQueue,omitempty"`
}

// QueueStatus reports the interaction recorder queue.
type QueueStatus struct {
	Depth    int `json:"depth"`
	Capacity int `json:"capacity"`
}

// HealthLive handles GET /api/v1/health/live.
// It returns 200 while the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, models.Metadata{})
}

// HealthReady handles GET /api/v1/health/ready.
//
// The service is not ready (503) while the breaker of a critical upstream
// operation is open. Other open breakers only degrade single tiers and
// are reported without failing the probe.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	status := ReadinessStatus{
		Ready:  true,
		Uptime: time.Since(h.startTime).Seconds(),
	}

	if h.breakers != nil {
		status.Breakers = h.breakers.BreakerStates()
		for _, op := range h.config.CriticalOperations {
			if status.Breakers[op] == breakerOpen {
				status.Ready = false
			}
		}
	}
	if h.recorder != nil {
		status.Queue = &QueueStatus{Depth: h.recorder.Depth(), Capacity: h.recorder.Capacity()}
	}

	code := http.StatusOK
	if !status.Ready {
		code = http.StatusServiceUnavailable
	}
	respondSuccess(w, code, status, models.Metadata{})
}
