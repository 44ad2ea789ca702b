// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/tomtom215/bundlecraft/internal/events"
	"github.com/tomtom215/bundlecraft/internal/models"
)

// InteractionAccepted is the payload of an accepted interaction.
type InteractionAccepted struct {
	ID string `json:"id"`
}

// RecordInteraction handles POST /api/v1/interactions.
//
// The event is queued and applied to the visitor's profile asynchronously,
// so the response is 202. A full queue answers 429; the storefront may
// drop the signal.
func (h *Handler) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	if h.recorder == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Interaction recording is disabled", nil)
		return
	}

	var req InteractionRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "Request body must be a JSON object", err)
		return
	}
	req.SessionID = strings.TrimSpace(req.SessionID)
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	ev := events.NewInteraction(models.InteractionKind(req.Kind), req.SessionID, req.ProductID)
	switch err := h.recorder.Record(ev); {
	case errors.Is(err, events.ErrQueueFull):
		respondError(w, r, http.StatusTooManyRequests, ErrCodeRateLimit, "Interaction queue is full", err)
		return
	case errors.Is(err, events.ErrRecorderClosed):
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Interaction recording is shutting down", err)
		return
	case err != nil:
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "Invalid interaction", err)
		return
	}

	respondSuccess(w, http.StatusAccepted, InteractionAccepted{ID: ev.ID}, models.Metadata{})
}
