// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/bundlecraft/internal/models"
	"github.com/tomtom215/bundlecraft/internal/recommend"
)

// Recommend handles POST /api/v1/recommend.
//
// The body selects the mode: "bundles" (default) returns the bundles of the
// first tier that yields any, "recommendations" a flat ranked list. An
// empty or invalid anchor yields an empty result with status 200.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "Request body must be a JSON object", err)
		return
	}
	h.resolve(w, r, &req)
}

// ProductBundles handles GET /api/v1/products/{productID}/bundles.
// Query parameters: cart (comma-separated ids), limit, session.
func (h *Handler) ProductBundles(w http.ResponseWriter, r *http.Request) {
	h.resolveProduct(w, r, recommend.ModeBundles)
}

// ProductRecommendations handles GET /api/v1/products/{productID}/recommendations.
// Query parameters: cart (comma-separated ids), limit, session.
func (h *Handler) ProductRecommendations(w http.ResponseWriter, r *http.Request) {
	h.resolveProduct(w, r, recommend.ModeRecommendations)
}

func (h *Handler) resolveProduct(w http.ResponseWriter, r *http.Request, mode recommend.Mode) {
	limit, err := parseLimitParam(r)
	if err != nil {
		respondAPIError(w, r, http.StatusBadRequest, &models.APIError{
			Code:    ErrCodeValidation,
			Message: "limit must be an integer",
			Details: map[string]interface{}{"field": "limit"},
		}, nil)
		return
	}

	// chi matches on the raw path, so encoded global ids arrive escaped.
	anchorID := chi.URLParam(r, "productID")
	if unescaped, err := url.PathUnescape(anchorID); err == nil {
		anchorID = unescaped
	}

	query := r.URL.Query()
	h.resolve(w, r, &RecommendRequest{
		AnchorProductID: anchorID,
		CartProductIDs:  parseCommaSeparated(query.Get("cart")),
		Limit:           limit,
		Mode:            string(mode),
		Context: RecommendContext{
			SessionID: query.Get("session"),
			Page:      query.Get("page"),
		},
	})
}

// resolve validates req, runs the resolver and writes the envelope.
func (h *Handler) resolve(w http.ResponseWriter, r *http.Request, req *RecommendRequest) {
	if apiErr := validateRequest(req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}
	if req.Limit > h.config.MaxLimit {
		respondAPIError(w, r, http.StatusBadRequest, &models.APIError{
			Code:    ErrCodeValidation,
			Message: fmt.Sprintf("limit must be at most %d", h.config.MaxLimit),
			Details: map[string]interface{}{"field": "limit", "tag": "max"},
		}, nil)
		return
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(r.Context(), h.config.RequestTimeout)
	defer cancel()

	mode := recommend.Mode(req.Mode)
	if mode == "" {
		mode = recommend.ModeBundles
	}

	res, err := h.resolver.Resolve(ctx, req.toResolverRequest())
	switch {
	case errors.Is(err, recommend.ErrInvalidAnchor):
		res = emptyResult(mode)
	case errors.Is(err, recommend.ErrInvalidMode):
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "mode must be bundles or recommendations", err)
		return
	case err != nil:
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to resolve recommendations", err)
		return
	}

	data, tier := resultPayload(res)
	respondSuccess(w, http.StatusOK, data, models.Metadata{
		QueryTimeMS: time.Since(start).Milliseconds(),
		Tier:        tier,
	})
}

func emptyResult(mode recommend.Mode) *recommend.Result {
	if mode == recommend.ModeRecommendations {
		return &recommend.Result{
			Mode:            mode,
			Recommendations: &recommend.RecommendationResult{PersonalizationTier: recommend.TierNone},
		}
	}
	return &recommend.Result{Mode: recommend.ModeBundles, Bundles: &recommend.BundleResult{}}
}

// resultPayload converts a result into its wire payload and the tier
// reported in the metadata.
func resultPayload(res *recommend.Result) (interface{}, string) {
	if res.Mode == recommend.ModeRecommendations && res.Recommendations != nil {
		recs := res.Recommendations.Recommendations
		if recs == nil {
			recs = []models.Recommendation{}
		}
		return models.RecommendationsData{
			Recommendations:     recs,
			PersonalizationTier: string(res.Recommendations.PersonalizationTier),
		}, ""
	}

	data := models.BundlesData{Bundles: []models.Bundle{}}
	if res.Bundles != nil {
		if res.Bundles.Bundles != nil {
			data.Bundles = res.Bundles.Bundles
		}
		data.Tier = res.Bundles.Tier
	}
	return data, data.Tier
}
