// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package api

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"testing"

	"github.com/tomtom215/bundlecraft/internal/models"
	"github.com/tomtom215/bundlecraft/internal/recommend"
)

func TestRecommendMapsRequest(t *testing.T) {
	resolver := &fakeResolver{result: &recommend.Result{
		Mode: recommend.ModeBundles,
		Bundles: &recommend.BundleResult{
			Bundles: []models.Bundle{{ID: "co_purchase-0123456789abcdef", Name: "Frequently Bought Together", Source: models.BundleSourceCoPurchase}},
			Tier:    models.BundleSourceCoPurchase,
		},
	}}
	srv := newTestServer(NewHandler(resolver, HandlerConfig{}))

	rec, env := doRequest(t, srv, http.MethodPost, "/api/v1/recommend", map[string]interface{}{
		"anchorProductId": "p1",
		"cartProductIds":  []string{"p2", "p3"},
		"limit":           3,
		"context": map[string]interface{}{
			"sessionId":   "  sess-1 ",
			"page":        "product",
			"shopAov":     80,
			"customerAov": 120.5,
			"timeOfDay":   "evening",
		},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	want := recommend.Request{
		AnchorProductID: "p1",
		CartProductIDs:  []string{"p2", "p3"},
		Limit:           3,
		Context: recommend.RequestContext{
			SessionID:   "sess-1",
			Page:        "product",
			ShopAOV:     80,
			CustomerAOV: 120.5,
			TimeOfDay:   "evening",
		},
	}
	if got := resolver.last(t); !reflect.DeepEqual(got, want) {
		t.Errorf("resolver request = %+v, want %+v", got, want)
	}

	var data models.BundlesData
	decodeData(t, env, &data)
	if env.Status != "success" || len(data.Bundles) != 1 || data.Tier != models.BundleSourceCoPurchase {
		t.Errorf("response = %+v, data = %+v", env, data)
	}
	if env.Metadata.Tier != models.BundleSourceCoPurchase {
		t.Errorf("metadata tier = %q, want co_purchase", env.Metadata.Tier)
	}
	if rec.Header().Get("ETag") == "" {
		t.Error("missing ETag header")
	}
}

func TestRecommendValidation(t *testing.T) {
	tests := []struct {
		name string
		body interface{}
	}{
		{"malformed json", `{"anchorProductId":`},
		{"empty body", ""},
		{"negative limit", map[string]interface{}{"anchorProductId": "p1", "limit": -1}},
		{"limit above max", map[string]interface{}{"anchorProductId": "p1", "limit": 51}},
		{"unknown mode", map[string]interface{}{"anchorProductId": "p1", "mode": "carousel"}},
		{"unknown daypart", map[string]interface{}{"anchorProductId": "p1", "context": map[string]string{"timeOfDay": "brunch"}}},
		{"limit not a number", `{"anchorProductId":"p1","limit":"four"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &fakeResolver{}
			srv := newTestServer(NewHandler(resolver, HandlerConfig{MaxLimit: 50}))

			rec, env := doRequest(t, srv, http.MethodPost, "/api/v1/recommend", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
			if env.Error == nil || env.Error.Code != ErrCodeValidation {
				t.Errorf("error = %+v, want VALIDATION_ERROR", env.Error)
			}
			if resolver.calls() != 0 {
				t.Error("resolver should not be called for invalid requests")
			}
		})
	}
}

func TestRecommendInvalidAnchorIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		mode string
		want string
	}{
		{"bundles", "", `"bundles":[]`},
		{"recommendations", "recommendations", `"recommendations":[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &fakeResolver{err: recommend.ErrInvalidAnchor}
			srv := newTestServer(NewHandler(resolver, HandlerConfig{}))

			rec, env := doRequest(t, srv, http.MethodPost, "/api/v1/recommend", map[string]interface{}{"mode": tt.mode})

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if env.Status != "success" {
				t.Errorf("status = %q, want success", env.Status)
			}
			if !strings.Contains(string(env.Data), tt.want) {
				t.Errorf("data = %s, want it to contain %s", env.Data, tt.want)
			}
		})
	}
}

func TestRecommendResolverErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"invalid mode", recommend.ErrInvalidMode, http.StatusBadRequest, ErrCodeValidation},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(NewHandler(&fakeResolver{err: tt.err}, HandlerConfig{}))

			rec, env := doRequest(t, srv, http.MethodPost, "/api/v1/recommend", map[string]string{"anchorProductId": "p1"})

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if env.Error == nil || env.Error.Code != tt.wantErr {
				t.Errorf("error = %+v, want %s", env.Error, tt.wantErr)
			}
			if strings.Contains(rec.Body.String(), "boom") {
				t.Error("internal error details must not leak to the client")
			}
		})
	}
}

func TestProductEndpoints(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		wantMode recommend.Mode
		wantReq  recommend.Request
	}{
		{
			name:     "bundles",
			target:   "/api/v1/products/p1/bundles?cart=p2,%20p3,,&limit=2&session=s1",
			wantMode: recommend.ModeBundles,
			wantReq: recommend.Request{
				AnchorProductID: "p1",
				CartProductIDs:  []string{"p2", "p3"},
				Limit:           2,
				Mode:            recommend.ModeBundles,
				Context:         recommend.RequestContext{SessionID: "s1"},
			},
		},
		{
			name:     "recommendations",
			target:   "/api/v1/products/gid:%2F%2Fshopify%2FProduct%2F7/recommendations",
			wantMode: recommend.ModeRecommendations,
			wantReq: recommend.Request{
				AnchorProductID: "gid://shopify/Product/7",
				Mode:            recommend.ModeRecommendations,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &fakeResolver{}
			srv := newTestServer(NewHandler(resolver, HandlerConfig{}))

			rec, _ := doRequest(t, srv, http.MethodGet, tt.target, nil)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
			}
			if got := resolver.last(t); !reflect.DeepEqual(got, tt.wantReq) {
				t.Errorf("resolver request = %+v, want %+v", got, tt.wantReq)
			}
		})
	}
}

func TestProductEndpointRejectsBadLimit(t *testing.T) {
	resolver := &fakeResolver{}
	srv := newTestServer(NewHandler(resolver, HandlerConfig{}))

	for _, target := range []string{
		"/api/v1/products/p1/bundles?limit=abc",
		"/api/v1/products/p1/recommendations?limit=999",
	} {
		rec, env := doRequest(t, srv, http.MethodGet, target, nil)
		if rec.Code != http.StatusBadRequest || env.Error == nil || env.Error.Code != ErrCodeValidation {
			t.Errorf("%s: status = %d, error = %+v; want 400 VALIDATION_ERROR", target, rec.Code, env.Error)
		}
	}
	if resolver.calls() != 0 {
		t.Error("resolver should not be called")
	}
}

func TestResultPayloadNeverNil(t *testing.T) {
	data, tier := resultPayload(&recommend.Result{Mode: recommend.ModeBundles})
	bundles, ok := data.(models.BundlesData)
	if !ok || bundles.Bundles == nil || tier != "" {
		t.Errorf("resultPayload(bundles) = %#v, %q", data, tier)
	}

	data, _ = resultPayload(&recommend.Result{
		Mode:            recommend.ModeRecommendations,
		Recommendations: &recommend.RecommendationResult{PersonalizationTier: recommend.TierLight},
	})
	recs, ok := data.(models.RecommendationsData)
	if !ok || recs.Recommendations == nil || recs.PersonalizationTier != "light" {
		t.Errorf("resultPayload(recommendations) = %#v", data)
	}
}
