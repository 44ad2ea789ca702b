// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/bundlecraft/internal/models"
	"github.com/tomtom215/bundlecraft/internal/recommend"
)

type fakeResolver struct {
	mu       sync.Mutex
	requests []recommend.Request
	result   *recommend.Result
	err      error
}

func (f *fakeResolver) Resolve(_ context.Context, req recommend.Request) (*recommend.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	if req.Mode == recommend.ModeRecommendations {
		return &recommend.Result{Mode: req.Mode, Recommendations: &recommend.RecommendationResult{PersonalizationTier: recommend.TierNone}}, nil
	}
	return &recommend.Result{Mode: recommend.ModeBundles, Bundles: &recommend.BundleResult{}}, nil
}

func (f *fakeResolver) last(t *testing.T) recommend.Request {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		t.Fatal("resolver was not called")
	}
	return f.requests[len(f.requests)-1]
}

func (f *fakeResolver) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type fakeRecorder struct {
	mu       sync.Mutex
	events   []*models.InteractionEvent
	err      error
	depth    int
	capacity int
}

func (f *fakeRecorder) Record(ev *models.InteractionEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeRecorder) Depth() int    { return f.depth }
func (f *fakeRecorder) Capacity() int { return f.capacity }

type fakeBreakers map[string]string

func (f fakeBreakers) BreakerStates() map[string]string { return f }

// envelope mirrors models.APIResponse with a raw payload.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

// newTestServer returns the full router around a handler with rate
// limiting disabled.
func newTestServer(h *Handler) http.Handler {
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	return NewRouter(h, NewChiMiddleware(cfg)).SetupChi()
}

func doRequest(t *testing.T, handler http.Handler, method, target string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, env
}

func decodeData(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}
