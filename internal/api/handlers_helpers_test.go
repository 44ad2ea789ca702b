// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package api

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

func TestGenerateETag(t *testing.T) {
	a := generateETag([]byte(`{"status":"success"}`))
	b := generateETag([]byte(`{"status":"success"}`))
	c := generateETag([]byte(`{"status":"error"}`))

	if a != b {
		t.Errorf("ETag not stable: %s != %s", a, b)
	}
	if a == c {
		t.Error("different bodies share an ETag")
	}
	if !strings.HasPrefix(a, `W/"`) {
		t.Errorf("ETag %s should be weak", a)
	}
}

func TestParseCommaSeparated(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{" a , b,,c ", []string{"a", "b", "c"}},
		{",,", nil},
	}

	for _, tt := range tests {
		if got := parseCommaSeparated(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseCommaSeparated(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseLimitParam(t *testing.T) {
	tests := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"limit=7", 7, false},
		{"limit=%207%20", 7, false},
		{"limit=-2", -2, false},
		{"limit=seven", 0, true},
		{"limit=2.5", 0, true},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
		got, err := parseLimitParam(r)
		if (err != nil) != tt.wantErr || (!tt.wantErr && got != tt.want) {
			t.Errorf("parseLimitParam(%q) = %d, %v; want %d, err %v", tt.query, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestDecodeJSONBodyLimitsSize(t *testing.T) {
	body := `{"anchorProductId":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	var req RecommendRequest
	if err := decodeJSONBody(httptest.NewRecorder(), r, &req); err == nil {
		t.Error("oversized body should be rejected")
	}
}
