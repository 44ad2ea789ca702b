// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package validation

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

type testRequest struct {
	AnchorProductID string   `json:"anchorProductId" validate:"omitempty,product_id"`
	CartProductIDs  []string `json:"cartProductIds" validate:"max=3,dive,product_id"`
	Limit           int      `json:"limit" validate:"min=0,max=50"`
	Mode            string   `json:"mode" validate:"omitempty,oneof=bundles recommendations"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		req       testRequest
		wantErr   bool
		wantField string
		wantMsg   string
	}{
		{
			name: "valid request",
			req:  testRequest{AnchorProductID: "gid://shopify/Product/1", CartProductIDs: []string{"2"}, Limit: 4},
		},
		{
			name: "empty anchor allowed",
			req:  testRequest{},
		},
		{
			name:      "anchor with whitespace",
			req:       testRequest{AnchorProductID: "bad id"},
			wantErr:   true,
			wantField: "anchorProductId",
			wantMsg:   "anchorProductId must be a product id",
		},
		{
			name:      "limit above max",
			req:       testRequest{Limit: 51},
			wantErr:   true,
			wantField: "limit",
			wantMsg:   "limit must be at most 50",
		},
		{
			name:      "too many cart items",
			req:       testRequest{CartProductIDs: []string{"a", "b", "c", "d"}},
			wantErr:   true,
			wantField: "cartProductIds",
			wantMsg:   "cartProductIds must contain at most 3 items",
		},
		{
			name:      "blank cart item",
			req:       testRequest{CartProductIDs: []string{""}},
			wantErr:   true,
			wantField: "cartProductIds[0]",
		},
		{
			name:      "unknown mode",
			req:       testRequest{Mode: "everything"},
			wantErr:   true,
			wantField: "mode",
			wantMsg:   "mode must be one of: bundles recommendations",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateStruct(&tt.req)
			if !tt.wantErr {
				if verr != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), verr)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if tt.wantMsg != "" && !strings.Contains(errs[0].Error(), tt.wantMsg) {
				t.Errorf("Error() = %q, want it to contain %q", errs[0].Error(), tt.wantMsg)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	verr := ValidateStruct(&testRequest{AnchorProductID: "a b", Limit: -1})
	if verr == nil {
		t.Fatal("expected validation errors")
	}

	apiErr := verr.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 2 {
		t.Fatalf("Details[fields] = %v, want 2 entries", apiErr.Details["fields"])
	}

	single := ValidateStruct(&testRequest{Limit: 99}).ToAPIError()
	if single.Details["field"] != "limit" {
		t.Errorf("single error field = %v, want limit", single.Details["field"])
	}

	empty := (&RequestValidationError{}).ToAPIError()
	if empty.Message != "Validation failed" {
		t.Errorf("empty Message = %q", empty.Message)
	}
}

func TestIsValidProductID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id   string
		want bool
	}{
		{"123", true},
		{"gid://shopify/Product/123", true},
		{"", false},
		{"has space", false},
		{"tab\tinside", false},
		{strings.Repeat("x", MaxProductIDLength), true},
		{strings.Repeat("x", MaxProductIDLength+1), false},
	}

	for _, tt := range tests {
		if got := IsValidProductID(tt.id); got != tt.want {
			t.Errorf("IsValidProductID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestGetValidatorRegistersProductID(t *testing.T) {
	v := GetValidator()
	if err := v.Var("bad id", "product_id"); err == nil {
		t.Error("product_id tag accepted an id with whitespace")
	}
	if err := v.Var("gid://shopify/Product/1", "product_id"); err != nil {
		t.Errorf("product_id tag rejected a valid id: %v", err)
	}
}

func TestMustRegisterPanicsOnInvalidTag(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("mustRegister did not panic for an empty tag")
		}
	}()
	mustRegister(validator.New(), "", validateProductID)
}
