// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package api

import (
	"strings"

	"github.com/tomtom215/bundlecraft/internal/recommend"
)

// RecommendRequest is the body of POST /api/v1/recommend.
//
// The anchor is not validated here: an unusable anchor yields an empty
// result, not an error.
type RecommendRequest struct {
	AnchorProductID string           `json:"anchorProductId"`
	CartProductIDs  []string         `json:"cartProductIds" validate:"max=100"`
	Limit           int              `json:"limit" validate:"min=0"`
	Context         RecommendContext `json:"context"`
	Mode            string           `json:"mode" validate:"omitempty,oneof=bundles recommendations"`
}

// RecommendContext is the visitor and shop context of a request.
type RecommendContext struct {
	SessionID   string  `json:"sessionId" validate:"max=128"`
	Page        string  `json:"page" validate:"max=64"`
	ShopAOV     float64 `json:"shopAov" validate:"min=0"`
	CustomerAOV float64 `json:"customerAov"`
	TimeOfDay   string  `json:"timeOfDay" validate:"omitempty,oneof=morning afternoon evening night"`
}

// toResolverRequest maps the wire request onto the resolver's.
func (req *RecommendRequest) toResolverRequest() recommend.Request {
	return recommend.Request{
		AnchorProductID: req.AnchorProductID,
		CartProductIDs:  req.CartProductIDs,
		Limit:           req.Limit,
		Mode:            recommend.Mode(req.Mode),
		Context: recommend.RequestContext{
			SessionID:   strings.TrimSpace(req.Context.SessionID),
			Page:        req.Context.Page,
			ShopAOV:     req.Context.ShopAOV,
			CustomerAOV: req.Context.CustomerAOV,
			TimeOfDay:   req.Context.TimeOfDay,
		},
	}
}

// InteractionRequest is the body of POST /api/v1/interactions.
type InteractionRequest struct {
	Kind      string `json:"kind" validate:"required,oneof=view cart_add purchase"`
	SessionID string `json:"sessionId" validate:"required,max=128"`
	ProductID string `json:"productId" validate:"required,product_id"`
}
