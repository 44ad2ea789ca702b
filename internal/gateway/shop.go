// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package gateway

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/tomtom215/bundlecraft/internal/models"
)

// Shop adapts the shop data service's REST API to the gateway contracts.
//
//	GET /products/{id}
//	GET /products?ids=a,b
//	GET /products/best-sellers?limit=n
//	GET /orders?product_id=a&limit=n
//	GET /profiles/{sessionID}
//	GET /bundles?product_id=a
//	GET /recommendations?product_id=a
type Shop struct {
	client *Client
}

var (
	_ ProductCatalog      = (*Shop)(nil)
	_ OrderHistory        = (*Shop)(nil)
	_ ProfileSource       = (*Shop)(nil)
	_ ManualBundleSource  = (*Shop)(nil)
	_ PlatformRecommender = (*Shop)(nil)
)

// NewShop creates a Shop on top of client.
func NewShop(client *Client) *Shop {
	return &Shop{client: client}
}

// Client returns the underlying client.
func (s *Shop) Client() *Client {
	return s.client
}

type productsResponse struct {
	Products []models.Product `json:"products"`
}

type ordersResponse struct {
	Orders []models.Order `json:"orders"`
}

type bundlesResponse struct {
	Bundles []models.ManualBundle `json:"bundles"`
}

type recommendationsResponse struct {
	ProductIDs []string `json:"productIds"`
}

// FetchProduct implements ProductCatalog.
func (s *Shop) FetchProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := s.client.getJSON(ctx, OpFetchProduct, "/products/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	if p.ID == "" {
		p.ID = id
	}
	return &p, nil
}

// FetchProductsBatch implements ProductCatalog.
func (s *Shop) FetchProductsBatch(ctx context.Context, ids []string) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var resp productsResponse
	query := url.Values{"ids": {strings.Join(ids, ",")}}
	if err := s.client.getJSON(ctx, OpFetchProductsBatch, "/products", query, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// FetchBestSellers implements ProductCatalog.
func (s *Shop) FetchBestSellers(ctx context.Context, limit int) ([]models.Product, error) {
	var resp productsResponse
	query := url.Values{"limit": {strconv.Itoa(limit)}}
	if err := s.client.getJSON(ctx, OpFetchBestSellers, "/products/best-sellers", query, &resp); err != nil {
		return nil, err
	}
	if limit > 0 && len(resp.Products) > limit {
		resp.Products = resp.Products[:limit]
	}
	return resp.Products, nil
}

// FetchRecentOrders implements OrderHistory.
func (s *Shop) FetchRecentOrders(ctx context.Context, anchorID string, limit int) ([]models.Order, error) {
	var resp ordersResponse
	query := url.Values{
		"product_id": {anchorID},
		"limit":      {strconv.Itoa(limit)},
	}
	if err := s.client.getJSON(ctx, OpFetchRecentOrders, "/orders", query, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

// FetchUserProfile implements ProfileSource. Unknown sessions yield a nil
// profile and no error.
func (s *Shop) FetchUserProfile(ctx context.Context, sessionID string) (*models.UserProfile, error) {
	var p models.UserProfile
	err := s.client.getJSON(ctx, OpFetchUserProfile, "/profiles/"+url.PathEscape(sessionID), nil, &p)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FetchManualBundles implements ManualBundleSource.
func (s *Shop) FetchManualBundles(ctx context.Context, anchorID string) ([]models.ManualBundle, error) {
	var resp bundlesResponse
	query := url.Values{"product_id": {anchorID}}
	if err := s.client.getJSON(ctx, OpFetchManualBundles, "/bundles", query, &resp); err != nil {
		return nil, err
	}
	return resp.Bundles, nil
}

// FetchPlatformRecommendations implements PlatformRecommender.
func (s *Shop) FetchPlatformRecommendations(ctx context.Context, anchorID string) ([]string, error) {
	var resp recommendationsResponse
	query := url.Values{"product_id": {anchorID}}
	if err := s.client.getJSON(ctx, OpFetchPlatformRecs, "/recommendations", query, &resp); err != nil {
		return nil, err
	}
	return resp.ProductIDs, nil
}
