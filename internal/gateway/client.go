// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/bundlecraft/internal/metrics"
)

// Upstream operation names, used for timeouts, breakers and metrics.
const (
	OpFetchProduct       = "fetch_product"
	OpFetchProductsBatch = "fetch_products_batch"
	OpFetchBestSellers   = "fetch_best_sellers"
	OpFetchRecentOrders  = "fetch_recent_orders"
	OpFetchUserProfile   = "fetch_user_profile"
	OpFetchManualBundles = "fetch_manual_bundles"
	OpFetchPlatformRecs  = "fetch_platform_recommendations"
)

var operations = []string{
	OpFetchProduct,
	OpFetchProductsBatch,
	OpFetchBestSellers,
	OpFetchRecentOrders,
	OpFetchUserProfile,
	OpFetchManualBundles,
	OpFetchPlatformRecs,
}

// maxResponseBytes bounds how much of an upstream body is read.
const maxResponseBytes = 4 << 20

// Timeouts holds the per-operation call timeouts.
type Timeouts struct {
	Product     time.Duration
	Batch       time.Duration
	BestSellers time.Duration
	Orders      time.Duration
	Profile     time.Duration
	Bundles     time.Duration
	Platform    time.Duration
}

// DefaultTimeouts returns the stock per-operation timeouts.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Product:     500 * time.Millisecond,
		Batch:       1200 * time.Millisecond,
		BestSellers: 1200 * time.Millisecond,
		Orders:      1200 * time.Millisecond,
		Profile:     300 * time.Millisecond,
		Bundles:     500 * time.Millisecond,
		Platform:    800 * time.Millisecond,
	}
}

func (t Timeouts) forOperation(op string) time.Duration {
	switch op {
	case OpFetchProduct:
		return t.Product
	case OpFetchProductsBatch:
		return t.Batch
	case OpFetchBestSellers:
		return t.BestSellers
	case OpFetchRecentOrders:
		return t.Orders
	case OpFetchUserProfile:
		return t.Profile
	case OpFetchManualBundles:
		return t.Bundles
	case OpFetchPlatformRecs:
		return t.Platform
	default:
		return time.Second
	}
}

// ClientConfig configures a Client.
type ClientConfig struct {
	BaseURL           string
	APIKey            string
	RequestsPerSecond float64
	Burst             int
	BreakerThreshold  uint32
	BreakerTimeout    time.Duration
	Timeouts          Timeouts

	// HTTPClient is optional. Per-call deadlines come from Timeouts, so a
	// custom client should not set its own Timeout.
	HTTPClient *http.Client
}

// Client performs JSON GET requests against the shop data service.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	breakers   map[string]*gobreaker.CircuitBreaker[interface{}]
	timeouts   Timeouts
	logger     zerolog.Logger
}

// NewClient creates a Client. Zero-valued limits fall back to permissive
// defaults.
func NewClient(cfg ClientConfig, logger zerolog.Logger) *Client {
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 50
	}
	if cfg.Burst <= 0 {
		cfg.Burst = int(cfg.RequestsPerSecond) * 2
	}
	if cfg.BreakerThreshold == 0 {
		cfg.BreakerThreshold = 5
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}
	if cfg.Timeouts == (Timeouts{}) {
		cfg.Timeouts = DefaultTimeouts()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 32,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	logger = logger.With().Str("component", "gateway").Logger()
	breakers := make(map[string]*gobreaker.CircuitBreaker[interface{}], len(operations))
	for _, op := range operations {
		breakers[op] = newBreaker(op, cfg.BreakerThreshold, cfg.BreakerTimeout, logger)
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		breakers:   breakers,
		timeouts:   cfg.Timeouts,
		logger:     logger,
	}
}

// BreakerStates returns the state of every operation's circuit breaker.
func (c *Client) BreakerStates() map[string]string {
	states := make(map[string]string, len(c.breakers))
	for op, cb := range c.breakers {
		states[op] = stateToString(cb.State())
	}
	return states
}

// getJSON fetches path and decodes the response into out. The call gets
// its own deadline derived from ctx, so a timeout only fails this call.
func (c *Client) getJSON(ctx context.Context, op, path string, query url.Values, out interface{}) error {
	start := time.Now()
	err := c.execute(ctx, op, path, query, out)

	recorded := err
	if errors.Is(err, ErrNotFound) {
		recorded = nil
	}
	metrics.RecordGatewayCall(op, time.Since(start), recorded)

	if recorded != nil {
		c.logger.Debug().Err(err).Str("operation", op).Dur("elapsed", time.Since(start)).Msg("Upstream call failed")
	}
	return err
}

func (c *Client) execute(ctx context.Context, op, path string, query url.Values, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.forOperation(op))
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %s: rate limiter: %v", ErrUpstream, op, err)
	}

	cb, ok := c.breakers[op]
	if !ok {
		return fmt.Errorf("gateway: unknown operation %q", op)
	}

	_, err := cb.Execute(func() (interface{}, error) {
		return nil, c.do(ctx, path, query, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %s: %v", ErrUpstream, op, err)
	}
	return err
}

func (c *Client) do(ctx context.Context, path string, query url.Values, out interface{}) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "bundlecraft")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUpstream, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned status %d", ErrUpstream, path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: %s: read body: %v", ErrUpstream, path, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %s: decode: %v", ErrUpstream, path, err)
	}
	return nil
}
