// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateUpstream(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateEvents(); err != nil {
		return err
	}
	return c.validateSignals()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	switch c.Server.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be development, staging or production, got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Security.RateLimitWindow)
	}
	return nil
}

func (c *Config) validateUpstream() error {
	u := c.Upstream
	if err := validateHTTPURL(u.BaseURL, "UPSTREAM_URL"); err != nil {
		return err
	}
	if u.RequestsPerSecond <= 0 {
		return fmt.Errorf("UPSTREAM_RPS must be positive, got %v", u.RequestsPerSecond)
	}
	if u.Burst < 1 {
		return fmt.Errorf("UPSTREAM_BURST must be at least 1, got %d", u.Burst)
	}
	if u.BreakerThreshold == 0 {
		return fmt.Errorf("UPSTREAM_BREAKER_THRESHOLD must be at least 1")
	}

	timeouts := map[string]time.Duration{
		"UPSTREAM_PRODUCT_TIMEOUT":      u.ProductTimeout,
		"UPSTREAM_BATCH_TIMEOUT":        u.BatchTimeout,
		"UPSTREAM_BEST_SELLERS_TIMEOUT": u.BestSellersTimeout,
		"UPSTREAM_ORDERS_TIMEOUT":       u.OrdersTimeout,
		"UPSTREAM_PROFILE_TIMEOUT":      u.ProfileTimeout,
		"UPSTREAM_BUNDLES_TIMEOUT":      u.BundlesTimeout,
		"UPSTREAM_PLATFORM_TIMEOUT":     u.PlatformTimeout,
	}
	for name, d := range timeouts {
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %v", c.Cache.TTL)
	}
	if c.Cache.Capacity < 1 {
		return fmt.Errorf("CACHE_CAPACITY must be at least 1, got %d", c.Cache.Capacity)
	}
	if c.Cache.BatchChunkSize < 1 {
		return fmt.Errorf("CACHE_BATCH_CHUNK_SIZE must be at least 1, got %d", c.Cache.BatchChunkSize)
	}
	if c.Cache.BatchConcurrency < 1 {
		return fmt.Errorf("CACHE_BATCH_CONCURRENCY must be at least 1, got %d", c.Cache.BatchConcurrency)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.MaxLimit < 1 {
		return fmt.Errorf("RECOMMEND_MAX_LIMIT must be at least 1, got %d", r.MaxLimit)
	}
	if r.DefaultLimit < 1 || r.DefaultLimit > r.MaxLimit {
		return fmt.Errorf("RECOMMEND_DEFAULT_LIMIT must be between 1 and %d, got %d", r.MaxLimit, r.DefaultLimit)
	}
	if r.OrderSampleSize < 1 {
		return fmt.Errorf("RECOMMEND_ORDER_SAMPLE_SIZE must be at least 1, got %d", r.OrderSampleSize)
	}
	if r.CandidatePoolSize < 1 {
		return fmt.Errorf("RECOMMEND_POOL_SIZE must be at least 1, got %d", r.CandidatePoolSize)
	}
	if r.PriceBandMin < 0 || r.PriceBandMax < r.PriceBandMin {
		return fmt.Errorf("price band [%v, %v] is invalid", r.PriceBandMin, r.PriceBandMax)
	}
	if r.ViewBoost < 1 || r.CartBoost < 1 || r.TimeOfDayBoost < 1 || r.RecencyBoost < 1 {
		return fmt.Errorf("recommendation boosts must be at least 1")
	}
	if r.StrategyTimeout <= 0 {
		return fmt.Errorf("RECOMMEND_STRATEGY_TIMEOUT must be positive, got %v", r.StrategyTimeout)
	}
	return nil
}

func (c *Config) validateEvents() error {
	e := c.Events
	if !e.Enabled {
		return nil
	}
	if e.Topic == "" {
		return fmt.Errorf("EVENTS_TOPIC is required when events are enabled")
	}
	if e.QueueSize < 1 {
		return fmt.Errorf("EVENTS_QUEUE_SIZE must be at least 1, got %d", e.QueueSize)
	}
	switch e.Transport {
	case "channel":
	case "nats":
		if err := validateNATSURL(e.NATSURL); err != nil {
			return err
		}
	case "embedded":
		if e.EmbeddedPort < 1 || e.EmbeddedPort > 65535 {
			return fmt.Errorf("NATS_EMBEDDED_PORT must be between 1 and 65535, got %d", e.EmbeddedPort)
		}
		if e.EmbeddedStoreDir == "" {
			return fmt.Errorf("NATS_STORE_DIR is required for the embedded transport")
		}
	default:
		return fmt.Errorf("EVENTS_TRANSPORT must be channel, nats or embedded, got %q", e.Transport)
	}
	return nil
}

func (c *Config) validateSignals() error {
	s := c.Signals
	switch s.Source {
	case "local":
		if !s.InMemory && s.Path == "" {
			return fmt.Errorf("SIGNALS_PATH is required unless SIGNALS_IN_MEMORY=true")
		}
	case "http":
	default:
		return fmt.Errorf("SIGNALS_SOURCE must be local or http, got %q", s.Source)
	}
	if s.MaxListLength < 1 {
		return fmt.Errorf("SIGNALS_MAX_LIST_LENGTH must be at least 1, got %d", s.MaxListLength)
	}
	return nil
}

// validateHTTPURL accepts http(s) base URLs without query parameters.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %q", fieldName, parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	if parsedURL.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsedURL.RawQuery)
	}
	return nil
}

func validateNATSURL(rawURL string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("NATS_URL failed to parse URL: %w", err)
	}
	switch parsedURL.Scheme {
	case "nats", "tls", "ws", "wss":
	default:
		return fmt.Errorf("NATS_URL scheme must be nats, tls, ws or wss, got: %q", parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("NATS_URL host is required")
	}
	return nil
}
