// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

// Package config loads the Bundlecraft service configuration.
//
// Configuration is layered with koanf: built-in defaults, then an optional
// YAML file, then environment variables. See Load.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config is the complete service configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Security  SecurityConfig  `koanf:"security"`
	Upstream  UpstreamConfig  `koanf:"upstream"`
	Cache     CacheConfig     `koanf:"cache"`
	Recommend RecommendConfig `koanf:"recommend"`
	Discount  DiscountConfig  `koanf:"discount"`
	Events    EventsConfig    `koanf:"events"`
	Signals   SignalsConfig   `koanf:"signals"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// SecurityConfig holds inbound request controls. The storefront API is
// public; there is no authentication layer.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// UpstreamConfig describes the shop data service behind the gateways.
type UpstreamConfig struct {
	BaseURL string `koanf:"base_url"`
	APIKey  string `koanf:"api_key"`

	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
	BreakerThreshold  uint32        `koanf:"breaker_threshold"`
	BreakerTimeout    time.Duration `koanf:"breaker_timeout"`

	ProductTimeout     time.Duration `koanf:"product_timeout"`
	BatchTimeout       time.Duration `koanf:"batch_timeout"`
	BestSellersTimeout time.Duration `koanf:"best_sellers_timeout"`
	OrdersTimeout      time.Duration `koanf:"orders_timeout"`
	ProfileTimeout     time.Duration `koanf:"profile_timeout"`
	BundlesTimeout     time.Duration `koanf:"bundles_timeout"`
	PlatformTimeout    time.Duration `koanf:"platform_timeout"`
}

// CacheConfig tunes the catalog read-through cache.
type CacheConfig struct {
	TTL              time.Duration `koanf:"ttl"`
	Capacity         int           `koanf:"capacity"`
	CleanupInterval  time.Duration `koanf:"cleanup_interval"`
	PoolTTL          time.Duration `koanf:"pool_ttl"`
	BatchChunkSize   int           `koanf:"batch_chunk_size"`
	BatchConcurrency int           `koanf:"batch_concurrency"`
}

// RecommendConfig tunes the resolver and its tiers.
type RecommendConfig struct {
	ManualEnabled     bool `koanf:"manual_enabled"`
	CoPurchaseEnabled bool `koanf:"co_purchase_enabled"`
	PlatformEnabled   bool `koanf:"platform_enabled"`

	DefaultLimit      int `koanf:"default_limit"`
	MaxLimit          int `koanf:"max_limit"`
	OrderSampleSize   int `koanf:"order_sample_size"`
	CandidatePoolSize int `koanf:"candidate_pool_size"`

	PriceBandMin float64 `koanf:"price_band_min"`
	PriceBandMax float64 `koanf:"price_band_max"`

	ViewBoost      float64 `koanf:"view_boost"`
	CartBoost      float64 `koanf:"cart_boost"`
	TimeOfDayBoost float64 `koanf:"time_of_day_boost"`
	RecencyBoost   float64 `koanf:"recency_boost"`
	RecencyWindow  int     `koanf:"recency_window"`

	StrategyTimeout time.Duration `koanf:"strategy_timeout"`

	// TimeOfDayAffinity maps a daypart (morning, afternoon, evening, night)
	// to the product types that sell better in it. YAML only.
	TimeOfDayAffinity map[string][]string `koanf:"time_of_day_affinity"`
}

// DiscountConfig holds pricing context defaults.
type DiscountConfig struct {
	// DefaultShopAOV is used when a request carries no shop AOV. Zero
	// disables the shop-AOV rule for such requests.
	DefaultShopAOV float64 `koanf:"default_shop_aov"`
}

// EventsConfig configures the interaction event pipeline.
type EventsConfig struct {
	Enabled          bool          `koanf:"enabled"`
	Transport        string        `koanf:"transport"` // channel, nats, embedded
	Topic            string        `koanf:"topic"`
	QueueSize        int           `koanf:"queue_size"`
	PublishTimeout   time.Duration `koanf:"publish_timeout"`
	NATSURL          string        `koanf:"nats_url"`
	EmbeddedHost     string        `koanf:"embedded_host"`
	EmbeddedPort     int           `koanf:"embedded_port"`
	EmbeddedStoreDir string        `koanf:"embedded_store_dir"`
	DurableName      string        `koanf:"durable_name"`
	SubscribersCount int           `koanf:"subscribers_count"`
}

// SignalsConfig configures the visitor signal store.
type SignalsConfig struct {
	Source        string        `koanf:"source"` // local, http
	Path          string        `koanf:"path"`
	InMemory      bool          `koanf:"in_memory"`
	ProfileTTL    time.Duration `koanf:"profile_ttl"`
	MaxListLength int           `koanf:"max_list_length"`
}

// Address returns the host:port the HTTP server listens on.
func (s ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
