// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config file locations searched in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/bundlecraft/config.yaml",
	"/etc/bundlecraft/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the built-in defaults, applied before the config
// file and the environment.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Security: SecurityConfig{
			RateLimitReqs:     300,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Upstream: UpstreamConfig{
			BaseURL:            "http://127.0.0.1:9090",
			RequestsPerSecond:  50,
			Burst:              100,
			BreakerThreshold:   5,
			BreakerTimeout:     30 * time.Second,
			ProductTimeout:     500 * time.Millisecond,
			BatchTimeout:       1200 * time.Millisecond,
			BestSellersTimeout: 1200 * time.Millisecond,
			OrdersTimeout:      1200 * time.Millisecond,
			ProfileTimeout:     300 * time.Millisecond,
			BundlesTimeout:     500 * time.Millisecond,
			PlatformTimeout:    800 * time.Millisecond,
		},
		Cache: CacheConfig{
			TTL:              5 * time.Minute,
			Capacity:         10000,
			CleanupInterval:  time.Minute,
			PoolTTL:          10 * time.Minute,
			BatchChunkSize:   10,
			BatchConcurrency: 3,
		},
		Recommend: RecommendConfig{
			ManualEnabled:     true,
			CoPurchaseEnabled: true,
			PlatformEnabled:   true,
			DefaultLimit:      4,
			MaxLimit:          50,
			OrderSampleSize:   100,
			CandidatePoolSize: 75,
			PriceBandMin:      0.5,
			PriceBandMax:      2.0,
			ViewBoost:         1.5,
			CartBoost:         1.8,
			TimeOfDayBoost:    1.1,
			RecencyBoost:      1.05,
			RecencyWindow:     5,
			StrategyTimeout:   1500 * time.Millisecond,
		},
		Discount: DiscountConfig{
			DefaultShopAOV: 0,
		},
		Events: EventsConfig{
			Enabled:          true,
			Transport:        "channel",
			Topic:            "bundlecraft-interactions",
			QueueSize:        1024,
			PublishTimeout:   2 * time.Second,
			NATSURL:          "nats://127.0.0.1:4222",
			EmbeddedHost:     "127.0.0.1",
			EmbeddedPort:     4222,
			EmbeddedStoreDir: "/data/nats/jetstream",
			DurableName:      "signals",
			SubscribersCount: 1,
		},
		Signals: SignalsConfig{
			Source:        "local",
			Path:          "/data/signals",
			InMemory:      false,
			ProfileTTL:    30 * 24 * time.Hour,
			MaxListLength: 50,
		},
	}
}

// Load builds the configuration from three layers, later layers winning:
//  1. Built-in defaults
//  2. Optional YAML file (CONFIG_PATH or DefaultConfigPaths)
//  3. Environment variables listed in envMappings
//
// The result is validated before it is returned.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated strings when they come
// from the environment.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to config keys.
// Variables not listed here are ignored.
var envMappings = map[string]string{
	// Server
	"http_port":        "server.port",
	"http_host":        "server.host",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Security
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Upstream shop data service
	"upstream_url":                  "upstream.base_url",
	"upstream_api_key":              "upstream.api_key",
	"upstream_rps":                  "upstream.requests_per_second",
	"upstream_burst":                "upstream.burst",
	"upstream_breaker_threshold":    "upstream.breaker_threshold",
	"upstream_breaker_timeout":      "upstream.breaker_timeout",
	"upstream_product_timeout":      "upstream.product_timeout",
	"upstream_batch_timeout":        "upstream.batch_timeout",
	"upstream_best_sellers_timeout": "upstream.best_sellers_timeout",
	"upstream_orders_timeout":       "upstream.orders_timeout",
	"upstream_profile_timeout":      "upstream.profile_timeout",
	"upstream_bundles_timeout":      "upstream.bundles_timeout",
	"upstream_platform_timeout":     "upstream.platform_timeout",

	// Catalog cache
	"cache_ttl":               "cache.ttl",
	"cache_capacity":          "cache.capacity",
	"cache_cleanup_interval":  "cache.cleanup_interval",
	"cache_pool_ttl":          "cache.pool_ttl",
	"cache_batch_chunk_size":  "cache.batch_chunk_size",
	"cache_batch_concurrency": "cache.batch_concurrency",

	// Resolver
	"recommend_manual_enabled":      "recommend.manual_enabled",
	"recommend_co_purchase_enabled": "recommend.co_purchase_enabled",
	"recommend_platform_enabled":    "recommend.platform_enabled",
	"recommend_default_limit":       "recommend.default_limit",
	"recommend_max_limit":           "recommend.max_limit",
	"recommend_order_sample_size":   "recommend.order_sample_size",
	"recommend_pool_size":           "recommend.candidate_pool_size",
	"recommend_price_band_min":      "recommend.price_band_min",
	"recommend_price_band_max":      "recommend.price_band_max",
	"recommend_view_boost":          "recommend.view_boost",
	"recommend_cart_boost":          "recommend.cart_boost",
	"recommend_time_of_day_boost":   "recommend.time_of_day_boost",
	"recommend_recency_boost":       "recommend.recency_boost",
	"recommend_recency_window":      "recommend.recency_window",
	"recommend_strategy_timeout":    "recommend.strategy_timeout",

	// Discount
	"discount_default_shop_aov": "discount.default_shop_aov",

	// Events
	"events_enabled":         "events.enabled",
	"events_transport":       "events.transport",
	"events_topic":           "events.topic",
	"events_queue_size":      "events.queue_size",
	"events_publish_timeout": "events.publish_timeout",
	"nats_url":               "events.nats_url",
	"nats_embedded_host":     "events.embedded_host",
	"nats_embedded_port":     "events.embedded_port",
	"nats_store_dir":         "events.embedded_store_dir",
	"nats_durable_name":      "events.durable_name",
	"nats_subscribers":       "events.subscribers_count",

	// Signals
	"signals_source":          "signals.source",
	"signals_path":            "signals.path",
	"signals_in_memory":       "signals.in_memory",
	"signals_profile_ttl":     "signals.profile_ttl",
	"signals_max_list_length": "signals.max_list_length",
}

// envTransformFunc maps an environment variable name to its config key, or
// "" to skip it.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - UPSTREAM_URL -> upstream.base_url
//   - EVENTS_TRANSPORT -> events.transport
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
