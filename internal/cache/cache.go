// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

// Package cache provides the short-lived, in-process caches used in front of
// the shop gateways: a TTL cache with an LRU capacity bound, and a keyed
// in-flight map so concurrent loads of the same key share one upstream call.
//
// Nothing in this package is global. Callers construct a Cache (and a Flight)
// and inject it where needed; all methods are safe for concurrent use.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Config controls expiry and eviction.
type Config struct {
	// TTL is how long an entry stays valid after Set.
	// Default: 5m
	TTL time.Duration

	// Capacity bounds the number of entries; the least recently used entry
	// is evicted when it is exceeded.
	// Default: 10000
	Capacity int

	// CleanupInterval is how often expired entries are swept. Zero disables
	// the background sweep; expiry is then purely lazy.
	// Default: 1m
	CleanupInterval time.Duration
}

// DefaultConfig returns the defaults documented on Config.
func DefaultConfig() Config {
	return Config{
		TTL:             5 * time.Minute,
		Capacity:        10000,
		CleanupInterval: time.Minute,
	}
}

type entry struct {
	key       string
	value     interface{}
	expiresAt time.Time
}

// Cache is a thread-safe TTL cache with LRU eviction.
type Cache struct {
	mu       sync.Mutex
	ttl      time.Duration
	capacity int
	items    map[string]*list.Element
	order    *list.List // front = most recently used
	now      func() time.Time

	stats Stats

	stop     chan struct{}
	stopOnce sync.Once
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
}

// New creates a cache. When cfg.CleanupInterval > 0 a janitor goroutine runs
// until Close is called.
func New(cfg Config) *Cache {
	def := DefaultConfig()
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = def.Capacity
	}

	c := &Cache{
		ttl:      cfg.TTL,
		capacity: cfg.Capacity,
		items:    make(map[string]*list.Element),
		order:    list.New(),
		now:      time.Now,
		stop:     make(chan struct{}),
	}

	if cfg.CleanupInterval > 0 {
		go c.cleanupLoop(cfg.CleanupInterval)
	}
	return c
}

// Get returns the value for key if present and not expired. Expired entries
// are removed on access.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		return nil, false
	}

	e := el.Value.(*entry)
	if !c.now().Before(e.expiresAt) {
		c.removeElement(el)
		c.stats.Misses++
		c.stats.Evictions++
		return nil, false
	}

	c.order.MoveToFront(el)
	c.stats.Hits++
	return e.value, true
}

// Set stores value under key with the default TTL.
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value under key with a specific TTL.
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(ttl)
	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry)
		e.value = value
		e.expiresAt = expiresAt
		c.order.MoveToFront(el)
		return
	}

	c.items[key] = c.order.PushFront(&entry{key: key, value: value, expiresAt: expiresAt})

	for c.order.Len() > c.capacity {
		c.removeElement(c.order.Back())
		c.stats.Evictions++
	}
}

// Delete removes key if present.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.removeElement(el)
		c.stats.Evictions++
	}
}

// Len returns the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Size = c.order.Len()
	return s
}

// HitRate returns hits / (hits + misses) as a percentage.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Close stops the janitor goroutine. The cache stays usable.
func (c *Cache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// removeElement must be called with mu held.
func (c *Cache) removeElement(el *list.Element) {
	c.order.Remove(el)
	delete(c.items, el.Value.(*entry).key)
}

// CleanupExpired sweeps expired entries and returns how many were removed.
func (c *Cache) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if !now.Before(el.Value.(*entry).expiresAt) {
			c.removeElement(el)
			removed++
		}
		el = prev
	}
	c.stats.Evictions += int64(removed)
	return removed
}

func (c *Cache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.CleanupExpired()
		case <-c.stop:
			return
		}
	}
}
