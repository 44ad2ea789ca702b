// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package cache

import (
	"context"
	"errors"
	"sync"
)

// ErrLoadAbandoned is returned to waiters when the loading goroutine exits
// without resolving its key.
var ErrLoadAbandoned = errors.New("cache: in-flight load abandoned")

// Flight tracks in-flight loads so that at most one load per key runs at a
// time. Unlike a plain single-flight group, one caller may claim many keys
// at once, which lets a batched upstream call stand in for every key it
// fetches.
type Flight[V any] struct {
	mu    sync.Mutex
	calls map[string]*Call[V]
}

// Call is the future of one key's load.
type Call[V any] struct {
	done chan struct{}
	val  V
	err  error
}

// NewFlight creates an empty Flight.
func NewFlight[V any]() *Flight[V] {
	return &Flight[V]{calls: make(map[string]*Call[V])}
}

// Claim partitions keys into owned keys, which the caller must now load and
// Resolve exactly once each, and pending calls already being loaded by
// someone else. Duplicate keys are collapsed.
func (f *Flight[V]) Claim(keys []string) (owned []string, pending map[string]*Call[V]) {
	f.mu.Lock()
	defer f.mu.Unlock()

	pending = make(map[string]*Call[V])
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if c, ok := f.calls[key]; ok {
			pending[key] = c
			continue
		}
		f.calls[key] = &Call[V]{done: make(chan struct{})}
		owned = append(owned, key)
	}
	return owned, pending
}

// Resolve publishes the result for an owned key and wakes its waiters.
// Resolving a key that is not in flight is a no-op.
func (f *Flight[V]) Resolve(key string, val V, err error) {
	f.mu.Lock()
	c, ok := f.calls[key]
	if ok {
		delete(f.calls, key)
	}
	f.mu.Unlock()

	if !ok {
		return
	}
	c.val, c.err = val, err
	close(c.done)
}

// InFlight returns the number of keys currently being loaded.
func (f *Flight[V]) InFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// Wait blocks until the call is resolved or ctx is done. A waiter giving up
// does not affect the load or the other waiters.
func (c *Call[V]) Wait(ctx context.Context) (V, error) {
	select {
	case <-c.done:
		return c.val, c.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// Do loads key with fn unless a load is already in flight, in which case it
// waits for that load instead. shared reports whether the value came from
// another caller's load.
func (f *Flight[V]) Do(ctx context.Context, key string, fn func() (V, error)) (v V, shared bool, err error) {
	owned, pending := f.Claim([]string{key})
	if len(owned) == 0 {
		v, err = pending[key].Wait(ctx)
		return v, true, err
	}

	resolved := false
	defer func() {
		if !resolved {
			var zero V
			f.Resolve(key, zero, ErrLoadAbandoned)
		}
	}()

	v, err = fn()
	f.Resolve(key, v, err)
	resolved = true
	return v, false, err
}
