// Package cache provides the query-result cache used by the query bus.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// RistrettoCache is a bounded, TTL-aware in-process cache. Every entry costs 1, so
// MaxEntries bounds the number of cached query results.
type RistrettoCache struct {
	cache *ristretto.Cache[string, interface{}]
}

// NewRistrettoCache creates a cache holding at most maxEntries results.
func NewRistrettoCache(maxEntries int64) (*RistrettoCache, error) {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	c, err := ristretto.NewCache(&ristretto.Config[string, interface{}]{
		NumCounters:        maxEntries * 10,
		MaxCost:            maxEntries,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create ristretto cache: %w", err)
	}
	return &RistrettoCache{cache: c}, nil
}

// Get retrieves a value from cache
func (c *RistrettoCache) Get(_ context.Context, key string) (interface{}, bool) {
	return c.cache.Get(key)
}

// Set stores a value and waits until it is visible to Get.
func (c *RistrettoCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.cache.SetWithTTL(key, value, 1, ttl) {
		return fmt.Errorf("cache rejected key %q", key)
	}
	c.cache.Wait()
	return nil
}

// Clear removes all values from cache
func (c *RistrettoCache) Clear() {
	c.cache.Clear()
}

// Close stops the cache's background goroutines.
func (c *RistrettoCache) Close() {
	c.cache.Close()
}
