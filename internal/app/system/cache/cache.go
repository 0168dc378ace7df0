// Package cache is a small TTL cache for read-mostly public documents.
package cache

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

// Cache wraps ristretto with a fixed TTL. A zero TTL disables caching and
// every Get misses.
type Cache struct {
	client *ristretto.Cache
	ttl    time.Duration
}

// New creates a cache sized for a handful of small entries.
func New(ttl time.Duration) (*Cache, error) {
	if ttl <= 0 {
		return &Cache{}, nil
	}
	client, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1000,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	return &Cache{client: client, ttl: ttl}, nil
}

// Get returns the cached value for key.
func (c *Cache) Get(key string) (any, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	return c.client.Get(key)
}

// Set stores value with a cost of one. ristretto applies sets
// asynchronously, so Set waits for the write to become visible.
func (c *Cache) Set(key string, value any) {
	if c == nil || c.client == nil {
		return
	}
	if c.client.SetWithTTL(key, value, 1, c.ttl) {
		c.client.Wait()
	}
}

// Delete removes key.
func (c *Cache) Delete(key string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(key)
}

// Close stops the cache goroutines.
func (c *Cache) Close() {
	if c != nil && c.client != nil {
		c.client.Close()
	}
}

// Enabled reports whether values are retained at all.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}
