package cache

import (
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache keeps values of one type in process memory with expiry
type MemoryCache[V any] struct {
	cache  *gocache.Cache
	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemoryCache creates a memory cache. A zero ttl means entries never expire.
func NewMemoryCache[V any](defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache[V] {
	if defaultTTL <= 0 {
		defaultTTL = gocache.NoExpiration
	}
	return &MemoryCache[V]{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a value from the cache
func (c *MemoryCache[V]) Get(key string) (V, bool) {
	if val, found := c.cache.Get(key); found {
		if v, ok := val.(V); ok {
			c.hits.Add(1)
			return v, true
		}
	}
	c.misses.Add(1)
	var zero V
	return zero, false
}

// Set stores a value; ttl 0 uses the cache default
func (c *MemoryCache[V]) Set(key string, value V, ttl time.Duration) error {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	c.cache.Set(key, value, ttl)
	return nil
}

// Delete removes a value from the cache
func (c *MemoryCache[V]) Delete(key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear removes all values from the cache
func (c *MemoryCache[V]) Clear() error {
	c.cache.Flush()
	return nil
}

// Stats returns hit and miss counters
func (c *MemoryCache[V]) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
