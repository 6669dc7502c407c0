package cache

import (
	"errors"
	"time"
)

// LayeredCache puts a memory cache in front of a persistent one
type LayeredCache struct {
	memory     Cache
	persistent Cache
}

// NewLayeredCache creates a new layered cache
func NewLayeredCache(memory Cache, persistent Cache) *LayeredCache {
	return &LayeredCache{
		memory:     memory,
		persistent: persistent,
	}
}

// Get retrieves a value from the cache (checks memory first, then the persistent layer)
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	// Check memory cache first
	if val, found := c.memory.Get(key); found {
		return val, true
	}

	// Check persistent cache
	if val, found := c.persistent.Get(key); found {
		// Promote to memory cache with its default TTL
		_ = c.memory.Set(key, val, 0)
		return val, true
	}

	return nil, false
}

// Set stores a value in both layers
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	// Store in memory
	if err := c.memory.Set(key, value, ttl); err != nil {
		return err
	}

	// Store in the persistent layer
	return c.persistent.Set(key, value, ttl)
}

// Delete removes a value from both layers
func (c *LayeredCache) Delete(key string) error {
	return errors.Join(c.memory.Delete(key), c.persistent.Delete(key))
}

// Clear removes all values from both layers
func (c *LayeredCache) Clear() error {
	return errors.Join(c.memory.Clear(), c.persistent.Clear())
}

// Close closes both layers
func (c *LayeredCache) Close() error {
	return errors.Join(c.memory.Close(), c.persistent.Close())
}
