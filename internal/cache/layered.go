package cache

import (
	"errors"
	"time"
)

// LayeredCache keeps a short-lived memory tier in front of the disk cache.
// An entry never outlives its disk copy in memory.
type LayeredCache struct {
	memory    *MemoryCache
	disk      *DiskCache
	memoryTTL time.Duration
}

// NewLayeredCache creates a memory tier capped at memoryTTL over a disk
// tier in diskDir whose entries default to diskTTL
func NewLayeredCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredCache {
	return &LayeredCache{
		memory:    NewMemoryCache(memoryTTL, 10*time.Minute),
		disk:      NewDiskCache(diskDir, diskTTL),
		memoryTTL: memoryTTL,
	}
}

// Get checks memory, then disk. Disk hits are promoted for the shorter of
// the memory TTL and the entry's remaining lifetime.
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, found := c.memory.Get(key); found {
		return val, true
	}

	val, expiresAt, found := c.disk.GetWithExpiry(key)
	if !found {
		return nil, false
	}
	if ttl := c.memoryTier(time.Until(expiresAt)); ttl > 0 {
		_ = c.memory.Set(key, val, ttl)
	}
	return val, true
}

// Set writes disk first so memory never holds a value that failed to persist
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := c.disk.Set(key, value, ttl); err != nil {
		return err
	}

	if ttl == 0 {
		ttl = c.disk.ttl
	}
	return c.memory.Set(key, value, c.memoryTier(ttl))
}

// Delete removes a value from both tiers
func (c *LayeredCache) Delete(key string) error {
	return errors.Join(c.memory.Delete(key), c.disk.Delete(key))
}

// Clear removes all values from both tiers
func (c *LayeredCache) Clear() error {
	return errors.Join(c.memory.Clear(), c.disk.Clear())
}

// memoryTier caps ttl at the memory TTL
func (c *LayeredCache) memoryTier(ttl time.Duration) time.Duration {
	if c.memoryTTL > 0 && (ttl <= 0 || ttl > c.memoryTTL) {
		return c.memoryTTL
	}
	return ttl
}
