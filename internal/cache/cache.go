// Package cache stores sentence judgments so repeated text skips the LLM.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/model"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key builds a cache key from its parts. Parts are length-prefixed so
// ("ab","c") and ("a","bc") never collide.
func Key(parts ...string) string {
	h := sha256.New()
	var lenBuf [8]byte
	for _, p := range parts {
		n := uint64(len(p))
		for i := range lenBuf {
			lenBuf[i] = byte(n >> (8 * i))
		}
		h.Write(lenBuf[:])
		h.Write([]byte(p))
	}
	return "humanizer:v1:" + hex.EncodeToString(h.Sum(nil))
}

// New builds the cache described by cfg. It returns nil when caching is
// disabled. A DiskDir adds a persistent layer behind the memory cache.
func New(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return nil
	}

	ttl := time.Duration(cfg.TTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = time.Hour
	}

	if cfg.DiskDir == "" {
		return NewMemoryCache(ttl, 10*time.Minute)
	}
	return NewLayeredCache(ttl, cfg.DiskDir, ttl)
}
