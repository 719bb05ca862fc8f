package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

type entry struct {
	payload    []byte
	capturedAt time.Time
}

// MemoryCache is an in-process TTL cache. Expiry is computed at read
// time; there is no background eviction, and an expired entry stays
// physically present until it is overwritten or cleared.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

var _ Cache = (*MemoryCache)(nil)

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string, dest any) bool {
	c.mu.RLock()
	e, found := c.entries[key]
	c.mu.RUnlock()

	if !found || c.now().Sub(e.capturedAt) > c.ttl {
		return false
	}

	if err := json.Unmarshal(e.payload, dest); err != nil {
		slog.Warn("[Cache] Failed to unmarshal cached payload",
			slog.String("key", key), slog.String("error", err.Error()))
		return false
	}
	return true
}

func (c *MemoryCache) Set(_ context.Context, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		slog.Warn("[Cache] Failed to marshal payload, skipping set",
			slog.String("key", key), slog.String("error", err.Error()))
		return
	}

	c.mu.Lock()
	c.entries[key] = entry{payload: payload, capturedAt: c.now()}
	c.mu.Unlock()
}

func (c *MemoryCache) Clear(_ context.Context, keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(keys) == 0 {
		c.entries = make(map[string]entry)
		return
	}
	for _, key := range keys {
		delete(c.entries, key)
	}
}
