package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetThenGet(t *testing.T) {
	c := NewMemoryCache(15 * time.Minute)
	ctx := context.Background()

	c.Set(ctx, "k", []string{"a", "b"})

	var got []string
	require.True(t, c.Get(ctx, "k", &got))
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestMemoryCache_MissOnUnknownKey(t *testing.T) {
	c := NewMemoryCache(15 * time.Minute)

	var got string
	assert.False(t, c.Get(context.Background(), "nope", &got))
}

func TestMemoryCache_ExpiryComputedAtReadTime(t *testing.T) {
	c := NewMemoryCache(900 * time.Second)
	ctx := context.Background()

	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set(ctx, "k", 42)

	var got int
	require.True(t, c.Get(ctx, "k", &got))
	assert.Equal(t, 42, got)

	// Advance past the TTL: the entry reads as absent but is still
	// physically present until overwritten.
	c.now = func() time.Time { return now.Add(901 * time.Second) }
	assert.False(t, c.Get(ctx, "k", &got))

	c.mu.RLock()
	_, present := c.entries["k"]
	c.mu.RUnlock()
	assert.True(t, present, "expired entry should linger until overwritten")

	// Overwriting refreshes the capture time.
	c.Set(ctx, "k", 43)
	require.True(t, c.Get(ctx, "k", &got))
	assert.Equal(t, 43, got)
}

func TestMemoryCache_ClearAll(t *testing.T) {
	c := NewMemoryCache(15 * time.Minute)
	ctx := context.Background()

	c.Set(ctx, "a", 1)
	c.Set(ctx, "b", 2)
	c.Clear(ctx)

	var got int
	assert.False(t, c.Get(ctx, "a", &got))
	assert.False(t, c.Get(ctx, "b", &got))
}

func TestMemoryCache_ClearSingleKey(t *testing.T) {
	c := NewMemoryCache(15 * time.Minute)
	ctx := context.Background()

	c.Set(ctx, "a", 1)
	c.Set(ctx, "b", 2)
	c.Clear(ctx, "a")

	var got int
	assert.False(t, c.Get(ctx, "a", &got))
	require.True(t, c.Get(ctx, "b", &got))
	assert.Equal(t, 2, got)
}
