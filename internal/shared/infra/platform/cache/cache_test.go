package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, at *time.Time) *InMemoryCache {
	t.Helper()
	c := NewInMemoryCache(time.Minute, time.Hour)
	c.now = func() time.Time { return *at }
	t.Cleanup(c.Stop)
	return c
}

func TestInMemoryCache_SetGetDelete(t *testing.T) {
	// ARRANGE
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	c := newTestCache(t, &now)
	ctx := context.Background()

	// ACT
	require.NoError(t, c.Set(ctx, "task:1", true, 0))
	var done bool
	hit, err := c.Get(ctx, "task:1", &done)

	// ASSERT
	require.NoError(t, err)
	assert.True(t, hit)
	assert.True(t, done)

	require.NoError(t, c.Delete(ctx, "task:1"))
	hit, err = c.Get(ctx, "task:1", &done)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestInMemoryCache_Expiry(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	c := newTestCache(t, &now)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", "x", 10))
	require.NoError(t, c.Set(ctx, "default", "y", 0))

	now = now.Add(30 * time.Second)
	var v string
	hit, _ := c.Get(ctx, "short", &v)
	assert.False(t, hit, "explicit TTL should have expired")
	hit, _ = c.Get(ctx, "default", &v)
	assert.True(t, hit, "default TTL is one minute")

	c.sweep()
	assert.Equal(t, 1, c.Len())
}

func TestInMemoryCache_StopIsIdempotent(t *testing.T) {
	c := NewInMemoryCache(time.Minute, time.Millisecond)
	c.Stop()
	assert.NotPanics(t, c.Stop)
}
