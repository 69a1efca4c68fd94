package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func TestCache_SetGetExpire(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	cache := setupTestStore(t).Cache(CacheConfig{TTL: time.Hour, Now: clock.Now})

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), 0))

	got, ok := cache.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	clock.now = clock.now.Add(time.Hour)
	_, ok = cache.Get(ctx, "k")
	assert.False(t, ok)
}

func TestCache_CustomTTLAndOverwrite(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	cache := setupTestStore(t).Cache(CacheConfig{Now: clock.Now})

	require.NoError(t, cache.Set(ctx, "k", []byte("one"), time.Minute))
	require.NoError(t, cache.Set(ctx, "k", []byte("two"), 2*time.Minute))

	clock.now = clock.now.Add(90 * time.Second)
	got, ok := cache.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("two"), got)
}

func TestCache_DeleteAndMiss(t *testing.T) {
	ctx := context.Background()
	cache := setupTestStore(t).Cache(CacheConfig{})

	_, ok := cache.Get(ctx, "absent")
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, cache.Delete(ctx, "k"))
	require.NoError(t, cache.Delete(ctx, "k"))

	_, ok = cache.Get(ctx, "k")
	assert.False(t, ok)
}

func TestCache_Purge(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	cache := setupTestStore(t).Cache(CacheConfig{Now: clock.Now})

	require.NoError(t, cache.Set(ctx, "short", []byte("a"), time.Minute))
	require.NoError(t, cache.Set(ctx, "long", []byte("b"), time.Hour))

	clock.now = clock.now.Add(2 * time.Minute)
	n, err := cache.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, ok := cache.Get(ctx, "long")
	assert.True(t, ok)
}
