package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestCache() (*Cache, *clock) {
	clk := &clock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	return New(Config{TTL: time.Minute, Now: clk.Now}), clk
}

func TestGetSet(t *testing.T) {
	c, _ := newTestCache()
	ctx := context.Background()

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	v, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), v)
}

func TestExpiry(t *testing.T) {
	c, clk := newTestCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "default", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "short", []byte("2"), 10*time.Second))

	clk.Advance(10 * time.Second)
	_, ok := c.Get(ctx, "short")
	assert.False(t, ok, "entry expires exactly at its deadline")
	_, ok = c.Get(ctx, "default")
	assert.True(t, ok)

	clk.Advance(50 * time.Second)
	_, ok = c.Get(ctx, "default")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestLastWriteWins(t *testing.T) {
	c, _ := newTestCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("a"), 0))
	require.NoError(t, c.Set(ctx, "k", []byte("b"), 0))
	v, _ := c.Get(ctx, "k")
	assert.Equal(t, []byte("b"), v)
}

func TestValuesAreCopied(t *testing.T) {
	c, _ := newTestCache()
	ctx := context.Background()

	buf := []byte("abc")
	require.NoError(t, c.Set(ctx, "k", buf, 0))
	buf[0] = 'z'

	v, _ := c.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), v)
	v[1] = 'z'
	v2, _ := c.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), v2)
}

func TestDelete(t *testing.T) {
	c, _ := newTestCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, c.Delete(ctx, "k"))
	require.NoError(t, c.Delete(ctx, "missing"))
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestSweep(t *testing.T) {
	c, clk := newTestCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", []byte("1"), time.Second))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), time.Hour))
	clk.Advance(time.Minute)

	assert.Equal(t, 1, c.Sweep())
	assert.Equal(t, 1, c.Len())
}

func TestStartStop(t *testing.T) {
	clk := &clock{now: time.Now()}
	c := New(Config{TTL: time.Millisecond, SweepInterval: 5 * time.Millisecond, Now: clk.Now})

	c.Start()
	c.Start()
	require.NoError(t, c.Set(context.Background(), "k", []byte("v"), 0))
	clk.Advance(time.Second)

	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)

	c.Stop()
	c.Stop()
}
