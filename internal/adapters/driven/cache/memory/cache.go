// Package memory provides an in-process TTL cache.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/topicgap/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.Cache = (*Cache)(nil)

// Default configuration values.
const (
	DefaultTTL           = time.Hour
	DefaultSweepInterval = time.Minute
)

// Config holds configuration for the memory cache.
type Config struct {
	// TTL is used when Set is called with a zero ttl (default: 1h).
	TTL time.Duration

	// SweepInterval is how often Start's janitor evicts expired entries
	// (default: 1m).
	SweepInterval time.Duration

	// Now returns the current time (default: time.Now).
	Now func() time.Time
}

type entry struct {
	value   []byte
	expires time.Time
}

// Cache is a map-backed cache. Expired entries are never returned; the
// janitor started by Start only reclaims memory.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	sweep   time.Duration
	now     func() time.Time

	lifecycle sync.Mutex
	stop      chan struct{}
	done      chan struct{}
}

// New creates a memory cache. Call Start to run the janitor.
func New(cfg Config) *Cache {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultSweepInterval
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Cache{
		entries: make(map[string]entry),
		ttl:     cfg.TTL,
		sweep:   cfg.SweepInterval,
		now:     cfg.Now,
	}
}

// Get returns the value for key if present and unexpired.
func (c *Cache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expires) {
		c.mu.Lock()
		if cur, ok := c.entries[key]; ok && cur.expires.Equal(e.expires) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, true
}

// Set stores a copy of value under key.
func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.ttl
	}
	stored := make([]byte, len(value))
	copy(stored, value)

	c.mu.Lock()
	c.entries[key] = entry{value: stored, expires: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

// Delete removes key.
func (c *Cache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Sweep evicts every expired entry and returns how many were removed.
func (c *Cache) Sweep() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Start launches the janitor. Calling Start on a running cache is a no-op.
func (c *Cache) Start() {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()
	if c.stop != nil {
		return
	}
	c.stop = make(chan struct{})
	c.done = make(chan struct{})
	go c.janitor(c.stop, c.done)
}

// Stop halts the janitor and waits for it to exit. Safe to call repeatedly.
func (c *Cache) Stop() {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()
	if c.stop == nil {
		return
	}
	close(c.stop)
	<-c.done
	c.stop = nil
	c.done = nil
}

func (c *Cache) janitor(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(c.sweep)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}
