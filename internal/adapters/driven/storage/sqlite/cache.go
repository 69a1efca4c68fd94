package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/topicgap/internal/core/ports/driven"
	"github.com/custodia-labs/topicgap/internal/logger"
)

// Ensure Cache implements the interface.
var _ driven.Cache = (*Cache)(nil)

// DefaultCacheTTL is used when CacheConfig.TTL is zero.
const DefaultCacheTTL = 24 * time.Hour

// CacheConfig configures the SQLite cache.
type CacheConfig struct {
	// TTL applies to Set calls with a zero ttl.
	TTL time.Duration

	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
}

// Cache is a driven.Cache persisted in the cache_entries table, so
// scraped pages and embeddings survive between CLI runs.
type Cache struct {
	store *Store
	ttl   time.Duration
	now   func() time.Time
}

func newCache(s *Store, cfg CacheConfig) *Cache {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultCacheTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Cache{store: s, ttl: cfg.TTL, now: cfg.Now}
}

// Get returns the live value for key. Storage errors count as a miss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	var (
		value   []byte
		expires int64
	)
	err := c.store.db.QueryRowContext(ctx,
		"SELECT value, expires_at FROM cache_entries WHERE key = ?", key,
	).Scan(&value, &expires)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logger.Debug("sqlite cache get %q: %v", key, err)
		}
		return nil, false
	}
	if c.now().UnixNano() >= expires {
		_ = c.Delete(ctx, key)
		return nil, false
	}
	return value, true
}

// Set stores value under key for ttl, or the default TTL when zero.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.ttl
	}
	expires := c.now().Add(ttl).UnixNano()
	_, err := c.store.db.ExecContext(ctx, `
		INSERT INTO cache_entries (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at
	`, key, value, expires)
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if _, err := c.store.db.ExecContext(ctx, "DELETE FROM cache_entries WHERE key = ?", key); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// Purge removes every expired entry and reports how many were dropped.
func (c *Cache) Purge(ctx context.Context) (int, error) {
	res, err := c.store.db.ExecContext(ctx,
		"DELETE FROM cache_entries WHERE expires_at <= ?", c.now().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("cache purge: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
