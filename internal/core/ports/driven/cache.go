package driven

import (
	"context"
	"time"
)

// Cache is an advisory key-value cache for derived data such as
// embeddings and scraped pages. Every caller must work correctly
// with a permanently empty cache.
//
// Concurrent writes to the same key are last-write-wins.
type Cache interface {
	// Get returns the cached value and true, or nil and false when absent or expired.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value under key for ttl. A zero ttl uses the cache default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
