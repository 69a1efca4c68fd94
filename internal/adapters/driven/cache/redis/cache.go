// Package redis provides a cache adapter backed by Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/topicgap/internal/core/ports/driven"
	"github.com/custodia-labs/topicgap/internal/logger"
)

// Ensure Cache implements the interface.
var _ driven.Cache = (*Cache)(nil)

// Default configuration values.
const (
	DefaultURL    = "redis://localhost:6379/0"
	DefaultTTL    = time.Hour
	DefaultPrefix = "topicgap:"
)

// Config holds configuration for the Redis cache.
type Config struct {
	// URL is a redis:// or rediss:// connection URL.
	URL string

	// TTL is used when Set is called with a zero ttl (default: 1h).
	TTL time.Duration

	// Prefix namespaces every key (default: "topicgap:").
	Prefix string
}

// Cache stores entries in Redis. Read failures are treated as misses.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, cfg Config) (*Cache, error) {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}

	return &Cache{client: client, ttl: cfg.TTL, prefix: cfg.Prefix}, nil
}

// Get returns the value for key.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Debug("redis cache get %s: %v", key, err)
		}
		return nil, false
	}
	return val, true
}

// Set stores value under key with millisecond expiry.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.ttl
	}
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set: %w", err)
	}
	return nil
}

// Delete removes key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis: delete: %w", err)
	}
	return nil
}

// Close closes the client connection.
func (c *Cache) Close() error {
	return c.client.Close()
}
