// Package noop provides a cache that stores nothing.
package noop

import (
	"context"
	"time"

	"github.com/custodia-labs/topicgap/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.Cache = Cache{}

// Cache always misses.
type Cache struct{}

// Get always reports a miss.
func (Cache) Get(context.Context, string) ([]byte, bool) { return nil, false }

// Set discards the value.
func (Cache) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Delete does nothing.
func (Cache) Delete(context.Context, string) error { return nil }
