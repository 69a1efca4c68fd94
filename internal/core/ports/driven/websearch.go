package driven

import (
	"context"

	"github.com/custodia-labs/topicgap/internal/core/domain"
)

// SearchProvider runs web searches. It is used to discover competitor pages.
// This is an optional service - when nil, competitors must be given explicitly.
type SearchProvider interface {
	// Search returns up to limit organic results for query.
	Search(ctx context.Context, query string, limit int) ([]domain.SearchHit, error)
}
