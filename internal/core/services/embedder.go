package services

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/custodia-labs/topicgap/internal/core/domain"
	"github.com/custodia-labs/topicgap/internal/core/ports/driven"
)

// MaxEmbeddingInput is the longest text, in characters, sent for embedding.
// Longer input is truncated.
const MaxEmbeddingInput = 8000

// Embedder turns text into tagged embedding vectors. It does not retry
// or cache; wrap the EmbeddingService for that.
type Embedder struct {
	service driven.EmbeddingService
}

// NewEmbedder creates an embedder over service.
func NewEmbedder(service driven.EmbeddingService) *Embedder {
	return &Embedder{service: service}
}

// Embed embeds text, truncated to MaxEmbeddingInput characters.
// Failures are returned as *domain.EmbeddingError.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingVector, error) {
	if e.service == nil {
		return domain.EmbeddingVector{}, &domain.EmbeddingError{Err: domain.ErrEmbeddingUnavailable}
	}

	text = truncate(text, MaxEmbeddingInput)
	model := e.service.ModelName()

	values, err := e.service.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingVector{}, &domain.EmbeddingError{Model: model, Err: err}
	}
	if len(values) == 0 {
		return domain.EmbeddingVector{}, &domain.EmbeddingError{Model: model, Err: errors.New("empty embedding")}
	}

	return domain.EmbeddingVector{Values: values, Model: model, Source: text}, nil
}

// truncate returns the first n runes of s.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
