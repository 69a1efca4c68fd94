// Package langchain provides an embedding service adapter backed by
// langchaingo, for OpenAI-compatible servers such as OpenRouter.
package langchain

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/custodia-labs/topicgap/internal/core/domain"
	"github.com/custodia-labs/topicgap/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultModel is the embedding model used when none is configured.
const DefaultModel = "text-embedding-3-small"

// Config holds configuration for the langchaingo embedding service.
type Config struct {
	// APIKey is the bearer token (required). A "Bearer " prefix is tolerated.
	APIKey string

	// BaseURL is the OpenAI-compatible API base URL.
	BaseURL string

	// Model is the embedding model name.
	Model string

	// Dimensions is the embedding vector size.
	Dimensions int
}

// EmbeddingService generates embeddings through a langchaingo embedder.
type EmbeddingService struct {
	embedder   embeddings.Embedder
	model      string
	dimensions int
}

// NewEmbeddingService creates a new langchaingo embedding service.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("langchain: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = domain.EmbeddingDimensions()[cfg.Model]
	}

	opts := []openai.Option{
		openai.WithToken(strings.TrimPrefix(cfg.APIKey, "Bearer ")),
		openai.WithEmbeddingModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("langchain: create client: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("langchain: create embedder: %w", err)
	}

	return NewWithEmbedder(embedder, cfg.Model, cfg.Dimensions), nil
}

// NewWithEmbedder wraps an existing langchaingo embedder.
func NewWithEmbedder(embedder embeddings.Embedder, model string, dimensions int) *EmbeddingService {
	return &EmbeddingService{
		embedder:   embedder,
		model:      model,
		dimensions: dimensions,
	}
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := s.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, &domain.ProviderError{Provider: "langchain", Op: "embed", Err: err}
	}
	return vec, nil
}

// EmbedBatch generates embeddings for multiple texts.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	vecs, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, &domain.ProviderError{Provider: "langchain", Op: "embed", Err: err}
	}
	if len(vecs) != len(texts) {
		return nil, &domain.ProviderError{
			Provider: "langchain",
			Op:       "embed",
			Err:      fmt.Errorf("expected %d embeddings, got %d", len(texts), len(vecs)),
		}
	}
	return vecs, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping embeds a short probe string.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if _, err := s.embedder.EmbedQuery(ctx, "ping"); err != nil {
		return fmt.Errorf("langchain: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
