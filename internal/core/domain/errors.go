package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedProvider indicates an unknown provider or backend name.
	ErrUnsupportedProvider = errors.New("unsupported provider")

	// ErrProvider is the kind shared by all external provider failures.
	ErrProvider = errors.New("provider error")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Features requiring LLM (topic override, query generation) fall back to heuristics.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Analysis cannot run without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrScraperUnavailable indicates no scraper strategy is configured.
	ErrScraperUnavailable = errors.New("scraper unavailable")

	// ErrSearchUnavailable indicates no web search provider is configured.
	// Competitor discovery is disabled.
	ErrSearchUnavailable = errors.New("search provider unavailable")

	// Analysis Errors.

	// ErrNoContent indicates a document produced no usable chunks.
	ErrNoContent = errors.New("document has no usable content")

	// ErrNoEmbeddings indicates none of a document's chunks could be embedded.
	ErrNoEmbeddings = errors.New("no chunk embeddings could be generated")

	// ErrNoQueries indicates an analysis was requested without any queries
	// and none could be generated.
	ErrNoQueries = errors.New("no queries to analyse")

	// ErrNoCategories indicates aggregation produced no category scores.
	ErrNoCategories = errors.New("no category scores to report")

	// ErrConfigNotFound indicates an unknown settings key.
	ErrConfigNotFound = errors.New("configuration key not found")
)

// ProviderError reports a failed call to an external provider.
type ProviderError struct {
	// Provider names the collaborator, e.g. "firecrawl" or "openai".
	Provider string

	// Op is the attempted operation, e.g. "scrape" or "embed".
	Op string

	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is makes every ProviderError match ErrProvider.
func (e *ProviderError) Is(target error) bool {
	return target == ErrProvider
}

// EmbeddingError reports a failed embedding call. It is not retried.
type EmbeddingError struct {
	Model string
	Err   error
}

func (e *EmbeddingError) Error() string {
	if e.Model == "" {
		return fmt.Sprintf("embedding failed: %v", e.Err)
	}
	return fmt.Sprintf("embedding failed (%s): %v", e.Model, e.Err)
}

func (e *EmbeddingError) Unwrap() error {
	return e.Err
}

// Is makes every EmbeddingError match ErrProvider.
func (e *EmbeddingError) Is(target error) bool {
	return target == ErrProvider
}

// ScrapeError reports a failed scrape and carries the URL.
type ScrapeError struct {
	URL string
	Err error
}

func (e *ScrapeError) Error() string {
	return fmt.Sprintf("scrape %s: %v", e.URL, e.Err)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// Is makes every ScrapeError match ErrProvider.
func (e *ScrapeError) Is(target error) bool {
	return target == ErrProvider
}

// ParseError reports LLM output that could not be parsed as JSON.
// It is always handled locally by falling back to heuristics.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse LLM response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DimensionMismatchError reports vectors of different lengths being compared.
// It is a contract violation and aborts the analysis.
type DimensionMismatchError struct {
	Left  int
	Right int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("vector dimension mismatch: %d != %d", e.Left, e.Right)
}
