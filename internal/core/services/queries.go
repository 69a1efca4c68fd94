package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/topicgap/internal/core/domain"
	"github.com/custodia-labs/topicgap/internal/core/llmjson"
	"github.com/custodia-labs/topicgap/internal/core/ports/driven"
	"github.com/custodia-labs/topicgap/internal/core/prompts"
	"github.com/custodia-labs/topicgap/internal/core/topic"
	"github.com/custodia-labs/topicgap/internal/logger"
)

// DefaultMaxQueries caps generated queries when no limit is configured.
const DefaultMaxQueries = 20

// QueryStrategy derives search queries from a page.
type QueryStrategy interface {
	// Name identifies the strategy in logs.
	Name() string

	// Queries returns up to limit queries for doc. The primary topic may be nil.
	Queries(ctx context.Context, doc *domain.ScrapedDocument, pt *domain.PrimaryTopic, limit int) ([]string, error)
}

// QueryGenerator tries its strategies in order and keeps the first
// non-empty answer.
type QueryGenerator struct {
	strategies []QueryStrategy
	limit      int
}

// NewQueryGenerator creates a generator capped at limit queries.
func NewQueryGenerator(limit int, strategies ...QueryStrategy) *QueryGenerator {
	if limit <= 0 {
		limit = DefaultMaxQueries
	}
	return &QueryGenerator{strategies: strategies, limit: limit}
}

// DefaultQueryStrategies returns the LLM strategy (when llm is set)
// followed by the frequency strategy.
func DefaultQueryStrategies(llm driven.LLMService, store driven.PromptStore) []QueryStrategy {
	var out []QueryStrategy
	if llm != nil {
		out = append(out, NewLLMQueries(llm, store))
	}
	return append(out, FrequencyQueries{})
}

// Generate returns deduplicated queries for doc, or domain.ErrNoQueries.
func (g *QueryGenerator) Generate(
	ctx context.Context, doc *domain.ScrapedDocument, pt *domain.PrimaryTopic,
) ([]string, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: document is nil", domain.ErrInvalidInput)
	}
	for _, s := range g.strategies {
		qs, err := s.Queries(ctx, doc, pt, g.limit)
		if err != nil {
			logger.Warn("Query strategy %s failed: %v", s.Name(), err)
			continue
		}
		if qs = NormaliseQueries(qs, g.limit); len(qs) > 0 {
			logger.Info("Generated %d queries with %s", len(qs), s.Name())
			return qs, nil
		}
		logger.Debug("Query strategy %s returned nothing", s.Name())
	}
	return nil, domain.ErrNoQueries
}

// NormaliseQueries trims and collapses whitespace, drops empty and
// case-insensitive duplicate queries, and caps the result at limit.
// A non-positive limit keeps everything.
func NormaliseQueries(queries []string, limit int) []string {
	return dedupeLines(queries, limit)
}

func dedupeLines(lines []string, limit int) []string {
	seen := make(map[string]bool, len(lines))
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		l = strings.Join(strings.Fields(l), " ")
		key := strings.ToLower(l)
		if l == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, l)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// LLMQueries asks the LLM for a JSON array of queries.
type LLMQueries struct {
	llm     driven.LLMService
	prompts driven.PromptStore
}

// NewLLMQueries creates the LLM query strategy.
func NewLLMQueries(llm driven.LLMService, store driven.PromptStore) *LLMQueries {
	return &LLMQueries{llm: llm, prompts: store}
}

// Name returns "llm".
func (s *LLMQueries) Name() string { return "llm" }

// Queries implements QueryStrategy. A response that is not a JSON array
// of strings is an error.
func (s *LLMQueries) Queries(
	ctx context.Context, doc *domain.ScrapedDocument, pt *domain.PrimaryTopic, limit int,
) ([]string, error) {
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	data := prompts.QueryData{
		Title:    doc.Title,
		Headings: doc.HeadingTexts(),
		Body:     truncate(doc.BodyText, 3000),
		Count:    limit,
	}
	if pt != nil {
		data.Topic = pt.SearchPhrase()
	}
	prompt, err := prompts.Load(s.prompts, driven.PromptQueryGeneration, data)
	if err != nil {
		return nil, err
	}

	raw, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{MaxTokens: 800, Temperature: 0.3})
	if err != nil {
		return nil, fmt.Errorf("generate queries: %w", err)
	}

	res := llmjson.Parse[[]string](raw)
	if !res.OK() {
		return nil, res.Err
	}
	return res.Value, nil
}

// FrequencyQueries builds queries from the primary topic and the most
// frequent phrases of the page.
type FrequencyQueries struct{}

// Name returns "frequency".
func (FrequencyQueries) Name() string { return "frequency" }

// Queries implements QueryStrategy. It never fails.
func (FrequencyQueries) Queries(
	_ context.Context, doc *domain.ScrapedDocument, pt *domain.PrimaryTopic, limit int,
) ([]string, error) {
	var out []string
	if pt != nil {
		out = append(out, pt.SearchPhrase(), pt.Entity)
	}

	parts := append([]string{doc.Title}, doc.HeadingTexts()...)
	parts = append(parts, doc.BodyText)
	text := strings.Join(parts, ".\n")

	for _, p := range topic.FrequentPhrases(text, 1, limit) {
		out = append(out, strings.ToLower(p.Text))
	}
	if len(out) == 0 {
		return nil, errors.New("no phrases found")
	}
	return out, nil
}
