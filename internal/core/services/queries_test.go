package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/topicgap/internal/core/domain"
)

// stubStrategy returns a fixed answer.
type stubStrategy struct {
	name    string
	queries []string
	err     error
	limits  []int
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Queries(_ context.Context, _ *domain.ScrapedDocument, _ *domain.PrimaryTopic, limit int) ([]string, error) {
	s.limits = append(s.limits, limit)
	return s.queries, s.err
}

func queryDoc() *domain.ScrapedDocument {
	return &domain.ScrapedDocument{
		URL:   "https://example.com/content-marketing",
		Title: "Content Marketing Guide",
		Headings: []domain.Heading{
			{Level: 2, Text: "Email Campaigns"},
		},
		BodyText: "Content marketing works. Content marketing wins. Email campaigns help.",
	}
}

func TestQueryGenerator_FirstNonEmptyStrategyWins(t *testing.T) {
	failing := &stubStrategy{name: "failing", err: errors.New("boom")}
	empty := &stubStrategy{name: "empty", queries: []string{"  ", ""}}
	good := &stubStrategy{name: "good", queries: []string{"seo tips", "SEO  tips", " pricing "}}
	unused := &stubStrategy{name: "unused", queries: []string{"never"}}

	g := NewQueryGenerator(10, failing, empty, good, unused)
	qs, err := g.Generate(context.Background(), queryDoc(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"seo tips", "pricing"}, qs)
	assert.Equal(t, []int{10}, good.limits)
	assert.Empty(t, unused.limits)
}

func TestQueryGenerator_AllStrategiesFail(t *testing.T) {
	g := NewQueryGenerator(5, &stubStrategy{name: "a", err: errors.New("x")}, &stubStrategy{name: "b"})

	_, err := g.Generate(context.Background(), queryDoc(), nil)
	assert.ErrorIs(t, err, domain.ErrNoQueries)
}

func TestQueryGenerator_CapsAtLimit(t *testing.T) {
	g := NewQueryGenerator(2, &stubStrategy{name: "a", queries: []string{"one", "two", "three"}})

	qs, err := g.Generate(context.Background(), queryDoc(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, qs)
}

func TestQueryGenerator_DefaultLimitAndNilDoc(t *testing.T) {
	s := &stubStrategy{name: "a", queries: []string{"q"}}
	g := NewQueryGenerator(0, s)

	_, err := g.Generate(context.Background(), nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = g.Generate(context.Background(), queryDoc(), nil)
	require.NoError(t, err)
	assert.Equal(t, []int{DefaultMaxQueries}, s.limits)
}

func TestNormaliseQueries(t *testing.T) {
	in := []string{"  how  to  write ", "How to write", "", "pricing", "PRICING", "roi"}

	assert.Equal(t, []string{"how to write", "pricing", "roi"}, NormaliseQueries(in, 0))
	assert.Equal(t, []string{"how to write", "pricing"}, NormaliseQueries(in, 2))
	assert.Empty(t, NormaliseQueries(nil, 3))
}

func TestDefaultQueryStrategies(t *testing.T) {
	withoutLLM := DefaultQueryStrategies(nil, nil)
	require.Len(t, withoutLLM, 1)
	assert.Equal(t, "frequency", withoutLLM[0].Name())

	withLLM := DefaultQueryStrategies(&mockLLMService{}, nil)
	require.Len(t, withLLM, 2)
	assert.Equal(t, "llm", withLLM[0].Name())
	assert.Equal(t, "frequency", withLLM[1].Name())
}

func TestLLMQueries(t *testing.T) {
	llm := &mockLLMService{generate: func(string) (string, error) {
		return "```json\n[\"what is content marketing\", \"content marketing examples\"]\n```", nil
	}}
	pt := &domain.PrimaryTopic{Entity: "Content Marketing", CombinedTopic: "Content Marketing for SaaS"}

	qs, err := NewLLMQueries(llm, nil).Queries(context.Background(), queryDoc(), pt, 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"what is content marketing", "content marketing examples"}, qs)

	require.Len(t, llm.prompts, 1)
	prompt := llm.prompts[0]
	assert.Contains(t, prompt, "Generate 7 distinct search queries")
	assert.Contains(t, prompt, `"Content Marketing for SaaS"`)
	assert.Contains(t, prompt, "Page title: Content Marketing Guide")
	assert.Contains(t, prompt, "Email Campaigns")
}

func TestLLMQueries_Failures(t *testing.T) {
	tests := []struct {
		name string
		llm  *mockLLMService
	}{
		{
			name: "generate error",
			llm: &mockLLMService{generate: func(string) (string, error) {
				return "", errors.New("quota exceeded")
			}},
		},
		{
			name: "not json",
			llm: &mockLLMService{generate: func(string) (string, error) {
				return "Here are some queries you could use.", nil
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLLMQueries(tt.llm, nil).Queries(context.Background(), queryDoc(), nil, 5)
			assert.Error(t, err)
		})
	}

	_, err := NewLLMQueries(nil, nil).Queries(context.Background(), queryDoc(), nil, 5)
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestFrequencyQueries(t *testing.T) {
	pt := &domain.PrimaryTopic{Entity: "Content Marketing", CombinedTopic: "Content Marketing Guide"}

	qs, err := FrequencyQueries{}.Queries(context.Background(), queryDoc(), pt, 10)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(qs), 3)

	assert.Equal(t, "Content Marketing Guide", qs[0])
	assert.Equal(t, "Content Marketing", qs[1])
	// The most frequent page phrase follows the topic.
	assert.Equal(t, "content marketing", qs[2])
	assert.Contains(t, qs, "email campaigns")
	for _, q := range qs[2:] {
		assert.Equal(t, strings.ToLower(q), q)
	}
}

func TestFrequencyQueries_NothingFound(t *testing.T) {
	_, err := FrequencyQueries{}.Queries(context.Background(), &domain.ScrapedDocument{BodyText: "ok"}, nil, 10)
	assert.Error(t, err)
}

func TestQueryGenerator_FallsBackToFrequency(t *testing.T) {
	llm := &mockLLMService{generate: func(string) (string, error) {
		return "", errors.New("offline")
	}}
	g := NewQueryGenerator(5, DefaultQueryStrategies(llm, nil)...)

	qs, err := g.Generate(context.Background(), queryDoc(), nil)
	require.NoError(t, err)

	assert.Equal(t, "content marketing", qs[0])
	assert.LessOrEqual(t, len(qs), 5)
	assert.Len(t, llm.prompts, 1)
}
