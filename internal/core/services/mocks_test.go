package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/topicgap/internal/core/domain"
	"github.com/custodia-labs/topicgap/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService returns fixed vectors per text.
type mockEmbeddingService struct {
	mu         sync.Mutex
	vectors    map[string][]float32
	errs       map[string]error
	defaultVec []float32
	calls      []string
}

func newMockEmbeddingService() *mockEmbeddingService {
	return &mockEmbeddingService{
		vectors:    map[string][]float32{},
		errs:       map[string]error{},
		defaultVec: []float32{0, 0, 1},
	}
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, text)
	if err, ok := m.errs[text]; ok {
		return nil, err
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return m.defaultVec, nil
}

func (m *mockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int            { return 3 }
func (m *mockEmbeddingService) ModelName() string          { return "mock-embed" }
func (m *mockEmbeddingService) Ping(context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error               { return nil }

// mockLLMService answers every prompt through generate.
type mockLLMService struct {
	mu       sync.Mutex
	generate func(prompt string) (string, error)
	prompts  []string
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	if m.generate == nil {
		return "", errors.New("no response configured")
	}
	return m.generate(prompt)
}

func (m *mockLLMService) Chat(context.Context, []driven.ChatMessage, driven.ChatOptions) (string, error) {
	return "", errors.New("not implemented")
}

func (m *mockLLMService) ModelName() string          { return "mock-llm" }
func (m *mockLLMService) Ping(context.Context) error { return nil }
func (m *mockLLMService) Close() error               { return nil }

// mockScraper serves documents by URL.
type mockScraper struct {
	mu    sync.Mutex
	docs  map[string]*domain.ScrapedDocument
	calls []string
}

func newMockScraper(docs ...*domain.ScrapedDocument) *mockScraper {
	m := &mockScraper{docs: map[string]*domain.ScrapedDocument{}}
	for _, d := range docs {
		m.docs[d.URL] = d
	}
	return m
}

func (m *mockScraper) Name() string { return "mock" }

func (m *mockScraper) Scrape(_ context.Context, url string) (*domain.ScrapedDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, url)
	if d, ok := m.docs[url]; ok {
		return d, nil
	}
	return nil, &domain.ScrapeError{URL: url, Err: errors.New("404")}
}

// mockSearchProvider returns fixed hits.
type mockSearchProvider struct {
	hits    []domain.SearchHit
	err     error
	queries []string
	limits  []int
}

func (m *mockSearchProvider) Search(_ context.Context, query string, limit int) ([]domain.SearchHit, error) {
	m.queries = append(m.queries, query)
	m.limits = append(m.limits, limit)
	if m.err != nil {
		return nil, m.err
	}
	return m.hits, nil
}

// paragraphPipeline makes one chunk per blank-line separated paragraph.
type paragraphPipeline struct{}

func (paragraphPipeline) Process(_ context.Context, doc *domain.ScrapedDocument) ([]domain.ContentChunk, error) {
	var chunks []domain.ContentChunk
	for _, p := range strings.Split(doc.BodyText, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			chunks = append(chunks, domain.ContentChunk{Index: len(chunks), Content: p})
		}
	}
	return chunks, nil
}

// failingReportStore rejects every write.
type failingReportStore struct{}

func (failingReportStore) Save(context.Context, *domain.AnalysisResult) error {
	return errors.New("disk full")
}

func (failingReportStore) Get(context.Context, string) (*domain.AnalysisResult, error) {
	return nil, domain.ErrNotFound
}

func (failingReportStore) List(context.Context, int) ([]domain.ReportSummary, error) {
	return nil, nil
}

func (failingReportStore) Delete(context.Context, string) error {
	return domain.ErrNotFound
}

// sleepRecorder records requested sleeps without waiting.
type sleepRecorder struct {
	mu     sync.Mutex
	sleeps []time.Duration
	err    error
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sleeps = append(s.sleeps, d)
	return s.err
}

func (s *sleepRecorder) recorded() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.sleeps...)
}

// mockAIConfigValidator records validation calls.
type mockAIConfigValidator struct {
	embeddingErr error
	llmErr       error
	embedded     *domain.EmbeddingSettings
	llm          *domain.LLMSettings
}

func (m *mockAIConfigValidator) ValidateEmbedding(cfg *domain.EmbeddingSettings) error {
	m.embedded = cfg
	return m.embeddingErr
}

func (m *mockAIConfigValidator) ValidateLLM(cfg *domain.LLMSettings) error {
	m.llm = cfg
	return m.llmErr
}
