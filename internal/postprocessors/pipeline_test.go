package postprocessors

import (
	"context"
	"errors"
	"testing"

	"github.com/custodia-labs/topicgap/internal/core/domain"
	"github.com/custodia-labs/topicgap/internal/postprocessors/chunker"
)

// mockProcessor is a test processor that returns predefined chunks.
type mockProcessor struct {
	name   string
	chunks []domain.ContentChunk
	err    error
}

func (m *mockProcessor) Name() string {
	return m.name
}

func (m *mockProcessor) Process(_ context.Context, _ *domain.ScrapedDocument, chunks []domain.ContentChunk) ([]domain.ContentChunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.chunks != nil {
		return m.chunks, nil
	}
	return chunks, nil
}

func TestNewPipeline(t *testing.T) {
	p := NewPipeline()
	if p == nil {
		t.Fatal("expected non-nil pipeline")
	}
	if p.Len() != 0 {
		t.Errorf("expected 0 processors, got %d", p.Len())
	}
}

func TestPipeline_Add(t *testing.T) {
	p := NewPipeline()
	p.Add(&mockProcessor{name: "test"})

	if p.Len() != 1 {
		t.Errorf("expected 1 processor, got %d", p.Len())
	}
}

func TestPipeline_Process_NilDocument(t *testing.T) {
	p := NewPipeline()

	_, err := p.Process(context.Background(), nil)
	if err == nil {
		t.Error("expected error for nil document")
	}
}

func TestPipeline_Process_EmptyPipeline(t *testing.T) {
	p := NewPipeline()
	doc := &domain.ScrapedDocument{
		URL:      "https://example.com/",
		BodyText: "test content",
	}

	chunks, err := p.Process(context.Background(), doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chunks != nil {
		t.Errorf("expected nil chunks from empty pipeline, got %v", chunks)
	}
}

func TestPipeline_Process_SingleProcessor(t *testing.T) {
	expectedChunks := []domain.ContentChunk{
		{Index: 0, Content: "test"},
	}

	p := NewPipeline(&mockProcessor{
		name:   "chunker",
		chunks: expectedChunks,
	})

	doc := &domain.ScrapedDocument{
		URL:      "https://example.com/",
		BodyText: "test content",
	}

	chunks, err := p.Process(context.Background(), doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(chunks) != len(expectedChunks) {
		t.Errorf("expected %d chunks, got %d", len(expectedChunks), len(chunks))
	}
}

func TestPipeline_Process_MultipleProcessors(t *testing.T) {
	firstChunks := []domain.ContentChunk{
		{Index: 0, Content: "first"},
	}
	secondChunks := []domain.ContentChunk{
		{Index: 0, Content: "modified"},
		{Index: 1, Content: "added"},
	}

	p := NewPipeline(
		&mockProcessor{name: "first", chunks: firstChunks},
		&mockProcessor{name: "second", chunks: secondChunks},
	)

	doc := &domain.ScrapedDocument{
		URL:      "https://example.com/",
		BodyText: "test content",
	}

	chunks, err := p.Process(context.Background(), doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(chunks) != len(secondChunks) {
		t.Errorf("expected %d chunks, got %d", len(secondChunks), len(chunks))
	}
}

func TestPipeline_Process_ProcessorError(t *testing.T) {
	expectedErr := errors.New("processor failed")

	p := NewPipeline(&mockProcessor{
		name: "failing",
		err:  expectedErr,
	})

	doc := &domain.ScrapedDocument{
		URL:      "https://example.com/",
		BodyText: "test content",
	}

	_, err := p.Process(context.Background(), doc)
	if err == nil {
		t.Error("expected error from failing processor")
	}
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected wrapped error, got: %v", err)
	}
}

func TestPipeline_Process_PassthroughProcessor(t *testing.T) {
	initialChunks := []domain.ContentChunk{
		{Index: 0, Content: "test"},
	}

	p := NewPipeline(
		&mockProcessor{name: "chunker", chunks: initialChunks},
		&mockProcessor{name: "passthrough"}, // Returns received chunks unchanged
	)

	doc := &domain.ScrapedDocument{
		URL:      "https://example.com/",
		BodyText: "test content",
	}

	chunks, err := p.Process(context.Background(), doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(chunks) != len(initialChunks) {
		t.Errorf("expected %d chunks, got %d", len(initialChunks), len(chunks))
	}
}

func TestBuildPipeline_Defaults(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	p, err := BuildPipeline(r, domain.DefaultPipelineConfig())
	if err != nil {
		t.Fatalf("BuildPipeline failed: %v", err)
	}
	if p.Len() != 1 {
		t.Fatalf("expected 1 processor, got %d", p.Len())
	}

	para := "Search engines reward pages that answer the questions people actually ask about a topic."
	doc := &domain.ScrapedDocument{
		URL:      "https://example.com/",
		BodyText: para + "\n\nShort.\n\n" + para,
	}

	chunks, err := p.Process(context.Background(), doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Indices must match the chunker's own split so match indices stay
	// addressable.
	want := chunker.New().Split(doc.BodyText)
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d", len(want), len(chunks))
	}
	for i, c := range chunks {
		if c.Index != i || c.Content != want[i] {
			t.Errorf("chunk %d: got %+v, want index %d content %q", i, c, i, want[i])
		}
	}
}

func TestBuildPipeline_DedupeOptIn(t *testing.T) {
	p, err := BuildPipeline(NewDefaultRegistry(), domain.PipelineConfig{Processors: []string{ChunkerName, DedupeName}})
	if err != nil {
		t.Fatalf("BuildPipeline failed: %v", err)
	}

	para := "Search engines reward pages that answer the questions people actually ask about a topic."
	doc := &domain.ScrapedDocument{
		URL:      "https://example.com/",
		BodyText: para + "\n\nShort.\n\n" + para,
	}

	chunks, err := p.Process(context.Background(), doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected duplicate and short chunks removed, got %d chunks", len(chunks))
	}
	if chunks[0].Content != para || chunks[0].Index != 0 {
		t.Errorf("unexpected chunk: %+v", chunks[0])
	}
}

func TestBuildPipeline_UnknownProcessor(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	_, err := BuildPipeline(r, domain.PipelineConfig{Processors: []string{"stemmer"}})
	if err == nil {
		t.Error("expected error for unknown processor")
	}
}

func TestBuildPipeline_RequiresProducerFirst(t *testing.T) {
	_, err := BuildPipeline(NewDefaultRegistry(), domain.PipelineConfig{Processors: []string{DedupeName, ChunkerName}})

	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestBuildPipeline_Empty(t *testing.T) {
	_, err := BuildPipeline(NewDefaultRegistry(), domain.PipelineConfig{})

	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
