// Package dedupe drops repeated chunks, such as boilerplate blocks that
// scrapers return once per page section.
package dedupe

import (
	"context"
	"strings"

	"github.com/custodia-labs/topicgap/internal/core/domain"
)

// Processor removes chunks whose normalised text was already seen.
// It implements the PostProcessor interface.
type Processor struct{}

// New creates a dedupe processor.
func New() *Processor {
	return &Processor{}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "dedupe"
}

// Process keeps the first occurrence of each chunk and renumbers the result.
func (p *Processor) Process(_ context.Context, _ *domain.ScrapedDocument, chunks []domain.ContentChunk) ([]domain.ContentChunk, error) {
	if len(chunks) == 0 {
		return chunks, nil
	}

	seen := make(map[string]struct{}, len(chunks))
	out := make([]domain.ContentChunk, 0, len(chunks))
	for _, c := range chunks {
		key := strings.ToLower(strings.Join(strings.Fields(c.Content), " "))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		c.Index = len(out)
		out = append(out, c)
	}
	return out, nil
}
