package driven

import (
	"context"

	"github.com/custodia-labs/topicgap/internal/core/domain"
)

// ReportStore persists completed analysis results.
type ReportStore interface {
	// Save stores a result, replacing any result with the same ID.
	Save(ctx context.Context, result *domain.AnalysisResult) error

	// Get retrieves a result by ID. Returns domain.ErrNotFound when absent.
	Get(ctx context.Context, id string) (*domain.AnalysisResult, error)

	// List returns summaries, most recent first. A non-positive limit returns all.
	List(ctx context.Context, limit int) ([]domain.ReportSummary, error)

	// Delete removes a result. Returns domain.ErrNotFound when absent.
	Delete(ctx context.Context, id string) error
}
