package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/topicgap/internal/core/domain"
	"github.com/custodia-labs/topicgap/internal/core/ports/driven"
	"github.com/custodia-labs/topicgap/internal/core/ports/driving"
)

// Ensure ReportService implements the interface.
var _ driving.ReportService = (*ReportService)(nil)

// ReportService gives access to stored analysis results.
type ReportService struct {
	store driven.ReportStore
}

// NewReportService creates a report service.
func NewReportService(store driven.ReportStore) *ReportService {
	return &ReportService{store: store}
}

// Get retrieves a stored result by ID.
func (s *ReportService) Get(ctx context.Context, id string) (*domain.AnalysisResult, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: report id is required", domain.ErrInvalidInput)
	}
	return s.store.Get(ctx, id)
}

// List returns stored result summaries, most recent first.
func (s *ReportService) List(ctx context.Context, limit int) ([]domain.ReportSummary, error) {
	return s.store.List(ctx, limit)
}

// Delete removes a stored result.
func (s *ReportService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: report id is required", domain.ErrInvalidInput)
	}
	return s.store.Delete(ctx, id)
}
