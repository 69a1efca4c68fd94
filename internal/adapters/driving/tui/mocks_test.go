package tui

import (
	"context"

	"github.com/custodia-labs/topicgap/internal/core/domain"
)

// mockReportService is a mock implementation of driving.ReportService.
type mockReportService struct {
	report    *domain.AnalysisResult
	summaries []domain.ReportSummary
	err       error
	gotID     string
}

func (m *mockReportService) Get(_ context.Context, id string) (*domain.AnalysisResult, error) {
	m.gotID = id
	return m.report, m.err
}

func (m *mockReportService) List(_ context.Context, _ int) ([]domain.ReportSummary, error) {
	return m.summaries, m.err
}

func (m *mockReportService) Delete(_ context.Context, _ string) error {
	return m.err
}
