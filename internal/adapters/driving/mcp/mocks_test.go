package mcp

import (
	"context"

	"github.com/custodia-labs/topicgap/internal/core/domain"
)

// mockAnalysisService is a mock implementation of driving.AnalysisService.
type mockAnalysisService struct {
	result  *domain.AnalysisResult
	err     error
	request domain.AnalysisRequest
}

func (m *mockAnalysisService) Analyze(_ context.Context, req domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	m.request = req
	return m.result, m.err
}

func (m *mockAnalysisService) AnalyzeDocuments(
	_ context.Context,
	_ *domain.ScrapedDocument,
	_ []*domain.ScrapedDocument,
	_ []string,
) (*domain.AnalysisResult, error) {
	return m.result, m.err
}

// mockTopicService is a mock implementation of driving.TopicService.
type mockTopicService struct {
	topic *domain.PrimaryTopic
	err   error
}

func (m *mockTopicService) DetectTopic(_ context.Context, _ string) (*domain.PrimaryTopic, error) {
	return m.topic, m.err
}

// mockReportService is a mock implementation of driving.ReportService.
type mockReportService struct {
	report    *domain.AnalysisResult
	summaries []domain.ReportSummary
	err       error
	gotID     string
	gotLimit  int
}

func (m *mockReportService) Get(_ context.Context, id string) (*domain.AnalysisResult, error) {
	m.gotID = id
	return m.report, m.err
}

func (m *mockReportService) List(_ context.Context, limit int) ([]domain.ReportSummary, error) {
	m.gotLimit = limit
	return m.summaries, m.err
}

func (m *mockReportService) Delete(_ context.Context, _ string) error {
	return m.err
}

func sampleResult() *domain.AnalysisResult {
	return &domain.AnalysisResult{
		ID:          "rep-1",
		TargetURL:   "https://target.com",
		TargetScore: 62,
		CategoryScores: []domain.CategoryScore{
			{Category: "SEO", Score: 62, MaxScore: 100, MatchedQueries: 1, TotalQueries: 2},
		},
		Competitors: []domain.CompetitorResult{
			{URL: "https://rival.com", Title: "Rival", OverallScore: 90},
		},
		Gaps: []domain.CoverageGap{
			{
				Category:       "SEO",
				TargetScore:    62,
				CompetitorAvg:  90,
				Priority:       domain.PriorityMedium,
				MissingQueries: []string{"seo audit"},
				Recommendation: "Improve search optimisation.",
			},
		},
		Recommendations: []string{"Write an SEO audit guide"},
		PrimaryTopic:    &domain.PrimaryTopic{Entity: "SEO", CombinedTopic: "SEO for startups"},
	}
}
