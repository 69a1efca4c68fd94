package cli

import (
	"context"
	"time"

	"github.com/custodia-labs/topicgap/internal/core/domain"
)

// mockAnalysisService is a mock implementation of driving.AnalysisService.
type mockAnalysisService struct {
	result  *domain.AnalysisResult
	err     error
	request domain.AnalysisRequest
	calls   int
}

func (m *mockAnalysisService) Analyze(_ context.Context, req domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	m.calls++
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
	url   string
}

func (m *mockTopicService) DetectTopic(_ context.Context, url string) (*domain.PrimaryTopic, error) {
	m.url = url
	return m.topic, m.err
}

// mockReportService is a mock implementation of driving.ReportService.
type mockReportService struct {
	report    *domain.AnalysisResult
	summaries []domain.ReportSummary
	err       error
	gotID     string
	gotLimit  int
	deleted   []string
}

func (m *mockReportService) Get(_ context.Context, id string) (*domain.AnalysisResult, error) {
	m.gotID = id
	return m.report, m.err
}

func (m *mockReportService) List(_ context.Context, limit int) ([]domain.ReportSummary, error) {
	m.gotLimit = limit
	return m.summaries, m.err
}

func (m *mockReportService) Delete(_ context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings    domain.AppSettings
	validateErr error
	setErr      error
	set         map[string]string
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{
		settings: domain.DefaultAppSettings(),
		set:      make(map[string]string),
	}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"embedding.provider", "analysis.threshold"}
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	m.settings.Embedding = domain.EmbeddingSettings{Provider: provider, Model: model, APIKey: apiKey}
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.settings.LLM = domain.LLMSettings{Provider: provider, Model: model, APIKey: apiKey}
	return nil
}

func (m *mockSettingsService) Validate() error                 { return m.validateErr }
func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }
func (m *mockSettingsService) ValidateEmbeddingConfig() error  { return nil }
func (m *mockSettingsService) ValidateLLMConfig() error        { return nil }

func sampleResult() *domain.AnalysisResult {
	return &domain.AnalysisResult{
		ID:          "rep-1",
		TargetURL:   "https://target.com",
		TargetTitle: "Target Pricing",
		TargetScore: 62,
		CategoryScores: []domain.CategoryScore{
			{Category: "SEO", Score: 90, MaxScore: 100, MatchedQueries: 2, TotalQueries: 2},
			{Category: "Business", Score: 35, MaxScore: 100, MatchedQueries: 0, TotalQueries: 1},
		},
		Competitors: []domain.CompetitorResult{
			{URL: "https://rival.com", Title: "Rival", OverallScore: 88},
		},
		Gaps: []domain.CoverageGap{
			{
				Category:       "Business",
				TargetScore:    35,
				CompetitorAvg:  80,
				Priority:       domain.PriorityHigh,
				MissingQueries: []string{"pricing plans"},
				CompetitorURLs: []string{"https://rival.com"},
				Recommendation: "Add a section on pricing plans.",
			},
		},
		Recommendations: []string{"Weakest category overall is Business at 35/100."},
		PrimaryTopic: &domain.PrimaryTopic{
			Entity:     "Pricing",
			EntityType: domain.EntityConcept,
			Confidence: 0.8,
			Source:     domain.SourceTitle,
		},
		Queries:     []string{"seo audit", "seo tools", "pricing plans"},
		StartedAt:   time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		CompletedAt: time.Date(2025, 3, 1, 12, 0, 5, 0, time.UTC),
	}
}

type testServices struct {
	analysis *mockAnalysisService
	topic    *mockTopicService
	reports  *mockReportService
	settings *mockSettingsService
}

var mocks testServices

// setupTestServices installs fresh mocks and returns a func restoring
// the previous services.
func setupTestServices() func() {
	prevAnalysis, prevErr := analysisService, analysisErr
	prevTopic, prevReports, prevSettings := topicService, reportService, settingsService
	prevBootstrap := bootstrap

	mocks = testServices{
		analysis: &mockAnalysisService{result: sampleResult()},
		topic: &mockTopicService{topic: &domain.PrimaryTopic{
			Entity:      "Acme Corp",
			EntityType:  domain.EntityOrganization,
			Confidence:  0.9,
			Source:      domain.SourceTitle,
			SubEntities: []string{"Digital Marketing"},
		}},
		reports: &mockReportService{
			report: sampleResult(),
			summaries: []domain.ReportSummary{
				sampleResult().Summary(),
			},
		},
		settings: newMockSettingsService(),
	}
	SetServices(Services{
		Analysis: mocks.analysis,
		Topic:    mocks.topic,
		Reports:  mocks.reports,
		Settings: mocks.settings,
	})
	bootstrap = nil

	return func() {
		analysisService, analysisErr = prevAnalysis, prevErr
		topicService, reportService, settingsService = prevTopic, prevReports, prevSettings
		bootstrap = prevBootstrap
	}
}
