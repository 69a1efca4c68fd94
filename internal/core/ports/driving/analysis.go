package driving

import (
	"context"

	"github.com/custodia-labs/topicgap/internal/core/domain"
)

// AnalysisService runs coverage analyses.
type AnalysisService interface {
	// Analyze scrapes the request's pages and runs a full analysis.
	// Only a failure on the target page is returned as an error;
	// failed competitors are dropped from the result.
	Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResult, error)

	// AnalyzeDocuments runs the analysis over already scraped documents.
	AnalyzeDocuments(
		ctx context.Context,
		target *domain.ScrapedDocument,
		competitors []*domain.ScrapedDocument,
		queries []string,
	) (*domain.AnalysisResult, error)
}

// TopicService detects the primary topic of a page.
type TopicService interface {
	// DetectTopic scrapes url and returns its primary topic.
	DetectTopic(ctx context.Context, url string) (*domain.PrimaryTopic, error)
}

// ReportService gives access to stored analysis results.
type ReportService interface {
	// Get retrieves a stored result by ID.
	Get(ctx context.Context, id string) (*domain.AnalysisResult, error)

	// List returns stored result summaries, most recent first.
	List(ctx context.Context, limit int) ([]domain.ReportSummary, error)

	// Delete removes a stored result.
	Delete(ctx context.Context, id string) error
}
