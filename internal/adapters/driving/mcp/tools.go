package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/topicgap/internal/core/domain"
)

const defaultReportLimit = 20

// AnalyzeInput is the input schema for the analyze tool.
type AnalyzeInput struct {
	TargetURL      string   `json:"target_url" jsonschema:"the page to analyse"`
	CompetitorURLs []string `json:"competitor_urls,omitempty" jsonschema:"competitor pages to compare against"`
	Queries        []string `json:"queries,omitempty" jsonschema:"search queries to score; generated from the page when empty"`
	Threshold      float64  `json:"threshold,omitempty" jsonschema:"similarity a query needs to count as answered (default 0.7)"`
	Discover       bool     `json:"discover,omitempty" jsonschema:"find competitors by web search when none are given"`
}

// AnalyzeOutput is the output schema for the analyze tool.
type AnalyzeOutput struct {
	ID              string                 `json:"id"`
	TargetURL       string                 `json:"target_url"`
	TargetScore     int                    `json:"target_score"`
	PrimaryTopic    string                 `json:"primary_topic,omitempty"`
	CategoryScores  []domain.CategoryScore `json:"category_scores"`
	Competitors     []CompetitorOutput     `json:"competitors"`
	Gaps            []GapOutput            `json:"gaps"`
	Recommendations []string               `json:"recommendations"`
}

// CompetitorOutput summarises one analysed competitor.
type CompetitorOutput struct {
	URL          string `json:"url"`
	Title        string `json:"title,omitempty"`
	OverallScore int    `json:"overall_score"`
}

// GapOutput describes one coverage gap.
type GapOutput struct {
	Category       string   `json:"category"`
	TargetScore    int      `json:"target_score"`
	CompetitorAvg  float64  `json:"competitor_avg"`
	Priority       string   `json:"priority"`
	MissingQueries []string `json:"missing_queries,omitempty"`
	Recommendation string   `json:"recommendation"`
}

// DetectTopicInput is the input schema for the detect_topic tool.
type DetectTopicInput struct {
	URL string `json:"url" jsonschema:"the page whose primary topic to detect"`
}

// DetectTopicOutput is the output schema for the detect_topic tool.
type DetectTopicOutput struct {
	Entity        string   `json:"entity"`
	EntityType    string   `json:"entity_type"`
	Confidence    float64  `json:"confidence"`
	Source        string   `json:"source"`
	SubEntities   []string `json:"sub_entities"`
	CombinedTopic string   `json:"combined_topic,omitempty"`
}

// GetReportInput is the input schema for the get_report tool.
type GetReportInput struct {
	ID string `json:"id" jsonschema:"the report ID returned by analyze or list_reports"`
}

// ListReportsInput is the input schema for the list_reports tool.
type ListReportsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of reports to return (default 20)"`
}

// ListReportsOutput is the output schema for the list_reports tool.
type ListReportsOutput struct {
	Reports []domain.ReportSummary `json:"reports"`
	Count   int                    `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze",
		Description: "Score how well a page covers a topic's search queries and compare it against competitor pages",
	}, s.handleAnalyze)

	if s.ports.Topic != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "detect_topic",
			Description: "Detect the primary topic of a web page",
		}, s.handleDetectTopic)
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_report",
		Description: "Retrieve a stored analysis report by ID",
	}, s.handleGetReport)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_reports",
		Description: "List stored analysis reports, most recent first",
	}, s.handleListReports)
}

// handleAnalyze handles the analyze tool invocation.
func (s *Server) handleAnalyze(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeInput,
) (*mcp.CallToolResult, AnalyzeOutput, error) {
	result, err := s.ports.Analysis.Analyze(ctx, domain.AnalysisRequest{
		TargetURL:      input.TargetURL,
		CompetitorURLs: input.CompetitorURLs,
		Queries:        input.Queries,
		Threshold:      input.Threshold,
		Discover:       input.Discover,
	})
	if err != nil {
		return nil, AnalyzeOutput{}, err
	}
	return nil, toAnalyzeOutput(result), nil
}

// handleDetectTopic handles the detect_topic tool invocation.
func (s *Server) handleDetectTopic(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DetectTopicInput,
) (*mcp.CallToolResult, DetectTopicOutput, error) {
	pt, err := s.ports.Topic.DetectTopic(ctx, input.URL)
	if err != nil {
		return nil, DetectTopicOutput{}, err
	}
	return nil, DetectTopicOutput{
		Entity:        pt.Entity,
		EntityType:    string(pt.EntityType),
		Confidence:    pt.Confidence,
		Source:        string(pt.Source),
		SubEntities:   pt.SubEntities,
		CombinedTopic: pt.CombinedTopic,
	}, nil
}

// handleGetReport handles the get_report tool invocation.
func (s *Server) handleGetReport(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetReportInput,
) (*mcp.CallToolResult, AnalyzeOutput, error) {
	if s.ports.Reports == nil {
		return nil, AnalyzeOutput{}, ErrReportsUnavailable
	}
	result, err := s.ports.Reports.Get(ctx, input.ID)
	if err != nil {
		return nil, AnalyzeOutput{}, err
	}
	return nil, toAnalyzeOutput(result), nil
}

// handleListReports handles the list_reports tool invocation.
func (s *Server) handleListReports(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListReportsInput,
) (*mcp.CallToolResult, ListReportsOutput, error) {
	if s.ports.Reports == nil {
		return nil, ListReportsOutput{}, ErrReportsUnavailable
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultReportLimit
	}

	reports, err := s.ports.Reports.List(ctx, limit)
	if err != nil {
		return nil, ListReportsOutput{}, err
	}
	if reports == nil {
		reports = []domain.ReportSummary{}
	}
	return nil, ListReportsOutput{Reports: reports, Count: len(reports)}, nil
}

func toAnalyzeOutput(r *domain.AnalysisResult) AnalyzeOutput {
	out := AnalyzeOutput{
		ID:              r.ID,
		TargetURL:       r.TargetURL,
		TargetScore:     r.TargetScore,
		CategoryScores:  r.CategoryScores,
		Competitors:     make([]CompetitorOutput, len(r.Competitors)),
		Gaps:            make([]GapOutput, len(r.Gaps)),
		Recommendations: r.Recommendations,
	}
	if r.PrimaryTopic != nil {
		out.PrimaryTopic = r.PrimaryTopic.SearchPhrase()
	}
	for i, c := range r.Competitors {
		out.Competitors[i] = CompetitorOutput{URL: c.URL, Title: c.Title, OverallScore: c.OverallScore}
	}
	for i, g := range r.Gaps {
		out.Gaps[i] = GapOutput{
			Category:       g.Category,
			TargetScore:    g.TargetScore,
			CompetitorAvg:  g.CompetitorAvg,
			Priority:       string(g.Priority),
			MissingQueries: g.MissingQueries,
			Recommendation: g.Recommendation,
		}
	}
	return out
}
