package domain

import "time"

// CategoryGeneral is the category assigned to queries no rule matches.
const CategoryGeneral = "General"

// DefaultSimilarityThreshold is the similarity at or above which a query counts as matched.
const DefaultSimilarityThreshold = 0.7

// QueryMatch records how well one document answers one query.
type QueryMatch struct {
	// Query is the search query text.
	Query string `json:"query"`

	// Similarity is the best chunk similarity, in [0, 1].
	Similarity float64 `json:"similarity"`

	// Category is the topic category of the query.
	Category string `json:"category"`

	// Matched is true when Similarity reached the threshold.
	Matched bool `json:"matched"`

	// Context is the leading text of the best matching chunk.
	Context string `json:"context,omitempty"`

	// BestChunkIndex is the index of the best chunk, or -1 when none.
	BestChunkIndex int `json:"best_chunk_index"`
}

// CategoryScore aggregates the query matches of one category.
type CategoryScore struct {
	Category       string `json:"category"`
	Score          int    `json:"score"`
	MaxScore       int    `json:"max_score"`
	MatchedQueries int    `json:"matched_queries"`
	TotalQueries   int    `json:"total_queries"`
}

// Priority ranks a coverage gap.
type Priority string

// Gap priorities, highest first.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank returns a sortable weight, higher is more urgent.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// String returns the string representation.
func (p Priority) String() string {
	return string(p)
}

// CoverageGap is a category where competitors outscore the target.
type CoverageGap struct {
	Category       string   `json:"category"`
	TargetScore    int      `json:"target_score"`
	CompetitorAvg  float64  `json:"competitor_avg"`
	MissingQueries []string `json:"missing_queries"`
	CompetitorURLs []string `json:"competitor_urls"`
	Priority       Priority `json:"priority"`
	Recommendation string   `json:"recommendation"`
}

// CompetitorResult is the analysis of a single competitor page.
type CompetitorResult struct {
	URL            string          `json:"url"`
	Title          string          `json:"title"`
	OverallScore   int             `json:"overall_score"`
	CategoryScores []CategoryScore `json:"category_scores"`
	Matches        []QueryMatch    `json:"matches"`
}

// ScoreFor returns the competitor's score in a category and whether it reported one.
func (c *CompetitorResult) ScoreFor(category string) (int, bool) {
	for _, cs := range c.CategoryScores {
		if cs.Category == category {
			return cs.Score, true
		}
	}
	return 0, false
}

// AnalysisResult is the terminal report of one analysis run.
// It is created once per request and never mutated afterwards.
type AnalysisResult struct {
	ID              string             `json:"id"`
	TargetURL       string             `json:"target_url"`
	TargetTitle     string             `json:"target_title"`
	TargetScore     int                `json:"target_score"`
	TargetMatches   []QueryMatch       `json:"target_matches"`
	CategoryScores  []CategoryScore    `json:"category_scores"`
	Competitors     []CompetitorResult `json:"competitors"`
	Gaps            []CoverageGap      `json:"gaps"`
	Recommendations []string           `json:"recommendations"`
	PrimaryTopic    *PrimaryTopic      `json:"primary_topic,omitempty"`
	Queries         []string           `json:"queries"`
	StartedAt       time.Time          `json:"started_at"`
	CompletedAt     time.Time          `json:"completed_at"`
}

// Summary returns the listing view of the result.
func (r *AnalysisResult) Summary() ReportSummary {
	return ReportSummary{
		ID:              r.ID,
		TargetURL:       r.TargetURL,
		TargetScore:     r.TargetScore,
		CompetitorCount: len(r.Competitors),
		GapCount:        len(r.Gaps),
		CompletedAt:     r.CompletedAt,
	}
}

// ReportSummary is a compact listing entry for a stored analysis.
type ReportSummary struct {
	ID              string    `json:"id"`
	TargetURL       string    `json:"target_url"`
	TargetScore     int       `json:"target_score"`
	CompetitorCount int       `json:"competitor_count"`
	GapCount        int       `json:"gap_count"`
	CompletedAt     time.Time `json:"completed_at"`
}

// AnalysisRequest describes an analysis to run from URLs.
type AnalysisRequest struct {
	// TargetURL is the page being evaluated.
	TargetURL string

	// CompetitorURLs are pages to compare against. When empty and
	// Discover is set, competitors are found through web search.
	CompetitorURLs []string

	// Queries are the search queries to score. When empty they are
	// generated from the target page.
	Queries []string

	// Threshold overrides the match threshold when positive.
	Threshold float64

	// Discover enables competitor discovery.
	Discover bool
}
