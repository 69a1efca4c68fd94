package scoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/topicgap/internal/core/domain"
)

// Gap thresholds, in score points of competitor average over target.
const (
	// GapTrigger is the lead competitors must exceed for a gap to exist.
	GapTrigger = 10.0

	// GapHigh and GapMedium are inclusive priority boundaries.
	GapHigh   = 30.0
	GapMedium = 20.0
)

const (
	maxMissingQueries     = 5
	maxRecommendedQueries = 3
)

// DefaultRecommendationTemplates holds the per-category recommendation text.
var DefaultRecommendationTemplates = map[string]string{
	"Technical": "Add technical depth: documentation, integration details and implementation examples.",
	"Marketing": "Strengthen marketing content: value propositions, campaigns and audience-focused messaging.",
	"SEO":       "Improve search optimisation: target keywords, structured headings and meta information.",
	"Content":   "Expand content coverage with guides, articles and in-depth resources.",
	"Business":  "Clarify business information: pricing, customer outcomes and commercial terms.",
	"Design":    "Showcase design: visuals, layout examples and user experience details.",
	"Analytics": "Add analytics coverage: metrics, reporting and measurable results.",
	domain.CategoryGeneral: "Broaden general coverage of topics competitors address.",
}

// GapIdentifier compares target category scores against competitors.
type GapIdentifier struct {
	templates map[string]string
}

// NewGapIdentifier creates a gap identifier. A nil template map uses
// DefaultRecommendationTemplates.
func NewGapIdentifier(templates map[string]string) *GapIdentifier {
	if templates == nil {
		templates = DefaultRecommendationTemplates
	}
	return &GapIdentifier{templates: templates}
}

// Identify returns the coverage gaps of the target, most urgent first.
// A gap exists when targetScore < competitorAvg - GapTrigger, where the
// average covers only competitors that report the category.
func (g *GapIdentifier) Identify(
	target []domain.CategoryScore,
	competitors []domain.CompetitorResult,
	targetMatches []domain.QueryMatch,
) []domain.CoverageGap {
	var gaps []domain.CoverageGap

	for _, ts := range target {
		avg := competitorAverage(ts.Category, competitors)
		if float64(ts.Score) >= avg-GapTrigger {
			continue
		}

		missing := missingQueries(ts.Category, targetMatches)
		gaps = append(gaps, domain.CoverageGap{
			Category:       ts.Category,
			TargetScore:    ts.Score,
			CompetitorAvg:  avg,
			MissingQueries: missing,
			CompetitorURLs: strongerCompetitors(ts, competitors),
			Priority:       PriorityFor(avg - float64(ts.Score)),
			Recommendation: g.recommend(ts.Category, missing),
		})
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].Priority.Rank() > gaps[j].Priority.Rank()
	})
	return gaps
}

// PriorityFor maps a gap (competitor average minus target score) to a priority.
func PriorityFor(gap float64) domain.Priority {
	switch {
	case gap >= GapHigh:
		return domain.PriorityHigh
	case gap >= GapMedium:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}

func competitorAverage(category string, competitors []domain.CompetitorResult) float64 {
	var sum, n int
	for i := range competitors {
		if score, ok := competitors[i].ScoreFor(category); ok {
			sum += score
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func missingQueries(category string, matches []domain.QueryMatch) []string {
	missing := []string{}
	for _, m := range matches {
		if len(missing) == maxMissingQueries {
			break
		}
		if m.Category == category && !m.Matched {
			missing = append(missing, m.Query)
		}
	}
	return missing
}

func strongerCompetitors(target domain.CategoryScore, competitors []domain.CompetitorResult) []string {
	urls := []string{}
	for i := range competitors {
		if score, ok := competitors[i].ScoreFor(target.Category); ok && score > target.Score {
			urls = append(urls, competitors[i].URL)
		}
	}
	return urls
}

func (g *GapIdentifier) recommend(category string, missing []string) string {
	text, ok := g.templates[category]
	if !ok {
		text = g.templates[domain.CategoryGeneral]
	}
	if text == "" {
		text = fmt.Sprintf("Improve %s coverage.", strings.ToLower(category))
	}
	if len(missing) == 0 {
		return text
	}
	n := min(len(missing), maxRecommendedQueries)
	return fmt.Sprintf("%s Consider covering: %s.", text, strings.Join(missing[:n], ", "))
}
