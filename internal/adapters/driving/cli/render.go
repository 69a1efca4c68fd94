package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/custodia-labs/topicgap/internal/core/domain"
)

// renderer writes human readable reports. Styles are only applied when
// the output is a terminal.
type renderer struct {
	w       io.Writer
	plain   bool
	heading lipgloss.Style
	muted   lipgloss.Style
	good    lipgloss.Style
	fair    lipgloss.Style
	poor    lipgloss.Style
}

func newRenderer(w io.Writer) *renderer {
	lr := lipgloss.NewRenderer(w)
	return &renderer{
		w:       w,
		plain:   !isTerminal(w),
		heading: lr.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		muted:   lr.NewStyle().Foreground(lipgloss.Color("241")),
		good:    lr.NewStyle().Foreground(lipgloss.Color("42")),
		fair:    lr.NewStyle().Foreground(lipgloss.Color("214")),
		poor:    lr.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (r *renderer) paint(s lipgloss.Style, text string) string {
	if r.plain {
		return text
	}
	return s.Render(text)
}

func (r *renderer) printf(format string, args ...any) {
	fmt.Fprintf(r.w, format, args...)
}

func (r *renderer) section(title string) {
	r.printf("\n%s\n", r.paint(r.heading, title))
}

// score renders n/100 coloured by band.
func (r *renderer) score(n int) string {
	text := fmt.Sprintf("%d/100", n)
	switch {
	case n >= 70:
		return r.paint(r.good, text)
	case n >= 40:
		return r.paint(r.fair, text)
	default:
		return r.paint(r.poor, text)
	}
}

func (r *renderer) priority(p domain.Priority) string {
	text := "[" + strings.ToUpper(p.String()) + "]"
	switch p {
	case domain.PriorityHigh:
		return r.paint(r.poor, text)
	case domain.PriorityMedium:
		return r.paint(r.fair, text)
	default:
		return r.paint(r.muted, text)
	}
}

func (r *renderer) result(res *domain.AnalysisResult) {
	r.printf("%s %s\n", r.paint(r.heading, "Analysis"), r.paint(r.muted, res.ID))
	title := res.TargetTitle
	if title == "" {
		title = res.TargetURL
	}
	r.printf("Target: %s (%s)\n", title, res.TargetURL)
	r.printf("Overall score: %s\n", r.score(res.TargetScore))
	if res.PrimaryTopic != nil {
		r.printf("Primary topic: %s\n", describeTopic(res.PrimaryTopic))
	}
	r.printf("Queries: %d\n", len(res.Queries))

	r.section("Category scores")
	r.categories(res.CategoryScores)

	if len(res.Competitors) > 0 {
		r.section("Competitors")
		for i := range res.Competitors {
			c := &res.Competitors[i]
			name := c.Title
			if name == "" {
				name = c.URL
			}
			r.printf("  %d. %s %s\n", i+1, name, r.score(c.OverallScore))
			r.printf("     %s\n", r.paint(r.muted, c.URL))
		}
	}

	r.section("Coverage gaps")
	if len(res.Gaps) == 0 {
		r.printf("  No coverage gaps found.\n")
	}
	for i := range res.Gaps {
		g := &res.Gaps[i]
		r.printf("  %s %s: you %d, competitors %.1f\n", r.priority(g.Priority), g.Category, g.TargetScore, g.CompetitorAvg)
		if len(g.MissingQueries) > 0 {
			r.printf("      Missing: %s\n", strings.Join(g.MissingQueries, "; "))
		}
		if g.Recommendation != "" {
			r.printf("      %s\n", g.Recommendation)
		}
	}

	if len(res.Recommendations) > 0 {
		r.section("Recommendations")
		for _, rec := range res.Recommendations {
			r.printf("  - %s\n", rec)
		}
	}
}

func (r *renderer) categories(scores []domain.CategoryScore) {
	width := 0
	for _, cs := range scores {
		width = max(width, len(cs.Category))
	}
	for _, cs := range scores {
		r.printf("  %-*s  %s  (%d/%d matched)\n", width, cs.Category, r.score(cs.Score), cs.MatchedQueries, cs.TotalQueries)
	}
}

func (r *renderer) summaries(list []domain.ReportSummary) {
	if len(list) == 0 {
		r.printf("No reports found.\n")
		return
	}
	for _, s := range list {
		r.printf("%s  %s  %s  competitors=%d gaps=%d  %s\n",
			s.ID, r.score(s.TargetScore), s.TargetURL, s.CompetitorCount, s.GapCount,
			r.paint(r.muted, s.CompletedAt.Format("2006-01-02 15:04")))
	}
}

func (r *renderer) topic(url string, t *domain.PrimaryTopic) {
	r.printf("%s %s\n", r.paint(r.heading, "Topic"), url)
	r.printf("  Entity: %s\n", t.Entity)
	r.printf("  Type: %s\n", t.EntityType)
	r.printf("  Confidence: %.2f\n", t.Confidence)
	r.printf("  Source: %s\n", t.Source)
	if t.CombinedTopic != "" {
		r.printf("  Combined: %s\n", t.CombinedTopic)
	}
	if len(t.SubEntities) > 0 {
		r.printf("  Related: %s\n", strings.Join(t.SubEntities, ", "))
	}
}

func describeTopic(t *domain.PrimaryTopic) string {
	return fmt.Sprintf("%s (%s, %.2f, from %s)", t.SearchPhrase(), t.EntityType, t.Confidence, t.Source)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	return nil
}
