// Package detail provides the scrollable report view for the TUI.
package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/topicgap/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/topicgap/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/topicgap/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/topicgap/internal/core/domain"
)

// helpHeight is the space reserved under the viewport.
const helpHeight = 2

// View shows a single analysis report in a viewport.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	viewport viewport.Model
	report   *domain.AnalysisResult
}

// NewView creates a new report detail view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:   s,
		keymap:   km,
		viewport: viewport.New(80, 24-helpHeight),
	}
}

// SetReport replaces the displayed report and scrolls to the top.
func (v *View) SetReport(r *domain.AnalysisResult) {
	v.report = r
	v.viewport.SetContent(Render(v.styles, r))
	v.viewport.GotoTop()
}

// Report returns the displayed report.
func (v *View) Report() *domain.AnalysisResult {
	return v.report
}

// SetDimensions updates the view size.
func (v *View) SetDimensions(width, height int) {
	v.viewport.Width = width
	v.viewport.Height = max(height-helpHeight, 1)
}

// Update handles messages for the detail view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, v.keymap.Back) {
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewReports} }
	}
	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// View renders the viewport with a help line.
func (v *View) View() string {
	return v.viewport.View() + "\n" + v.styles.Help.Render(keymap.HelpLine(v.keymap.DetailHelp()))
}

// Render formats a report for display.
func Render(s *styles.Styles, r *domain.AnalysisResult) string {
	if r == nil {
		return s.Muted.Render("No report selected.")
	}

	var b strings.Builder
	b.WriteString(s.Title.Render("Report " + r.ID))
	b.WriteString("\n")
	title := r.TargetTitle
	if title == "" {
		title = r.TargetURL
	}
	fmt.Fprintf(&b, "%s (%s)\n", title, r.TargetURL)
	fmt.Fprintf(&b, "Overall score: %s\n", s.Score(r.TargetScore))
	if r.PrimaryTopic != nil {
		fmt.Fprintf(&b, "Primary topic: %s (%s)\n", r.PrimaryTopic.SearchPhrase(), r.PrimaryTopic.EntityType)
	}
	fmt.Fprintf(&b, "Completed: %s\n", r.CompletedAt.Format("2006-01-02 15:04"))

	b.WriteString("\n")
	b.WriteString(s.Subtitle.Render("Category scores"))
	b.WriteString("\n")
	for _, cs := range r.CategoryScores {
		fmt.Fprintf(&b, "  %s  %s  (%d/%d matched)\n", cs.Category, s.Score(cs.Score), cs.MatchedQueries, cs.TotalQueries)
	}

	if len(r.Competitors) > 0 {
		b.WriteString("\n")
		b.WriteString(s.Subtitle.Render("Competitors"))
		b.WriteString("\n")
		for _, c := range r.Competitors {
			fmt.Fprintf(&b, "  %s  %s\n", s.Score(c.OverallScore), c.URL)
		}
	}

	b.WriteString("\n")
	b.WriteString(s.Subtitle.Render("Coverage gaps"))
	b.WriteString("\n")
	if len(r.Gaps) == 0 {
		b.WriteString(s.Muted.Render("  No coverage gaps found."))
		b.WriteString("\n")
	}
	for _, g := range r.Gaps {
		fmt.Fprintf(&b, "  %s %s: you %d, competitors %.1f\n", s.Priority(g.Priority), g.Category, g.TargetScore, g.CompetitorAvg)
		if len(g.MissingQueries) > 0 {
			fmt.Fprintf(&b, "    Missing: %s\n", strings.Join(g.MissingQueries, "; "))
		}
		if g.Recommendation != "" {
			fmt.Fprintf(&b, "    %s\n", g.Recommendation)
		}
	}

	if len(r.Recommendations) > 0 {
		b.WriteString("\n")
		b.WriteString(s.Subtitle.Render("Recommendations"))
		b.WriteString("\n")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(&b, "  - %s\n", rec)
		}
	}
	return b.String()
}
