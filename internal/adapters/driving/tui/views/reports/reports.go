// Package reports provides the saved report list view for the TUI.
package reports

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/topicgap/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/topicgap/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/topicgap/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/topicgap/internal/core/domain"
	"github.com/custodia-labs/topicgap/internal/core/ports/driving"
)

// DefaultLimit is the number of reports loaded per refresh.
const DefaultLimit = 50

// View lists saved reports, most recent first.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	service driving.ReportService
	ctx     context.Context

	reports  []domain.ReportSummary
	selected int
	loading  bool
	err      error

	width  int
	height int
}

// NewView creates a new report list view.
func NewView(s *styles.Styles, km *keymap.KeyMap, service driving.ReportService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:  s,
		keymap:  km,
		service: service,
		ctx:     context.Background(),
		width:   80,
		height:  24,
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Load returns a command fetching the report listing.
func (v *View) Load() tea.Cmd {
	v.loading = true
	ctx, service := v.ctx, v.service
	return func() tea.Msg {
		summaries, err := service.List(ctx, DefaultLimit)
		return messages.ReportsLoaded{Reports: summaries, Err: err}
	}
}

// Update handles messages for the list view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.ReportsLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.reports = msg.Reports
			v.clamp()
		}
		return v, nil

	case messages.ReportDeleted:
		v.err = msg.Err
		if msg.Err == nil {
			v.remove(msg.ID)
		}
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case key.Matches(msg, v.keymap.Down):
		if v.selected < len(v.reports)-1 {
			v.selected++
		}
	case key.Matches(msg, v.keymap.Refresh):
		return v, v.Load()
	case key.Matches(msg, v.keymap.Select):
		if r, ok := v.Selected(); ok {
			id := r.ID
			return v, func() tea.Msg { return messages.ReportSelected{ID: id} }
		}
	case key.Matches(msg, v.keymap.Delete):
		if r, ok := v.Selected(); ok {
			return v, v.delete(r.ID)
		}
	}
	return v, nil
}

func (v *View) delete(id string) tea.Cmd {
	ctx, service := v.ctx, v.service
	return func() tea.Msg {
		return messages.ReportDeleted{ID: id, Err: service.Delete(ctx, id)}
	}
}

func (v *View) remove(id string) {
	for i, r := range v.reports {
		if r.ID == id {
			v.reports = append(v.reports[:i], v.reports[i+1:]...)
			break
		}
	}
	v.clamp()
}

func (v *View) clamp() {
	if v.selected >= len(v.reports) {
		v.selected = len(v.reports) - 1
	}
	if v.selected < 0 {
		v.selected = 0
	}
}

// Selected returns the highlighted report.
func (v *View) Selected() (domain.ReportSummary, bool) {
	if len(v.reports) == 0 {
		return domain.ReportSummary{}, false
	}
	return v.reports[v.selected], true
}

// Reports returns the loaded listing.
func (v *View) Reports() []domain.ReportSummary {
	return v.reports
}

// Err returns the last service error.
func (v *View) Err() error {
	return v.err
}

// SetDimensions updates the view size.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// View renders the list.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Saved reports"))
	b.WriteString("\n\n")

	switch {
	case v.loading && len(v.reports) == 0:
		b.WriteString(v.styles.Muted.Render("Loading..."))
		b.WriteString("\n")
	case len(v.reports) == 0:
		b.WriteString(v.styles.Muted.Render("No reports found. Run `topicgap analyze` first."))
		b.WriteString("\n")
	default:
		start, end := v.window()
		for i := start; i < end; i++ {
			b.WriteString(v.row(i))
			b.WriteString("\n")
		}
	}

	if v.err != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Poor.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render(keymap.HelpLine(v.keymap.ListHelp())))
	return b.String()
}

func (v *View) row(i int) string {
	r := v.reports[i]
	cursor := "  "
	url := r.TargetURL
	if i == v.selected {
		cursor = "> "
		url = v.styles.Selected.Render(url)
	}
	return fmt.Sprintf("%s%s  %s  %s",
		cursor,
		v.styles.Score(r.TargetScore),
		url,
		v.styles.Muted.Render(fmt.Sprintf("gaps=%d  %s", r.GapCount, r.CompletedAt.Format("2006-01-02 15:04"))),
	)
}

// window returns the visible row range keeping the selection on screen.
func (v *View) window() (int, int) {
	rows := v.height - 6
	if rows < 1 {
		rows = 1
	}
	start := 0
	if v.selected >= rows {
		start = v.selected - rows + 1
	}
	end := start + rows
	if end > len(v.reports) {
		end = len(v.reports)
	}
	return start, end
}
