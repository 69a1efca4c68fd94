package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/topicgap/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/topicgap/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/topicgap/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/topicgap/internal/adapters/driving/tui/views/detail"
	"github.com/custodia-labs/topicgap/internal/adapters/driving/tui/views/reports"
)

// App is the report browser following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	reportsView *reports.View
	detailView  *detail.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error from opening a report.
	err error
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new report browser with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		reportsView: reports.NewView(s, km, ports.Reports),
		detailView:  detail.NewView(s, km),
		currentView: messages.ViewReports,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.reportsView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It loads the report listing.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("topicgap - Reports"),
		a.reportsView.Load(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.reportsView.SetDimensions(msg.Width, msg.Height)
		a.detailView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, a.keymap.Quit) {
			return a, tea.Quit
		}
		a.err = nil
		if a.currentView == messages.ViewDetail {
			a.detailView, cmd = a.detailView.Update(msg)
			return a, cmd
		}
		a.reportsView, cmd = a.reportsView.Update(msg)
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil

	case messages.ReportSelected:
		return a, a.open(msg.ID)

	case messages.ReportLoaded:
		if msg.Err != nil {
			a.err = msg.Err
			return a, nil
		}
		a.detailView.SetReport(msg.Report)
		a.currentView = messages.ViewDetail
		return a, nil

	case messages.ReportsLoaded, messages.ReportDeleted:
		a.reportsView, cmd = a.reportsView.Update(msg)
		return a, cmd
	}

	if a.currentView == messages.ViewDetail {
		a.detailView, cmd = a.detailView.Update(msg)
	}
	return a, cmd
}

func (a *App) open(id string) tea.Cmd {
	ctx, service := a.ctx, a.ports.Reports
	return func() tea.Msg {
		report, err := service.Get(ctx, id)
		return messages.ReportLoaded{Report: report, Err: err}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if a.currentView == messages.ViewDetail {
		return a.detailView.View()
	}
	out := a.reportsView.View()
	if a.err != nil {
		out += "\n" + a.styles.Poor.Render("Error: "+a.err.Error())
	}
	return out
}

// CurrentView returns the active view.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Run starts the report browser and blocks until it exits.
func Run(ctx context.Context, ports *Ports, opts ...tea.ProgramOption) error {
	app, err := NewApp(ports)
	if err != nil {
		return err
	}
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	if _, err := tea.NewProgram(app.WithContext(ctx), opts...).Run(); err != nil {
		return fmt.Errorf("running report browser: %w", err)
	}
	return nil
}
