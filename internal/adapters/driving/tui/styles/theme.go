// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/topicgap/internal/core/domain"
)

// Theme defines the colour palette.
type Theme struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Muted     lipgloss.Color
	Good      lipgloss.Color
	Fair      lipgloss.Color
	Poor      lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:   lipgloss.Color("#7C3AED"),
		Secondary: lipgloss.Color("#06B6D4"),
		Muted:     lipgloss.Color("#6C7086"),
		Good:      lipgloss.Color("#A6E3A1"),
		Fair:      lipgloss.Color("#F9E2AF"),
		Poor:      lipgloss.Color("#F38BA8"),
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Good     lipgloss.Style
	Fair     lipgloss.Style
	Poor     lipgloss.Style
	Help     lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		Subtitle: lipgloss.NewStyle().Bold(true).Foreground(theme.Secondary),
		Muted:    lipgloss.NewStyle().Foreground(theme.Muted),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		Good:     lipgloss.NewStyle().Foreground(theme.Good),
		Fair:     lipgloss.NewStyle().Foreground(theme.Fair),
		Poor:     lipgloss.NewStyle().Foreground(theme.Poor),
		Help:     lipgloss.NewStyle().Foreground(theme.Muted),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Score renders a 0-100 score coloured by band.
func (s *Styles) Score(n int) string {
	text := fmt.Sprintf("%d/100", n)
	switch {
	case n >= 70:
		return s.Good.Render(text)
	case n >= 40:
		return s.Fair.Render(text)
	default:
		return s.Poor.Render(text)
	}
}

// Priority renders a gap priority tag.
func (s *Styles) Priority(p domain.Priority) string {
	switch p {
	case domain.PriorityHigh:
		return s.Poor.Render("[HIGH]")
	case domain.PriorityMedium:
		return s.Fair.Render("[MEDIUM]")
	default:
		return s.Muted.Render("[LOW]")
	}
}
