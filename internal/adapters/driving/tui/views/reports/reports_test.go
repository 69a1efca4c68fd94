package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/topicgap/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/topicgap/internal/core/domain"
)

type mockReportService struct {
	summaries []domain.ReportSummary
	err       error
	gotLimit  int
	deleted   []string
}

func (m *mockReportService) Get(context.Context, string) (*domain.AnalysisResult, error) {
	return nil, m.err
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

func summaries() []domain.ReportSummary {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return []domain.ReportSummary{
		{ID: "rep-2", TargetURL: "https://b.com", TargetScore: 80, GapCount: 0, CompletedAt: at},
		{ID: "rep-1", TargetURL: "https://a.com", TargetScore: 30, GapCount: 2, CompletedAt: at},
	}
}

func press(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loadedView(t *testing.T, svc *mockReportService) *View {
	t.Helper()
	v := NewView(nil, nil, svc)
	msg := v.Load()()
	v, _ = v.Update(msg)
	return v
}

func TestView_Load(t *testing.T) {
	svc := &mockReportService{summaries: summaries()}

	v := loadedView(t, svc)

	assert.Equal(t, DefaultLimit, svc.gotLimit)
	assert.Len(t, v.Reports(), 2)
	out := v.View()
	assert.Contains(t, out, "https://a.com")
	assert.Contains(t, out, "gaps=2  2025-03-01 12:00")
}

func TestView_LoadError(t *testing.T) {
	v := loadedView(t, &mockReportService{err: errors.New("db down")})

	assert.EqualError(t, v.Err(), "db down")
	assert.Contains(t, v.View(), "Error: db down")
}

func TestView_Empty(t *testing.T) {
	v := loadedView(t, &mockReportService{})

	_, ok := v.Selected()
	assert.False(t, ok)
	assert.Contains(t, v.View(), "No reports found")
}

func TestView_Navigation(t *testing.T) {
	v := loadedView(t, &mockReportService{summaries: summaries()})

	v, _ = v.Update(press("j"))
	r, ok := v.Selected()
	require.True(t, ok)
	assert.Equal(t, "rep-1", r.ID)

	v, _ = v.Update(press("j"))
	r, _ = v.Selected()
	assert.Equal(t, "rep-1", r.ID)

	v, _ = v.Update(press("k"))
	v, _ = v.Update(press("k"))
	r, _ = v.Selected()
	assert.Equal(t, "rep-2", r.ID)
}

func TestView_SelectEmitsReportSelected(t *testing.T) {
	v := loadedView(t, &mockReportService{summaries: summaries()})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ReportSelected{ID: "rep-2"}, cmd())
}

func TestView_Delete(t *testing.T) {
	svc := &mockReportService{summaries: summaries()}
	v := loadedView(t, svc)
	v, _ = v.Update(press("j"))

	_, cmd := v.Update(press("d"))
	require.NotNil(t, cmd)
	v, _ = v.Update(cmd())

	assert.Equal(t, []string{"rep-1"}, svc.deleted)
	require.Len(t, v.Reports(), 1)
	r, _ := v.Selected()
	assert.Equal(t, "rep-2", r.ID)
}

func TestView_Refresh(t *testing.T) {
	svc := &mockReportService{}
	v := loadedView(t, svc)
	svc.summaries = summaries()

	_, cmd := v.Update(press("r"))
	require.NotNil(t, cmd)
	v, _ = v.Update(cmd())

	assert.Len(t, v.Reports(), 2)
}
