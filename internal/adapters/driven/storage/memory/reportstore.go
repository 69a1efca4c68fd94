package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/topicgap/internal/core/domain"
	"github.com/custodia-labs/topicgap/internal/core/ports/driven"
)

// Ensure ReportStore implements the interface.
var _ driven.ReportStore = (*ReportStore)(nil)

// ReportStore keeps analysis results in memory for the life of the process.
type ReportStore struct {
	mu      sync.RWMutex
	reports map[string]*domain.AnalysisResult
}

// NewReportStore creates an empty report store.
func NewReportStore() *ReportStore {
	return &ReportStore{reports: make(map[string]*domain.AnalysisResult)}
}

// Save stores result, replacing any result with the same ID.
func (s *ReportStore) Save(_ context.Context, result *domain.AnalysisResult) error {
	if result == nil || result.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[result.ID] = result
	return nil
}

// Get retrieves a result by ID.
func (s *ReportStore) Get(_ context.Context, id string) (*domain.AnalysisResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

// List returns summaries, most recently completed first.
func (s *ReportStore) List(_ context.Context, limit int) ([]domain.ReportSummary, error) {
	s.mu.RLock()
	out := make([]domain.ReportSummary, 0, len(s.reports))
	for _, r := range s.reports {
		out = append(out, r.Summary())
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CompletedAt.Equal(out[j].CompletedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Delete removes a result.
func (s *ReportStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.reports, id)
	return nil
}
