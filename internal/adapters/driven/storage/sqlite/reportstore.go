package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/topicgap/internal/core/domain"
	"github.com/custodia-labs/topicgap/internal/core/ports/driven"
)

// timeLayout has fixed-width fractions so stored times sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Ensure reportStore implements the interface.
var _ driven.ReportStore = (*reportStore)(nil)

type reportStore struct {
	store *Store
}

// Save upserts result. Summary columns are denormalised for listing.
func (s *reportStore) Save(ctx context.Context, result *domain.AnalysisResult) error {
	if result == nil || result.ID == "" {
		return fmt.Errorf("%w: report id is required", domain.ErrInvalidInput)
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO reports (id, target_url, target_title, target_score, competitor_count, gap_count, started_at, completed_at, result)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			target_url = excluded.target_url,
			target_title = excluded.target_title,
			target_score = excluded.target_score,
			competitor_count = excluded.competitor_count,
			gap_count = excluded.gap_count,
			started_at = excluded.started_at,
			completed_at = excluded.completed_at,
			result = excluded.result
	`,
		result.ID,
		result.TargetURL,
		result.TargetTitle,
		result.TargetScore,
		len(result.Competitors),
		len(result.Gaps),
		result.StartedAt.UTC().Format(timeLayout),
		result.CompletedAt.UTC().Format(timeLayout),
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

// Get loads the full result for id.
func (s *reportStore) Get(ctx context.Context, id string) (*domain.AnalysisResult, error) {
	var payload string
	err := s.store.db.QueryRowContext(ctx, "SELECT result FROM reports WHERE id = ?", id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", id, err)
	}
	return &result, nil
}

// List returns summaries, most recently completed first.
func (s *reportStore) List(ctx context.Context, limit int) ([]domain.ReportSummary, error) {
	query := `
		SELECT id, target_url, target_score, competitor_count, gap_count, completed_at
		FROM reports
		ORDER BY completed_at DESC, id ASC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []domain.ReportSummary
	for rows.Next() {
		var (
			sum       domain.ReportSummary
			completed string
		)
		if err := rows.Scan(&sum.ID, &sum.TargetURL, &sum.TargetScore, &sum.CompetitorCount, &sum.GapCount, &completed); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		sum.CompletedAt, _ = time.Parse(time.RFC3339Nano, completed)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Delete removes the report with id.
func (s *reportStore) Delete(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM reports WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
