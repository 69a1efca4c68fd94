// Package postgres persists analysis reports in PostgreSQL through bun.
//
// It is the shared alternative to the local SQLite store: several
// topicgap instances pointed at one database see the same reports.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/custodia-labs/topicgap/internal/core/domain"
	"github.com/custodia-labs/topicgap/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ReportStore = (*Store)(nil)

// Config configures the Postgres report store.
type Config struct {
	// DSN is a postgres:// connection URL.
	DSN string

	// Verbose logs every query.
	Verbose bool
}

// reportRow is the reports table. The full result is kept as jsonb,
// with summary columns for listing.
type reportRow struct {
	bun.BaseModel `bun:"table:reports,alias:r"`

	ID              string                 `bun:"id,pk"`
	TargetURL       string                 `bun:"target_url,notnull"`
	TargetTitle     string                 `bun:"target_title"`
	TargetScore     int                    `bun:"target_score,notnull"`
	CompetitorCount int                    `bun:"competitor_count,notnull"`
	GapCount        int                    `bun:"gap_count,notnull"`
	StartedAt       time.Time              `bun:"started_at,notnull"`
	CompletedAt     time.Time              `bun:"completed_at,notnull"`
	Result          *domain.AnalysisResult `bun:"result,type:jsonb,notnull"`
}

func toRow(r *domain.AnalysisResult) *reportRow {
	return &reportRow{
		ID:              r.ID,
		TargetURL:       r.TargetURL,
		TargetTitle:     r.TargetTitle,
		TargetScore:     r.TargetScore,
		CompetitorCount: len(r.Competitors),
		GapCount:        len(r.Gaps),
		StartedAt:       r.StartedAt.UTC(),
		CompletedAt:     r.CompletedAt.UTC(),
		Result:          r,
	}
}

func (row *reportRow) summary() domain.ReportSummary {
	return domain.ReportSummary{
		ID:              row.ID,
		TargetURL:       row.TargetURL,
		TargetScore:     row.TargetScore,
		CompetitorCount: row.CompetitorCount,
		GapCount:        row.GapCount,
		CompletedAt:     row.CompletedAt,
	}
}

// Store is a bun-backed driven.ReportStore.
type Store struct {
	db *bun.DB
}

// Open connects to cfg.DSN. The connection is lazy; call Init to verify
// it and create the schema.
func Open(cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("%w: postgres DSN is required", domain.ErrInvalidInput)
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
	return NewStore(sqldb, cfg.Verbose), nil
}

// NewStore wraps an existing connection.
func NewStore(sqldb *sql.DB, verbose bool) *Store {
	db := bun.NewDB(sqldb, pgdialect.New())
	if verbose {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return &Store{db: db}
}

// Init creates the reports table and its index if missing.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().Model((*reportRow)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("create reports table: %w", err)
	}
	_, err := s.db.NewCreateIndex().
		Model((*reportRow)(nil)).
		Index("idx_reports_completed_at").
		IfNotExists().
		Column("completed_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create reports index: %w", err)
	}
	return nil
}

// Drop removes the reports table.
func (s *Store) Drop(ctx context.Context) error {
	_, err := s.db.NewDropTable().Model((*reportRow)(nil)).IfExists().Exec(ctx)
	return err
}

// Save upserts result.
func (s *Store) Save(ctx context.Context, result *domain.AnalysisResult) error {
	if result == nil || result.ID == "" {
		return fmt.Errorf("%w: report id is required", domain.ErrInvalidInput)
	}
	if _, err := s.upsert(toRow(result)).Exec(ctx); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

func (s *Store) upsert(row *reportRow) *bun.InsertQuery {
	return s.db.NewInsert().
		Model(row).
		On("CONFLICT (id) DO UPDATE").
		Set("target_url = EXCLUDED.target_url").
		Set("target_title = EXCLUDED.target_title").
		Set("target_score = EXCLUDED.target_score").
		Set("competitor_count = EXCLUDED.competitor_count").
		Set("gap_count = EXCLUDED.gap_count").
		Set("started_at = EXCLUDED.started_at").
		Set("completed_at = EXCLUDED.completed_at").
		Set("result = EXCLUDED.result")
}

// Get loads the full result for id.
func (s *Store) Get(ctx context.Context, id string) (*domain.AnalysisResult, error) {
	row := new(reportRow)
	err := s.db.NewSelect().Model(row).Where("r.id = ?", id).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	if row.Result == nil {
		return nil, fmt.Errorf("report %s has no result payload", id)
	}
	return row.Result, nil
}

// List returns summaries, most recently completed first.
func (s *Store) List(ctx context.Context, limit int) ([]domain.ReportSummary, error) {
	var rows []reportRow
	if err := s.listQuery(&rows, limit).Scan(ctx); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	out := make([]domain.ReportSummary, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].summary())
	}
	return out, nil
}

func (s *Store) listQuery(rows *[]reportRow, limit int) *bun.SelectQuery {
	q := s.db.NewSelect().
		Model(rows).
		Column("id", "target_url", "target_score", "competitor_count", "gap_count", "completed_at").
		OrderExpr("completed_at DESC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q
}

// Delete removes the report with id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.NewDelete().Model((*reportRow)(nil)).Where("id = ?", id).Exec(ctx)
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

// Ping verifies the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the connection.
func (s *Store) Close() error {
	return s.db.Close()
}
