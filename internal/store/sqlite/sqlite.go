package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/gigurra/subscription-report/internal"
	"github.com/gigurra/subscription-report/internal/store"
)

// createdAtLayout is fixed width so created_at sorts lexically
const createdAtLayout = "2006-01-02T15:04:05.000000000Z"

type Store struct {
	db *sql.DB
}

func New(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite: path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveReport stores the report under a new run id and returns the id
func (s *Store) SaveReport(ctx context.Context, source string, report *internal.Report) (runID string, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	runID = uuid.NewString()

	var forecastYear, forecastAmount any
	if report.Forecast != nil {
		forecastYear = report.Forecast.Year
		forecastAmount = report.Forecast.Amount
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO report_runs (
			id, source, created_at, records, subscribers, total_revenue,
			forecast_year, forecast_amount
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID,
		source,
		time.Now().UTC().Format(createdAtLayout),
		report.Records,
		len(report.Categories),
		report.TotalRevenue(),
		forecastYear,
		forecastAmount,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	catStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO subscriber_categories (run_id, subscriber_id, cadence, count)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer catStmt.Close()

	for _, cat := range report.Categories {
		if _, err = catStmt.ExecContext(ctx, runID, cat.ID, cat.Cadence.String(), cat.Count); err != nil {
			return "", fmt.Errorf("insert subscriber %d: %w", cat.ID, err)
		}
	}

	revStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO yearly_revenue (run_id, year, total)
		VALUES (?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer revStmt.Close()

	for _, row := range report.Revenue {
		if _, err = revStmt.ExecContext(ctx, runID, row.Year, row.Total); err != nil {
			return "", fmt.Errorf("insert revenue %d: %w", row.Year, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

// ListRuns returns saved runs, newest first
func (s *Store) ListRuns(ctx context.Context) ([]store.Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, created_at, records, subscribers, total_revenue
		FROM report_runs
		ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []store.Run
	for rows.Next() {
		var run store.Run
		var createdAt string
		if err := rows.Scan(&run.ID, &run.Source, &createdAt, &run.Records, &run.Subscribers, &run.TotalRevenue); err != nil {
			return nil, err
		}
		if run.CreatedAt, err = time.Parse(createdAtLayout, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RevenueByYear returns the yearly revenue stored for a run
func (s *Store) RevenueByYear(ctx context.Context, runID string) (map[int]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT year, total FROM yearly_revenue WHERE run_id = ?`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int]int64)
	for rows.Next() {
		var year int
		var total int64
		if err := rows.Scan(&year, &total); err != nil {
			return nil, err
		}
		result[year] = total
	}
	return result, rows.Err()
}

func (s *Store) migrate() error {
	statements := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS report_runs (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			created_at TEXT NOT NULL,
			records INTEGER NOT NULL,
			subscribers INTEGER NOT NULL,
			total_revenue INTEGER NOT NULL,
			forecast_year INTEGER,
			forecast_amount INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS subscriber_categories (
			run_id TEXT NOT NULL REFERENCES report_runs(id) ON DELETE CASCADE,
			subscriber_id INTEGER NOT NULL,
			cadence TEXT NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (run_id, subscriber_id)
		);`,
		`CREATE TABLE IF NOT EXISTS yearly_revenue (
			run_id TEXT NOT NULL REFERENCES report_runs(id) ON DELETE CASCADE,
			year INTEGER NOT NULL,
			total INTEGER NOT NULL,
			PRIMARY KEY (run_id, year)
		);`,
	}

	for _, statement := range statements {
		if _, err := s.db.Exec(statement); err != nil {
			return err
		}
	}

	return nil
}

var _ store.Store = (*Store)(nil)
