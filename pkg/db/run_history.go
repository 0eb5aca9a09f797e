package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RunStatus represents the outcome of a collection run.
type RunStatus string

const (
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// PointRecord is one collected (year, value) pair.
type PointRecord struct {
	Year  int
	Value decimal.Decimal
}

// RunRecord represents a run-history row.
type RunRecord struct {
	ID         string
	Region     string
	RegionID   int64
	Category   string
	CategoryID int64
	YearFrom   int
	YearTo     int
	Status     RunStatus
	Error      string
	CSVPath    string
	ChartPath  string
	StartedAt  time.Time
	FinishedAt time.Time
	Points     []PointRecord
}

// RunHistory manages run-history operations.
type RunHistory struct {
	conn *Connection
}

// NewRunHistory creates a new RunHistory instance.
func NewRunHistory(conn *Connection) *RunHistory {
	return &RunHistory{conn: conn}
}

// RecordRun stores a run and its points in one transaction.
// A new UUID is assigned when record.ID is empty. Returns the run ID.
func (h *RunHistory) RecordRun(record RunRecord) (string, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	err := h.conn.Transaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO runs (id, region, region_id, category, category_id, year_from, year_to,
				status, error, csv_path, chart_path, started_at, finished_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			record.ID,
			record.Region,
			record.RegionID,
			record.Category,
			record.CategoryID,
			record.YearFrom,
			record.YearTo,
			string(record.Status),
			nullString(record.Error),
			nullString(record.CSVPath),
			nullString(record.ChartPath),
			record.StartedAt.UTC(),
			record.FinishedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}

		for _, p := range record.Points {
			if _, err := tx.Exec(
				`INSERT INTO run_points (run_id, year, value) VALUES (?, ?, ?)`,
				record.ID, p.Year, p.Value.String(),
			); err != nil {
				return fmt.Errorf("failed to insert point %d: %w", p.Year, err)
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}

	return record.ID, nil
}

// GetRun retrieves a run with its points. Returns nil if it does not exist.
func (h *RunHistory) GetRun(id string) (*RunRecord, error) {
	row := h.conn.QueryRow(`
		SELECT id, region, region_id, category, category_id, year_from, year_to,
			status, error, csv_path, chart_path, started_at, finished_at
		FROM runs
		WHERE id = ?
	`, id)

	record, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	rows, err := h.conn.Query(`SELECT year, value FROM run_points WHERE run_id = ? ORDER BY year`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get run points: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p PointRecord
		var value string
		if err := rows.Scan(&p.Year, &value); err != nil {
			return nil, fmt.Errorf("failed to scan run point: %w", err)
		}
		p.Value, err = decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("invalid stored value %q for %d: %w", value, p.Year, err)
		}
		record.Points = append(record.Points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read run points: %w", err)
	}

	return record, nil
}

// ListRuns returns the most recent runs first, without points.
func (h *RunHistory) ListRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := h.conn.Query(`
		SELECT id, region, region_id, category, category_id, year_from, year_to,
			status, error, csv_path, chart_path, started_at, finished_at
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		record, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}

	return records, nil
}

// DeleteRun deletes a run and its points.
func (h *RunHistory) DeleteRun(id string) (bool, error) {
	result, err := h.conn.Exec(`DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}

// Stats represents run-history statistics.
type Stats struct {
	TotalRuns     int
	SucceededRuns int
	FailedRuns    int
	LastRun       sql.NullString
}

// GetStats retrieves run-history statistics.
func (h *RunHistory) GetStats() (*Stats, error) {
	var stats Stats

	err := h.conn.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&stats.TotalRuns)
	if err != nil {
		return nil, fmt.Errorf("failed to get run count: %w", err)
	}

	err = h.conn.QueryRow(`SELECT COUNT(*) FROM runs WHERE status = ?`, string(RunSucceeded)).Scan(&stats.SucceededRuns)
	if err != nil {
		return nil, fmt.Errorf("failed to get succeeded count: %w", err)
	}

	err = h.conn.QueryRow(`SELECT COUNT(*) FROM runs WHERE status = ?`, string(RunFailed)).Scan(&stats.FailedRuns)
	if err != nil {
		return nil, fmt.Errorf("failed to get failed count: %w", err)
	}

	err = h.conn.QueryRow(`SELECT MAX(started_at) FROM runs`).Scan(&stats.LastRun)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get last run time: %w", err)
	}

	return &stats, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*RunRecord, error) {
	var record RunRecord
	var status string
	var errText, csvPath, chartPath sql.NullString

	if err := s.Scan(
		&record.ID,
		&record.Region,
		&record.RegionID,
		&record.Category,
		&record.CategoryID,
		&record.YearFrom,
		&record.YearTo,
		&status,
		&errText,
		&csvPath,
		&chartPath,
		&record.StartedAt,
		&record.FinishedAt,
	); err != nil {
		return nil, err
	}

	record.Status = RunStatus(status)
	record.Error = errText.String
	record.CSVPath = csvPath.String
	record.ChartPath = chartPath.String
	return &record, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
