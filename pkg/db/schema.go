// Package db provides the SQLite run-history ledger.
package db

// Schema defines the SQL statements to create database tables.
const Schema = `
-- One row per collection run, successful or not
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,               -- UUID
    region TEXT NOT NULL,
    region_id INTEGER NOT NULL,
    category TEXT NOT NULL,
    category_id INTEGER NOT NULL,
    year_from INTEGER NOT NULL,
    year_to INTEGER NOT NULL,
    status TEXT NOT NULL,              -- 'succeeded' or 'failed'
    error TEXT,
    csv_path TEXT,
    chart_path TEXT,
    started_at TIMESTAMP NOT NULL,
    finished_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_selection
    ON runs(region_id, category_id);

CREATE INDEX IF NOT EXISTS idx_runs_started
    ON runs(started_at);

-- Values collected by a run
CREATE TABLE IF NOT EXISTS run_points (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    year INTEGER NOT NULL,
    value TEXT NOT NULL,               -- exact decimal string
    PRIMARY KEY (run_id, year)
);
`

// InitializeSchema initializes the database schema.
// It creates all tables if they don't exist.
func InitializeSchema(conn *Connection) error {
	if _, err := conn.Exec(Schema); err != nil {
		return err
	}
	return nil
}
