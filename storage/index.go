package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Index is a SQLite summary of persisted runs so history queries avoid
// scanning every JSON document. Best-effort: the JSON files stay the
// system of record.
type Index struct {
	db *sql.DB
}

// IndexEntry is one row of the run history.
type IndexEntry struct {
	RunID        string    `json:"run_id"`
	Timestamp    time.Time `json:"timestamp"`
	Score        int       `json:"score"`
	Verdict      string    `json:"verdict"`
	PropertyType string    `json:"property_type"`
	City         string    `json:"city"`
	LocalPath    string    `json:"local_path"`
}

// OpenIndex opens (and migrates) the run index database.
func OpenIndex(path string) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	ix := &Index{db: db}
	if err := ix.migrate(); err != nil {
		return nil, err
	}
	return ix, nil
}

func (ix *Index) Close() error { return ix.db.Close() }

func (ix *Index) migrate() error {
	_, err := ix.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		created_at TIMESTAMP,
		score INTEGER,
		verdict TEXT,
		property_type TEXT,
		city TEXT,
		local_path TEXT
	);`)
	return err
}

// RecordRun upserts the index row for a run.
func (ix *Index) RecordRun(ctx context.Context, run *RunRecord) error {
	_, err := ix.db.ExecContext(ctx, `INSERT INTO runs(run_id, created_at, score, verdict, property_type, city, local_path)
		VALUES(?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET score=excluded.score, verdict=excluded.verdict, property_type=excluded.property_type, city=excluded.city, local_path=excluded.local_path`,
		run.RunID, run.Timestamp, run.ScoreData.Score, run.ScoreData.Verdict,
		run.StructuredDeal.PropertyTypeName(), run.StructuredDeal.Location.CityName(), run.LocalPath)
	return err
}

// ListRuns returns the newest runs first.
func (ix *Index) ListRuns(ctx context.Context, limit int) ([]IndexEntry, error) {
	rows, err := ix.db.QueryContext(ctx, `SELECT run_id, created_at, score, verdict, property_type, city, local_path
		FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []IndexEntry
	for rows.Next() {
		var e IndexEntry
		if err := rows.Scan(&e.RunID, &e.Timestamp, &e.Score, &e.Verdict, &e.PropertyType, &e.City, &e.LocalPath); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Health returns an error if the database is not reachable.
func (ix *Index) Health(ctx context.Context) error {
	row := ix.db.QueryRowContext(ctx, `SELECT 1`)
	var v int
	if err := row.Scan(&v); err != nil {
		return fmt.Errorf("index health: %w", err)
	}
	return nil
}
