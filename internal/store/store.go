// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists paper records: a SQLite database that records
// each crawl run, YAML/JSON/CSV exports, and summary statistics.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/HamBa-m/sci-scraper/pkg/types"
)

// Sink receives records as a crawl produces them. Implementations must be
// safe for concurrent use.
type Sink interface {
	Append(ctx context.Context, recs ...types.PaperRecord) error
}

// Run describes one crawl run recorded in the database.
type Run struct {
	ID        string
	Mode      string
	StartedAt time.Time
	Papers    int
}

// SQLiteStore manages the records database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and its schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection serializes writers from concurrent venue jobs.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			mode TEXT NOT NULL,
			started_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS papers (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			title TEXT NOT NULL,
			url TEXT NOT NULL,
			abstract TEXT,
			abstract_status TEXT,
			source TEXT,
			year INTEGER,
			citation TEXT,
			classifications TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_run_id ON papers(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_source ON papers(source)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// NewRun records the start of a crawl run and returns a sink that appends
// records to it.
func (s *SQLiteStore) NewRun(ctx context.Context, mode string) (*RunSink, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, mode, started_at) VALUES (?, ?, ?)`,
		id, mode, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting run: %w", err)
	}
	return &RunSink{store: s, id: id}, nil
}

// Runs lists recorded runs, oldest first.
func (s *SQLiteStore) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.mode, r.started_at, COUNT(p.rowid)
		FROM runs r LEFT JOIN papers p ON p.run_id = r.id
		GROUP BY r.id
		ORDER BY r.started_at, r.id`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started string
		if err := rows.Scan(&r.ID, &r.Mode, &started, &r.Papers); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Records returns the records of a run in insertion order.
func (s *SQLiteStore) Records(ctx context.Context, runID string) ([]types.PaperRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT title, url, abstract, abstract_status, source, year, citation, classifications
		FROM papers WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var recs []types.PaperRecord
	for rows.Next() {
		var (
			r               types.PaperRecord
			abstract        sql.NullString
			status          sql.NullString
			year            sql.NullInt64
			citation        sql.NullString
			classifications sql.NullString
		)
		if err := rows.Scan(&r.Title, &r.URL, &abstract, &status, &r.Source, &year, &citation, &classifications); err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		if abstract.Valid {
			r.Abstract = &abstract.String
		}
		r.AbstractStatus = types.AbstractStatus(status.String)
		if year.Valid {
			r.Year = types.Ptr(int(year.Int64))
		}
		r.Citation = citation.String
		if classifications.Valid && classifications.String != "" {
			if err := json.Unmarshal([]byte(classifications.String), &r.Classifications); err != nil {
				return nil, fmt.Errorf("decoding classifications of %q: %w", r.Title, err)
			}
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

// RunSink appends records to one run.
type RunSink struct {
	store *SQLiteStore
	id    string
}

// ID returns the run identifier.
func (r *RunSink) ID() string { return r.id }

// Append inserts recs in one transaction, preserving their order.
func (r *RunSink) Append(ctx context.Context, recs ...types.PaperRecord) error {
	if len(recs) == 0 {
		return nil
	}
	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO papers (run_id, title, url, abstract, abstract_status, source, year, citation, classifications)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range recs {
		var classifications any
		if len(rec.Classifications) > 0 {
			data, err := json.Marshal(rec.Classifications)
			if err != nil {
				return fmt.Errorf("encoding classifications of %q: %w", rec.Title, err)
			}
			classifications = string(data)
		}
		var year any
		if rec.Year != nil {
			year = *rec.Year
		}
		var abstract any
		if rec.Abstract != nil {
			abstract = *rec.Abstract
		}
		if _, err := stmt.ExecContext(ctx,
			r.id, rec.Title, rec.URL, abstract, string(rec.AbstractStatus),
			rec.Source, year, rec.Citation, classifications,
		); err != nil {
			return fmt.Errorf("inserting %q: %w", rec.Title, err)
		}
	}
	return tx.Commit()
}
