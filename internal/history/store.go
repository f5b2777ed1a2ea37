// Package history keeps an append-only sqlite log of slow-test detections.
//
// Runtime notes under test-runtime/ only show the latest detection of each
// test. The history database records every detection so a trend can be
// read back with `tddkit runtime-history`.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/tddkit/internal/models"
)

//go:embed schema.sql
var schemaSQL string

// Run is one recorded detection
type Run struct {
	ID          int64
	RunID       string
	TestName    string
	TestFile    string
	RuntimeMS   int
	Framework   string
	ThresholdMS int
	DetectedAt  time.Time
}

// Query filters ListRuns
type Query struct {
	// TestName restricts results to one test; empty means all
	TestName string
	// Limit caps the number of rows; 0 means no limit
	Limit int
}

// Store manages the history database
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if needed) the database at dbPath
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps ":memory:" databases alive across calls
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout=5000", // Must be first
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// execWithRetry executes a statement with exponential backoff on lock errors
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.dbPath
}

// RecordRun stores entries as one detection run and returns the run id
func (s *Store) RecordRun(ctx context.Context, entries []models.SlowTest, framework string, thresholdMS int, detectedAt time.Time) (string, error) {
	runID := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO slow_test_runs (run_id, test_name, test_file, runtime_ms, framework, threshold_ms, detected_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		if _, err := stmt.ExecContext(ctx, runID, entry.TestName, models.OrPlaceholder(entry.TestFile),
			entry.RuntimeMS, framework, thresholdMS, detectedAt.UTC()); err != nil {
			return "", fmt.Errorf("insert %q: %w", entry.TestName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return runID, nil
}

// ListRuns returns recorded detections, newest first
func (s *Store) ListRuns(ctx context.Context, q Query) ([]Run, error) {
	query := `SELECT id, run_id, test_name, test_file, runtime_ms, framework, threshold_ms, detected_at
		FROM slow_test_runs`
	var args []interface{}
	if q.TestName != "" {
		query += ` WHERE test_name = ?`
		args = append(args, q.TestName)
	}
	query += ` ORDER BY detected_at DESC, id DESC`
	if q.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.RunID, &r.TestName, &r.TestFile, &r.RuntimeMS,
			&r.Framework, &r.ThresholdMS, &r.DetectedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
