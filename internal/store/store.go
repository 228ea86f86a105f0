// Package store records analysis runs in a SQLite results database so earlier
// outputs can be listed, re-exported and pruned.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harrison/fieldstat/internal/binning"
	_ "github.com/mattn/go-sqlite3"
)

// ErrRunNotFound is returned when no run matches an ID
var ErrRunNotFound = errors.New("run not found")

// minPrefixLen is the shortest ID prefix GetRun will resolve
const minPrefixLen = 4

// Run is one recorded analysis
type Run struct {
	ID        string
	Metric    string
	Window    binning.Window
	Animals   int
	Source    string // Data directory the records were loaded from
	CreatedAt time.Time
	Payload   []byte // JSON-encoded report
}

// Store manages the SQLite results database
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore creates a new Store instance and initializes the database
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
	// Every connection to :memory: is a separate database
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

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

	s := &Store{db: db, dbPath: dbPath}
	if err := s.ApplyMigrations(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
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

// Path returns the database path
func (s *Store) Path() string {
	return s.dbPath
}

// RecordRun inserts a run. A missing ID is filled with a new UUID and a zero
// CreatedAt with the current time.
func (s *Store) RecordRun(ctx context.Context, run *Run) error {
	if run.Metric == "" {
		return fmt.Errorf("run metric is required")
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	payload := run.Payload
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	query := `INSERT INTO analysis_runs
		(id, metric, window_start, window_end, bin_width, animals, source, created_at, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		run.ID,
		run.Metric,
		run.Window.Start,
		run.Window.End,
		run.Window.BinWidth,
		run.Animals,
		run.Source,
		run.CreatedAt.UnixNano(),
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("insert analysis run: %w", err)
	}
	return nil
}

// ListRuns returns runs newest first without their payloads. An empty metric
// matches every metric; a non-positive limit returns all runs.
func (s *Store) ListRuns(ctx context.Context, metric string, limit int) ([]*Run, error) {
	query := `SELECT id, metric, window_start, window_end, bin_width, animals, source, created_at
		FROM analysis_runs`
	var args []interface{}
	if metric != "" {
		query += ` WHERE metric = ?`
		args = append(args, metric)
	}
	query += ` ORDER BY created_at DESC, id ASC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query analysis runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows, false)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analysis runs: %w", err)
	}
	return runs, nil
}

// GetRun returns a run with its payload. id may be the full ID or a unique
// prefix of at least four characters.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrRunNotFound
	}

	query := `SELECT id, metric, window_start, window_end, bin_width, animals, source, created_at, payload
		FROM analysis_runs WHERE id = ?`
	run, err := scanRun(s.db.QueryRowContext(ctx, query, id), true)
	if err == nil {
		return run, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if len(id) < minPrefixLen {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id FROM analysis_runs WHERE id LIKE ? || '%' LIMIT 2`, id)
	if err != nil {
		return nil, fmt.Errorf("query run prefix: %w", err)
	}
	var matches []string
	for rows.Next() {
		var match string
		if err := rows.Scan(&match); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan run id: %w", err)
		}
		matches = append(matches, match)
	}
	rows.Close()

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case 1:
		return scanRun(s.db.QueryRowContext(ctx, query, matches[0]), true)
	default:
		return nil, fmt.Errorf("run prefix %q is ambiguous", id)
	}
}

// DeleteRuns removes runs created before olderThan and returns how many were deleted
func (s *Store) DeleteRuns(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM analysis_runs WHERE created_at < ?`, olderThan.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("delete analysis runs: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner, withPayload bool) (*Run, error) {
	run := &Run{}
	var source sql.NullString
	var payload sql.NullString
	var createdAt int64

	dest := []interface{}{
		&run.ID,
		&run.Metric,
		&run.Window.Start,
		&run.Window.End,
		&run.Window.BinWidth,
		&run.Animals,
		&source,
		&createdAt,
	}
	if withPayload {
		dest = append(dest, &payload)
	}

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan analysis run: %w", err)
	}

	if source.Valid {
		run.Source = source.String
	}
	if payload.Valid {
		run.Payload = []byte(payload.String)
	}
	run.CreatedAt = time.Unix(0, createdAt).UTC()
	return run, nil
}
