package results

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"subocr/internal/config"
)

// Store manages result persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// ErrRunNotFound indicates no run matched the requested identifier.
var ErrRunNotFound = errors.New("run not found")

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open initializes or connects to the results database in the log
// directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "results.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// CreateRun records the start of a batch run.
func (s *Store) CreateRun(ctx context.Context, runID string, startedAt time.Time) error {
	return s.execWithRetry(ctx,
		"INSERT INTO runs (id, started_at) VALUES (?, ?)",
		runID, startedAt.UTC().Format(time.RFC3339Nano))
}

// FinishRun records the completion of a batch run with its tallies.
func (s *Store) FinishRun(ctx context.Context, runID string, finishedAt time.Time, total, succeeded, failed int) error {
	return s.execWithRetry(ctx,
		"UPDATE runs SET finished_at = ?, total = ?, succeeded = ?, failed = ? WHERE id = ?",
		finishedAt.UTC().Format(time.RFC3339Nano), total, succeeded, failed, runID)
}

// AddRecord appends a per-video outcome to a run.
func (s *Store) AddRecord(ctx context.Context, record Record) error {
	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return s.execWithRetry(ctx, `
INSERT INTO results (
    run_id, video, success, message, output_srt,
    status, size, lines, empty_lines, subtitles, time_sequences,
    avg_subtitle_length, duration_seconds, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.RunID, record.Video, record.Success, record.Message, record.OutputSRT,
		record.Report.Status, record.Report.Size, record.Report.LineCount,
		record.Report.EmptyLineCount, record.Report.SubtitleCount,
		record.Report.TimeSequenceCount, record.Report.AverageSubtitleLength,
		record.Report.DurationSeconds, createdAt.UTC().Format(time.RFC3339Nano))
}

// LatestRun returns the most recently started run.
func (s *Store) LatestRun(ctx context.Context) (Run, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		"SELECT id, started_at, finished_at, total, succeeded, failed FROM runs ORDER BY started_at DESC LIMIT 1")
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	return run, err
}

// GetRun returns a run by identifier.
func (s *Store) GetRun(ctx context.Context, runID string) (Run, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		"SELECT id, started_at, finished_at, total, succeeded, failed FROM runs WHERE id = ?", runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	return run, err
}

// ListRuns returns runs ordered newest-first, capped at limit when
// positive.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := "SELECT id, started_at, finished_at, total, succeeded, failed FROM runs ORDER BY started_at DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RecordsForRun returns the per-video outcomes of a run in insertion
// order.
func (s *Store) RecordsForRun(ctx context.Context, runID string) ([]Record, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `
SELECT id, run_id, video, success, message, output_srt,
       status, size, lines, empty_lines, subtitles, time_sequences,
       avg_subtitle_length, duration_seconds, created_at
FROM results WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var record Record
		var createdAt string
		if err := rows.Scan(
			&record.ID, &record.RunID, &record.Video, &record.Success,
			&record.Message, &record.OutputSRT,
			&record.Report.Status, &record.Report.Size, &record.Report.LineCount,
			&record.Report.EmptyLineCount, &record.Report.SubtitleCount,
			&record.Report.TimeSequenceCount, &record.Report.AverageSubtitleLength,
			&record.Report.DurationSeconds, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		record.CreatedAt = parseTime(createdAt)
		record.Report.HasContent = record.Report.SubtitleCount > 0 && record.Report.TimeSequenceCount > 0
		records = append(records, record)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	var startedAt string
	var finishedAt sql.NullString
	if err := row.Scan(&run.ID, &startedAt, &finishedAt, &run.Total, &run.Succeeded, &run.Failed); err != nil {
		return Run{}, err
	}
	run.StartedAt = parseTime(startedAt)
	if finishedAt.Valid {
		run.FinishedAt = parseTime(finishedAt.String)
	}
	return run, nil
}

func parseTime(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) error {
	ctx = ensureContext(ctx)
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		_, lastErr = s.db.ExecContext(ctx, query, args...)
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
