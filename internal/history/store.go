// Package history records filestat runs in a SQLite database so earlier
// results can be listed with "filestat history".
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

	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/filestat/internal/models"
)

//go:embed schema.sql
var schemaSQL string

// Run outcomes as stored in the database
const (
	OutcomeSucceeded        = "succeeded"
	OutcomeValidationFailed = "validation_failed"
	OutcomeUnexpectedError  = "unexpected_error"
)

// storedTimeLayout sorts lexically in time order for UTC times
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is one recorded filestat invocation
type Run struct {
	ID           string
	StartedAt    time.Time
	Duration     time.Duration
	InputFolder  string
	OutputFolder string
	Outcome      string // One of the Outcome* constants
	ExitCode     int
	Totals       models.Totals
	ErrorMessage string
	Files        []models.FileRecord // Set by callers of Record, loaded by Find
}

// Store manages the SQLite run history database
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if needed) the history database at dbPath.
// ":memory:" opens a private in-memory database.
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
		"PRAGMA foreign_keys=ON",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
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

// Path returns the database location
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record stores run and its files in a single transaction.
func (s *Store) Record(ctx context.Context, run *Run) error {
	if run == nil || run.ID == "" {
		return fmt.Errorf("run id is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO runs
		(id, started_at, duration_ms, input_folder, output_folder, outcome, exit_code,
		 total_files, text_files, binary_files, total_size_bytes, total_lines, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(storedTimeLayout),
		run.Duration.Milliseconds(),
		run.InputFolder,
		run.OutputFolder,
		run.Outcome,
		run.ExitCode,
		run.Totals.TotalFiles,
		run.Totals.TextFiles,
		run.Totals.BinaryFiles,
		run.Totals.TotalSizeBytes,
		run.Totals.TotalLines,
		run.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO run_files
		(run_id, position, name, size_bytes, type, line_count, modified, encoding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare file insert: %w", err)
	}
	defer stmt.Close()

	for i, f := range run.Files {
		var lines sql.NullInt64
		if f.LineCount != nil {
			lines = sql.NullInt64{Int64: int64(*f.LineCount), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, run.ID, i, f.Name, f.SizeBytes, f.Type, lines, f.Modified, f.Encoding); err != nil {
			return fmt.Errorf("insert file %s: %w", f.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// List returns up to limit runs, newest first. A limit <= 0 returns all runs.
// Files are not loaded; use Files for a single run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, started_at, duration_ms, input_folder, output_folder, outcome, exit_code,
		total_files, text_files, binary_files, total_size_bytes, total_lines, error_message
		FROM runs ORDER BY started_at DESC, rowid DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run        Run
			startedAt  string
			durationMS int64
		)
		err := rows.Scan(&run.ID, &startedAt, &durationMS, &run.InputFolder, &run.OutputFolder,
			&run.Outcome, &run.ExitCode, &run.Totals.TotalFiles, &run.Totals.TextFiles,
			&run.Totals.BinaryFiles, &run.Totals.TotalSizeBytes, &run.Totals.TotalLines, &run.ErrorMessage)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		started, err := time.Parse(storedTimeLayout, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parse started_at %q: %w", startedAt, err)
		}
		run.StartedAt = started.Local()
		run.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Files returns the file records of a run in their original order.
func (s *Store) Files(ctx context.Context, runID string) ([]models.FileRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, size_bytes, type, line_count, modified, encoding
		FROM run_files WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run files: %w", err)
	}
	defer rows.Close()

	var files []models.FileRecord
	for rows.Next() {
		var (
			f     models.FileRecord
			lines sql.NullInt64
		)
		if err := rows.Scan(&f.Name, &f.SizeBytes, &f.Type, &lines, &f.Modified, &f.Encoding); err != nil {
			return nil, fmt.Errorf("scan run file: %w", err)
		}
		if lines.Valid {
			n := int(lines.Int64)
			f.LineCount = &n
		}
		f.SizeKB = models.Decimal(models.Round2(float64(f.SizeBytes) / 1024))
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run files: %w", err)
	}
	return files, nil
}

// Find returns the run whose ID starts with prefix. Prefixes matching more
// than one run are rejected.
func (s *Store) Find(ctx context.Context, prefix string) (*Run, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, fmt.Errorf("run id is required")
	}

	runs, err := s.List(ctx, 0)
	if err != nil {
		return nil, err
	}

	var match *Run
	for i := range runs {
		if strings.HasPrefix(runs[i].ID, prefix) {
			if match != nil {
				return nil, fmt.Errorf("run id %q is ambiguous", prefix)
			}
			match = &runs[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no run with id %q", prefix)
	}

	files, err := s.Files(ctx, match.ID)
	if err != nil {
		return nil, err
	}
	match.Files = files
	return match, nil
}
