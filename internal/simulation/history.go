package simulation

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/virtual-patient-simulator/internal/domain"
)

// SQLiteHistory keeps a queryable summary of past simulation runs in SQLite.
// The full records live as JSON files in the FileStore; this table only
// exists so recent runs can be listed without scanning the output directory.
type SQLiteHistory struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteHistory opens (and if needed creates) the history database.
func NewSQLiteHistory(dbPath string) (*SQLiteHistory, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteHistory{db: db, dbPath: dbPath}, nil
}

// createSchema creates the database tables and indexes.
func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		patient_id TEXT NOT NULL UNIQUE,
		ground_truth TEXT NOT NULL,
		outcome TEXT NOT NULL,
		correct_count INTEGER NOT NULL DEFAULT 0,
		stored_path TEXT DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
	`

	_, err := db.Exec(schema)
	return err
}

// Record stores a summary row for a completed run.
func (s *SQLiteHistory) Record(ctx context.Context, record *domain.SimulationRecord) error {
	correct := 0
	for _, ok := range record.Correctness {
		if ok {
			correct++
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (patient_id, ground_truth, outcome, correct_count, stored_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		record.Patient.PatientID,
		string(record.Patient.GroundTruth),
		string(record.Outcome),
		correct,
		record.StoredPath,
		record.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// Recent returns summaries of the most recent runs, newest first.
func (s *SQLiteHistory) Recent(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT patient_id, ground_truth, outcome, correct_count, stored_path, created_at
		FROM runs
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]domain.RunSummary, 0, limit)
	for rows.Next() {
		var summary domain.RunSummary
		var groundTruth, outcome string
		if err := rows.Scan(&summary.PatientID, &groundTruth, &outcome,
			&summary.CorrectCount, &summary.StoredPath, &summary.CreatedAt); err != nil {
			return nil, err
		}
		summary.GroundTruth = domain.Disease(groundTruth)
		summary.Outcome = domain.RunOutcome(outcome)
		summaries = append(summaries, summary)
	}

	return summaries, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteHistory) Close() error {
	return s.db.Close()
}
