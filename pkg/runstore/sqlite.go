package runstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/avencia/stageline/pkg/state"
)

// SQLiteStore persists run records to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and ensures the
// schema exists. WAL mode and a busy timeout keep concurrent runs from
// tripping over each other's writes.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=10000&_synchronous=NORMAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single writer avoids SQLITE_BUSY under concurrent runs.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS agent_runs (
		run_id TEXT PRIMARY KEY,
		ticket_id TEXT,
		input_payload TEXT NOT NULL,
		final_payload TEXT,
		log TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_agent_runs_ticket ON agent_runs(ticket_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Persist inserts or replaces the run record.
func (s *SQLiteStore) Persist(ctx context.Context, record *state.RunRecord) error {
	input, err := json.Marshal(record.Input)
	if err != nil {
		return fmt.Errorf("marshal input payload: %w", err)
	}
	final, err := json.Marshal(record.Final)
	if err != nil {
		return fmt.Errorf("marshal final payload: %w", err)
	}
	logLines, err := json.Marshal(record.Log)
	if err != nil {
		return fmt.Errorf("marshal log: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO agent_runs
		(run_id, ticket_id, input_payload, final_payload, log, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, record.RunID, record.TicketID, string(input), string(final), string(logLines), record.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert run record: %w", err)
	}
	return nil
}

// Get returns the record for a run ID.
func (s *SQLiteStore) Get(ctx context.Context, runID string) (*state.RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT run_id, ticket_id, input_payload, final_payload, log, created_at
		FROM agent_runs WHERE run_id = ?
	`, runID)
	return scanRecord(row)
}

// ListByTicket returns records for a ticket, oldest first.
func (s *SQLiteStore) ListByTicket(ctx context.Context, ticketID string) ([]*state.RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, ticket_id, input_payload, final_payload, log, created_at
		FROM agent_runs WHERE ticket_id = ? ORDER BY created_at
	`, ticketID)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []*state.RunRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*state.RunRecord, error) {
	var record state.RunRecord
	var input, final, logLines string
	err := row.Scan(&record.RunID, &record.TicketID, &input, &final, &logLines, &record.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan run record: %w", err)
	}

	if err := json.Unmarshal([]byte(input), &record.Input); err != nil {
		return nil, fmt.Errorf("unmarshal input payload: %w", err)
	}
	if err := json.Unmarshal([]byte(final), &record.Final); err != nil {
		return nil, fmt.Errorf("unmarshal final payload: %w", err)
	}
	if err := json.Unmarshal([]byte(logLines), &record.Log); err != nil {
		return nil, fmt.Errorf("unmarshal log: %w", err)
	}
	return &record, nil
}
