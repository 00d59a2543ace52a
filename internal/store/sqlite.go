package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	apperrors "equity-trader/internal/errors"
	"equity-trader/internal/models"
)

// SQLiteStore implements DecisionStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS decisions (
		id TEXT PRIMARY KEY,
		ticker TEXT NOT NULL,
		decision TEXT NOT NULL,
		candidate_type TEXT,
		block_stage TEXT,
		reason_log TEXT NOT NULL,
		action_plan TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_decisions_ticker ON decisions(ticker);
	CREATE INDEX IF NOT EXISTS idx_decisions_created_at ON decisions(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRecord persists one decision record, assigning an ID and timestamp
// when the caller left them empty.
func (s *SQLiteStore) SaveRecord(ctx context.Context, record *DecisionRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	reasonLog, err := json.Marshal(record.ReasonLog)
	if err != nil {
		return fmt.Errorf("failed to encode reason log: %w", err)
	}
	actionPlan, err := json.Marshal(record.ActionPlan)
	if err != nil {
		return fmt.Errorf("failed to encode action plan: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO decisions (id, ticker, decision, candidate_type, block_stage, reason_log, action_plan, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, record.ID, record.Ticker, string(record.Decision), string(record.CandidateType), record.BlockStage, string(reasonLog), string(actionPlan), record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save decision record: %w", err)
	}
	return nil
}

// GetRecords lists records matching the filter, newest first.
func (s *SQLiteStore) GetRecords(ctx context.Context, filter RecordFilter) ([]DecisionRecord, error) {
	query := "SELECT id, ticker, decision, candidate_type, block_stage, reason_log, action_plan, created_at FROM decisions WHERE 1=1"
	args := []interface{}{}

	if filter.Ticker != "" {
		query += " AND ticker = ?"
		args = append(args, filter.Ticker)
	}
	if filter.Decision != "" {
		query += " AND decision = ?"
		args = append(args, string(filter.Decision))
	}
	if !filter.Since.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, filter.Since)
	}

	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query decision records: %w", err)
	}
	defer rows.Close()

	var records []DecisionRecord
	for rows.Next() {
		record, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// GetRecordByID fetches a single record, returning ErrDataNotFound when
// the ID is unknown.
func (s *SQLiteStore) GetRecordByID(ctx context.Context, id string) (*DecisionRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, ticker, decision, candidate_type, block_stage, reason_log, action_plan, created_at
		FROM decisions WHERE id = ?
	`, id)

	record, err := scanRecord(row.Scan)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrDataNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func scanRecord(scan func(dest ...interface{}) error) (DecisionRecord, error) {
	var record DecisionRecord
	var decision, candidateType, reasonLogJSON, actionPlanJSON string

	err := scan(&record.ID, &record.Ticker, &decision, &candidateType, &record.BlockStage,
		&reasonLogJSON, &actionPlanJSON, &record.CreatedAt)
	if err == sql.ErrNoRows {
		return record, err
	}
	if err != nil {
		return record, fmt.Errorf("failed to scan decision record: %w", err)
	}

	record.Decision = models.FinalDecision(decision)
	record.CandidateType = models.CandidateType(candidateType)
	if err := json.Unmarshal([]byte(reasonLogJSON), &record.ReasonLog); err != nil {
		return record, fmt.Errorf("failed to decode reason log: %w", err)
	}
	if err := json.Unmarshal([]byte(actionPlanJSON), &record.ActionPlan); err != nil {
		return record, fmt.Errorf("failed to decode action plan: %w", err)
	}
	return record, nil
}
