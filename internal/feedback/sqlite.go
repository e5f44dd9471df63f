package feedback

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/health-signal-classifier/internal/domain"
)

// SQLiteStore implements Store on a local SQLite file.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore creates a new SQLite feedback store.
// It creates the database file and schema if they don't exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

// scanner is an interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanFeedback(s scanner) (*Feedback, error) {
	fb := &Feedback{}
	var suggested, confirmed string

	err := s.Scan(
		&fb.ID, &fb.ClassificationID, &fb.MessageHash,
		&suggested, &confirmed, &fb.Agreed,
		&fb.Notes, &fb.CreatedAt, &fb.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	fb.SuggestedDiagnosis = domain.Diagnosis(suggested)
	fb.ConfirmedDiagnosis = domain.Diagnosis(confirmed)
	return fb, nil
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS feedback (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		classification_id TEXT NOT NULL UNIQUE,
		message_hash TEXT NOT NULL DEFAULT '',
		suggested_diagnosis TEXT NOT NULL,
		confirmed_diagnosis TEXT NOT NULL,
		agreed INTEGER NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_feedback_suggested ON feedback(suggested_diagnosis);
	CREATE INDEX IF NOT EXISTS idx_feedback_created_at ON feedback(created_at);
	`

	_, err := db.Exec(schema)
	return err
}

const selectFeedback = `
	SELECT id, classification_id, message_hash,
		suggested_diagnosis, confirmed_diagnosis, agreed,
		notes, created_at, updated_at
	FROM feedback`

// Save stores or updates feedback for a classification.
func (s *SQLiteStore) Save(ctx context.Context, feedback *Feedback) error {
	if err := feedback.Normalize(); err != nil {
		return err
	}
	now := time.Now().UTC()

	var existingID int64
	var createdAt time.Time
	err := s.db.QueryRowContext(ctx,
		"SELECT id, created_at FROM feedback WHERE classification_id = ?",
		feedback.ClassificationID,
	).Scan(&existingID, &createdAt)

	if err == nil {
		_, err = s.db.ExecContext(ctx, `
			UPDATE feedback SET
				message_hash = ?,
				suggested_diagnosis = ?,
				confirmed_diagnosis = ?,
				agreed = ?,
				notes = ?,
				updated_at = ?
			WHERE id = ?
		`,
			feedback.MessageHash,
			string(feedback.SuggestedDiagnosis),
			string(feedback.ConfirmedDiagnosis),
			feedback.Agreed,
			feedback.Notes,
			now,
			existingID,
		)
		if err != nil {
			return fmt.Errorf("failed to update: %w", err)
		}
		feedback.ID = existingID
		feedback.CreatedAt = createdAt
		feedback.UpdatedAt = now
		return nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check existing: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO feedback (
			classification_id, message_hash,
			suggested_diagnosis, confirmed_diagnosis, agreed,
			notes, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		feedback.ClassificationID,
		feedback.MessageHash,
		string(feedback.SuggestedDiagnosis),
		string(feedback.ConfirmedDiagnosis),
		feedback.Agreed,
		feedback.Notes,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get insert ID: %w", err)
	}
	feedback.ID = id
	feedback.CreatedAt = now
	feedback.UpdatedAt = now

	return nil
}

// Get returns the feedback for a classification.
func (s *SQLiteStore) Get(ctx context.Context, classificationID string) (*Feedback, error) {
	row := s.db.QueryRowContext(ctx, selectFeedback+" WHERE classification_id = ?", classificationID)

	fb, err := scanFeedback(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("feedback for %s: %w", classificationID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan: %w", err)
	}
	return fb, nil
}

// List returns feedback newest first.
func (s *SQLiteStore) List(ctx context.Context, limit, offset int) ([]*Feedback, error) {
	rows, err := s.db.QueryContext(ctx, selectFeedback+" ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	var result []*Feedback
	for rows.Next() {
		fb, err := scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, fb)
	}
	return result, rows.Err()
}

// Count returns the total number of feedback entries.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM feedback").Scan(&count)
	return count, err
}

// Delete removes a feedback entry by ID.
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM feedback WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("feedback %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// AgreementStats groups feedback by suggested diagnosis.
func (s *SQLiteStore) AgreementStats(ctx context.Context) ([]DiseaseAgreement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT suggested_diagnosis, COUNT(*), SUM(agreed)
		FROM feedback
		GROUP BY suggested_diagnosis
		ORDER BY suggested_diagnosis
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query agreement: %w", err)
	}
	defer rows.Close()

	var stats []DiseaseAgreement
	for rows.Next() {
		var a DiseaseAgreement
		var disease string
		if err := rows.Scan(&disease, &a.Total, &a.Agreed); err != nil {
			return nil, fmt.Errorf("failed to scan agreement: %w", err)
		}
		a.Disease = domain.Diagnosis(disease)
		a.Rate = agreementRate(a.Agreed, a.Total)
		stats = append(stats, a)
	}
	return stats, rows.Err()
}

// ExportJSON writes every entry as an Export document.
func (s *SQLiteStore) ExportJSON(ctx context.Context, writer io.Writer) error {
	return exportJSON(ctx, s, writer)
}

// ImportJSON imports feedback from a JSON reader.
func (s *SQLiteStore) ImportJSON(ctx context.Context, reader io.Reader) (int, int, error) {
	return importJSON(ctx, s, reader)
}

// Close closes the store and releases resources.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
