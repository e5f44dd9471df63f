package feedback

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	_ "github.com/lib/pq"

	"github.com/health-signal-classifier/internal/domain"
)

// PostgresStore implements the Store interface using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps db. The feedback table comes from the migrations.
func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// NewPostgresStoreFromURL creates a new PostgreSQL feedback store from a connection URL.
func NewPostgresStoreFromURL(databaseURL string, cfg domain.DatabaseConfig) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	maxOpen, maxIdle, lifetime := cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime
	if maxOpen <= 0 {
		maxOpen = 25
	}
	if maxIdle <= 0 {
		maxIdle = 5
	}
	if lifetime <= 0 {
		lifetime = 5 * time.Minute
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(lifetime)

	store, err := NewPostgresStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// Save upserts feedback keyed by classification ID.
func (s *PostgresStore) Save(ctx context.Context, feedback *Feedback) error {
	if err := feedback.Normalize(); err != nil {
		return err
	}
	now := time.Now().UTC()

	query := `
		INSERT INTO feedback (
			classification_id, message_hash,
			suggested_diagnosis, confirmed_diagnosis, agreed,
			notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (classification_id) DO UPDATE SET
			message_hash = EXCLUDED.message_hash,
			suggested_diagnosis = EXCLUDED.suggested_diagnosis,
			confirmed_diagnosis = EXCLUDED.confirmed_diagnosis,
			agreed = EXCLUDED.agreed,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		feedback.ClassificationID,
		feedback.MessageHash,
		string(feedback.SuggestedDiagnosis),
		string(feedback.ConfirmedDiagnosis),
		feedback.Agreed,
		feedback.Notes,
		now,
		now,
	).Scan(&feedback.ID, &feedback.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save feedback: %w", err)
	}

	feedback.UpdatedAt = now
	return nil
}

const pgSelectFeedback = `
	SELECT id, classification_id, message_hash,
		suggested_diagnosis, confirmed_diagnosis, agreed,
		notes, created_at, updated_at
	FROM feedback`

// Get returns the feedback for a classification.
func (s *PostgresStore) Get(ctx context.Context, classificationID string) (*Feedback, error) {
	row := s.db.QueryRowContext(ctx, pgSelectFeedback+" WHERE classification_id = $1", classificationID)

	fb, err := scanFeedback(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("feedback for %s: %w", classificationID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}
	return fb, nil
}

// List returns feedback newest first.
func (s *PostgresStore) List(ctx context.Context, limit, offset int) ([]*Feedback, error) {
	rows, err := s.db.QueryContext(ctx, pgSelectFeedback+" ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
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
func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM feedback").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count feedback: %w", err)
	}
	return count, nil
}

// Delete removes a feedback entry by ID.
func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM feedback WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete feedback: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("feedback %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// AgreementStats groups feedback by suggested diagnosis.
func (s *PostgresStore) AgreementStats(ctx context.Context) ([]DiseaseAgreement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT suggested_diagnosis, COUNT(*), COUNT(*) FILTER (WHERE agreed)
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
func (s *PostgresStore) ExportJSON(ctx context.Context, writer io.Writer) error {
	return exportJSON(ctx, s, writer)
}

// ImportJSON imports feedback from a JSON reader.
func (s *PostgresStore) ImportJSON(ctx context.Context, reader io.Reader) (int, int, error) {
	return importJSON(ctx, s, reader)
}

// Close closes the store and releases resources.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

var (
	_ Store = (*PostgresStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)
