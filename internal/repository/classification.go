// Package repository persists classification results.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/health-signal-classifier/internal/domain"
)

// DefaultListLimit caps list queries that pass a non-positive limit.
const DefaultListLimit = 50

// MaxListLimit is the largest page a list query returns.
const MaxListLimit = 500

// DiagnosisCount is one row of a per-diagnosis summary.
type DiagnosisCount struct {
	Diagnosis domain.Diagnosis `json:"diagnosis"`
	Count     int64            `json:"count"`
	Anomalies int64            `json:"anomalies"`
}

// ClassificationRepository stores classifications in PostgreSQL.
type ClassificationRepository struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

// NewClassificationRepository creates a new classification repository
func NewClassificationRepository(db *pgxpool.Pool, logger *logrus.Logger) *ClassificationRepository {
	return &ClassificationRepository{
		db:  db,
		log: logger,
	}
}

// SaveClassification inserts record. Saving the same ID twice is a no-op so
// recorder retries stay idempotent.
func (r *ClassificationRepository) SaveClassification(ctx context.Context, record *domain.ClassificationRecord) error {
	if record == nil || record.ID == "" {
		return fmt.Errorf("saving classification: %w", domain.ErrInvalidRecord)
	}

	payload, err := json.Marshal(record.Result)
	if err != nil {
		return fmt.Errorf("encoding classification result: %w", err)
	}

	query := `
		INSERT INTO classifications (
			id, message_hash, primary_diagnosis, confidence, severity,
			urgency, anomaly_detected, result, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
		ON CONFLICT (id) DO NOTHING`

	_, err = r.db.Exec(ctx, query,
		record.ID,
		record.MessageHash,
		string(record.PrimaryDiagnosis),
		record.Confidence,
		string(record.Severity),
		string(record.Urgency),
		record.AnomalyDetected,
		payload,
		record.CreatedAt.UTC(),
	)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"classification_id": record.ID,
			"error":             err,
		}).Error("Failed to save classification")
		return fmt.Errorf("saving classification: %w", err)
	}

	r.log.WithFields(logrus.Fields{
		"classification_id": record.ID,
		"diagnosis":         record.PrimaryDiagnosis,
	}).Debug("Classification saved")

	return nil
}

// GetClassification retrieves a classification by its ID
func (r *ClassificationRepository) GetClassification(ctx context.Context, id string) (*domain.ClassificationRecord, error) {
	query := `
		SELECT id, message_hash, primary_diagnosis, confidence, severity,
		       urgency, anomaly_detected, result, created_at
		FROM classifications
		WHERE id = $1`

	record, err := scanRecord(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("classification %s: %w", id, domain.ErrNotFound)
		}
		r.log.WithFields(logrus.Fields{
			"classification_id": id,
			"error":             err,
		}).Error("Failed to get classification")
		return nil, fmt.Errorf("getting classification: %w", err)
	}
	return record, nil
}

// ListClassifications returns the newest classifications first.
func (r *ClassificationRepository) ListClassifications(ctx context.Context, limit, offset int) ([]*domain.ClassificationRecord, error) {
	limit, offset = clampPage(limit, offset)

	query := `
		SELECT id, message_hash, primary_diagnosis, confidence, severity,
		       urgency, anomaly_detected, result, created_at
		FROM classifications
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing classifications: %w", err)
	}
	defer rows.Close()

	var records []*domain.ClassificationRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning classification: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating classifications: %w", err)
	}
	return records, nil
}

// CountByDiagnosis summarizes stored classifications per primary diagnosis,
// largest first.
func (r *ClassificationRepository) CountByDiagnosis(ctx context.Context) ([]DiagnosisCount, error) {
	query := `
		SELECT primary_diagnosis, COUNT(*), COUNT(*) FILTER (WHERE anomaly_detected)
		FROM classifications
		GROUP BY primary_diagnosis
		ORDER BY COUNT(*) DESC, primary_diagnosis`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("counting classifications: %w", err)
	}
	defer rows.Close()

	var counts []DiagnosisCount
	for rows.Next() {
		var c DiagnosisCount
		var diagnosis string
		if err := rows.Scan(&diagnosis, &c.Count, &c.Anomalies); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		c.Diagnosis = domain.Diagnosis(diagnosis)
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// Health pings the pool.
func (r *ClassificationRepository) Health(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// scanner is satisfied by pgx.Row, pgx.Rows and *sql.Row(s).
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*domain.ClassificationRecord, error) {
	var (
		record                       domain.ClassificationRecord
		diagnosis, severity, urgency string
		payload                      []byte
	)
	err := row.Scan(
		&record.ID,
		&record.MessageHash,
		&diagnosis,
		&record.Confidence,
		&severity,
		&urgency,
		&record.AnomalyDetected,
		&payload,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.PrimaryDiagnosis = domain.Diagnosis(diagnosis)
	record.Severity = domain.SeverityLevel(severity)
	record.Urgency = domain.UrgencyLevel(urgency)
	record.CreatedAt = record.CreatedAt.UTC()

	if len(payload) > 0 && string(payload) != "null" {
		var result domain.ClassificationResult
		if err := json.Unmarshal(payload, &result); err != nil {
			return nil, fmt.Errorf("decoding classification result: %w", err)
		}
		record.Result = &result
	}
	return &record, nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
