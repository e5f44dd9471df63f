package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/health-signal-classifier/internal/domain"
)

// sqliteTimeLayout sorts lexically in time order.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteClassificationStore stores classifications in a local SQLite file.
type SQLiteClassificationStore struct {
	db     *sql.DB
	dbPath string
	log    *logrus.Logger
}

// NewSQLiteClassificationStore opens (creating if needed) the database at
// dbPath and ensures the schema exists.
func NewSQLiteClassificationStore(dbPath string, logger *logrus.Logger) (*SQLiteClassificationStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(sqliteClassificationSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	logger.WithField("path", dbPath).Info("SQLite classification store opened")

	return &SQLiteClassificationStore{db: db, dbPath: dbPath, log: logger}, nil
}

const sqliteClassificationSchema = `
CREATE TABLE IF NOT EXISTS classifications (
	id TEXT PRIMARY KEY,
	message_hash TEXT NOT NULL,
	primary_diagnosis TEXT NOT NULL,
	confidence REAL NOT NULL,
	severity TEXT NOT NULL,
	urgency TEXT NOT NULL,
	anomaly_detected INTEGER NOT NULL DEFAULT 0,
	result TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_classifications_created_at ON classifications(created_at);
CREATE INDEX IF NOT EXISTS idx_classifications_diagnosis ON classifications(primary_diagnosis);
`

// SaveClassification inserts record, ignoring duplicate IDs.
func (s *SQLiteClassificationStore) SaveClassification(ctx context.Context, record *domain.ClassificationRecord) error {
	if record == nil || record.ID == "" {
		return fmt.Errorf("saving classification: %w", domain.ErrInvalidRecord)
	}

	payload, err := json.Marshal(record.Result)
	if err != nil {
		return fmt.Errorf("encoding classification result: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO classifications (
			id, message_hash, primary_diagnosis, confidence, severity,
			urgency, anomaly_detected, result, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.MessageHash,
		string(record.PrimaryDiagnosis),
		record.Confidence,
		string(record.Severity),
		string(record.Urgency),
		record.AnomalyDetected,
		string(payload),
		record.CreatedAt.UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"classification_id": record.ID,
			"error":             err,
		}).Error("Failed to save classification")
		return fmt.Errorf("saving classification: %w", err)
	}
	return nil
}

// GetClassification retrieves a classification by its ID
func (s *SQLiteClassificationStore) GetClassification(ctx context.Context, id string) (*domain.ClassificationRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, message_hash, primary_diagnosis, confidence, severity,
		       urgency, anomaly_detected, result, created_at
		FROM classifications WHERE id = ?`, id)

	record, err := scanSQLiteRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("classification %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("getting classification: %w", err)
	}
	return record, nil
}

// ListClassifications returns the newest classifications first.
func (s *SQLiteClassificationStore) ListClassifications(ctx context.Context, limit, offset int) ([]*domain.ClassificationRecord, error) {
	limit, offset = clampPage(limit, offset)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, message_hash, primary_diagnosis, confidence, severity,
		       urgency, anomaly_detected, result, created_at
		FROM classifications
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing classifications: %w", err)
	}
	defer rows.Close()

	var records []*domain.ClassificationRecord
	for rows.Next() {
		record, err := scanSQLiteRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning classification: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// CountByDiagnosis summarizes stored classifications per primary diagnosis,
// largest first.
func (s *SQLiteClassificationStore) CountByDiagnosis(ctx context.Context) ([]DiagnosisCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT primary_diagnosis, COUNT(*), SUM(anomaly_detected)
		FROM classifications
		GROUP BY primary_diagnosis
		ORDER BY COUNT(*) DESC, primary_diagnosis`)
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

// Health pings the database.
func (s *SQLiteClassificationStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Path returns the database file path.
func (s *SQLiteClassificationStore) Path() string {
	return s.dbPath
}

// Close closes the database.
func (s *SQLiteClassificationStore) Close() error {
	return s.db.Close()
}

func scanSQLiteRecord(row scanner) (*domain.ClassificationRecord, error) {
	var (
		record                       domain.ClassificationRecord
		diagnosis, severity, urgency string
		payload, createdAt           string
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
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	record.PrimaryDiagnosis = domain.Diagnosis(diagnosis)
	record.Severity = domain.SeverityLevel(severity)
	record.Urgency = domain.UrgencyLevel(urgency)

	record.CreatedAt, err = time.Parse(sqliteTimeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	if payload != "" && payload != "null" {
		var result domain.ClassificationResult
		if err := json.Unmarshal([]byte(payload), &result); err != nil {
			return nil, fmt.Errorf("decoding classification result: %w", err)
		}
		record.Result = &result
	}
	return &record, nil
}

var (
	_ domain.ClassificationStore = (*ClassificationRepository)(nil)
	_ domain.ClassificationStore = (*SQLiteClassificationStore)(nil)
)
