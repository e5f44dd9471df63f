// Package feedback stores clinician confirmations of classifications. The
// agreement rate per disease is the main input for tuning signatures.
package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/health-signal-classifier/internal/domain"
)

// ExportVersion tags the JSON export format.
const ExportVersion = "1.0"

// Feedback records what a clinician concluded about one classification.
type Feedback struct {
	ID                 int64            `json:"id,omitempty"`
	ClassificationID   string           `json:"classification_id"`
	MessageHash        string           `json:"message_hash,omitempty"`
	SuggestedDiagnosis domain.Diagnosis `json:"suggested_diagnosis"`
	ConfirmedDiagnosis domain.Diagnosis `json:"confirmed_diagnosis"`
	Agreed             bool             `json:"agreed"`
	Notes              string           `json:"notes,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// Normalize trims the identifiers and derives Agreed from the two
// diagnoses, then validates the entry.
func (f *Feedback) Normalize() error {
	f.ClassificationID = strings.TrimSpace(f.ClassificationID)
	f.MessageHash = strings.TrimSpace(f.MessageHash)
	f.Notes = strings.TrimSpace(f.Notes)

	if f.ClassificationID == "" {
		return domain.NewValidationError("classification_id", "is required", f.ClassificationID)
	}
	if !f.SuggestedDiagnosis.IsValid() {
		return domain.NewValidationError("suggested_diagnosis", "unknown diagnosis", f.SuggestedDiagnosis)
	}
	if !f.ConfirmedDiagnosis.IsValid() {
		return domain.NewValidationError("confirmed_diagnosis", "unknown diagnosis", f.ConfirmedDiagnosis)
	}
	if len(f.Notes) > 2000 {
		return domain.NewValidationError("notes", "must be at most 2000 characters", len(f.Notes))
	}

	f.Agreed = f.SuggestedDiagnosis == f.ConfirmedDiagnosis
	return nil
}

// DiseaseAgreement summarizes feedback for one suggested diagnosis.
type DiseaseAgreement struct {
	Disease domain.Diagnosis `json:"disease"`
	Total   int64            `json:"total"`
	Agreed  int64            `json:"agreed"`
	Rate    float64          `json:"agreement_rate"`
}

// Store defines feedback persistence.
type Store interface {
	// Save inserts feedback, or updates the entry already stored for the
	// same classification.
	Save(ctx context.Context, feedback *Feedback) error

	// Get returns the feedback for a classification or domain.ErrNotFound.
	Get(ctx context.Context, classificationID string) (*Feedback, error)

	List(ctx context.Context, limit, offset int) ([]*Feedback, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id int64) error

	// AgreementStats groups feedback by suggested diagnosis.
	AgreementStats(ctx context.Context) ([]DiseaseAgreement, error)

	ExportJSON(ctx context.Context, writer io.Writer) error

	// ImportJSON saves entries whose classification has no feedback yet and
	// reports how many were imported and skipped.
	ImportJSON(ctx context.Context, reader io.Reader) (imported int, skipped int, err error)

	Close() error
}

// Export is the JSON export format.
type Export struct {
	Version    string      `json:"version"`
	ExportedAt time.Time   `json:"exported_at"`
	Count      int         `json:"count"`
	Feedback   []*Feedback `json:"feedback"`
}

// maxExportLimit is the maximum number of entries to export at once.
const maxExportLimit = 1000000

func exportJSON(ctx context.Context, s Store, writer io.Writer) error {
	all, err := s.List(ctx, maxExportLimit, 0)
	if err != nil {
		return fmt.Errorf("failed to list feedback: %w", err)
	}
	if all == nil {
		all = []*Feedback{}
	}

	export := &Export{
		Version:    ExportVersion,
		ExportedAt: time.Now().UTC(),
		Count:      len(all),
		Feedback:   all,
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(export)
}

func importJSON(ctx context.Context, s Store, reader io.Reader) (imported int, skipped int, err error) {
	var export Export
	if err := json.NewDecoder(reader).Decode(&export); err != nil {
		return 0, 0, fmt.Errorf("failed to decode JSON: %w", err)
	}

	for _, fb := range export.Feedback {
		if fb == nil {
			skipped++
			continue
		}
		if err := fb.Normalize(); err != nil {
			skipped++
			continue
		}

		_, err := s.Get(ctx, fb.ClassificationID)
		if err == nil {
			skipped++
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return imported, skipped, fmt.Errorf("failed to check existing: %w", err)
		}

		fb.ID = 0
		if err := s.Save(ctx, fb); err != nil {
			return imported, skipped, fmt.Errorf("failed to save: %w", err)
		}
		imported++
	}

	return imported, skipped, nil
}

func agreementRate(agreed, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(agreed) / float64(total)
}
