package service

import (
	"github.com/google/uuid"

	"github.com/health-signal-classifier/internal/domain"
)

// DefaultAlertConfidence is the confidence above which any disease alerts.
const DefaultAlertConfidence = 0.7

// AlertPublisher delivers alerts to live subscribers.
type AlertPublisher interface {
	Publish(alert domain.Alert)
}

// AlertPolicy decides which classifications raise an alert.
type AlertPolicy struct {
	priority            map[domain.Diagnosis]bool
	confidenceThreshold float64
}

// NewAlertPolicy creates a policy. Unknown disease names are ignored and a
// non-positive threshold selects DefaultAlertConfidence.
func NewAlertPolicy(priorityDiseases []string, confidenceThreshold float64) *AlertPolicy {
	p := &AlertPolicy{
		priority:            make(map[domain.Diagnosis]bool, len(priorityDiseases)),
		confidenceThreshold: confidenceThreshold,
	}
	if p.confidenceThreshold <= 0 {
		p.confidenceThreshold = DefaultAlertConfidence
	}
	for _, name := range priorityDiseases {
		if d, err := domain.ParseDiagnosis(name); err == nil && d.IsDisease() {
			p.priority[d] = true
		}
	}
	return p
}

// Reasons lists why result should alert. An empty list means no alert.
func (p *AlertPolicy) Reasons(result *domain.ClassificationResult) []string {
	if result == nil || !result.PrimaryDiagnosis.IsDisease() {
		return nil
	}

	var reasons []string
	if p.priority[result.PrimaryDiagnosis] {
		reasons = append(reasons, "priority_disease")
	}
	if result.UrgencyLevel == domain.UrgencyUrgent || result.UrgencyLevel == domain.UrgencyImmediate {
		reasons = append(reasons, "urgency")
	}
	if result.SeverityAssessment == domain.SeverityHigh {
		reasons = append(reasons, "severity")
	}
	if result.Confidence > p.confidenceThreshold {
		reasons = append(reasons, "confidence")
	}
	return reasons
}

// ShouldAlert reports whether result raises an alert.
func (p *AlertPolicy) ShouldAlert(result *domain.ClassificationResult) bool {
	return len(p.Reasons(result)) > 0
}

// BuildAlert creates the alert for result. ok is false when the policy does
// not alert.
func (p *AlertPolicy) BuildAlert(result *domain.ClassificationResult, location *domain.GeoPoint, city string) (domain.Alert, bool) {
	reasons := p.Reasons(result)
	if len(reasons) == 0 {
		return domain.Alert{}, false
	}
	return domain.Alert{
		ID:               uuid.NewString(),
		ClassificationID: result.ID,
		Disease:          result.PrimaryDiagnosis,
		Confidence:       result.Confidence,
		Severity:         result.SeverityAssessment,
		Urgency:          result.UrgencyLevel,
		Location:         location,
		City:             city,
		Reasons:          reasons,
		RaisedAt:         result.ClassifiedAt,
	}, true
}
