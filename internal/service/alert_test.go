package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/health-signal-classifier/internal/domain"
)

func TestAlertPolicy(t *testing.T) {
	policy := NewAlertPolicy([]string{"cholera", "not-a-disease", "general_illness"}, 0)

	tests := []struct {
		name    string
		result  *domain.ClassificationResult
		alert   bool
		reasons []string
	}{
		{
			name:    "priority disease",
			result:  &domain.ClassificationResult{PrimaryDiagnosis: domain.Cholera, UrgencyLevel: domain.UrgencyLow, SeverityAssessment: domain.SeverityLow},
			alert:   true,
			reasons: []string{"priority_disease"},
		},
		{
			name:    "urgent",
			result:  &domain.ClassificationResult{PrimaryDiagnosis: domain.Dengue, UrgencyLevel: domain.UrgencyUrgent, SeverityAssessment: domain.SeverityLow},
			alert:   true,
			reasons: []string{"urgency"},
		},
		{
			name:    "severe and confident",
			result:  &domain.ClassificationResult{PrimaryDiagnosis: domain.Typhoid, UrgencyLevel: domain.UrgencyLow, SeverityAssessment: domain.SeverityHigh, Confidence: 0.75},
			alert:   true,
			reasons: []string{"severity", "confidence"},
		},
		{
			name:   "quiet",
			result: &domain.ClassificationResult{PrimaryDiagnosis: domain.Malaria, UrgencyLevel: domain.UrgencyModerate, SeverityAssessment: domain.SeverityMedium, Confidence: 0.7},
			alert:  false,
		},
		{
			name:   "sentinel never alerts",
			result: &domain.ClassificationResult{PrimaryDiagnosis: domain.ClassificationError, UrgencyLevel: domain.UrgencyImmediate, SeverityAssessment: domain.SeverityHigh, Confidence: 1},
			alert:  false,
		},
		{
			name:   "nil",
			result: nil,
			alert:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.alert, policy.ShouldAlert(tt.result))
			assert.Equal(t, tt.reasons, policy.Reasons(tt.result))
		})
	}
}

func TestAlertPolicy_BuildAlert(t *testing.T) {
	policy := NewAlertPolicy(nil, 0.5)
	point := &domain.GeoPoint{Lat: 19.07, Lon: 72.87}

	result := &domain.ClassificationResult{
		ID:                 "c-1",
		PrimaryDiagnosis:   domain.Dengue,
		Confidence:         0.6,
		SeverityAssessment: domain.SeverityMedium,
		UrgencyLevel:       domain.UrgencyModerate,
		ClassifiedAt:       august,
	}

	alert, ok := policy.BuildAlert(result, point, "Mumbai")
	assert.True(t, ok)
	assert.NotEmpty(t, alert.ID)
	assert.Equal(t, "c-1", alert.ClassificationID)
	assert.Equal(t, domain.Dengue, alert.Disease)
	assert.Equal(t, []string{"confidence"}, alert.Reasons)
	assert.Equal(t, point, alert.Location)
	assert.Equal(t, "Mumbai", alert.City)
	assert.Equal(t, august, alert.RaisedAt)

	result.Confidence = 0.4
	_, ok = policy.BuildAlert(result, point, "Mumbai")
	assert.False(t, ok)
}
