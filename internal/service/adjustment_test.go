package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/health-signal-classifier/internal/domain"
)

func TestApplyEnvironmentalRisk(t *testing.T) {
	tests := []struct {
		name       string
		diagnosis  domain.Diagnosis
		confidence float64
		urgency    domain.UrgencyLevel
		risk       float64
		wantConf   float64
		wantUrg    domain.UrgencyLevel
		adjusted   bool
	}{
		{"high risk boosts", domain.Dengue, 0.5, domain.UrgencyLow, 0.8, 0.575, domain.UrgencyModerate, true},
		{"confidence capped", domain.Malaria, 0.95, domain.UrgencyModerate, 0.9, 1.0, domain.UrgencyUrgent, true},
		{"urgent stays", domain.Typhoid, 0.5, domain.UrgencyUrgent, 0.9, 0.575, domain.UrgencyUrgent, true},
		{"immediate stays", domain.Cholera, 0.5, domain.UrgencyImmediate, 0.9, 0.575, domain.UrgencyImmediate, true},
		{"threshold is exclusive", domain.Dengue, 0.5, domain.UrgencyLow, 0.7, 0.5, domain.UrgencyLow, false},
		{"low risk", domain.Dengue, 0.5, domain.UrgencyLow, 0.2, 0.5, domain.UrgencyLow, false},
		{"sentinel untouched", domain.InsufficientInformation, 0.1, domain.UrgencyLow, 0.95, 0.1, domain.UrgencyLow, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := &domain.ClassificationResult{
				PrimaryDiagnosis: tt.diagnosis,
				Confidence:       tt.confidence,
				UrgencyLevel:     tt.urgency,
			}
			profile := &domain.RiskProfile{OverallRisk: tt.risk}

			got := ApplyEnvironmentalRisk(original, profile)
			require.NotNil(t, got)

			assert.InDelta(t, tt.wantConf, got.Confidence, 1e-9)
			assert.Equal(t, tt.wantUrg, got.UrgencyLevel)
			assert.Equal(t, tt.adjusted, got.EnvironmentAdjusted)
			assert.Same(t, profile, got.EnvironmentalRisk)

			// The input is never modified.
			assert.Equal(t, tt.confidence, original.Confidence)
			assert.Equal(t, tt.urgency, original.UrgencyLevel)
			assert.Nil(t, original.EnvironmentalRisk)
			assert.False(t, original.EnvironmentAdjusted)
		})
	}
}

func TestApplyEnvironmentalRisk_Nil(t *testing.T) {
	assert.Nil(t, ApplyEnvironmentalRisk(nil, &domain.RiskProfile{}))

	result := &domain.ClassificationResult{PrimaryDiagnosis: domain.Dengue, Confidence: 0.5}
	got := ApplyEnvironmentalRisk(result, nil)
	assert.NotSame(t, result, got)
	assert.Equal(t, 0.5, got.Confidence)
	assert.False(t, got.EnvironmentAdjusted)
}
