package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/health-signal-classifier/internal/domain"
	"github.com/health-signal-classifier/internal/reference"
)

func TestRecommend(t *testing.T) {
	high := []domain.SymptomMention{mention(domain.Headache, 9)}
	low := []domain.SymptomMention{mention(domain.Headache, 3)}

	tests := []struct {
		name        string
		diagnosis   domain.Diagnosis
		probability float64
		anomalous   bool
		symptoms    []domain.SymptomMention
		want        string
	}{
		{"anomaly first", domain.Cholera, 0.95, true, low, recommendAnomaly},
		{"cholera advice", domain.Cholera, 0.85, false, low, diseaseAdvice[domain.Cholera]},
		{"probable without advice", domain.HepatitisA, 0.9, false, low, "Probable hepatitis a. Consult healthcare provider for treatment."},
		{"possible", domain.Dengue, 0.6, false, low, "Possible dengue. Monitor symptoms and seek medical advice if worsening."},
		{"uncertain but severe", domain.Malaria, 0.3, false, high, recommendHighSeverity},
		{"uncertain", domain.Malaria, 0.3, false, low, recommendUncertain},
		{"boundary is exclusive", domain.Typhoid, 0.8, false, low, "Possible typhoid. Monitor symptoms and seek medical advice if worsening."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Recommend(tt.diagnosis, tt.probability, tt.anomalous, tt.symptoms))
		})
	}
}

func TestAssessSeverity(t *testing.T) {
	tables := reference.Default()

	tests := []struct {
		name     string
		symptoms []domain.SymptomMention
		want     domain.SeverityLevel
	}{
		{"max at 8", []domain.SymptomMention{mention(domain.Headache, 8)}, domain.SeverityHigh},
		{"critical symptom", []domain.SymptomMention{mention(domain.Bleeding, 2)}, domain.SeverityHigh},
		{"max at 6", []domain.SymptomMention{mention(domain.Headache, 6), mention(domain.Cough, 1)}, domain.SeverityMedium},
		{"average at 5", []domain.SymptomMention{mention(domain.Headache, 5), mention(domain.Cough, 5)}, domain.SeverityMedium},
		{"slight", []domain.SymptomMention{mention(domain.Headache, 2)}, domain.SeverityLow},
		{"general illness", []domain.SymptomMention{generalIllness()}, domain.SeverityLow},
		{"empty", nil, domain.SeverityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AssessSeverity(tables, tt.symptoms))
		})
	}
}

func TestAssessUrgency(t *testing.T) {
	tables := reference.Default()

	tests := []struct {
		name      string
		diagnosis domain.Diagnosis
		symptoms  []domain.SymptomMention
		anomalous bool
		want      domain.UrgencyLevel
	}{
		{"anomaly", domain.Malaria, []domain.SymptomMention{mention(domain.Headache, 1)}, true, domain.UrgencyImmediate},
		{"cholera", domain.Cholera, []domain.SymptomMention{mention(domain.Headache, 1)}, false, domain.UrgencyImmediate},
		{"critical and severe", domain.Covid19, []domain.SymptomMention{mention(domain.ShortnessBreath, 8)}, false, domain.UrgencyUrgent},
		{"max at 7", domain.Dengue, []domain.SymptomMention{mention(domain.Headache, 7)}, false, domain.UrgencyUrgent},
		{"max at 5", domain.Dengue, []domain.SymptomMention{mention(domain.Headache, 5)}, false, domain.UrgencyModerate},
		{"mild", domain.Dengue, []domain.SymptomMention{mention(domain.Headache, 2)}, false, domain.UrgencyLow},
		{"critical but mild", domain.Dengue, []domain.SymptomMention{mention(domain.Bleeding, 4)}, false, domain.UrgencyLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AssessUrgency(tables, tt.diagnosis, tt.symptoms, tt.anomalous))
		})
	}
}
