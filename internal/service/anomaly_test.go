package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/health-signal-classifier/internal/domain"
	"github.com/health-signal-classifier/internal/reference"
)

func TestAnomalyEstimator_Anomalies(t *testing.T) {
	estimator := NewAnomalyEstimator(reference.Default())

	probs := map[domain.Diagnosis]float64{domain.Cholera: 0.6, domain.Typhoid: 0.4}
	symptoms := []domain.SymptomMention{
		mention(domain.WateryDiarrhea, 8),
		mention(domain.Cough, 2),
	}

	scores, _ := estimator.Estimate(symptoms, probs, nil)

	assert.InDelta(t, 0.5, scores.SymptomNovelty, 1e-9)
	assert.InDelta(t, 0.0, scores.TemporalAnomaly, 1e-9)
	assert.InDelta(t, 0.4, scores.ConfidenceAnomaly, 1e-9)
	// mean 5, population variance 9
	assert.InDelta(t, 0.5*(9.0/25.0), scores.SeverityAnomaly, 1e-9)

	want := 0.4*0.5 + 0.3*0 + 0.2*0.4 + 0.1*0.18
	assert.InDelta(t, want, scores.CombinedAnomaly, 1e-9)
	assert.False(t, IsAnomalous(scores))
}

func TestAnomalyEstimator_TemporalAnomaly(t *testing.T) {
	estimator := NewAnomalyEstimator(reference.Default())

	worsening := mention(domain.Headache, 9)
	worsening.Progression = domain.Worsening
	odd := mention(domain.Fever, 5)
	odd.TemporalPattern = domain.TemporalPattern("sporadic")

	scores, _ := estimator.Estimate([]domain.SymptomMention{worsening, odd}, nil, nil)
	assert.InDelta(t, 0.5, scores.TemporalAnomaly, 1e-9)

	many := []domain.SymptomMention{worsening, worsening, worsening, worsening}
	scores, _ = estimator.Estimate(many, nil, nil)
	assert.InDelta(t, 1.0, scores.TemporalAnomaly, 1e-9)
}

func TestAnomalyEstimator_DetectsNovelWorseningPresentation(t *testing.T) {
	estimator := NewAnomalyEstimator(reference.Default())

	// Unknown symptoms that are all worsening at severity 9 with flat
	// probabilities cross the threshold.
	var symptoms []domain.SymptomMention
	for _, s := range []domain.Symptom{domain.Cough, domain.ChestPain, domain.Constipation} {
		m := mention(s, 9)
		m.Progression = domain.Worsening
		symptoms = append(symptoms, m)
	}
	probs := map[domain.Diagnosis]float64{}
	for _, d := range reference.Default().Diseases() {
		probs[d] = 1.0 / 6.0
	}

	scores, _ := estimator.Estimate(symptoms, probs, nil)

	// Constipation is a typhoid secondary symptom.
	assert.InDelta(t, 2.0/3.0, scores.SymptomNovelty, 1e-9)
	assert.InDelta(t, 0.9, scores.TemporalAnomaly, 1e-9)
	assert.True(t, IsAnomalous(scores))
}

func TestAnomalyEstimator_NoveltyAloneDoesNotFlag(t *testing.T) {
	estimator := NewAnomalyEstimator(reference.Default())

	// Every symptom is unknown and no disease scores above 0.1. Novelty and
	// confidence contribute at most 0.4 + 0.2*0.9, so without temporal or
	// severity anomalies the combined score stays under the threshold.
	symptoms := []domain.SymptomMention{
		mention(domain.Cough, 5),
		mention(domain.ChestPain, 5),
	}
	probs := map[domain.Diagnosis]float64{}
	for _, d := range reference.Default().Diseases() {
		probs[d] = 0.1
	}

	scores, _ := estimator.Estimate(symptoms, probs, nil)

	assert.InDelta(t, 1.0, scores.SymptomNovelty, 1e-9)
	assert.InDelta(t, 0.9, scores.ConfidenceAnomaly, 1e-9)
	assert.InDelta(t, 0.58, scores.CombinedAnomaly, 1e-9)
	assert.False(t, IsAnomalous(scores))
}

func TestAnomalyEstimator_Empty(t *testing.T) {
	estimator := NewAnomalyEstimator(reference.Default())

	scores, confidence := estimator.Estimate(nil, nil, nil)

	assert.Equal(t, 0.0, scores.SymptomNovelty)
	assert.Equal(t, 0.0, scores.SeverityAnomaly)
	assert.Equal(t, 1.0, scores.ConfidenceAnomaly)
	assert.Equal(t, 0.5, confidence.HistoricalValidation)
	assert.Equal(t, 0.0, confidence.EnsembleAgreement)
	assert.Equal(t, 0.0, confidence.FeatureCompleteness)
	assert.Equal(t, 0.7, confidence.ContextConsistency)
}

func TestAnomalyEstimator_Confidence(t *testing.T) {
	estimator := NewAnomalyEstimator(reference.Default())

	probs := map[domain.Diagnosis]float64{
		domain.Cholera: 0.5,
		domain.Typhoid: 0.25,
		domain.Malaria: 0.25,
	}
	symptoms := choleraMentions()

	_, c := estimator.Estimate(symptoms, probs, &domain.PatientContext{Age: 30})

	assert.InDelta(t, 0.5, c.EnsembleAgreement, 1e-9)
	assert.InDelta(t, 0.8, c.HistoricalValidation, 1e-9)
	// watery_diarrhea, severe_dehydration and vomiting out of six.
	assert.InDelta(t, 0.5, c.FeatureCompleteness, 1e-9)
	assert.InDelta(t, 0.8, c.ContextConsistency, 1e-9)
	assert.InDelta(t, 0.4*0.5+0.3*0.8+0.2*0.5+0.1*0.8, c.OverallConfidence, 1e-9)
}

func TestAnomalyEstimator_SingleDisease(t *testing.T) {
	estimator := NewAnomalyEstimator(reference.Default())

	_, c := estimator.Estimate(choleraMentions(), map[domain.Diagnosis]float64{domain.Cholera: 0.9}, nil)
	assert.InDelta(t, 0.9, c.EnsembleAgreement, 1e-9)

	_, c = estimator.Estimate(choleraMentions(), map[domain.Diagnosis]float64{domain.Cholera: 0, domain.Typhoid: 0}, nil)
	assert.Equal(t, 0.0, c.EnsembleAgreement)
}
