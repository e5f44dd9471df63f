package service

import (
	"math"

	"github.com/health-signal-classifier/internal/domain"
	"github.com/health-signal-classifier/internal/reference"
)

// AnomalyThreshold is the combined anomaly score above which a presentation
// is flagged as anomalous.
const AnomalyThreshold = 0.7

// AnomalyEstimator scores how unusual a presentation is and how much the
// resulting classification can be trusted.
type AnomalyEstimator struct {
	tables *reference.Tables
}

// NewAnomalyEstimator creates an estimator over tables.
func NewAnomalyEstimator(tables *reference.Tables) *AnomalyEstimator {
	return &AnomalyEstimator{tables: tables}
}

// Estimate computes the anomaly scores and the confidence breakdown for a
// set of mentions and their disease probabilities.
func (a *AnomalyEstimator) Estimate(symptoms []domain.SymptomMention, probs map[domain.Diagnosis]float64, patient *domain.PatientContext) (domain.AnomalyScores, domain.ConfidenceBreakdown) {
	return a.anomalies(symptoms, probs), a.confidence(symptoms, probs, patient)
}

// IsAnomalous reports whether scores crosses the anomaly threshold.
func IsAnomalous(scores domain.AnomalyScores) bool {
	return scores.CombinedAnomaly > AnomalyThreshold
}

func (a *AnomalyEstimator) anomalies(symptoms []domain.SymptomMention, probs map[domain.Diagnosis]float64) domain.AnomalyScores {
	var s domain.AnomalyScores

	if len(symptoms) > 0 {
		unknown := 0
		for _, m := range symptoms {
			if !a.tables.IsKnownSymptom(m.Name) {
				unknown++
			}
		}
		s.SymptomNovelty = float64(unknown) / float64(len(symptoms))
	}

	var temporal float64
	for _, m := range symptoms {
		if !m.TemporalPattern.IsValid() {
			temporal += 0.2
		}
		if m.Progression == domain.Worsening && m.Severity > 8 {
			temporal += 0.3
		}
	}
	s.TemporalAnomaly = math.Min(temporal, 1.0)

	s.ConfidenceAnomaly = 1.0 - maxProbability(probs)

	if len(symptoms) > 0 {
		mean := meanSeverity(symptoms)
		var variance float64
		for _, m := range symptoms {
			d := m.Severity - mean
			variance += d * d
		}
		variance /= float64(len(symptoms))
		s.SeverityAnomaly = math.Min((mean/10.0)*(variance/25.0), 1.0)
	}

	s.CombinedAnomaly = 0.4*s.SymptomNovelty + 0.3*s.TemporalAnomaly +
		0.2*s.ConfidenceAnomaly + 0.1*s.SeverityAnomaly
	return s
}

func (a *AnomalyEstimator) confidence(symptoms []domain.SymptomMention, probs map[domain.Diagnosis]float64, patient *domain.PatientContext) domain.ConfidenceBreakdown {
	var c domain.ConfidenceBreakdown

	ranked := rankProbabilities(a.tables, probs)
	switch {
	case len(ranked) == 0:
	case len(ranked) == 1:
		c.EnsembleAgreement = ranked[0].Probability
	case ranked[0].Probability > 0:
		c.EnsembleAgreement = (ranked[0].Probability - ranked[1].Probability) / ranked[0].Probability
	}

	c.HistoricalValidation = 0.5
	if len(symptoms) > 0 {
		var sum float64
		for _, m := range symptoms {
			sum += m.Confidence
		}
		c.HistoricalValidation = sum / float64(len(symptoms))
	}

	if len(symptoms) > 0 && len(ranked) > 0 {
		if sig, ok := a.tables.Signature(ranked[0].Disease); ok {
			expected := sig.ExpectedSymptoms()
			present := domain.SymptomSet(symptoms)
			found := 0
			for _, e := range expected {
				if present[e] {
					found++
				}
			}
			if len(expected) > 0 {
				c.FeatureCompleteness = float64(found) / float64(len(expected))
			}
		}
	}

	c.ContextConsistency = 0.7
	if patient != nil {
		c.ContextConsistency = 0.8
	}

	c.OverallConfidence = 0.4*c.EnsembleAgreement + 0.3*c.HistoricalValidation +
		0.2*c.FeatureCompleteness + 0.1*c.ContextConsistency
	return c
}

func maxProbability(probs map[domain.Diagnosis]float64) float64 {
	best := 0.0
	for _, p := range probs {
		if p > best {
			best = p
		}
	}
	return best
}
