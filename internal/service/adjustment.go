package service

import (
	"math"

	"github.com/health-signal-classifier/internal/domain"
)

const (
	// HighEnvironmentalRisk is the overall risk above which a classification
	// is boosted.
	HighEnvironmentalRisk = 0.7

	environmentConfidenceBoost = 1.15
)

// ApplyEnvironmentalRisk returns a copy of result that carries profile. When
// the overall risk is high, confidence is boosted by 15% (capped at 1) and
// urgency steps up once. result itself is never modified. Sentinel
// diagnoses only get the profile attached.
func ApplyEnvironmentalRisk(result *domain.ClassificationResult, profile *domain.RiskProfile) *domain.ClassificationResult {
	out := result.Clone()
	if out == nil || profile == nil {
		return out
	}

	out.EnvironmentalRisk = profile
	out.EnvironmentAdjusted = false
	if out.PrimaryDiagnosis.IsSentinel() || profile.OverallRisk <= HighEnvironmentalRisk {
		return out
	}

	out.Confidence = math.Min(1.0, out.Confidence*environmentConfidenceBoost)
	out.UrgencyLevel = out.UrgencyLevel.StepUp()
	out.EnvironmentAdjusted = true
	return out
}
