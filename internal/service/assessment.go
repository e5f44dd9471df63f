package service

import (
	"fmt"
	"strings"

	"github.com/health-signal-classifier/internal/domain"
	"github.com/health-signal-classifier/internal/reference"
)

const (
	recommendInsufficient = "More symptom information needed for accurate diagnosis"
	recommendSystemError  = "System error occurred. Please consult healthcare provider."
	recommendAnomaly      = "Unusual symptom pattern detected. Immediate expert medical evaluation required."
	recommendHighSeverity = "High severity symptoms detected. Immediate medical evaluation recommended."
	recommendUncertain    = "Multiple conditions possible. Consider medical consultation for proper diagnosis."
)

var diseaseAdvice = map[domain.Diagnosis]string{
	domain.Cholera: "HIGH PRIORITY: Immediate medical attention and rehydration therapy required. Isolate patient.",
	domain.Typhoid: "URGENT: Antibiotic treatment needed. Consult healthcare provider immediately.",
	domain.Malaria: "Rapid diagnostic test recommended. Start antimalarial treatment if positive.",
	domain.Dengue:  "Monitor closely for bleeding/shock. Maintain hydration. Avoid aspirin.",
	domain.Covid19: "COVID-19 testing recommended. Isolate and monitor oxygen levels.",
}

// immediateDiseases always warrant immediate care.
var immediateDiseases = map[domain.Diagnosis]bool{
	domain.Cholera: true,
}

// Recommend returns the clinical advice for a diagnosis reached with the
// given primary probability.
func Recommend(d domain.Diagnosis, probability float64, anomalous bool, symptoms []domain.SymptomMention) string {
	if anomalous {
		return recommendAnomaly
	}

	name := strings.ReplaceAll(d.String(), "_", " ")
	switch {
	case probability > 0.8:
		if advice, ok := diseaseAdvice[d]; ok {
			return advice
		}
		return fmt.Sprintf("Probable %s. Consult healthcare provider for treatment.", name)
	case probability > 0.5:
		return fmt.Sprintf("Possible %s. Monitor symptoms and seek medical advice if worsening.", name)
	case maxSymptomSeverity(symptoms) >= 8:
		return recommendHighSeverity
	default:
		return recommendUncertain
	}
}

// AssessSeverity grades the overall severity of the mentions.
func AssessSeverity(tables *reference.Tables, symptoms []domain.SymptomMention) domain.SeverityLevel {
	if len(symptoms) == 0 {
		return domain.SeverityLow
	}

	critical := false
	for _, m := range symptoms {
		if tables.IsCritical(m.Name) {
			critical = true
			break
		}
	}

	maxSev := maxSymptomSeverity(symptoms)
	switch {
	case maxSev >= 8 || critical:
		return domain.SeverityHigh
	case maxSev >= 6 || meanSeverity(symptoms) >= 5:
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}

// AssessUrgency grades how soon care is needed.
func AssessUrgency(tables *reference.Tables, d domain.Diagnosis, symptoms []domain.SymptomMention, anomalous bool) domain.UrgencyLevel {
	if anomalous || immediateDiseases[d] {
		return domain.UrgencyImmediate
	}

	for _, m := range symptoms {
		if tables.IsCritical(m.Name) && m.Severity >= 8 {
			return domain.UrgencyUrgent
		}
	}

	maxSev := maxSymptomSeverity(symptoms)
	switch {
	case maxSev >= 7:
		return domain.UrgencyUrgent
	case maxSev >= 5:
		return domain.UrgencyModerate
	default:
		return domain.UrgencyLow
	}
}

func maxSymptomSeverity(symptoms []domain.SymptomMention) float64 {
	best := 0.0
	for _, m := range symptoms {
		if m.Severity > best {
			best = m.Severity
		}
	}
	return best
}
