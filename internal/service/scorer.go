package service

import (
	"math"
	"sort"
	"time"

	"github.com/health-signal-classifier/internal/domain"
	"github.com/health-signal-classifier/internal/reference"
)

const (
	primaryWeight     = 0.7
	secondaryWeight   = 0.3
	clinicalWeight    = 0.7
	priorWeight       = 0.3
	priorBase         = 0.1
	maxContextBoost   = 3.0
	exclusionPenalty  = 0.1
	pathognomonicGain = 2.0
)

// DiseaseScorer turns symptom mentions into a probability per registered
// disease.
type DiseaseScorer struct {
	tables *reference.Tables
}

// NewDiseaseScorer creates a scorer over tables.
func NewDiseaseScorer(tables *reference.Tables) *DiseaseScorer {
	return &DiseaseScorer{tables: tables}
}

// Score returns the normalized probability of every registered disease. The
// values sum to 1 unless every raw score is zero, in which case the zero map
// is returned unchanged.
func (s *DiseaseScorer) Score(symptoms []domain.SymptomMention, patient *domain.PatientContext, env *domain.EnvironmentalContext, at time.Time) map[domain.Diagnosis]float64 {
	return normalize(s.RawScores(symptoms, patient, env, at))
}

// RawScores returns the clamped posterior of every registered disease before
// normalization.
func (s *DiseaseScorer) RawScores(symptoms []domain.SymptomMention, patient *domain.PatientContext, env *domain.EnvironmentalContext, at time.Time) map[domain.Diagnosis]float64 {
	present := domain.SymptomSet(symptoms)
	severityWeight := 0.5 + meanSeverity(symptoms)/20.0

	scores := make(map[domain.Diagnosis]float64, len(s.tables.Signatures))
	for i := range s.tables.Signatures {
		sig := &s.tables.Signatures[i]

		clinical := clinicalEvidence(sig, present) * severityWeight

		prior := priorBase * s.tables.SeasonalFactor(sig.Disease, at)
		if env != nil {
			prior *= environmentalAdjustment(sig, env)
		}
		if patient != nil {
			prior *= demographicAdjustment(sig, patient)
		}

		posterior := clinicalWeight*clinical + priorWeight*prior
		for _, x := range sig.ExclusionarySymptoms {
			if present[x] {
				posterior *= exclusionPenalty
			}
		}
		for _, p := range sig.PathognomonicSigns {
			if present[p] {
				posterior *= pathognomonicGain
			}
		}

		scores[sig.Disease] = clamp01(posterior)
	}
	return scores
}

// Rank orders probs by probability, highest first. Equal probabilities keep
// registration order.
func (s *DiseaseScorer) Rank(probs map[domain.Diagnosis]float64) []domain.DiagnosisProbability {
	return rankProbabilities(s.tables, probs)
}

func rankProbabilities(tables *reference.Tables, probs map[domain.Diagnosis]float64) []domain.DiagnosisProbability {
	out := make([]domain.DiagnosisProbability, 0, len(probs))
	for d, p := range probs {
		out = append(out, domain.DiagnosisProbability{Disease: d, Probability: p})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Probability != out[j].Probability {
			return out[i].Probability > out[j].Probability
		}
		return tables.RegistrationOrder(out[i].Disease) < tables.RegistrationOrder(out[j].Disease)
	})
	return out
}

func clinicalEvidence(sig *domain.DiseaseSignature, present map[domain.Symptom]bool) float64 {
	return primaryWeight*matchRatio(sig.PrimarySymptoms, present) +
		secondaryWeight*matchRatio(sig.SecondarySymptoms, present)
}

func matchRatio(expected []domain.Symptom, present map[domain.Symptom]bool) float64 {
	if len(expected) == 0 {
		return 0
	}
	n := 0
	for _, s := range expected {
		if present[s] {
			n++
		}
	}
	return float64(n) / float64(len(expected))
}

func meanSeverity(symptoms []domain.SymptomMention) float64 {
	if len(symptoms) == 0 {
		return 0
	}
	var sum float64
	for _, m := range symptoms {
		sum += m.Severity
	}
	return sum / float64(len(symptoms))
}

// environmentalAdjustment boosts a prior for each correlated factor that the
// environment currently exhibits.
func environmentalAdjustment(sig *domain.DiseaseSignature, env *domain.EnvironmentalContext) float64 {
	adj := 1.0
	for _, factor := range sortedKeys(sig.EnvironmentalCorrelation) {
		w := sig.EnvironmentalCorrelation[factor]
		var active bool
		switch factor {
		case "rainfall_spike":
			active = env.Rainfall7Day > 50
		case "water_contamination":
			active = env.WaterQualityScore < 0.5
		case "urban_areas":
			active = env.PopulationDensity > 1000
		case "stagnant_water":
			active = env.Humidity > 80
		}
		if active {
			adj *= 1 + w
		}
	}
	return math.Min(adj, maxContextBoost)
}

var (
	foodHandlerOccupations = map[string]bool{"food_handler": true, "cook": true, "restaurant_worker": true}
	outdoorOccupations     = map[string]bool{"farmer": true, "field_worker": true, "outdoor_worker": true}
)

func demographicAdjustment(sig *domain.DiseaseSignature, p *domain.PatientContext) float64 {
	adj := 1.0
	risk := sig.DemographicRisk
	boost := func(group string, scale float64) bool {
		w, ok := risk[group]
		if ok {
			adj *= 1 + w*scale
		}
		return ok
	}

	// First applicable age bracket only.
	switch {
	case p.Age < 5 && boost("children_under_5", 1):
	case p.Age >= 65 && boost("elderly", 1):
	case p.Age >= 18 && p.Age <= 35 && boost("young_adults", 1):
	case p.Age >= 5 && p.Age <= 18 && boost("school_age", 1):
	}

	if p.Gender == "female" && p.Age >= 15 && p.Age <= 49 {
		boost("pregnant_women", 0.5)
	}

	switch {
	case foodHandlerOccupations[p.Occupation] && boost("food_handlers", 1):
	case outdoorOccupations[p.Occupation] && boost("outdoor_workers", 1):
	}

	if p.RecentTravel {
		boost("travelers", 1)
	}
	return math.Min(adj, maxContextBoost)
}

func normalize(scores map[domain.Diagnosis]float64) map[domain.Diagnosis]float64 {
	var total float64
	for _, d := range sortedKeys(scores) {
		total += scores[d]
	}
	if total == 0 {
		return scores
	}
	out := make(map[domain.Diagnosis]float64, len(scores))
	for d, v := range scores {
		out[d] = v / total
	}
	return out
}

// sortedKeys fixes the order in which float terms are accumulated so that
// repeated runs produce bit-identical results.
func sortedKeys[K ~string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
