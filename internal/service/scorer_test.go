package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/health-signal-classifier/internal/domain"
	"github.com/health-signal-classifier/internal/reference"
)

var august = time.Date(2024, time.August, 15, 10, 0, 0, 0, time.UTC)

func mention(s domain.Symptom, severity float64) domain.SymptomMention {
	return domain.SymptomMention{
		Name:            s,
		Severity:        severity,
		DurationHours:   24,
		Progression:     domain.Stable,
		Confidence:      0.8,
		TemporalPattern: domain.Acute,
	}
}

func choleraMentions() []domain.SymptomMention {
	return []domain.SymptomMention{
		mention(domain.WateryDiarrhea, 8),
		mention(domain.Diarrhea, 8),
		mention(domain.Vomiting, 8),
		mention(domain.SevereDehydration, 9),
	}
}

func sum(probs map[domain.Diagnosis]float64) float64 {
	var total float64
	for _, p := range probs {
		total += p
	}
	return total
}

func TestDiseaseScorer_ScoreNormalizes(t *testing.T) {
	scorer := NewDiseaseScorer(reference.Default())
	env := environmentalContext(august)

	inputs := [][]domain.SymptomMention{
		choleraMentions(),
		{mention(domain.Headache, 2)},
		{mention(domain.Jaundice, 6), mention(domain.DarkUrine, 6), mention(domain.PaleStool, 6)},
		{generalIllness()},
	}

	for _, symptoms := range inputs {
		probs := scorer.Score(symptoms, nil, env, august)
		assert.Len(t, probs, 6)
		assert.InDelta(t, 1.0, sum(probs), 1e-9)
		for d, p := range probs {
			assert.True(t, d.IsDisease())
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 1.0)
		}
	}
}

func TestDiseaseScorer_CholeraWins(t *testing.T) {
	scorer := NewDiseaseScorer(reference.Default())

	probs := scorer.Score(choleraMentions(), nil, environmentalContext(august), august)
	ranked := scorer.Rank(probs)

	require.NotEmpty(t, ranked)
	assert.Equal(t, domain.Cholera, ranked[0].Disease)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Probability, ranked[i].Probability)
	}
}

func TestDiseaseScorer_ClinicalEvidence(t *testing.T) {
	tables := reference.Default()
	tables.Seasonal = map[domain.Diagnosis][12]float64{}
	scorer := NewDiseaseScorer(tables)

	// Without priors the raw score is 0.7 * clinical.
	raw := scorer.RawScores(choleraMentions(), nil, nil, august)

	primary := 2.0 / 3.0
	secondary := 1.0 / 3.0
	severity := 0.5 + (33.0/4.0)/20.0
	want := 0.7 * (0.7*primary + 0.3*secondary) * severity
	assert.InDelta(t, want, raw[domain.Cholera], 1e-9)
}

func TestDiseaseScorer_AllZeroUnchanged(t *testing.T) {
	tables := reference.Default()
	tables.Seasonal = map[domain.Diagnosis][12]float64{}
	scorer := NewDiseaseScorer(tables)

	probs := scorer.Score([]domain.SymptomMention{generalIllness()}, nil, nil, august)
	assert.Len(t, probs, 6)
	assert.Equal(t, 0.0, sum(probs))

	ranked := scorer.Rank(probs)
	assert.Equal(t, tables.Diseases()[0], ranked[0].Disease)
	for i, dp := range ranked {
		assert.Equal(t, tables.Diseases()[i], dp.Disease)
	}
}

func TestDiseaseScorer_ExclusionaryAndPathognomonic(t *testing.T) {
	scorer := NewDiseaseScorer(reference.Default())

	base := []domain.SymptomMention{mention(domain.WateryDiarrhea, 5)}
	withExclusion := append([]domain.SymptomMention{}, base...)
	withExclusion = append(withExclusion, mention(domain.Constipation, 5))
	withSign := append([]domain.SymptomMention{}, base...)
	withSign = append(withSign, mention(domain.RiceWaterStools, 5))

	rawBase := scorer.RawScores(base, nil, nil, august)[domain.Cholera]
	rawExcluded := scorer.RawScores(withExclusion, nil, nil, august)[domain.Cholera]
	rawSign := scorer.RawScores(withSign, nil, nil, august)[domain.Cholera]

	assert.InDelta(t, rawBase*0.1, rawExcluded, 1e-9)
	assert.Greater(t, rawSign, rawBase*2)
}

func TestDiseaseScorer_RankTieBreak(t *testing.T) {
	scorer := NewDiseaseScorer(reference.Default())

	ranked := scorer.Rank(map[domain.Diagnosis]float64{
		domain.Covid19: 0.3,
		domain.Dengue:  0.3,
		domain.Typhoid: 0.3,
		domain.Cholera: 0.1,
	})

	require.Len(t, ranked, 4)
	assert.Equal(t, domain.Typhoid, ranked[0].Disease)
	assert.Equal(t, domain.Dengue, ranked[1].Disease)
	assert.Equal(t, domain.Covid19, ranked[2].Disease)
	assert.Equal(t, domain.Cholera, ranked[3].Disease)
}

func TestEnvironmentalAdjustment(t *testing.T) {
	tables := reference.Default()
	sig := func(d domain.Diagnosis) *domain.DiseaseSignature {
		s, ok := tables.Signature(d)
		require.True(t, ok)
		return s
	}

	tests := []struct {
		name    string
		disease domain.Diagnosis
		env     domain.EnvironmentalContext
		want    float64
	}{
		{"baseline", domain.Cholera, *environmentalContext(august), 1.0},
		{"rain and contamination capped", domain.Cholera, domain.EnvironmentalContext{Rainfall7Day: 60, WaterQualityScore: 0.4, Humidity: 50}, 3.0},
		{"rain only", domain.Cholera, domain.EnvironmentalContext{Rainfall7Day: 60, WaterQualityScore: 0.9}, 1.8},
		{"urban dengue", domain.Dengue, domain.EnvironmentalContext{PopulationDensity: 2000, WaterQualityScore: 0.9}, 1.7},
		{"humid malaria", domain.Malaria, domain.EnvironmentalContext{Humidity: 90, WaterQualityScore: 0.9}, 1.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := tt.env
			assert.InDelta(t, tt.want, environmentalAdjustment(sig(tt.disease), &env), 1e-9)
		})
	}
}

func TestDemographicAdjustment(t *testing.T) {
	tables := reference.Default()
	sig := func(d domain.Diagnosis) *domain.DiseaseSignature {
		s, ok := tables.Signature(d)
		require.True(t, ok)
		return s
	}

	tests := []struct {
		name    string
		disease domain.Diagnosis
		patient domain.PatientContext
		want    float64
	}{
		{"child cholera", domain.Cholera, domain.PatientContext{Age: 3}, 1.9},
		{"elderly covid", domain.Covid19, domain.PatientContext{Age: 70}, 1.9},
		{"pregnancy half weight", domain.Malaria, domain.PatientContext{Age: 25, Gender: "female"}, 1.4},
		{"school age typhoid", domain.Typhoid, domain.PatientContext{Age: 10}, 1.7},
		{"capped", domain.Typhoid, domain.PatientContext{Age: 25, Occupation: "cook", RecentTravel: true}, 3.0},
		{"outdoor malaria", domain.Malaria, domain.PatientContext{Age: 40, Occupation: "farmer"}, 1.6},
		{"no matching group", domain.Dengue, domain.PatientContext{Age: 40, Gender: "male"}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.patient
			assert.InDelta(t, tt.want, demographicAdjustment(sig(tt.disease), &p), 1e-9)
		})
	}
}
