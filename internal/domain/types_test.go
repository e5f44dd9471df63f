package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnosis(t *testing.T) {
	tests := []struct {
		name     string
		value    Diagnosis
		valid    bool
		disease  bool
		sentinel bool
	}{
		{"Cholera", Cholera, true, true, false},
		{"Hepatitis A", HepatitisA, true, true, false},
		{"COVID-19", Covid19, true, true, false},
		{"General illness", GeneralIllness, true, false, true},
		{"Insufficient information", InsufficientInformation, true, false, true},
		{"Classification error", ClassificationError, true, false, true},
		{"Unknown", Diagnosis("measles"), false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.value.IsValid())
			assert.Equal(t, tt.disease, tt.value.IsDisease())
			assert.Equal(t, tt.sentinel, tt.value.IsSentinel())
		})
	}
}

func TestParseDiagnosis(t *testing.T) {
	d, err := ParseDiagnosis("typhoid")
	require.NoError(t, err)
	assert.Equal(t, Typhoid, d)

	_, err = ParseDiagnosis("TYPHOID")
	assert.ErrorIs(t, err, ErrInvalidDiagnosis)
}

func TestUrgencyStepUp(t *testing.T) {
	tests := []struct {
		in   UrgencyLevel
		want UrgencyLevel
	}{
		{UrgencyLow, UrgencyModerate},
		{UrgencyModerate, UrgencyUrgent},
		{UrgencyUrgent, UrgencyUrgent},
		{UrgencyImmediate, UrgencyImmediate},
	}

	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.StepUp())
		})
	}
}

func TestUrgencyRank(t *testing.T) {
	assert.Less(t, UrgencyLow.Rank(), UrgencyModerate.Rank())
	assert.Less(t, UrgencyModerate.Rank(), UrgencyUrgent.Rank())
	assert.Less(t, UrgencyUrgent.Rank(), UrgencyImmediate.Rank())
	assert.Equal(t, -1, UrgencyLevel("SOON").Rank())
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, Worsening.IsValid())
	assert.False(t, Progression("better").IsValid())
	assert.True(t, Cyclic.IsValid())
	assert.False(t, TemporalPattern("chronic").IsValid())
	assert.True(t, SeverityHigh.IsValid())
	assert.False(t, SeverityLevel("high").IsValid())
	assert.True(t, PostMonsoon.IsValid())
	assert.False(t, Season("spring").IsValid())
	assert.True(t, ContaminationCritical.IsValid())
	assert.False(t, ContaminationLevel("extreme").IsValid())
}

func TestSymptomValidity(t *testing.T) {
	assert.True(t, WateryDiarrhea.IsValid())
	assert.True(t, GeneralIllnessSymptom.IsValid())
	assert.True(t, PlateletDrop.IsValid())
	assert.False(t, Symptom("sneezing").IsValid())
}

func TestOnlyGeneralIllness(t *testing.T) {
	assert.True(t, OnlyGeneralIllness(nil))
	assert.True(t, OnlyGeneralIllness([]SymptomMention{{Name: GeneralIllnessSymptom}}))
	assert.False(t, OnlyGeneralIllness([]SymptomMention{{Name: GeneralIllnessSymptom}, {Name: Fever}}))
}

func TestGeoPointValidate(t *testing.T) {
	assert.NoError(t, GeoPoint{Lat: 19.07, Lon: 72.87}.Validate())
	assert.ErrorIs(t, GeoPoint{Lat: 91, Lon: 0}.Validate(), ErrInvalidCoordinates)
	assert.ErrorIs(t, GeoPoint{Lat: 0, Lon: -181}.Validate(), ErrInvalidCoordinates)
}

func TestClassifyRequestValidate(t *testing.T) {
	age := 140
	req := ClassifyRequest{Message: "fever", Age: &age}
	err := req.Validate()
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "age", ve.Field)

	req = ClassifyRequest{Message: "fever", Location: &GeoPoint{Lat: 12.97, Lon: 77.59}}
	assert.NoError(t, req.Validate())
}

func TestClassificationResultClone(t *testing.T) {
	p := 0.8
	orig := &ClassificationResult{
		PrimaryDiagnosis:     Cholera,
		Probability:          &p,
		ExtractedSymptoms:    []SymptomMention{{Name: Vomiting, Severity: 8}},
		DiseaseProbabilities: map[Diagnosis]float64{Cholera: 0.8, Typhoid: 0.2},
	}

	cp := orig.Clone()
	*cp.Probability = 0.1
	cp.ExtractedSymptoms[0].Severity = 1
	cp.DiseaseProbabilities[Cholera] = 0

	assert.Equal(t, 0.8, *orig.Probability)
	assert.Equal(t, 8.0, orig.ExtractedSymptoms[0].Severity)
	assert.Equal(t, 0.8, orig.DiseaseProbabilities[Cholera])
}

func TestClassificationResultOmitsProbability(t *testing.T) {
	data, err := json.Marshal(&ClassificationResult{PrimaryDiagnosis: InsufficientInformation})
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"probability"`)
	assert.NotContains(t, string(data), `"error"`)
}
