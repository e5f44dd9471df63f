package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/health-signal-classifier/internal/domain"
	"github.com/health-signal-classifier/internal/reference"
)

func newTestPredictor(tables *reference.Tables, climate ClimateProvider) *OutbreakPredictor {
	return NewOutbreakPredictor(testLogger(), tables, climate, func() time.Time { return august })
}

func TestOutbreakPredictor_Predict(t *testing.T) {
	tests := []struct {
		name           string
		req            domain.OutbreakRequest
		wantDisease    domain.Diagnosis
		wantLevel      domain.OutbreakRiskLevel
		wantConfidence float64
		wantPopulation int
		wantTriggers   int
		wantFactors    int
		wantTimeline   string
	}{
		{
			name: "coastal cholera conditions",
			req: domain.OutbreakRequest{
				City:     "Mumbai",
				Symptoms: []domain.Symptom{domain.WateryDiarrhea},
				Climate:  &domain.ClimateReading{Temperature: 35, Humidity: 85, Rainfall: 120},
			},
			wantDisease:    domain.Cholera,
			wantLevel:      domain.OutbreakCritical,
			wantConfidence: 0.9,
			wantPopulation: 2500,
			wantTriggers:   3,
			wantFactors:    3,
			wantTimeline:   "2 hours for immediate response, 6 hours for full deployment",
		},
		{
			name: "vector season ties go to dengue",
			req: domain.OutbreakRequest{
				City:           "Delhi",
				Population:     200000,
				PollutionLevel: domain.ContaminationHigh,
				Climate:        &domain.ClimateReading{Temperature: 28, Humidity: 70, Rainfall: 50},
			},
			wantDisease:    domain.Dengue,
			wantLevel:      domain.OutbreakMedium,
			wantConfidence: 0.45,
			wantPopulation: 1000,
			wantTriggers:   3,
			wantFactors:    5,
			wantTimeline:   "24 hours for initial response, 48 hours for full deployment",
		},
		{
			name: "cold and dry",
			req: domain.OutbreakRequest{
				City:    "Bangalore",
				Climate: &domain.ClimateReading{Temperature: 15, Humidity: 40, Rainfall: 2},
			},
			wantDisease:    domain.Cholera,
			wantLevel:      domain.OutbreakLow,
			wantConfidence: 0,
			wantPopulation: 100,
			wantTriggers:   0,
			wantFactors:    3,
			wantTimeline:   "72 hours for full response deployment",
		},
	}

	predictor := newTestPredictor(reference.Default(), nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := predictor.Predict(context.Background(), tt.req)
			require.NoError(t, err)

			assert.Equal(t, tt.wantDisease, got.PredictedDisease)
			assert.Equal(t, tt.wantLevel, got.RiskLevel)
			assert.InDelta(t, tt.wantConfidence, got.Confidence, 1e-9)
			assert.Equal(t, tt.wantPopulation, got.AffectedPopulationEstimate)
			assert.Len(t, got.ClimateTriggers, tt.wantTriggers)
			assert.Len(t, got.EnvironmentalFactors, tt.wantFactors)
			assert.Equal(t, tt.wantTimeline, got.Timeline)
			assert.Equal(t, *tt.req.Climate, got.Climate)
			assert.Equal(t, got.SolutionPlan.PreventionMeasures, got.PreventionMeasures)
			assert.Len(t, got.DiseaseScores, 4)
		})
	}
}

func TestOutbreakPredictor_MumbaiCholeraPlan(t *testing.T) {
	tables := reference.Default()
	predictor := newTestPredictor(tables, nil)
	req := domain.OutbreakRequest{
		City:     "mumbai",
		State:    "Maharashtra",
		Symptoms: []domain.Symptom{domain.RiceWaterStools},
		Climate:  &domain.ClimateReading{Temperature: 34, Humidity: 82, Rainfall: 90},
	}

	got, err := predictor.Predict(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "Maharashtra", got.State)
	assert.Equal(t, "Unknown", got.District)
	assert.Contains(t, got.SolutionPlan.ImmediateActions, "Coordinate with Brihanmumbai Municipal Corporation")
	assert.Contains(t, got.PreventionMeasures, "Special focus on slum areas like Dharavi")
	assert.Equal(t, "Medical teams: 6 doctors, 16 nurses, 4 lab technicians", got.SolutionPlan.ResourceDeployment[0])

	// The templates stay untouched for the next prediction.
	template := tables.OutbreakPatterns[0].Plan
	assert.Len(t, template.ImmediateActions, 6)
	assert.Len(t, template.PreventionMeasures, 6)
	assert.Equal(t, "Medical teams: 3 doctors, 8 nurses, 4 lab technicians", template.ResourceDeployment[0])

	again, err := predictor.Predict(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestOutbreakPredictor_ClimateFromProvider(t *testing.T) {
	reading := domain.ClimateReading{Temperature: 30, Humidity: 78, Rainfall: 60, Season: domain.Monsoon}
	predictor := newTestPredictor(reference.Default(), fixedClimate{reading: reading})

	got, err := predictor.Predict(context.Background(), domain.OutbreakRequest{City: "Kolkata"})
	require.NoError(t, err)
	assert.Equal(t, reading, got.Climate)
	// Malaria fits temperature and humidity; so do dengue and hepatitis A,
	// which come first.
	assert.Equal(t, domain.Dengue, got.PredictedDisease)

	synthetic := newTestPredictor(reference.Default(), nil)
	got, err = synthetic.Predict(context.Background(), domain.OutbreakRequest{Location: &delhi})
	require.NoError(t, err)
	want, err := SyntheticClimateProvider{}.Reading(context.Background(), delhi, august)
	require.NoError(t, err)
	assert.Equal(t, want, got.Climate)
	assert.Equal(t, "Unknown", got.City)
}

func TestOutbreakPredictor_Errors(t *testing.T) {
	tests := []struct {
		name    string
		climate ClimateProvider
		req     domain.OutbreakRequest
		wantErr string
	}{
		{"nothing to locate", nil, domain.OutbreakRequest{}, "city"},
		{"unknown city", nil, domain.OutbreakRequest{City: "Atlantis"}, "unknown city"},
		{"bad location", nil, domain.OutbreakRequest{Location: &domain.GeoPoint{Lat: 120}}, "location"},
		{"negative population", nil, domain.OutbreakRequest{City: "Delhi", Population: -1}, "population"},
		{"bad pollution level", nil, domain.OutbreakRequest{City: "Delhi", PollutionLevel: "toxic"}, "pollution_level"},
		{"climate failure", fixedClimate{err: errors.New("upstream down")}, domain.OutbreakRequest{City: "Delhi"}, "upstream down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestPredictor(reference.Default(), tt.climate).Predict(context.Background(), tt.req)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
