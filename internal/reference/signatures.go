package reference

import (
	"github.com/health-signal-classifier/internal/domain"
)

// defaultSignatures returns the registered diseases in registration order.
// Registration order is also the tie-break order when ranking.
func defaultSignatures() []domain.DiseaseSignature {
	return []domain.DiseaseSignature{
		{
			Disease:           domain.Cholera,
			PrimarySymptoms:   []domain.Symptom{domain.WateryDiarrhea, domain.SevereDehydration, domain.RiceWaterStools},
			SecondarySymptoms: []domain.Symptom{domain.Vomiting, domain.RapidFluidLoss, domain.MuscleCramps},
			EnvironmentalCorrelation: map[string]float64{
				"rainfall_spike":      0.8,
				"water_contamination": 0.9,
				"poor_sanitation":     0.7,
				"flooding":            0.6,
			},
			DemographicRisk: map[string]float64{
				"elderly": 0.8, "children_under_5": 0.9, "adults": 0.6,
				"malnutrition": 0.7, "immunocompromised": 0.8,
			},
			ExclusionarySymptoms: []domain.Symptom{domain.Constipation, domain.HighFever},
			PathognomonicSigns:   []domain.Symptom{domain.RiceWaterStools, domain.SunkenEyes},
			IncubationPeriod:     domain.HoursRange{MinHours: 2, MaxHours: 120},
			Contagiousness:       0.7,
		},
		{
			Disease:           domain.Typhoid,
			PrimarySymptoms:   []domain.Symptom{domain.SustainedFever, domain.Headache, domain.AbdominalPain, domain.RoseSpots},
			SecondarySymptoms: []domain.Symptom{domain.Constipation, domain.Diarrhea, domain.Fatigue, domain.LossAppetite},
			EnvironmentalCorrelation: map[string]float64{
				"poor_sanitation":    0.8,
				"food_contamination": 0.7,
				"overcrowding":       0.6,
				"summer_season":      0.7,
			},
			DemographicRisk: map[string]float64{
				"young_adults": 0.8, "school_age": 0.7, "food_handlers": 0.9,
				"travelers": 0.6,
			},
			ExclusionarySymptoms: []domain.Symptom{domain.WateryDiarrhea, domain.RiceWaterStools},
			PathognomonicSigns:   []domain.Symptom{domain.RoseSpots, domain.StepLadderFever},
			IncubationPeriod:     domain.HoursRange{MinHours: 168, MaxHours: 720},
			Contagiousness:       0.3,
		},
		{
			Disease:           domain.Malaria,
			PrimarySymptoms:   []domain.Symptom{domain.CyclicFever, domain.Chills, domain.Sweats, domain.Headache},
			SecondarySymptoms: []domain.Symptom{domain.MuscleAches, domain.Fatigue, domain.Nausea, domain.Vomiting},
			EnvironmentalCorrelation: map[string]float64{
				"stagnant_water":   0.9,
				"monsoon_season":   0.8,
				"rural_areas":      0.7,
				"forest_proximity": 0.6,
			},
			DemographicRisk: map[string]float64{
				"children_under_5": 0.9, "pregnant_women": 0.8, "travelers": 0.7,
				"outdoor_workers": 0.6,
			},
			ExclusionarySymptoms: []domain.Symptom{domain.ContinuousFever, domain.Diarrhea},
			PathognomonicSigns:   []domain.Symptom{domain.SpleenEnlargement, domain.Anemia},
			IncubationPeriod:     domain.HoursRange{MinHours: 168, MaxHours: 720},
			Contagiousness:       0.0,
		},
		{
			Disease:           domain.Dengue,
			PrimarySymptoms:   []domain.Symptom{domain.HighFever, domain.SevereHeadache, domain.EyePain, domain.MusclePain},
			SecondarySymptoms: []domain.Symptom{domain.Rash, domain.Nausea, domain.Vomiting, domain.Bleeding},
			EnvironmentalCorrelation: map[string]float64{
				"water_storage":       0.8,
				"urban_areas":         0.7,
				"monsoon_post":        0.8,
				"breeding_containers": 0.9,
			},
			DemographicRisk: map[string]float64{
				"all_ages": 0.6, "urban_dwellers": 0.7, "repeat_infection": 0.9,
			},
			ExclusionarySymptoms: []domain.Symptom{domain.Diarrhea, domain.RespiratorySymptoms},
			PathognomonicSigns:   []domain.Symptom{domain.PlateletDrop, domain.TourniquetTestPositive},
			IncubationPeriod:     domain.HoursRange{MinHours: 96, MaxHours: 336},
			Contagiousness:       0.0,
		},
		{
			Disease:           domain.HepatitisA,
			PrimarySymptoms:   []domain.Symptom{domain.Jaundice, domain.Fatigue, domain.AbdominalPain, domain.Nausea},
			SecondarySymptoms: []domain.Symptom{domain.LossAppetite, domain.LowFever, domain.DarkUrine, domain.PaleStool},
			EnvironmentalCorrelation: map[string]float64{
				"poor_sanitation":    0.8,
				"contaminated_water": 0.7,
				"food_contamination": 0.6,
			},
			DemographicRisk: map[string]float64{
				"children": 0.7, "travelers": 0.6, "food_handlers": 0.8,
			},
			ExclusionarySymptoms: []domain.Symptom{domain.HighFever, domain.Diarrhea},
			PathognomonicSigns:   []domain.Symptom{domain.Jaundice, domain.EnlargedLiver},
			IncubationPeriod:     domain.HoursRange{MinHours: 360, MaxHours: 1200},
			Contagiousness:       0.4,
		},
		{
			Disease:           domain.Covid19,
			PrimarySymptoms:   []domain.Symptom{domain.Fever, domain.DryCough, domain.ShortnessBreath, domain.LossTasteSmell},
			SecondarySymptoms: []domain.Symptom{domain.Fatigue, domain.BodyAches, domain.SoreThroat, domain.Headache},
			EnvironmentalCorrelation: map[string]float64{
				"crowded_spaces":   0.8,
				"poor_ventilation": 0.7,
				"winter_season":    0.6,
			},
			DemographicRisk: map[string]float64{
				"elderly": 0.9, "comorbidities": 0.8, "all_ages": 0.5,
			},
			ExclusionarySymptoms: nil,
			PathognomonicSigns:   []domain.Symptom{domain.LossTasteSmell, domain.GroundGlassOpacity},
			IncubationPeriod:     domain.HoursRange{MinHours: 24, MaxHours: 336},
			Contagiousness:       0.9,
		},
	}
}

// defaultSeasonal is the disease by month (Jan..Dec) prior matrix.
func defaultSeasonal() map[domain.Diagnosis][12]float64 {
	return map[domain.Diagnosis][12]float64{
		domain.Cholera:    {0.15, 0.20, 0.25, 0.30, 0.35, 0.40, 0.35, 0.30, 0.25, 0.20, 0.18, 0.15},
		domain.Typhoid:    {0.20, 0.25, 0.30, 0.35, 0.40, 0.35, 0.30, 0.25, 0.22, 0.20, 0.18, 0.18},
		domain.Malaria:    {0.10, 0.15, 0.20, 0.25, 0.20, 0.35, 0.45, 0.50, 0.40, 0.30, 0.20, 0.15},
		domain.Dengue:     {0.05, 0.10, 0.15, 0.20, 0.25, 0.35, 0.40, 0.45, 0.35, 0.25, 0.15, 0.10},
		domain.HepatitisA: {0.25, 0.30, 0.35, 0.40, 0.45, 0.35, 0.25, 0.20, 0.25, 0.30, 0.25, 0.25},
		domain.Covid19:    {0.40, 0.35, 0.30, 0.25, 0.25, 0.30, 0.35, 0.30, 0.35, 0.40, 0.45, 0.50},
	}
}

// defaultCriticalSymptoms push severity to High and, at severity 8 or more,
// urgency to URGENT.
var defaultCriticalSymptoms = []domain.Symptom{domain.SevereDehydration, domain.ShortnessBreath, domain.ChestPain, domain.Bleeding}
