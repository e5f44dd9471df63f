package domain

import (
	"math"
)

// HoursRange is an inclusive range of hours.
type HoursRange struct {
	MinHours int `json:"min_hours" yaml:"min_hours"`
	MaxHours int `json:"max_hours" yaml:"max_hours"`
}

// DiseaseSignature describes how a disease presents: which symptoms support
// it, which context raises its prior, which findings rule it out and which
// are specific to it. Signatures are read-only once loaded.
type DiseaseSignature struct {
	Disease                  Diagnosis          `json:"disease"`
	PrimarySymptoms          []Symptom          `json:"primary_symptoms"`
	SecondarySymptoms        []Symptom          `json:"secondary_symptoms"`
	EnvironmentalCorrelation map[string]float64 `json:"environmental_correlation"`
	DemographicRisk          map[string]float64 `json:"demographic_risk"`
	ExclusionarySymptoms     []Symptom          `json:"exclusionary_symptoms"`
	PathognomonicSigns       []Symptom          `json:"pathognomonic_signs"`
	IncubationPeriod         HoursRange         `json:"incubation_period"`
	Contagiousness           float64            `json:"contagiousness"`
}

// ExpectedSymptoms returns the primary followed by the secondary symptoms.
func (s *DiseaseSignature) ExpectedSymptoms() []Symptom {
	out := make([]Symptom, 0, len(s.PrimarySymptoms)+len(s.SecondarySymptoms))
	out = append(out, s.PrimarySymptoms...)
	return append(out, s.SecondarySymptoms...)
}

// GeoPoint is a WGS84 coordinate.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate checks the coordinate ranges.
func (p GeoPoint) Validate() error {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) || p.Lat < -90 || p.Lat > 90 || p.Lon < -180 || p.Lon > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}

// PatientContext carries demographic information about the reporter.
type PatientContext struct {
	Age               int             `json:"age"`
	Gender            string          `json:"gender"`
	Occupation        string          `json:"occupation"`
	Location          GeoPoint        `json:"location"`
	HouseholdSize     int             `json:"household_size"`
	WaterSource       string          `json:"water_source"`
	SanitationLevel   int             `json:"sanitation_level"`
	RecentTravel      bool            `json:"recent_travel"`
	VaccinationStatus map[string]bool `json:"vaccination_status,omitempty"`
}

// EnvironmentalContext is the seasonal and environmental state used to
// adjust disease priors.
type EnvironmentalContext struct {
	Season            Season  `json:"season"`
	Temperature       float64 `json:"temperature"`
	Humidity          float64 `json:"humidity"`
	Rainfall7Day      float64 `json:"rainfall_7day"`
	WaterQualityScore float64 `json:"water_quality_score"`
	AirQualityIndex   int     `json:"air_quality_index"`
	PopulationDensity int     `json:"population_density"`
}
