package domain

// OutbreakRiskLevel grades the likelihood of a local outbreak.
type OutbreakRiskLevel string

const (
	OutbreakLow      OutbreakRiskLevel = "Low"
	OutbreakMedium   OutbreakRiskLevel = "Medium"
	OutbreakHigh     OutbreakRiskLevel = "High"
	OutbreakCritical OutbreakRiskLevel = "Critical"
)

// IsValid checks if the outbreak risk level is valid
func (l OutbreakRiskLevel) IsValid() bool {
	switch l {
	case OutbreakLow, OutbreakMedium, OutbreakHigh, OutbreakCritical:
		return true
	default:
		return false
	}
}

// Escalated reports whether the level calls for scaled-up resources.
func (l OutbreakRiskLevel) Escalated() bool {
	return l == OutbreakHigh || l == OutbreakCritical
}

// DefaultOutbreakPopulation is assumed when a request gives no population.
const DefaultOutbreakPopulation = 100000

// OutbreakRequest describes a place and the current conditions there.
// Climate is read from the climate provider when not given.
type OutbreakRequest struct {
	City           string             `json:"city"`
	State          string             `json:"state,omitempty"`
	District       string             `json:"district,omitempty"`
	Location       *GeoPoint          `json:"location,omitempty"`
	Population     int                `json:"population,omitempty"`
	PollutionLevel ContaminationLevel `json:"pollution_level,omitempty"`
	Symptoms       []Symptom          `json:"symptoms,omitempty"`
	Climate        *ClimateReading    `json:"climate,omitempty"`
}

// Validate checks the request fields that do not need the reference tables.
func (r *OutbreakRequest) Validate() error {
	if r.Location != nil {
		if err := r.Location.Validate(); err != nil {
			return NewValidationError("location", err.Error(), *r.Location)
		}
	}
	if r.Population < 0 {
		return NewValidationError("population", "must not be negative", r.Population)
	}
	switch r.PollutionLevel {
	case "", ContaminationLow, ContaminationMedium, ContaminationHigh, ContaminationCritical:
	default:
		return NewValidationError("pollution_level", "must be low, medium, high or critical", r.PollutionLevel)
	}
	if r.Location == nil && r.Climate == nil && r.City == "" {
		return NewValidationError("city", "city, location or climate is required", nil)
	}
	return nil
}

// SolutionPlan is the response plan for a predicted outbreak.
type SolutionPlan struct {
	ImmediateActions   []string `json:"immediate_actions"`
	PreventionMeasures []string `json:"prevention_measures"`
	ResourceDeployment []string `json:"resource_deployment"`
	MonitoringProtocol []string `json:"monitoring_protocol"`
}

// OutbreakPrediction is the most likely outbreak at a place with the plan to
// contain it.
type OutbreakPrediction struct {
	City                       string                `json:"city"`
	State                      string                `json:"state"`
	District                   string                `json:"district"`
	PredictedDisease           Diagnosis             `json:"predicted_disease"`
	RiskLevel                  OutbreakRiskLevel     `json:"risk_level"`
	Confidence                 float64               `json:"confidence"`
	DiseaseScores              map[Diagnosis]float64 `json:"disease_scores"`
	Climate                    ClimateReading        `json:"climate"`
	EnvironmentalFactors       []string              `json:"environmental_factors"`
	ClimateTriggers            []string              `json:"climate_triggers"`
	SolutionPlan               SolutionPlan          `json:"solution_plan"`
	Timeline                   string                `json:"timeline"`
	AffectedPopulationEstimate int                   `json:"affected_population_estimate"`
	PreventionMeasures         []string              `json:"prevention_measures"`
}
