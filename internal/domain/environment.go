package domain

// ClimateReading is a point-in-time weather observation for a location.
type ClimateReading struct {
	Temperature    float64 `json:"temperature"`
	Humidity       float64 `json:"humidity"`
	Rainfall       float64 `json:"rainfall"`
	WindSpeed      float64 `json:"wind_speed"`
	Pressure       float64 `json:"pressure"`
	UVIndex        int     `json:"uv_index"`
	Season         Season  `json:"season"`
	WeatherPattern string  `json:"weather_pattern"`
}

// IndustrialSource is a pollution source near a location.
type IndustrialSource struct {
	IndustryType string             `json:"industry_type" yaml:"industry_type"`
	DistanceKM   float64            `json:"distance_km" yaml:"distance_km"`
	Level        ContaminationLevel `json:"pollution_level" yaml:"pollution_level"`
	Pollutants   []string           `json:"pollutants" yaml:"pollutants"`
	WaterImpact  float64            `json:"water_impact" yaml:"water_impact"`
	AirImpact    float64            `json:"air_impact" yaml:"air_impact"`
}

// WaterBody describes the main drinking water source of a city.
type WaterBody struct {
	SourceType         string             `json:"source_type" yaml:"source_type"`
	ContaminationRisk  float64            `json:"contamination_risk" yaml:"contamination_risk"`
	BacterialLoad      ContaminationLevel `json:"bacterial_load" yaml:"bacterial_load"`
	ChemicalPollutants []string           `json:"chemical_pollutants" yaml:"chemical_pollutants"`
	RecentEvents       []string           `json:"recent_events" yaml:"recent_events"`
	SafetyScore        float64            `json:"safety_score" yaml:"safety_score"`
}

// RiskProfile is the environmental assessment of a location.
type RiskProfile struct {
	Location                GeoPoint              `json:"location"`
	City                    string                `json:"city"`
	Climate                 ClimateReading        `json:"climate"`
	Industries              []IndustrialSource    `json:"industries"`
	Water                   WaterBody             `json:"water"`
	AirQualityIndex         int                   `json:"air_quality_index"`
	ClimateRiskScore        float64               `json:"climate_risk_score"`
	IndustrialRiskScore     float64               `json:"industrial_risk_score"`
	WaterContaminationScore float64               `json:"water_contamination_score"`
	OverallRisk             float64               `json:"overall_risk"`
	DiseaseClimateRisk      map[Diagnosis]float64 `json:"disease_climate_risk"`
	RiskFactors             []string              `json:"risk_factors"`
	Recommendations         []string              `json:"recommendations"`
}
