package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/health-signal-classifier/internal/domain"
	"github.com/health-signal-classifier/internal/reference"
)

// ClimateProvider returns the weather at a location.
type ClimateProvider interface {
	Reading(ctx context.Context, point domain.GeoPoint, at time.Time) (domain.ClimateReading, error)
}

// SyntheticClimateProvider derives a plausible reading from the coordinates
// and the month. Equal inputs always give equal readings.
type SyntheticClimateProvider struct{}

// Reading implements ClimateProvider.
func (SyntheticClimateProvider) Reading(ctx context.Context, point domain.GeoPoint, at time.Time) (domain.ClimateReading, error) {
	if err := ctx.Err(); err != nil {
		return domain.ClimateReading{}, err
	}

	lat, lon := point.Lat, point.Lon
	month := at.Month()

	var r domain.ClimateReading
	switch {
	case lat > 20 && month >= time.April && month <= time.June:
		r.Temperature = 35 + (lat-20)*0.5
		r.Humidity = 40 + spread("lat+lon", lat+lon, 20)
		r.Rainfall = 2 + spread("lat*lon", lat*lon, 15)
		r.Season = domain.Summer
	case lat > 20 && month >= time.July && month <= time.September:
		r.Temperature = 28 + spread("lat", lat, 8)
		r.Humidity = 75 + spread("lon", lon, 15)
		r.Rainfall = 45 + spread("lat+lon", lat+lon, 80)
		r.Season = domain.Monsoon
	case lat > 20:
		r.Temperature = 22 + spread("lat*2", lat*2, 12)
		r.Humidity = 55 + spread("lon*2", lon*2, 25)
		r.Rainfall = 3 + spread("lat-lon", lat-lon, 10)
		r.Season = domain.Winter
	default:
		r.Temperature = 30 + spread("lat", lat, 8)
		r.Humidity = 65 + spread("lon", lon, 20)
		r.Rainfall = 25 + spread("lat+lon", lat+lon, 50)
		r.Season = domain.Tropical
	}

	r.WindSpeed = 12 + spread("wind", lat, 15)
	r.Pressure = 1013 + spread("pressure", lon, 20)
	r.UVIndex = min(11, int(r.Temperature/4))
	r.WeatherPattern = "dry"
	if r.Rainfall > 30 {
		r.WeatherPattern = "wet"
	}
	return r, nil
}

// spread hashes a labelled value into [0, n).
func spread(label string, v float64, n uint64) float64 {
	return float64(hashValue(label, v) % n)
}

func hashValue(label string, v float64) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s:%.4f", label, v)
	return h.Sum64()
}

// EnvironmentalAssessor builds risk profiles from the city tables and a
// climate provider.
type EnvironmentalAssessor struct {
	logger  *logrus.Logger
	tables  *reference.Tables
	climate ClimateProvider
	now     func() time.Time
}

// NewEnvironmentalAssessor creates an assessor. A nil climate provider falls
// back to SyntheticClimateProvider and a nil clock to time.Now.
func NewEnvironmentalAssessor(logger *logrus.Logger, tables *reference.Tables, climate ClimateProvider, now func() time.Time) *EnvironmentalAssessor {
	if climate == nil {
		climate = SyntheticClimateProvider{}
	}
	if now == nil {
		now = time.Now
	}
	return &EnvironmentalAssessor{logger: logger, tables: tables, climate: climate, now: now}
}

// Assess builds the environmental risk profile of point. predictions only
// select which diseases get a climate risk; their values are not used.
func (a *EnvironmentalAssessor) Assess(ctx context.Context, point domain.GeoPoint, city string, predictions map[domain.Diagnosis]float64) (*domain.RiskProfile, error) {
	if err := point.Validate(); err != nil {
		return nil, fmt.Errorf("failed to assess environment: %w", err)
	}

	at := a.now()
	reading, err := a.climate.Reading(ctx, point, at)
	if err != nil {
		return nil, fmt.Errorf("failed to get climate reading: %w", err)
	}

	industries := a.industries(point, city)
	water := a.water(city, reading, industries, at)

	diseaseRisk := make(map[domain.Diagnosis]float64, len(predictions))
	for d := range predictions {
		diseaseRisk[d] = a.climateDiseaseRisk(d, reading)
	}

	profile := &domain.RiskProfile{
		Location:                point,
		City:                    city,
		Climate:                 reading,
		Industries:              industries,
		Water:                   water,
		AirQualityIndex:         a.tables.AirQualityFor(city),
		ClimateRiskScore:        meanOr(diseaseRisk, 0.5),
		IndustrialRiskScore:     industrialRisk(industries),
		WaterContaminationScore: water.ContaminationRisk / 10.0,
		DiseaseClimateRisk:      diseaseRisk,
	}
	profile.OverallRisk = 0.4*profile.ClimateRiskScore + 0.3*profile.IndustrialRiskScore + 0.3*profile.WaterContaminationScore
	profile.RiskFactors, profile.Recommendations = riskFactors(reading, industries, water)

	a.logger.WithFields(logrus.Fields{
		"city":         city,
		"lat":          point.Lat,
		"lon":          point.Lon,
		"overall_risk": profile.OverallRisk,
		"industries":   len(industries),
	}).Debug("Environmental risk assessed")

	return profile, nil
}

// industries returns the city's sources with a coordinate-dependent distance,
// keeping those within 30 km and scaling their impact by proximity.
func (a *EnvironmentalAssessor) industries(point domain.GeoPoint, city string) []domain.IndustrialSource {
	factor := 1 + float64(hashValue("distance", point.Lat+point.Lon)%5)*0.2

	base := a.tables.IndustriesFor(city)
	out := make([]domain.IndustrialSource, 0, len(base))
	for _, src := range base {
		d := src.DistanceKM * factor
		if d > 30.0 {
			continue
		}
		impact := math.Max(0.1, 1.0-d/30.0)
		out = append(out, domain.IndustrialSource{
			IndustryType: src.IndustryType,
			DistanceKM:   d,
			Level:        src.Level,
			Pollutants:   append([]string(nil), src.Pollutants...),
			WaterImpact:  src.WaterImpact * impact,
			AirImpact:    src.AirImpact * impact,
		})
	}
	return out
}

func (a *EnvironmentalAssessor) water(city string, r domain.ClimateReading, industries []domain.IndustrialSource, at time.Time) domain.WaterBody {
	base := a.tables.WaterFor(city)

	chemicals := append([]string(nil), base.ChemicalPollutants...)
	known := make(map[string]bool, len(chemicals))
	for _, c := range chemicals {
		known[c] = true
	}

	var industrial float64
	for _, src := range industries {
		if src.DistanceKM > 10.0 {
			continue
		}
		industrial += src.WaterImpact * math.Max(0.1, 1.0-src.DistanceKM/10.0) * 0.1
		for _, p := range src.Pollutants {
			if !known[p] {
				known[p] = true
				chemicals = append(chemicals, p)
			}
		}
	}

	var climate float64
	if r.Rainfall > 50 {
		climate += 1.5
	}
	if r.Temperature > 30 {
		climate += 1.0
	}
	if r.Humidity > 80 {
		climate += 0.5
	}

	risk := math.Min(10.0, base.ContaminationRisk+industrial+climate)

	events := append([]string{}, base.RecentEvents...)
	if industrial > 2.0 {
		events = append(events, fmt.Sprintf("industrial_discharge_%d", at.Year()))
	}
	if r.Rainfall > 80 {
		events = append(events, fmt.Sprintf("runoff_contamination_%d", at.Year()))
	}

	return domain.WaterBody{
		SourceType:         base.SourceType,
		ContaminationRisk:  risk,
		BacterialLoad:      bacterialLoad(risk),
		ChemicalPollutants: chemicals,
		RecentEvents:       events,
		SafetyScore:        math.Max(0, 10.0-risk),
	}
}

func bacterialLoad(risk float64) domain.ContaminationLevel {
	switch {
	case risk <= 3.0:
		return domain.ContaminationLow
	case risk <= 6.0:
		return domain.ContaminationMedium
	case risk <= 8.5:
		return domain.ContaminationHigh
	default:
		return domain.ContaminationCritical
	}
}

// climateDiseaseRisk averages the climate factors of d that currently apply.
// Diseases without a correlation row get a moderate 0.5.
func (a *EnvironmentalAssessor) climateDiseaseRisk(d domain.Diagnosis, r domain.ClimateReading) float64 {
	corr, ok := a.tables.ClimateCorrelations[d]
	if !ok {
		return 0.5
	}

	var score float64
	var factors int
	add := func(v float64) {
		score += v
		factors++
	}

	if w, ok := corr["high_temperature"]; ok && r.Temperature > 30 {
		add(w * (r.Temperature - 30) / 10)
	}
	if w, ok := corr["temperature_range"]; ok {
		add(math.Max(0, w*(1-math.Abs(r.Temperature-27.5)/15)))
	}
	if w, ok := corr["heavy_rainfall"]; ok && r.Rainfall > 50 {
		add(w * math.Min(1.0, (r.Rainfall-50)/100))
	}
	if w, ok := corr["high_humidity"]; ok && r.Humidity > 80 {
		add(w * (r.Humidity - 80) / 20)
	}
	if w, ok := corr["monsoon_season"]; ok && r.Season == domain.Monsoon {
		add(w)
	}
	if w, ok := corr["summer_heat"]; ok && r.Season == domain.Summer {
		add(w)
	}
	if w, ok := corr["dry_season"]; ok && r.WeatherPattern == "dry" {
		add(w)
	}

	if factors > 0 {
		score /= float64(factors)
	}
	return math.Min(1.0, score)
}

func industrialRisk(industries []domain.IndustrialSource) float64 {
	if len(industries) == 0 {
		return 0
	}
	var water, air float64
	for _, src := range industries {
		water += src.WaterImpact
		air += src.AirImpact
	}
	n := float64(len(industries))
	return (water/n + air/n) / 20
}

func meanOr(m map[domain.Diagnosis]float64, fallback float64) float64 {
	if len(m) == 0 {
		return fallback
	}
	var sum float64
	for _, d := range sortedKeys(m) {
		sum += m[d]
	}
	return sum / float64(len(m))
}

func riskFactors(r domain.ClimateReading, industries []domain.IndustrialSource, w domain.WaterBody) (factors, recommendations []string) {
	factors, recommendations = []string{}, []string{}
	add := func(factor, recommendation string) {
		factors = append(factors, factor)
		recommendations = append(recommendations, recommendation)
	}

	if r.Temperature > 35 {
		add(fmt.Sprintf("Extreme heat (%.1f°C)", r.Temperature), "Ensure proper hydration and cooling")
	}
	if r.Rainfall > 75 {
		add(fmt.Sprintf("Heavy rainfall (%.1fmm)", r.Rainfall), "Boil water before consumption")
	}
	if r.Humidity > 85 {
		add(fmt.Sprintf("High humidity (%.1f%%)", r.Humidity), "Use mosquito protection measures")
	}

	critical := 0
	for _, src := range industries {
		if src.Level == domain.ContaminationCritical && src.DistanceKM <= 5.0 {
			critical++
		}
	}
	if critical > 0 {
		add(fmt.Sprintf("Critical industrial contamination (%d sources)", critical), "Avoid outdoor activities during high pollution hours")
	}

	if w.ContaminationRisk > 7.0 {
		add(fmt.Sprintf("High water contamination risk (%.1f/10)", w.ContaminationRisk), "Mandatory water boiling/filtration required")
	}
	if w.BacterialLoad == domain.ContaminationCritical {
		add("Critical bacterial contamination detected", "Use only bottled or properly treated water")
	}
	if len(w.ChemicalPollutants) > 3 {
		add(fmt.Sprintf("Multiple chemical contaminants (%d)", len(w.ChemicalPollutants)), "Regular health monitoring recommended")
	}
	return factors, recommendations
}
