package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/health-signal-classifier/internal/domain"
	"github.com/health-signal-classifier/internal/reference"
)

// Outbreak score weights. A disease scores at most 0.9 before capping.
const (
	outbreakSymptomWeight  = 0.3
	outbreakTempWeight     = 0.25
	outbreakHumidityWeight = 0.2
	outbreakCoastalWeight  = 0.15
	outbreakMaxConfidence  = 0.95
)

var _ domain.OutbreakPredictor = (*OutbreakPredictor)(nil)

// OutbreakPredictor estimates which disease is most likely to break out at a
// place given the climate there, and drafts the response plan.
type OutbreakPredictor struct {
	logger  *logrus.Logger
	tables  *reference.Tables
	climate ClimateProvider
	now     func() time.Time
}

// NewOutbreakPredictor creates a predictor. A nil climate provider falls back
// to SyntheticClimateProvider and a nil clock to time.Now.
func NewOutbreakPredictor(logger *logrus.Logger, tables *reference.Tables, climate ClimateProvider, now func() time.Time) *OutbreakPredictor {
	if climate == nil {
		climate = SyntheticClimateProvider{}
	}
	if now == nil {
		now = time.Now
	}
	return &OutbreakPredictor{logger: logger, tables: tables, climate: climate, now: now}
}

// Predict scores every disease with an outbreak pattern and builds the
// prediction for the highest one. Ties go to the earlier pattern.
func (p *OutbreakPredictor) Predict(ctx context.Context, req domain.OutbreakRequest) (*domain.OutbreakPrediction, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if len(p.tables.OutbreakPatterns) == 0 {
		return nil, fmt.Errorf("no outbreak patterns configured")
	}

	reading, err := p.reading(ctx, req)
	if err != nil {
		return nil, err
	}

	scores := make(map[domain.Diagnosis]float64, len(p.tables.OutbreakPatterns))
	best := &p.tables.OutbreakPatterns[0]
	bestScore := -1.0
	for i := range p.tables.OutbreakPatterns {
		pattern := &p.tables.OutbreakPatterns[i]
		score := p.score(pattern, req, reading)
		scores[pattern.Disease] = score
		if score > bestScore {
			best, bestScore = pattern, score
		}
	}

	confidence := math.Min(bestScore, outbreakMaxConfidence)
	level := outbreakLevel(confidence)

	population := req.Population
	if population == 0 {
		population = domain.DefaultOutbreakPopulation
	}

	plan := p.plan(best, req.City, level)
	prediction := &domain.OutbreakPrediction{
		City:                       orUnknown(req.City),
		State:                      orUnknown(req.State),
		District:                   orUnknown(req.District),
		PredictedDisease:           best.Disease,
		RiskLevel:                  level,
		Confidence:                 confidence,
		DiseaseScores:              scores,
		Climate:                    reading,
		EnvironmentalFactors:       p.environmentalFactors(req),
		ClimateTriggers:            climateTriggers(best.Disease, reading),
		SolutionPlan:               plan,
		Timeline:                   responseTimeline(level),
		AffectedPopulationEstimate: int(float64(population) * populationShare(level)),
		PreventionMeasures:         append([]string(nil), plan.PreventionMeasures...),
	}

	p.logger.WithFields(logrus.Fields{
		"city":       req.City,
		"disease":    best.Disease,
		"risk_level": level,
		"confidence": confidence,
	}).Debug("Outbreak risk predicted")

	return prediction, nil
}

func (p *OutbreakPredictor) reading(ctx context.Context, req domain.OutbreakRequest) (domain.ClimateReading, error) {
	if req.Climate != nil {
		return *req.Climate, nil
	}

	var point domain.GeoPoint
	switch {
	case req.Location != nil:
		point = *req.Location
	default:
		known, ok := p.tables.CityPoint(req.City)
		if !ok {
			return domain.ClimateReading{}, domain.NewValidationError("city", "unknown city; give a location or climate", req.City)
		}
		point = known
	}

	reading, err := p.climate.Reading(ctx, point, p.now())
	if err != nil {
		return domain.ClimateReading{}, fmt.Errorf("failed to get climate reading: %w", err)
	}
	return reading, nil
}

func (p *OutbreakPredictor) score(pattern *reference.OutbreakPattern, req domain.OutbreakRequest, r domain.ClimateReading) float64 {
	var score float64
	if p.symptomsMatch(pattern.Disease, req.Symptoms) {
		score += outbreakSymptomWeight
	}
	if pattern.InTemperatureRange(r.Temperature) {
		score += outbreakTempWeight
	}
	if r.Humidity >= pattern.HumidityThreshold {
		score += outbreakHumidityWeight
	}
	if pattern.CoastalRisk && p.tables.IsCoastal(req.City) {
		score += outbreakCoastalWeight
	}
	return math.Round(score*100) / 100
}

// symptomsMatch reports whether any reported symptom belongs to the
// disease's signature.
func (p *OutbreakPredictor) symptomsMatch(d domain.Diagnosis, symptoms []domain.Symptom) bool {
	if len(symptoms) == 0 {
		return false
	}
	sig, ok := p.tables.Signature(d)
	if !ok {
		return false
	}
	expected := make(map[domain.Symptom]bool)
	for _, s := range sig.ExpectedSymptoms() {
		expected[s] = true
	}
	for _, s := range symptoms {
		if expected[s] {
			return true
		}
	}
	return false
}

// environmentalFactors lists the city's top three standing problems plus
// pollution factors for heavily polluted places.
func (p *OutbreakPredictor) environmentalFactors(req domain.OutbreakRequest) []string {
	factors := []string{}
	cityFactors := p.tables.OutbreakFactorsFor(req.City)
	if len(cityFactors) > 3 {
		cityFactors = cityFactors[:3]
	}
	factors = append(factors, cityFactors...)

	if req.PollutionLevel == domain.ContaminationHigh || req.PollutionLevel == domain.ContaminationCritical {
		factors = append(factors,
			"High industrial pollution levels affecting immunity",
			"Poor air quality contributing to respiratory vulnerability")
	}
	return factors
}

// plan copies the disease's template, adds local steps and doubles the
// medical staff for escalated levels.
func (p *OutbreakPredictor) plan(pattern *reference.OutbreakPattern, city string, level domain.OutbreakRiskLevel) domain.SolutionPlan {
	plan := domain.SolutionPlan{
		ImmediateActions:   append([]string(nil), pattern.Plan.ImmediateActions...),
		PreventionMeasures: append([]string(nil), pattern.Plan.PreventionMeasures...),
		ResourceDeployment: append([]string(nil), pattern.Plan.ResourceDeployment...),
		MonitoringProtocol: append([]string(nil), pattern.Plan.MonitoringProtocol...),
	}

	if local, ok := p.tables.LocalResponseFor(city, pattern.Disease); ok {
		plan.ImmediateActions = append(plan.ImmediateActions, local.ImmediateActions...)
		plan.PreventionMeasures = append(plan.PreventionMeasures, local.PreventionMeasures...)
	}

	if level.Escalated() {
		scale := strings.NewReplacer("3 doctors", "6 doctors", "8 nurses", "16 nurses")
		for i, action := range plan.ResourceDeployment {
			plan.ResourceDeployment[i] = scale.Replace(action)
		}
	}
	return plan
}

func climateTriggers(d domain.Diagnosis, r domain.ClimateReading) []string {
	triggers := []string{}
	t, h, rain := r.Temperature, r.Humidity, r.Rainfall

	switch d {
	case domain.Cholera:
		if t > 32 {
			triggers = append(triggers, fmt.Sprintf("High temperature (%.1f°C) accelerating bacterial growth", t))
		}
		if h > 80 {
			triggers = append(triggers, fmt.Sprintf("High humidity (%.0f%%) creating favorable conditions", h))
		}
		if rain > 100 {
			triggers = append(triggers, fmt.Sprintf("Heavy rainfall (%.0fmm) causing water contamination", rain))
		}
	case domain.Dengue:
		if t >= 26 && t <= 32 {
			triggers = append(triggers, fmt.Sprintf("Optimal temperature (%.1f°C) for Aedes mosquito breeding", t))
		}
		if h > 65 {
			triggers = append(triggers, fmt.Sprintf("High humidity (%.0f%%) supporting vector survival", h))
		}
		if rain >= 20 && rain <= 100 {
			triggers = append(triggers, fmt.Sprintf("Moderate rainfall (%.0fmm) creating breeding sites", rain))
		}
	case domain.Malaria:
		if t >= 25 && t <= 35 {
			triggers = append(triggers, fmt.Sprintf("Temperature (%.1f°C) optimal for Anopheles development", t))
		}
		if h > 75 {
			triggers = append(triggers, fmt.Sprintf("High humidity (%.0f%%) supporting mosquito longevity", h))
		}
		if rain > 50 {
			triggers = append(triggers, fmt.Sprintf("Rainfall (%.0fmm) creating vector breeding habitats", rain))
		}
	}
	return triggers
}

func outbreakLevel(confidence float64) domain.OutbreakRiskLevel {
	switch {
	case confidence >= 0.8:
		return domain.OutbreakCritical
	case confidence >= 0.6:
		return domain.OutbreakHigh
	case confidence >= 0.4:
		return domain.OutbreakMedium
	default:
		return domain.OutbreakLow
	}
}

func populationShare(level domain.OutbreakRiskLevel) float64 {
	switch level {
	case domain.OutbreakLow:
		return 0.001
	case domain.OutbreakHigh:
		return 0.01
	case domain.OutbreakCritical:
		return 0.025
	default:
		return 0.005
	}
}

func responseTimeline(level domain.OutbreakRiskLevel) string {
	switch level {
	case domain.OutbreakLow:
		return "72 hours for full response deployment"
	case domain.OutbreakMedium:
		return "24 hours for initial response, 48 hours for full deployment"
	case domain.OutbreakHigh:
		return "12 hours for rapid response team, 24 hours for full deployment"
	default:
		return "2 hours for immediate response, 6 hours for full deployment"
	}
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}
