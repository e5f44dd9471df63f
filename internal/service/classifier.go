package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/health-signal-classifier/internal/domain"
	"github.com/health-signal-classifier/internal/reference"
)

// Defaults used when a patient context is built from partial information.
const (
	defaultPatientAge      = 30
	defaultGender          = "unknown"
	defaultOccupation      = "unknown"
	defaultHouseholdSize   = 4
	defaultSanitation      = 3
	insufficientConfidence = 0.1
	maxDifferentials       = 3
	differentialThreshold  = 0.1
)

// ResultRecorder receives finished classifications. Record must not block.
type ResultRecorder interface {
	Record(record *domain.ClassificationRecord) bool
}

// ClassificationObserver receives metrics about finished classifications.
type ClassificationObserver interface {
	ObserveClassification(result *domain.ClassificationResult, elapsed time.Duration)
}

// ClassifierService runs the full classification pipeline: extraction,
// scoring, anomaly estimation, assessment and the optional environmental
// adjustment.
type ClassifierService struct {
	logger    *logrus.Logger
	tables    *reference.Tables
	extractor *SymptomExtractor
	scorer    *DiseaseScorer
	estimator *AnomalyEstimator

	assessor  domain.EnvironmentAssessor
	recorder  ResultRecorder
	observer  ClassificationObserver
	policy    *AlertPolicy
	publisher AlertPublisher

	now   func() time.Time
	newID func() string
}

// Option configures a ClassifierService.
type Option func(*ClassifierService)

// WithEnvironmentAssessor enables the environmental adjustment.
func WithEnvironmentAssessor(a domain.EnvironmentAssessor) Option {
	return func(c *ClassifierService) { c.assessor = a }
}

// WithRecorder hands every result to r.
func WithRecorder(r ResultRecorder) Option {
	return func(c *ClassifierService) { c.recorder = r }
}

// WithObserver reports every result to o.
func WithObserver(o ClassificationObserver) Option {
	return func(c *ClassifierService) { c.observer = o }
}

// WithAlerts publishes alerts selected by policy.
func WithAlerts(policy *AlertPolicy, publisher AlertPublisher) Option {
	return func(c *ClassifierService) {
		c.policy = policy
		c.publisher = publisher
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *ClassifierService) { c.now = now }
}

// WithIDGenerator replaces the random result ID generator.
func WithIDGenerator(newID func() string) Option {
	return func(c *ClassifierService) { c.newID = newID }
}

// NewClassifierService creates a classifier over tables.
func NewClassifierService(logger *logrus.Logger, tables *reference.Tables, opts ...Option) *ClassifierService {
	c := &ClassifierService{
		logger:    logger,
		tables:    tables,
		extractor: NewSymptomExtractor(tables),
		scorer:    NewDiseaseScorer(tables),
		estimator: NewAnomalyEstimator(tables),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tables returns the reference data the classifier runs on.
func (c *ClassifierService) Tables() *reference.Tables {
	return c.tables
}

// Extractor returns the symptom extractor.
func (c *ClassifierService) Extractor() *SymptomExtractor {
	return c.extractor
}

// Classify classifies req.Message. It never returns nil: faults, including
// panics inside the pipeline, become a classification_error result.
func (c *ClassifierService) Classify(ctx context.Context, req domain.ClassifyRequest) (result *domain.ClassificationResult) {
	start := c.now()
	var loc resolvedLocation

	defer func() {
		if r := recover(); r != nil {
			c.logger.WithFields(logrus.Fields{
				"panic": r,
			}).Error("Disease classification panicked")
			result = c.errorResult(fmt.Errorf("%v", r), start)
		}
		c.finish(req, result, loc, start)
	}()

	if err := ctx.Err(); err != nil {
		return c.errorResult(err, start)
	}
	if err := req.Validate(); err != nil {
		return c.errorResult(err, start)
	}

	loc = c.resolveLocation(req)
	return c.classify(ctx, req, loc, start)
}

func (c *ClassifierService) classify(ctx context.Context, req domain.ClassifyRequest, loc resolvedLocation, at time.Time) *domain.ClassificationResult {
	patient := c.patientContext(req, loc)
	env := environmentalContext(at)
	language := c.extractor.PrimaryLanguage(req.Message)

	symptoms := c.extractor.Extract(req.Message, patient)

	result := &domain.ClassificationResult{
		ID:                    c.newID(),
		ExtractedSymptoms:     symptoms,
		DifferentialDiagnoses: []domain.DiagnosisProbability{},
		Language:              language,
		Acknowledgement:       c.extractor.Acknowledge(language),
		ClassifiedAt:          at,
	}

	if domain.OnlyGeneralIllness(symptoms) {
		result.PrimaryDiagnosis = domain.InsufficientInformation
		result.Confidence = insufficientConfidence
		result.Recommendation = recommendInsufficient
		result.SeverityAssessment = AssessSeverity(c.tables, symptoms)
		result.UrgencyLevel = AssessUrgency(c.tables, result.PrimaryDiagnosis, symptoms, false)
		return result
	}

	probs := c.scorer.Score(symptoms, patient, env, at)
	ranked := c.scorer.Rank(probs)
	primary := ranked[0]

	for _, dp := range ranked[1:] {
		if len(result.DifferentialDiagnoses) == maxDifferentials {
			break
		}
		if dp.Probability > differentialThreshold {
			result.DifferentialDiagnoses = append(result.DifferentialDiagnoses, dp)
		}
	}

	anomalies, confidence := c.estimator.Estimate(symptoms, probs, patient)
	anomalous := IsAnomalous(anomalies)

	probability := primary.Probability
	result.PrimaryDiagnosis = primary.Disease
	result.Probability = &probability
	result.Confidence = confidence.OverallConfidence
	result.DiseaseProbabilities = probs
	result.AnomalyDetected = anomalous
	result.AnomalyScores = anomalies
	result.ConfidenceBreakdown = confidence
	result.Recommendation = Recommend(primary.Disease, primary.Probability, anomalous, symptoms)
	result.SeverityAssessment = AssessSeverity(c.tables, symptoms)
	result.UrgencyLevel = AssessUrgency(c.tables, primary.Disease, symptoms, anomalous)

	if c.assessor != nil && loc.ok {
		profile, err := c.assessor.Assess(ctx, loc.point, loc.city, map[domain.Diagnosis]float64{
			primary.Disease: result.Confidence,
		})
		if err != nil {
			c.logger.WithError(err).WithField("classification_id", result.ID).Warn("Environmental assessment failed, returning unadjusted result")
		} else {
			result = ApplyEnvironmentalRisk(result, profile)
		}
	}

	return result
}

// errorResult converts a fault into a classification_error result.
func (c *ClassifierService) errorResult(err error, at time.Time) *domain.ClassificationResult {
	var id string
	c.guard("id", func() { id = c.newID() })
	return &domain.ClassificationResult{
		ID:                    id,
		PrimaryDiagnosis:      domain.ClassificationError,
		Confidence:            0,
		DifferentialDiagnoses: []domain.DiagnosisProbability{},
		ExtractedSymptoms:     []domain.SymptomMention{},
		Recommendation:        recommendSystemError,
		SeverityAssessment:    domain.SeverityLow,
		UrgencyLevel:          domain.UrgencyLow,
		Error:                 err.Error(),
		ClassifiedAt:          at,
	}
}

// finish logs the result and hands it to the recorder, the metrics observer
// and the alert publisher.
func (c *ClassifierService) finish(req domain.ClassifyRequest, result *domain.ClassificationResult, loc resolvedLocation, start time.Time) {
	elapsed := c.now().Sub(start)

	c.logger.WithFields(logrus.Fields{
		"classification_id": result.ID,
		"diagnosis":         result.PrimaryDiagnosis,
		"confidence":        result.Confidence,
		"urgency":           result.UrgencyLevel,
		"anomaly":           result.AnomalyDetected,
		"env_adjusted":      result.EnvironmentAdjusted,
		"symptoms":          len(result.ExtractedSymptoms),
		"processing_time":   elapsed,
	}).Info("Health message classified")

	if c.observer != nil {
		c.guard("observer", func() { c.observer.ObserveClassification(result, elapsed) })
	}

	if c.recorder != nil {
		c.guard("recorder", func() {
			record := &domain.ClassificationRecord{
				ID:               result.ID,
				MessageHash:      MessageHash(req.Message),
				PrimaryDiagnosis: result.PrimaryDiagnosis,
				Confidence:       result.Confidence,
				Severity:         result.SeverityAssessment,
				Urgency:          result.UrgencyLevel,
				AnomalyDetected:  result.AnomalyDetected,
				Result:           result.Clone(),
				CreatedAt:        result.ClassifiedAt,
			}
			if !c.recorder.Record(record) {
				c.logger.WithField("classification_id", result.ID).Warn("Classification record dropped")
			}
		})
	}

	if c.policy != nil && c.publisher != nil {
		c.guard("alerts", func() {
			var point *domain.GeoPoint
			if loc.ok {
				p := loc.point
				point = &p
			}
			if alert, ok := c.policy.BuildAlert(result, point, loc.city); ok {
				c.publisher.Publish(alert)
			}
		})
	}
}

// guard runs a post-classification hook. A panicking hook is logged and
// never reaches the caller.
func (c *ClassifierService) guard(stage string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.WithFields(logrus.Fields{
				"stage": stage,
				"panic": r,
			}).Error("Classification hook panicked")
		}
	}()
	fn()
}

// MessageHash identifies a message without storing its text.
func MessageHash(message string) string {
	sum := sha256.Sum256([]byte(reference.Normalize(message)))
	return hex.EncodeToString(sum[:])
}

type resolvedLocation struct {
	point domain.GeoPoint
	city  string
	ok    bool
}

// resolveLocation picks the explicit location first, then the phone prefix,
// then the city name.
func (c *ClassifierService) resolveLocation(req domain.ClassifyRequest) resolvedLocation {
	city := req.City
	if req.Location != nil && req.Location.Validate() == nil {
		return resolvedLocation{point: *req.Location, city: city, ok: true}
	}
	if req.Phone != "" {
		if pl, ok := c.tables.LookupPhone(req.Phone); ok {
			if city == "" {
				city = pl.City
			}
			return resolvedLocation{point: pl.Point(), city: city, ok: true}
		}
	}
	if city != "" {
		if p, ok := c.tables.CityPoint(city); ok {
			return resolvedLocation{point: p, city: city, ok: true}
		}
	}
	return resolvedLocation{city: city}
}

// patientContext builds a context when the request or the message carries
// an age, a gender or a location.
func (c *ClassifierService) patientContext(req domain.ClassifyRequest, loc resolvedLocation) *domain.PatientContext {
	demo := c.extractor.ExtractDemographics(req.Message)

	age := req.Age
	if age == nil {
		age = demo.Age
	}
	gender := req.Gender
	if gender == "" {
		gender = demo.Gender
	}

	if age == nil && gender == "" && req.Location == nil {
		return nil
	}

	p := &domain.PatientContext{
		Age:               defaultPatientAge,
		Gender:            defaultGender,
		Occupation:        defaultOccupation,
		HouseholdSize:     defaultHouseholdSize,
		WaterSource:       "unknown",
		SanitationLevel:   defaultSanitation,
		VaccinationStatus: map[string]bool{},
	}
	if age != nil {
		p.Age = *age
	}
	if gender != "" {
		p.Gender = gender
	}
	if req.Location != nil {
		p.Location = loc.point
	}
	return p
}

// environmentalContext is the baseline environment for the month of at.
func environmentalContext(at time.Time) *domain.EnvironmentalContext {
	return &domain.EnvironmentalContext{
		Season:            seasonOf(at.Month()),
		Temperature:       30.0,
		Humidity:          70.0,
		Rainfall7Day:      10.0,
		WaterQualityScore: 0.6,
		AirQualityIndex:   100,
		PopulationDensity: 500,
	}
}

func seasonOf(m time.Month) domain.Season {
	switch {
	case m >= time.April && m <= time.June:
		return domain.Summer
	case m == time.December || m <= time.February:
		return domain.Winter
	case m >= time.July && m <= time.September:
		return domain.Monsoon
	default:
		return domain.PostMonsoon
	}
}
