package domain

import (
	"time"
)

// DiagnosisProbability is one entry of a ranked disease list.
type DiagnosisProbability struct {
	Disease     Diagnosis `json:"disease"`
	Probability float64   `json:"probability"`
}

// AnomalyScores measures how far a presentation sits from every registered
// signature.
type AnomalyScores struct {
	SymptomNovelty    float64 `json:"symptom_novelty"`
	TemporalAnomaly   float64 `json:"temporal_anomaly"`
	ConfidenceAnomaly float64 `json:"confidence_anomaly"`
	SeverityAnomaly   float64 `json:"severity_anomaly"`
	CombinedAnomaly   float64 `json:"combined_anomaly"`
}

// ConfidenceBreakdown lists the components of the overall confidence.
type ConfidenceBreakdown struct {
	EnsembleAgreement    float64 `json:"ensemble_agreement"`
	HistoricalValidation float64 `json:"historical_validation"`
	FeatureCompleteness  float64 `json:"feature_completeness"`
	ContextConsistency   float64 `json:"context_consistency"`
	OverallConfidence    float64 `json:"overall_confidence"`
}

// ClassificationResult is the outcome of classifying one health message.
type ClassificationResult struct {
	ID                    string                 `json:"id"`
	PrimaryDiagnosis      Diagnosis              `json:"primary_diagnosis"`
	Confidence            float64                `json:"confidence"`
	Probability           *float64               `json:"probability,omitempty"`
	DifferentialDiagnoses []DiagnosisProbability `json:"differential_diagnoses"`
	ExtractedSymptoms     []SymptomMention       `json:"extracted_symptoms"`
	AnomalyDetected       bool                   `json:"anomaly_detected"`
	AnomalyScores         AnomalyScores          `json:"anomaly_scores"`
	ConfidenceBreakdown   ConfidenceBreakdown    `json:"confidence_breakdown"`
	Recommendation        string                 `json:"recommendation"`
	SeverityAssessment    SeverityLevel          `json:"severity_assessment"`
	UrgencyLevel          UrgencyLevel           `json:"urgency_level"`
	DiseaseProbabilities  map[Diagnosis]float64  `json:"disease_probabilities,omitempty"`
	EnvironmentalRisk     *RiskProfile           `json:"environmental_risk,omitempty"`
	EnvironmentAdjusted   bool                   `json:"environment_adjusted"`
	Language              string                 `json:"language,omitempty"`
	Acknowledgement       string                 `json:"acknowledgement,omitempty"`
	Error                 string                 `json:"error,omitempty"`
	ClassifiedAt          time.Time              `json:"classified_at"`
}

// Clone returns a deep copy of r.
func (r *ClassificationResult) Clone() *ClassificationResult {
	if r == nil {
		return nil
	}
	out := *r
	if r.Probability != nil {
		p := *r.Probability
		out.Probability = &p
	}
	if r.DifferentialDiagnoses != nil {
		out.DifferentialDiagnoses = append([]DiagnosisProbability(nil), r.DifferentialDiagnoses...)
	}
	if r.ExtractedSymptoms != nil {
		out.ExtractedSymptoms = append([]SymptomMention(nil), r.ExtractedSymptoms...)
	}
	if r.DiseaseProbabilities != nil {
		out.DiseaseProbabilities = make(map[Diagnosis]float64, len(r.DiseaseProbabilities))
		for k, v := range r.DiseaseProbabilities {
			out.DiseaseProbabilities[k] = v
		}
	}
	return &out
}

// ClassificationRecord is the persisted form of a classification.
type ClassificationRecord struct {
	ID               string                `json:"id"`
	MessageHash      string                `json:"message_hash"`
	PrimaryDiagnosis Diagnosis             `json:"primary_diagnosis"`
	Confidence       float64               `json:"confidence"`
	Severity         SeverityLevel         `json:"severity_assessment"`
	Urgency          UrgencyLevel          `json:"urgency_level"`
	AnomalyDetected  bool                  `json:"anomaly_detected"`
	Result           *ClassificationResult `json:"result"`
	CreatedAt        time.Time             `json:"created_at"`
}

// ClassifyRequest is the input of a classification call. Every field except
// Message is optional.
type ClassifyRequest struct {
	Message  string    `json:"message"`
	Age      *int      `json:"age,omitempty"`
	Gender   string    `json:"gender,omitempty"`
	Location *GeoPoint `json:"location,omitempty"`
	City     string    `json:"city,omitempty"`
	Phone    string    `json:"phone,omitempty"`
}

// Validate checks the optional fields that have a constrained range.
func (r *ClassifyRequest) Validate() error {
	if r.Age != nil && (*r.Age < 0 || *r.Age > 130) {
		return NewValidationError("age", "must be between 0 and 130", *r.Age)
	}
	if r.Location != nil {
		if err := r.Location.Validate(); err != nil {
			return NewValidationError("location", err.Error(), *r.Location)
		}
	}
	return nil
}

// Alert is raised for classifications that need public health attention.
type Alert struct {
	ID               string        `json:"id"`
	ClassificationID string        `json:"classification_id"`
	Disease          Diagnosis     `json:"disease"`
	Confidence       float64       `json:"confidence"`
	Severity         SeverityLevel `json:"severity"`
	Urgency          UrgencyLevel  `json:"urgency"`
	Location         *GeoPoint     `json:"location,omitempty"`
	City             string        `json:"city,omitempty"`
	Reasons          []string      `json:"reasons"`
	RaisedAt         time.Time     `json:"raised_at"`
}
