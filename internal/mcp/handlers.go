package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/health-signal-classifier/internal/domain"
	"github.com/health-signal-classifier/internal/feedback"
)

// ClassifyParams defines parameters for classify_health_message.
type ClassifyParams struct {
	Message string   `json:"message" jsonschema:"the patient's message in English, Hindi or Tamil"`
	Age     *int     `json:"age,omitempty" jsonschema:"patient age in years"`
	Gender  string   `json:"gender,omitempty"`
	Lat     *float64 `json:"lat,omitempty" jsonschema:"latitude of the patient"`
	Lon     *float64 `json:"lon,omitempty" jsonschema:"longitude of the patient"`
	City    string   `json:"city,omitempty"`
	Phone   string   `json:"phone,omitempty" jsonschema:"caller phone number, used to infer location"`
}

// RiskParams defines parameters for assess_environmental_risk.
type RiskParams struct {
	Lat         *float64           `json:"lat,omitempty"`
	Lon         *float64           `json:"lon,omitempty"`
	City        string             `json:"city,omitempty"`
	Predictions map[string]float64 `json:"predictions,omitempty" jsonschema:"disease probabilities in [0,1] to weigh climate risk by"`
}

// OutbreakParams defines parameters for predict_outbreak. Temperature,
// humidity and rainfall override the climate provider when all three are set.
type OutbreakParams struct {
	City           string   `json:"city,omitempty"`
	State          string   `json:"state,omitempty"`
	District       string   `json:"district,omitempty"`
	Lat            *float64 `json:"lat,omitempty"`
	Lon            *float64 `json:"lon,omitempty"`
	Population     int      `json:"population,omitempty" jsonschema:"population at risk, 100000 when omitted"`
	PollutionLevel string   `json:"pollution_level,omitempty" jsonschema:"low, medium, high or critical"`
	Symptoms       []string `json:"symptoms,omitempty" jsonschema:"symptoms reported in the area, e.g. watery_diarrhea"`
	Temperature    *float64 `json:"temperature,omitempty" jsonschema:"current temperature in Celsius"`
	Humidity       *float64 `json:"humidity,omitempty" jsonschema:"relative humidity in percent"`
	Rainfall       *float64 `json:"rainfall,omitempty" jsonschema:"recent rainfall in mm"`
}

// ListDiseasesParams takes no arguments.
type ListDiseasesParams struct{}

// GetClassificationParams defines parameters for get_classification.
type GetClassificationParams struct {
	ID string `json:"id"`
}

// FeedbackParams defines parameters for submit_feedback.
type FeedbackParams struct {
	ClassificationID   string `json:"classification_id"`
	ConfirmedDiagnosis string `json:"confirmed_diagnosis"`
	SuggestedDiagnosis string `json:"suggested_diagnosis,omitempty"`
	Notes              string `json:"notes,omitempty"`
}

// DiseaseSummary is one entry of list_diseases.
type DiseaseSummary struct {
	Disease          domain.Diagnosis  `json:"disease"`
	PrimarySymptoms  []domain.Symptom  `json:"primary_symptoms"`
	Pathognomonic    []domain.Symptom  `json:"pathognomonic_signs"`
	IncubationPeriod domain.HoursRange `json:"incubation_period"`
	Contagiousness   float64           `json:"contagiousness"`
}

// DiseaseList is the output of list_diseases.
type DiseaseList struct {
	Diseases []DiseaseSummary `json:"diseases"`
	Count    int              `json:"count"`
}

func (s *Server) handleClassify(ctx context.Context, req *mcp.CallToolRequest, params ClassifyParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", ToolClassify).Info("Tool invoked")

	creq := domain.ClassifyRequest{
		Message: params.Message,
		Age:     params.Age,
		Gender:  params.Gender,
		City:    params.City,
		Phone:   params.Phone,
	}
	if params.Lat != nil && params.Lon != nil {
		creq.Location = &domain.GeoPoint{Lat: *params.Lat, Lon: *params.Lon}
	}
	if err := creq.Validate(); err != nil {
		return s.createErrorResult("Invalid parameters", err), nil, nil
	}

	result := s.deps.Classifier.Classify(ctx, creq)
	if result.PrimaryDiagnosis == domain.ClassificationError {
		return s.createErrorResult("Classification failed", errors.New(result.Error)), nil, nil
	}

	summary := fmt.Sprintf("%s (confidence %.2f, urgency %s, severity %s)",
		result.PrimaryDiagnosis, result.Confidence, result.UrgencyLevel, result.SeverityAssessment)
	if result.AnomalyDetected {
		summary += "; anomalous presentation"
	}
	return s.jsonResult(summary, result)
}

func (s *Server) handleEnvironmentalRisk(ctx context.Context, req *mcp.CallToolRequest, params RiskParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", ToolEnvironmentalRisk).Info("Tool invoked")

	var point domain.GeoPoint
	switch {
	case params.Lat != nil && params.Lon != nil:
		point = domain.GeoPoint{Lat: *params.Lat, Lon: *params.Lon}
		if err := point.Validate(); err != nil {
			return s.createErrorResult("Invalid location", err), nil, nil
		}
	case params.City != "":
		p, ok := s.deps.Tables.CityPoint(params.City)
		if !ok {
			return s.createErrorResult("Invalid location", fmt.Errorf("unknown city %q", params.City)), nil, nil
		}
		point = p
	default:
		return s.createErrorResult("Missing required parameter", errors.New("lat and lon, or a known city, are required")), nil, nil
	}

	predictions := make(map[domain.Diagnosis]float64, len(params.Predictions))
	for name, p := range params.Predictions {
		d, err := domain.ParseDiagnosis(strings.ToLower(strings.TrimSpace(name)))
		if err != nil || !d.IsDisease() {
			return s.createErrorResult("Invalid parameters", fmt.Errorf("unknown disease %q", name)), nil, nil
		}
		if p < 0 || p > 1 {
			return s.createErrorResult("Invalid parameters", fmt.Errorf("prediction %s=%v out of range", name, p)), nil, nil
		}
		predictions[d] = p
	}
	if len(predictions) == 0 {
		for _, d := range s.deps.Tables.Diseases() {
			predictions[d] = 0
		}
	}

	profile, err := s.deps.Environment.Assess(ctx, point, params.City, predictions)
	if err != nil {
		return s.createErrorResult("Environmental assessment failed", err), nil, nil
	}

	summary := fmt.Sprintf("Overall environmental risk %.2f at (%.4f, %.4f)", profile.OverallRisk, point.Lat, point.Lon)
	return s.jsonResult(summary, profile)
}

func (s *Server) handlePredictOutbreak(ctx context.Context, req *mcp.CallToolRequest, params OutbreakParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", ToolPredictOutbreak).Info("Tool invoked")

	oreq := domain.OutbreakRequest{
		City:           params.City,
		State:          params.State,
		District:       params.District,
		Population:     params.Population,
		PollutionLevel: domain.ContaminationLevel(strings.ToLower(strings.TrimSpace(params.PollutionLevel))),
	}
	if params.Lat != nil && params.Lon != nil {
		oreq.Location = &domain.GeoPoint{Lat: *params.Lat, Lon: *params.Lon}
	}
	if params.Temperature != nil && params.Humidity != nil && params.Rainfall != nil {
		oreq.Climate = &domain.ClimateReading{
			Temperature: *params.Temperature,
			Humidity:    *params.Humidity,
			Rainfall:    *params.Rainfall,
		}
	}
	for _, name := range params.Symptoms {
		sym := domain.Symptom(strings.ToLower(strings.TrimSpace(name)))
		if !sym.IsValid() {
			return s.createErrorResult("Invalid parameters", fmt.Errorf("unknown symptom %q", name)), nil, nil
		}
		oreq.Symptoms = append(oreq.Symptoms, sym)
	}

	prediction, err := s.deps.Outbreak.Predict(ctx, oreq)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			return s.createErrorResult("Invalid parameters", err), nil, nil
		}
		return s.createErrorResult("Outbreak prediction failed", err), nil, nil
	}

	summary := fmt.Sprintf("%s outbreak risk %s (confidence %.2f) in %s",
		prediction.PredictedDisease, prediction.RiskLevel, prediction.Confidence, prediction.City)
	return s.jsonResult(summary, prediction)
}

func (s *Server) handleListDiseases(ctx context.Context, req *mcp.CallToolRequest, params ListDiseasesParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", ToolListDiseases).Debug("Tool invoked")

	diseases := s.deps.Tables.Diseases()
	out := DiseaseList{Diseases: make([]DiseaseSummary, 0, len(diseases))}
	names := make([]string, 0, len(diseases))
	for _, d := range diseases {
		sig, ok := s.deps.Tables.Signature(d)
		if !ok {
			continue
		}
		out.Diseases = append(out.Diseases, DiseaseSummary{
			Disease:          sig.Disease,
			PrimarySymptoms:  sig.PrimarySymptoms,
			Pathognomonic:    sig.PathognomonicSigns,
			IncubationPeriod: sig.IncubationPeriod,
			Contagiousness:   sig.Contagiousness,
		})
		names = append(names, d.String())
	}
	out.Count = len(out.Diseases)

	return s.jsonResult("Registered diseases: "+strings.Join(names, ", "), out)
}

func (s *Server) handleGetClassification(ctx context.Context, req *mcp.CallToolRequest, params GetClassificationParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", ToolGetClassification).Info("Tool invoked")

	id := strings.TrimSpace(params.ID)
	if id == "" {
		return s.createErrorResult("Missing required parameter", fmt.Errorf("id is required")), nil, nil
	}
	record, err := s.deps.Classifications.GetClassification(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return s.createErrorResult("Classification not found", fmt.Errorf("no classification with id %s", id)), nil, nil
		}
		return s.createErrorResult("Failed to load classification", err), nil, nil
	}
	return s.jsonResult(fmt.Sprintf("Classification %s: %s", record.ID, record.PrimaryDiagnosis), record)
}

func (s *Server) handleSubmitFeedback(ctx context.Context, req *mcp.CallToolRequest, params FeedbackParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", ToolSubmitFeedback).Info("Tool invoked")

	fb := &feedback.Feedback{
		ClassificationID:   params.ClassificationID,
		SuggestedDiagnosis: domain.Diagnosis(strings.ToLower(strings.TrimSpace(params.SuggestedDiagnosis))),
		ConfirmedDiagnosis: domain.Diagnosis(strings.ToLower(strings.TrimSpace(params.ConfirmedDiagnosis))),
		Notes:              params.Notes,
	}

	if s.deps.Classifications != nil && fb.SuggestedDiagnosis == "" {
		record, err := s.deps.Classifications.GetClassification(ctx, strings.TrimSpace(fb.ClassificationID))
		switch {
		case err == nil:
			fb.SuggestedDiagnosis = record.PrimaryDiagnosis
			fb.MessageHash = record.MessageHash
		case !errors.Is(err, domain.ErrNotFound):
			return s.createErrorResult("Failed to load classification", err), nil, nil
		}
	}

	if err := s.deps.Feedback.Save(ctx, fb); err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			return s.createErrorResult("Invalid feedback", err), nil, nil
		}
		return s.createErrorResult("Failed to save feedback", err), nil, nil
	}

	verdict := "disagreed with"
	if fb.Agreed {
		verdict = "agreed with"
	}
	summary := fmt.Sprintf("Feedback recorded: %s %s the suggested %s", fb.ConfirmedDiagnosis, verdict, fb.SuggestedDiagnosis)
	return s.jsonResult(summary, fb)
}

// jsonResult returns the summary followed by the payload as indented JSON.
// The payload is also returned as structured output.
func (s *Server) jsonResult(summary string, payload any) (*mcp.CallToolResult, any, error) {
	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return s.createErrorResult("Failed to encode result", err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: summary},
			&mcp.TextContent{Text: string(body)},
		},
	}, payload, nil
}

// createErrorResult reports a tool failure to the client. Tool failures are
// results, not protocol errors.
func (s *Server) createErrorResult(message string, err error) *mcp.CallToolResult {
	s.logger.WithError(err).Warn(message)
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("%s: %v", message, err)},
		},
	}
}
