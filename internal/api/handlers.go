package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/health-signal-classifier/internal/domain"
	"github.com/health-signal-classifier/internal/feedback"
	"github.com/health-signal-classifier/internal/logging"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	code := http.StatusOK
	checks := make(map[string]string, len(s.deps.HealthChecks))
	for name, check := range s.deps.HealthChecks {
		if err := check(ctx); err != nil {
			checks[name] = err.Error()
			status = "unhealthy"
			code = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	c.JSON(code, gin.H{
		"status":         status,
		"version":        Version,
		"timestamp":      time.Now().UTC(),
		"uptime_seconds": int64(time.Since(s.started).Seconds()),
		"checks":         checks,
	})
}

func (s *Server) handleClassify(c *gin.Context) {
	var req domain.ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, domain.ErrInvalidInput, "Invalid request body", err)
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(c, http.StatusBadRequest, domain.ErrValidation, "Invalid request", err)
		return
	}

	result := s.deps.Classifier.Classify(c.Request.Context(), req)

	logging.FromContext(c.Request.Context(), s.logger).WithFields(logrus.Fields{
		"classification_id": result.ID,
		"diagnosis":         result.PrimaryDiagnosis,
		"confidence":        result.Confidence,
		"urgency":           result.UrgencyLevel,
	}).Info("Message classified")

	if result.PrimaryDiagnosis == domain.ClassificationError {
		if errors.Is(c.Request.Context().Err(), context.DeadlineExceeded) {
			s.respondError(c, http.StatusGatewayTimeout, domain.ErrUnavailable, "Classification timed out", nil)
			return
		}
		c.JSON(http.StatusInternalServerError, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// environmentRequest is the body of POST /environment/risk.
type environmentRequest struct {
	Lat         *float64           `json:"lat"`
	Lon         *float64           `json:"lon"`
	City        string             `json:"city"`
	Predictions map[string]float64 `json:"predictions"`
}

func (s *Server) handleEnvironmentRisk(c *gin.Context) {
	var req environmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, domain.ErrInvalidInput, "Invalid request body", err)
		return
	}

	point, err := s.resolvePoint(req)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, domain.ErrValidation, "Invalid location", err)
		return
	}

	predictions := make(map[domain.Diagnosis]float64, len(req.Predictions))
	for name, p := range req.Predictions {
		d, err := domain.ParseDiagnosis(strings.ToLower(strings.TrimSpace(name)))
		if err != nil || !d.IsDisease() {
			s.respondError(c, http.StatusBadRequest, domain.ErrValidation, "Unknown disease in predictions", fmt.Errorf("%q", name))
			return
		}
		if p < 0 || p > 1 {
			s.respondError(c, http.StatusBadRequest, domain.ErrValidation, "Prediction out of range", fmt.Errorf("%s=%v", name, p))
			return
		}
		predictions[d] = p
	}
	if len(predictions) == 0 {
		for _, d := range s.deps.Tables.Diseases() {
			predictions[d] = 0
		}
	}

	profile, err := s.deps.Environment.Assess(c.Request.Context(), point, req.City, predictions)
	if err != nil {
		s.respondError(c, http.StatusBadGateway, domain.ErrUnavailable, "Environmental assessment failed", err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (s *Server) handleOutbreakPrediction(c *gin.Context) {
	var req domain.OutbreakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, domain.ErrInvalidInput, "Invalid request body", err)
		return
	}

	prediction, err := s.deps.Outbreak.Predict(c.Request.Context(), req)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			s.respondError(c, http.StatusBadRequest, domain.ErrValidation, "Invalid outbreak request", err)
			return
		}
		s.respondError(c, http.StatusBadGateway, domain.ErrUnavailable, "Outbreak prediction failed", err)
		return
	}
	c.JSON(http.StatusOK, prediction)
}

// resolvePoint uses explicit coordinates, falling back to the city table.
func (s *Server) resolvePoint(req environmentRequest) (domain.GeoPoint, error) {
	if req.Lat != nil && req.Lon != nil {
		p := domain.GeoPoint{Lat: *req.Lat, Lon: *req.Lon}
		return p, p.Validate()
	}
	if req.City != "" {
		if p, ok := s.deps.Tables.CityPoint(req.City); ok {
			return p, nil
		}
		return domain.GeoPoint{}, fmt.Errorf("unknown city %q", req.City)
	}
	return domain.GeoPoint{}, errors.New("lat and lon, or a known city, are required")
}

// diseaseInfo is one entry of GET /diseases.
type diseaseInfo struct {
	Disease           domain.Diagnosis   `json:"disease"`
	PrimarySymptoms   []domain.Symptom   `json:"primary_symptoms"`
	SecondarySymptoms []domain.Symptom   `json:"secondary_symptoms"`
	Pathognomonic     []domain.Symptom   `json:"pathognomonic_signs"`
	Exclusionary      []domain.Symptom   `json:"exclusionary_symptoms"`
	IncubationPeriod  domain.HoursRange  `json:"incubation_period"`
	Contagiousness    float64            `json:"contagiousness"`
	Environmental     map[string]float64 `json:"environmental_correlation"`
}

func (s *Server) handleDiseases(c *gin.Context) {
	diseases := s.deps.Tables.Diseases()
	out := make([]diseaseInfo, 0, len(diseases))
	for _, d := range diseases {
		sig, ok := s.deps.Tables.Signature(d)
		if !ok {
			continue
		}
		out = append(out, diseaseInfo{
			Disease:           sig.Disease,
			PrimarySymptoms:   sig.PrimarySymptoms,
			SecondarySymptoms: sig.SecondarySymptoms,
			Pathognomonic:     sig.PathognomonicSigns,
			Exclusionary:      sig.ExclusionarySymptoms,
			IncubationPeriod:  sig.IncubationPeriod,
			Contagiousness:    sig.Contagiousness,
			Environmental:     sig.EnvironmentalCorrelation,
		})
	}
	c.JSON(http.StatusOK, gin.H{"diseases": out, "count": len(out)})
}

func (s *Server) handleGetClassification(c *gin.Context) {
	record, err := s.deps.Classifications.GetClassification(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.respondError(c, http.StatusNotFound, domain.ErrNotFoundCode, "Classification not found", nil)
			return
		}
		s.respondError(c, http.StatusInternalServerError, domain.ErrDatabaseError, "Failed to load classification", err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s *Server) handleListClassifications(c *gin.Context) {
	limit, offset, err := pagination(c)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, domain.ErrValidation, "Invalid pagination", err)
		return
	}

	records, err := s.deps.Classifications.ListClassifications(c.Request.Context(), limit, offset)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, domain.ErrDatabaseError, "Failed to list classifications", err)
		return
	}
	if records == nil {
		records = []*domain.ClassificationRecord{}
	}
	c.JSON(http.StatusOK, gin.H{
		"classifications": records,
		"limit":           limit,
		"offset":          offset,
	})
}

func (s *Server) handleSubmitFeedback(c *gin.Context) {
	var fb feedback.Feedback
	if err := c.ShouldBindJSON(&fb); err != nil {
		s.respondError(c, http.StatusBadRequest, domain.ErrInvalidInput, "Invalid request body", err)
		return
	}

	// Fill the suggestion and hash from the stored classification when the
	// caller left them out.
	if s.deps.Classifications != nil && (fb.SuggestedDiagnosis == "" || fb.MessageHash == "") {
		record, err := s.deps.Classifications.GetClassification(c.Request.Context(), strings.TrimSpace(fb.ClassificationID))
		switch {
		case err == nil:
			if fb.SuggestedDiagnosis == "" {
				fb.SuggestedDiagnosis = record.PrimaryDiagnosis
			}
			if fb.MessageHash == "" {
				fb.MessageHash = record.MessageHash
			}
		case !errors.Is(err, domain.ErrNotFound):
			s.respondError(c, http.StatusInternalServerError, domain.ErrDatabaseError, "Failed to load classification", err)
			return
		}
	}

	if err := s.deps.Feedback.Save(c.Request.Context(), &fb); err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			s.respondError(c, http.StatusBadRequest, domain.ErrValidation, "Invalid feedback", err)
			return
		}
		s.respondError(c, http.StatusInternalServerError, domain.ErrDatabaseError, "Failed to save feedback", err)
		return
	}
	c.JSON(http.StatusCreated, fb)
}

func (s *Server) handleListFeedback(c *gin.Context) {
	limit, offset, err := pagination(c)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, domain.ErrValidation, "Invalid pagination", err)
		return
	}

	ctx := c.Request.Context()
	entries, err := s.deps.Feedback.List(ctx, limit, offset)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, domain.ErrDatabaseError, "Failed to list feedback", err)
		return
	}
	total, err := s.deps.Feedback.Count(ctx)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, domain.ErrDatabaseError, "Failed to count feedback", err)
		return
	}
	if entries == nil {
		entries = []*feedback.Feedback{}
	}
	c.JSON(http.StatusOK, gin.H{
		"feedback": entries,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

func (s *Server) handleFeedbackStats(c *gin.Context) {
	stats, err := s.deps.Feedback.AgreementStats(c.Request.Context())
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, domain.ErrDatabaseError, "Failed to compute agreement", err)
		return
	}
	if stats == nil {
		stats = []feedback.DiseaseAgreement{}
	}
	c.JSON(http.StatusOK, gin.H{"agreement": stats})
}

func (s *Server) handleExportFeedback(c *gin.Context) {
	c.Header("Content-Type", "application/json")
	c.Header("Content-Disposition", `attachment; filename="feedback.json"`)
	c.Status(http.StatusOK)
	if err := s.deps.Feedback.ExportJSON(c.Request.Context(), c.Writer); err != nil {
		// Headers are gone; all that is left is to log it.
		_ = c.Error(err)
		logging.FromContext(c.Request.Context(), s.logger).WithError(err).Error("Feedback export failed")
	}
}

func pagination(c *gin.Context) (limit, offset int, err error) {
	limit, offset = defaultPageSize, 0
	if v := c.Query("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil || limit <= 0 {
			return 0, 0, fmt.Errorf("limit must be a positive integer")
		}
		if limit > maxPageSize {
			limit = maxPageSize
		}
	}
	if v := c.Query("offset"); v != "" {
		if offset, err = strconv.Atoi(v); err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("offset must be a non-negative integer")
		}
	}
	return limit, offset, nil
}
