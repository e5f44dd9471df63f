// Package api exposes the classifier over HTTP with gin.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/health-signal-classifier/internal/domain"
	"github.com/health-signal-classifier/internal/feedback"
	"github.com/health-signal-classifier/internal/metrics"
	"github.com/health-signal-classifier/internal/middleware"
	"github.com/health-signal-classifier/internal/reference"
)

// Version is reported by /health.
var Version = "1.0.0"

const maxBodyBytes = 1 << 20

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

// Dependencies are the services behind the handlers. Classifier, Tables and
// Environment are required; the rest switch their routes off when nil.
type Dependencies struct {
	Classifier      domain.Classifier
	Tables          *reference.Tables
	Environment     domain.EnvironmentAssessor
	Outbreak        domain.OutbreakPredictor
	Classifications domain.ClassificationReader
	Feedback        feedback.Store
	Alerts          *AlertHub
	Metrics         *metrics.Metrics
	HealthChecks    map[string]HealthCheck
}

// Server represents the HTTP server
type Server struct {
	cfg     domain.ServerConfig
	logger  *logrus.Logger
	deps    Dependencies
	router  *gin.Engine
	server  *http.Server
	started time.Time
}

// NewServer builds the router and middleware chain.
func NewServer(cfg *domain.Config, logger *logrus.Logger, deps Dependencies) *Server {
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(cfg.Server.CORSOrigins))
	if deps.Metrics != nil {
		m := deps.Metrics
		router.Use(middleware.Instrument(func() middleware.RequestObserver { return m.HTTPStarted() }))
	}
	router.Use(middleware.AuditLogger(logger))
	router.Use(middleware.NewIPRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst, 10*time.Minute).Middleware())

	s := &Server{
		cfg:     cfg.Server,
		logger:  logger,
		deps:    deps,
		router:  router,
		started: time.Now(),
	}
	s.setupRoutes()
	return s
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("HTTP server listening")
		var err error
		if s.cfg.TLSEnabled {
			err = s.server.ListenAndServeTLS(s.cfg.CertFile, s.cfg.KeyFile)
		} else {
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	if s.deps.Alerts != nil {
		s.deps.Alerts.Close()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	if s.deps.Metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.deps.Metrics.Handler()))
	}

	v1 := s.router.Group("/api/v1")
	v1.Use(middleware.MaxBodySize(maxBodyBytes))
	v1.Use(middleware.RequestTimeout(s.cfg.RequestTimeout))
	{
		v1.POST("/classify", s.handleClassify)
		v1.POST("/environment/risk", s.handleEnvironmentRisk)
		v1.GET("/diseases", s.handleDiseases)

		if s.deps.Outbreak != nil {
			v1.POST("/environment/outbreak", s.handleOutbreakPrediction)
		}

		if s.deps.Classifications != nil {
			v1.GET("/classifications", s.handleListClassifications)
			v1.GET("/classifications/:id", s.handleGetClassification)
		}

		if s.deps.Feedback != nil {
			v1.POST("/feedback", s.handleSubmitFeedback)
			v1.GET("/feedback", s.handleListFeedback)
			v1.GET("/feedback/stats", s.handleFeedbackStats)
			v1.GET("/feedback/export", s.handleExportFeedback)
		}
	}

	// The stream outlives any request timeout.
	if s.deps.Alerts != nil {
		s.router.GET("/api/v1/alerts/stream", s.deps.Alerts.ServeWS)
	}
}

func (s *Server) respondError(c *gin.Context, status int, code, message string, err error) {
	details := ""
	if err != nil {
		details = err.Error()
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, domain.NewAPIError(code, message, details, middleware.GetCorrelationID(c)))
}
