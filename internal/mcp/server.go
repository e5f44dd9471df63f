// Package mcp serves the classifier as Model Context Protocol tools so that
// assistants can triage messages without going through the HTTP API.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/health-signal-classifier/internal/domain"
	"github.com/health-signal-classifier/internal/feedback"
	"github.com/health-signal-classifier/internal/reference"
)

// Tool names.
const (
	ToolClassify          = "classify_health_message"
	ToolEnvironmentalRisk = "assess_environmental_risk"
	ToolListDiseases      = "list_diseases"
	ToolGetClassification = "get_classification"
	ToolSubmitFeedback    = "submit_feedback"
	ToolPredictOutbreak   = "predict_outbreak"
)

// Dependencies mirror the HTTP server's. Outbreak, Classifications and
// Feedback are optional; their tools are not registered when nil.
type Dependencies struct {
	Classifier      domain.Classifier
	Tables          *reference.Tables
	Environment     domain.EnvironmentAssessor
	Outbreak        domain.OutbreakPredictor
	Classifications domain.ClassificationReader
	Feedback        feedback.Store
}

// Server represents the MCP server implementation
type Server struct {
	cfg       domain.MCPConfig
	logger    *logrus.Logger
	deps      Dependencies
	mcpServer *mcp.Server
	tools     []string
}

// NewServer creates the MCP server and registers its tools.
func NewServer(cfg domain.MCPConfig, logger *logrus.Logger, deps Dependencies) (*Server, error) {
	if deps.Classifier == nil || deps.Tables == nil || deps.Environment == nil {
		return nil, fmt.Errorf("classifier, tables and environment assessor are required")
	}

	name, version := cfg.ServerName, cfg.ServerVersion
	if name == "" {
		name = "health-signal-classifier"
	}
	if version == "" {
		version = "1.0.0"
	}

	s := &Server{
		cfg:       cfg,
		logger:    logger,
		deps:      deps,
		mcpServer: mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, nil),
	}
	s.registerTools()

	logger.WithField("tools", s.tools).Info("Registered MCP tools")
	return s, nil
}

// Tools lists the registered tool names in registration order.
func (s *Server) Tools() []string {
	return append([]string(nil), s.tools...)
}

// Run serves over the configured transport until ctx is cancelled or the
// client disconnects.
func (s *Server) Run(ctx context.Context) error {
	var transport mcp.Transport
	switch s.cfg.TransportType {
	case "", "stdio":
		transport = &mcp.StdioTransport{}
	default:
		return fmt.Errorf("unsupported MCP transport: %s", s.cfg.TransportType)
	}

	s.logger.WithField("transport_type", "stdio").Info("Starting MCP server")
	if err := s.mcpServer.Run(ctx, transport); err != nil && ctx.Err() == nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolClassify,
		Description: "Classify a free-text health message (English, Hindi or Tamil) into a likely disease with confidence, urgency and anomaly flags",
	}, s.handleClassify)
	s.tools = append(s.tools, ToolClassify)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolEnvironmentalRisk,
		Description: "Assess climate, industrial and water contamination risk for a location given as coordinates or a known city",
	}, s.handleEnvironmentalRisk)
	s.tools = append(s.tools, ToolEnvironmentalRisk)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolListDiseases,
		Description: "List the diseases the classifier recognises with their symptom signatures",
	}, s.handleListDiseases)
	s.tools = append(s.tools, ToolListDiseases)

	if s.deps.Outbreak != nil {
		mcp.AddTool(s.mcpServer, &mcp.Tool{
			Name:        ToolPredictOutbreak,
			Description: "Predict the most likely disease outbreak for a city or location from its climate, with a response plan",
		}, s.handlePredictOutbreak)
		s.tools = append(s.tools, ToolPredictOutbreak)
	}

	if s.deps.Classifications != nil {
		mcp.AddTool(s.mcpServer, &mcp.Tool{
			Name:        ToolGetClassification,
			Description: "Fetch a stored classification by id",
		}, s.handleGetClassification)
		s.tools = append(s.tools, ToolGetClassification)
	}

	if s.deps.Feedback != nil {
		mcp.AddTool(s.mcpServer, &mcp.Tool{
			Name:        ToolSubmitFeedback,
			Description: "Record a clinician's confirmed diagnosis for an earlier classification",
		}, s.handleSubmitFeedback)
		s.tools = append(s.tools, ToolSubmitFeedback)
	}
}
