package domain

import (
	"context"
)

// Classifier turns a free-text health message into a classification. It
// never returns nil and never fails: faults are reported as a
// classification_error result.
type Classifier interface {
	Classify(ctx context.Context, req ClassifyRequest) *ClassificationResult
}

// EnvironmentAssessor produces an environmental risk profile for a location.
type EnvironmentAssessor interface {
	Assess(ctx context.Context, point GeoPoint, city string, predictions map[Diagnosis]float64) (*RiskProfile, error)
}

// OutbreakPredictor estimates the most likely outbreak at a place.
type OutbreakPredictor interface {
	Predict(ctx context.Context, req OutbreakRequest) (*OutbreakPrediction, error)
}

// ClassificationSink persists classification results.
type ClassificationSink interface {
	SaveClassification(ctx context.Context, record *ClassificationRecord) error
}

// ClassificationReader reads persisted classification results.
type ClassificationReader interface {
	GetClassification(ctx context.Context, id string) (*ClassificationRecord, error)
	ListClassifications(ctx context.Context, limit, offset int) ([]*ClassificationRecord, error)
}

// ClassificationStore is a sink that also supports reads.
type ClassificationStore interface {
	ClassificationSink
	ClassificationReader
}

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetConfig() *Config
	GetDatabaseConfig() *DatabaseConfig
	GetServerConfig() *ServerConfig
	Reload() error
	Validate() error
	GetDatabaseConnectionString() string
	GetDatabaseURL() string
	GetRedisConnectionString() string
	IsProduction() bool
	IsDevelopment() bool
}
