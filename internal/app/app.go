// Package app assembles the classifier and its storage, cache, recorder and
// alerting from configuration. The HTTP server, the MCP server and the CLI
// all start from here.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/health-signal-classifier/internal/api"
	"github.com/health-signal-classifier/internal/cache"
	"github.com/health-signal-classifier/internal/config"
	"github.com/health-signal-classifier/internal/database"
	"github.com/health-signal-classifier/internal/domain"
	"github.com/health-signal-classifier/internal/feedback"
	"github.com/health-signal-classifier/internal/mcp"
	"github.com/health-signal-classifier/internal/metrics"
	"github.com/health-signal-classifier/internal/recorder"
	"github.com/health-signal-classifier/internal/reference"
	"github.com/health-signal-classifier/internal/repository"
	"github.com/health-signal-classifier/internal/service"
)

// Options select the optional parts of the assembly.
type Options struct {
	// LiveAlerts creates an AlertHub and routes classifier alerts to it.
	LiveAlerts bool
	// SkipMigrations leaves the Postgres schema alone.
	SkipMigrations bool
}

// App holds the assembled services. Fields for disabled features are nil.
type App struct {
	Config  *domain.Config
	Logger  *logrus.Logger
	Metrics *metrics.Metrics
	Tables  *reference.Tables

	Classifier      *service.ClassifierService
	Environment     domain.EnvironmentAssessor
	Outbreak        domain.OutbreakPredictor
	Classifications domain.ClassificationStore
	Feedback        feedback.Store
	Recorder        *recorder.Recorder
	Alerts          *api.AlertHub

	remote  cache.RemoteStore
	closers []func() error
}

// healthChecker is implemented by every store.
type healthChecker interface {
	Health(ctx context.Context) error
}

// New builds the application. On error everything opened so far is closed.
func New(ctx context.Context, manager *config.Manager, logger *logrus.Logger, opts Options) (*App, error) {
	cfg := manager.GetConfig()
	a := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.New(),
	}

	if err := a.build(ctx, manager, opts); err != nil {
		_ = a.Close(context.Background())
		return nil, err
	}
	return a, nil
}

func (a *App) build(ctx context.Context, manager *config.Manager, opts Options) error {
	cfg := a.Config

	tables := reference.Default()
	if path := cfg.Classifier.OverridesPath; path != "" {
		t, err := reference.LoadOverrides(path)
		if err != nil {
			return err
		}
		tables = t
		a.Logger.WithField("path", path).Info("Loaded reference overrides")
	}
	a.Tables = tables

	if err := a.openStorage(ctx, manager, opts); err != nil {
		return err
	}

	if err := a.buildEnvironment(ctx); err != nil {
		return err
	}

	classifierOpts := []service.Option{service.WithObserver(a.Metrics)}
	if cfg.Classifier.EnvironmentEnabled {
		classifierOpts = append(classifierOpts, service.WithEnvironmentAssessor(a.Environment))
	}
	if a.Classifications != nil && cfg.Recorder.Enabled {
		a.Recorder = recorder.New(a.Logger, a.Classifications, recorder.ConfigFrom(cfg.Recorder), a.Metrics)
		classifierOpts = append(classifierOpts, service.WithRecorder(a.Recorder))
	}
	if opts.LiveAlerts {
		m := a.Metrics
		a.Alerts = api.NewAlertHub(a.Logger, cfg.Server.CORSOrigins, func(alert domain.Alert) {
			m.AlertPublished(alert.Disease)
		})
		policy := service.NewAlertPolicy(cfg.Classifier.PriorityDiseases, cfg.Classifier.AlertConfidenceThreshold)
		classifierOpts = append(classifierOpts, service.WithAlerts(policy, a.Alerts))
	}

	a.Classifier = service.NewClassifierService(a.Logger, tables, classifierOpts...)

	a.Logger.WithFields(logrus.Fields{
		"storage":     cfg.Storage.Driver,
		"recorder":    a.Recorder != nil,
		"environment": cfg.Classifier.EnvironmentEnabled,
		"redis":       a.remote != nil,
		"alerts":      a.Alerts != nil,
	}).Info("Classifier assembled")
	return nil
}

func (a *App) openStorage(ctx context.Context, manager *config.Manager, opts Options) error {
	cfg := a.Config

	switch cfg.Storage.Driver {
	case domain.StorageNone:
		return nil

	case domain.StorageSQLite:
		if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
		path := manager.SQLitePath()

		store, err := repository.NewSQLiteClassificationStore(path, a.Logger)
		if err != nil {
			return err
		}
		a.Classifications = store
		a.closers = append(a.closers, store.Close)

		fb, err := feedback.NewSQLiteStore(path)
		if err != nil {
			return err
		}
		a.Feedback = fb
		a.closers = append(a.closers, fb.Close)
		return nil

	case domain.StoragePostgres:
		if !opts.SkipMigrations {
			if err := a.Migrate(manager, true); err != nil {
				return err
			}
		}

		db, err := database.NewConnection(ctx, database.ConfigFrom(cfg.Database), a.Logger)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func() error { db.Close(); return nil })
		a.Classifications = repository.NewClassificationRepository(db.Pool, a.Logger)

		fb, err := feedback.NewPostgresStoreFromURL(manager.GetDatabaseURL(), cfg.Database)
		if err != nil {
			return err
		}
		a.Feedback = fb
		a.closers = append(a.closers, fb.Close)
		return nil

	default:
		return fmt.Errorf("invalid storage driver: %s", cfg.Storage.Driver)
	}
}

// Migrate applies (up) or rolls back (down) the Postgres schema.
func (a *App) Migrate(manager *config.Manager, up bool) error {
	runner, err := database.NewMigrationRunner(manager.GetDatabaseURL(), a.Config.Database.MigrationsPath, a.Logger)
	if err != nil {
		return err
	}
	defer runner.Close()

	if up {
		return runner.Up()
	}
	return runner.Down()
}

func (a *App) buildEnvironment(ctx context.Context) error {
	cfg := a.Config.Cache

	var remote cache.RemoteStore
	if cfg.RedisURL != "" {
		store, err := cache.NewRedisStore(ctx, cfg)
		if err != nil {
			// The memory tier still works without Redis.
			a.Logger.WithError(err).Warn("Redis unavailable, using memory cache only")
		} else {
			remote = store
			a.remote = store
			a.closers = append(a.closers, store.Close)
		}
	}

	assessor := service.NewEnvironmentalAssessor(a.Logger, a.Tables, nil, nil)
	profiles, err := cache.NewProfileCache(a.Logger, assessor, cache.Options{
		MemorySize: cfg.MemorySize,
		MemoryTTL:  cfg.MemoryTTL,
		RemoteTTL:  cfg.DefaultTTL,
		Remote:     remote,
		Observer:   a.Metrics,
	})
	if err != nil {
		return err
	}
	a.Environment = profiles
	a.Outbreak = service.NewOutbreakPredictor(a.Logger, a.Tables, nil, nil)
	return nil
}

// HealthChecks returns a check per external dependency.
func (a *App) HealthChecks() map[string]api.HealthCheck {
	checks := make(map[string]api.HealthCheck)
	if hc, ok := a.Classifications.(healthChecker); ok {
		checks["storage"] = hc.Health
	}
	if a.remote != nil {
		checks["redis"] = a.remote.Ping
	}
	return checks
}

// APIDependencies wires the HTTP handlers.
func (a *App) APIDependencies() api.Dependencies {
	return api.Dependencies{
		Classifier:      a.Classifier,
		Tables:          a.Tables,
		Environment:     a.Environment,
		Outbreak:        a.Outbreak,
		Classifications: a.Classifications,
		Feedback:        a.Feedback,
		Alerts:          a.Alerts,
		Metrics:         a.Metrics,
		HealthChecks:    a.HealthChecks(),
	}
}

// MCPDependencies wires the MCP tools.
func (a *App) MCPDependencies() mcp.Dependencies {
	return mcp.Dependencies{
		Classifier:      a.Classifier,
		Tables:          a.Tables,
		Environment:     a.Environment,
		Outbreak:        a.Outbreak,
		Classifications: a.Classifications,
		Feedback:        a.Feedback,
	}
}

// Close drains the recorder, then releases stores and connections in
// reverse order of opening.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Recorder != nil {
		if err := a.Recorder.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("recorder: %w", err))
		}
		a.Recorder = nil
	}
	if a.Alerts != nil {
		a.Alerts.Close()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
