// Package dbtest starts a disposable PostgreSQL for integration tests.
package dbtest

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/health-signal-classifier/internal/database"
)

// Instance is a running container with a migrated schema.
type Instance struct {
	DB     *database.DB
	Config database.Config
	URL    string
}

// Start launches postgres:15-alpine, connects, and applies the embedded
// migrations. It skips under -short and tears everything down on cleanup.
func Start(t *testing.T) *Instance {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping PostgreSQL integration test in short mode")
	}

	ctx := context.Background()
	password := generatePassword()
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate PostgreSQL container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	cfg := database.Config{
		Host:        host,
		Port:        port.Int(),
		Database:    "testdb",
		Username:    "testuser",
		Password:    password,
		MaxConns:    5,
		MinConns:    1,
		MaxConnLife: time.Hour,
		MaxConnIdle: 30 * time.Minute,
		SSLMode:     "disable",
	}

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	db, err := database.NewConnection(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("Failed to create database connection: %v", err)
	}
	t.Cleanup(db.Close)

	url := fmt.Sprintf("postgres://testuser:%s@%s:%d/testdb?sslmode=disable", password, host, port.Int())
	runner, err := database.NewMigrationRunner(url, "", logger)
	if err != nil {
		t.Fatalf("Failed to create migration runner: %v", err)
	}
	defer runner.Close()
	if err := runner.Up(); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return &Instance{DB: db, Config: cfg, URL: url}
}

// generatePassword returns a random hex password for the throwaway database.
func generatePassword() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "test_fallback_password_123"
	}
	return "test_" + hex.EncodeToString(buf)
}
