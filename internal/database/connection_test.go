package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/health-signal-classifier/internal/database"
	"github.com/health-signal-classifier/internal/database/dbtest"
	"github.com/health-signal-classifier/internal/domain"
)

func TestConfigFrom(t *testing.T) {
	tests := []struct {
		name string
		in   domain.DatabaseConfig
		want database.Config
	}{
		{
			name: "mapped",
			in: domain.DatabaseConfig{
				Host: "db", Port: 5433, Database: "hs", Username: "u", Password: "p",
				SSLMode: "require", MaxOpenConns: 20, MaxIdleConns: 4, ConnMaxLifetime: time.Minute,
			},
			want: database.Config{
				Host: "db", Port: 5433, Database: "hs", Username: "u", Password: "p",
				SSLMode: "require", MaxConns: 20, MinConns: 4, MaxConnLife: time.Minute, MaxConnIdle: 5 * time.Minute,
			},
		},
		{
			name: "defaults",
			in:   domain.DatabaseConfig{Host: "db", Port: 5432, MaxIdleConns: 50},
			want: database.Config{
				Host: "db", Port: 5432, SSLMode: "disable", MaxConns: 10, MinConns: 10, MaxConnIdle: 5 * time.Minute,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, database.ConfigFrom(tt.in))
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	cfg := database.Config{Host: "h", Port: 1, Database: "d", Username: "u", Password: "p", SSLMode: "disable"}
	assert.Equal(t, "host=h port=1 dbname=d user=u password=p sslmode=disable", cfg.DSN())
}

func TestDatabaseConnection(t *testing.T) {
	pg := dbtest.Start(t)
	ctx := context.Background()

	require.NoError(t, pg.DB.Health(ctx))

	stats := pg.DB.Stats()
	assert.NotZero(t, stats.TotalConns())

	var count int
	err := pg.DB.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM information_schema.tables WHERE table_name IN ('classifications', 'feedback')`,
	).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMigrationRunner(t *testing.T) {
	pg := dbtest.Start(t)

	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)

	runner, err := database.NewMigrationRunner(pg.URL, "../../migrations", logger)
	require.NoError(t, err)
	defer runner.Close()

	version, dirty, err := runner.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)

	// Already applied by dbtest.Start.
	require.NoError(t, runner.Up())

	require.NoError(t, runner.Down())
	version, _, err = runner.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	require.NoError(t, runner.Up())
	version, _, err = runner.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
}
