// Package config loads the service configuration from a YAML file, HSC_*
// environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/health-signal-classifier/internal/domain"
)

// EnvPrefix is prepended to every environment override, e.g.
// HSC_SERVER_PORT for server.port.
const EnvPrefix = "HSC"

// Manager implements the ConfigManager interface using Viper
type Manager struct {
	v      *viper.Viper
	config *domain.Config
}

var _ domain.ConfigManager = (*Manager)(nil)

// NewManager creates a new configuration manager
func NewManager() (*Manager, error) {
	return NewManagerFrom(viper.New(), "")
}

// NewManagerFrom loads configuration through v. A non-empty configFile is
// read instead of searching the default locations. Callers that bind flags
// into v (the CLI) must do so before calling.
func NewManagerFrom(v *viper.Viper, configFile string) (*Manager, error) {
	m := &Manager{v: v}
	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

// loadConfig loads configuration from various sources
func (m *Manager) loadConfig() error {
	v := m.v

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/health-signal-classifier/")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// The file is optional; defaults and env vars are enough to run.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &domain.Config{}
	if err := v.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.config = config
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "15s")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.rate_limit_rps", 20.0)
	v.SetDefault("server.rate_limit_burst", 40)
	v.SetDefault("server.tls_enabled", false)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.database", "health_signals")
	v.SetDefault("database.username", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "5m")
	v.SetDefault("database.migrations_path", "")

	// Storage defaults
	v.SetDefault("storage.driver", domain.StorageSQLite)
	v.SetDefault("storage.data_dir", defaultDataDir())

	// Recorder defaults
	v.SetDefault("recorder.enabled", true)
	v.SetDefault("recorder.queue_size", 1024)
	v.SetDefault("recorder.max_attempts", 3)
	v.SetDefault("recorder.retry_backoff", "200ms")
	v.SetDefault("recorder.write_timeout", "5s")

	// Cache defaults
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.default_ttl", "6h")
	v.SetDefault("cache.max_retries", 3)
	v.SetDefault("cache.pool_size", 10)
	v.SetDefault("cache.pool_timeout", "4s")
	v.SetDefault("cache.memory_size", 1000)
	v.SetDefault("cache.memory_ttl", "1h")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.filename", "")

	// MCP defaults
	v.SetDefault("mcp.server_name", "health-signal-classifier")
	v.SetDefault("mcp.server_version", "1.0.0")
	v.SetDefault("mcp.transport_type", "stdio")

	// Classifier defaults
	v.SetDefault("classifier.overrides_path", "")
	v.SetDefault("classifier.environment_enabled", true)
	v.SetDefault("classifier.alert_confidence_threshold", 0.7)
	v.SetDefault("classifier.priority_diseases", []string{"cholera"})
}

// defaultDataDir is where SQLite files live when storage.data_dir is unset.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".health-signal-classifier"
	}
	return filepath.Join(home, ".health-signal-classifier")
}

// GetConfig returns the complete configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetDatabaseConfig returns database configuration
func (m *Manager) GetDatabaseConfig() *domain.DatabaseConfig {
	return &m.config.Database
}

// GetServerConfig returns server configuration
func (m *Manager) GetServerConfig() *domain.ServerConfig {
	return &m.config.Server
}

// Viper exposes the underlying instance for flag binding.
func (m *Manager) Viper() *viper.Viper {
	return m.v
}

// Reload reloads the configuration
func (m *Manager) Reload() error {
	return m.loadConfig()
}

// Validate validates the configuration
func (m *Manager) Validate() error {
	config := m.config

	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}
	if config.Server.RateLimitRPS < 0 || config.Server.RateLimitBurst < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}
	if config.Server.TLSEnabled && (config.Server.CertFile == "" || config.Server.KeyFile == "") {
		return fmt.Errorf("TLS requires cert_file and key_file")
	}

	switch config.Storage.Driver {
	case domain.StorageNone:
	case domain.StorageSQLite:
		if config.Storage.DataDir == "" {
			return fmt.Errorf("storage data_dir is required for sqlite")
		}
	case domain.StoragePostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if config.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
		if config.Database.Username == "" {
			return fmt.Errorf("database username is required")
		}
	default:
		return fmt.Errorf("invalid storage driver: %s", config.Storage.Driver)
	}

	if config.Recorder.Enabled {
		if config.Recorder.QueueSize <= 0 {
			return fmt.Errorf("recorder queue_size must be positive")
		}
		if config.Recorder.MaxAttempts <= 0 {
			return fmt.Errorf("recorder max_attempts must be positive")
		}
	}

	if config.Cache.RedisURL != "" {
		if _, err := url.Parse(config.Cache.RedisURL); err != nil {
			return fmt.Errorf("invalid Redis URL: %w", err)
		}
	}
	if config.Cache.MemorySize <= 0 {
		return fmt.Errorf("cache memory_size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}
	if config.Logging.Output == "file" && config.Logging.Filename == "" {
		return fmt.Errorf("logging filename is required for file output")
	}

	t := config.Classifier.AlertConfidenceThreshold
	if t < 0 || t > 1 {
		return fmt.Errorf("alert confidence threshold must be within [0,1]: %v", t)
	}
	for _, name := range config.Classifier.PriorityDiseases {
		d, err := domain.ParseDiagnosis(name)
		if err != nil || !d.IsDisease() {
			return fmt.Errorf("unknown priority disease: %s", name)
		}
	}

	return nil
}

// GetDatabaseConnectionString returns a formatted database connection string
func (m *Manager) GetDatabaseConnectionString() string {
	db := m.config.Database
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		db.Host, db.Port, db.Username, db.Password, db.Database, db.SSLMode)
}

// GetDatabaseURL returns the database as a postgres:// URL for the migrate
// runner.
func (m *Manager) GetDatabaseURL() string {
	db := m.config.Database
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(db.Username, db.Password),
		Host:     fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:     "/" + db.Database,
		RawQuery: "sslmode=" + db.SSLMode,
	}
	return u.String()
}

// GetRedisConnectionString returns the Redis connection string
func (m *Manager) GetRedisConnectionString() string {
	return m.config.Cache.RedisURL
}

// SQLitePath returns the SQLite database file under the data directory.
func (m *Manager) SQLitePath() string {
	return filepath.Join(m.config.Storage.DataDir, "health_signals.db")
}

// IsProduction returns true if running in production mode
func (m *Manager) IsProduction() bool {
	return strings.ToLower(m.config.Environment) == "production"
}

// IsDevelopment returns true if running in development mode
func (m *Manager) IsDevelopment() bool {
	env := strings.ToLower(m.config.Environment)
	return env == "development" || env == "dev" || env == ""
}
