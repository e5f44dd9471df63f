// Package logging builds the process logger and carries correlation IDs
// through request contexts.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/health-signal-classifier/internal/domain"
)

// New creates a logger from cfg. The returned closer releases the log file
// when output is "file" and is a no-op otherwise.
func New(cfg domain.LoggingConfig) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if strings.EqualFold(cfg.Format, "text") {
		logger.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: time.RFC3339,
			FullTimestamp:   true,
		})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	}

	var closer io.Closer = nopCloser{}
	switch strings.ToLower(cfg.Output) {
	case "", "stdout":
		logger.SetOutput(os.Stdout)
	case "stderr":
		logger.SetOutput(os.Stderr)
	case "file":
		f, err := os.OpenFile(cfg.Filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		logger.SetOutput(f)
		closer = f
	default:
		return nil, nil, fmt.Errorf("unknown log output: %s", cfg.Output)
	}

	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type correlationKey struct{}

// CorrelationField is the log field and header-derived context value that
// ties log lines of one request together.
const CorrelationField = "correlation_id"

// WithCorrelation stores id in ctx.
func WithCorrelation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the ID stored in ctx, or a new one.
func CorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// FromContext returns an entry tagged with the correlation ID of ctx.
func FromContext(ctx context.Context, logger *logrus.Logger) *logrus.Entry {
	return logger.WithField(CorrelationField, CorrelationID(ctx))
}

const maxFieldLength = 1000

var sensitiveKeys = []string{
	"password", "token", "secret", "auth",
	"message", "phone", "email", "address",
}

// Sanitize redacts fields that may carry personal data and truncates long
// strings. Health messages and phone numbers never reach the logs.
func Sanitize(fields logrus.Fields) logrus.Fields {
	out := make(logrus.Fields, len(fields))
	for k, v := range fields {
		out[k] = sanitizeField(k, v)
	}
	return out
}

func sanitizeField(key string, value interface{}) interface{} {
	lowerKey := strings.ToLower(key)
	for _, pattern := range sensitiveKeys {
		if strings.Contains(lowerKey, pattern) {
			return "[REDACTED]"
		}
	}
	if str, ok := value.(string); ok && len(str) > maxFieldLength {
		return str[:maxFieldLength] + "... [TRUNCATED]"
	}
	return value
}
