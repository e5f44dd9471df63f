package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/health-signal-classifier/internal/logging"
)

// RequestObserver receives one call per finished request.
type RequestObserver func(method, path string, status int, elapsed time.Duration)

// AuditLogger writes one structured log line per request. Bodies are never
// logged since they contain patient messages.
func AuditLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		entry := logging.FromContext(c.Request.Context(), logger).WithFields(logrus.Fields{
			"method":        c.Request.Method,
			"path":          routePath(c),
			"status":        status,
			"latency_ms":    time.Since(start).Milliseconds(),
			"client_ip":     c.ClientIP(),
			"user_agent":    c.Request.UserAgent(),
			"response_size": c.Writer.Size(),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request completed")
		}
	}
}

// Instrument calls started when a request begins and reports the finished
// request to the observer it returned. Paths are route templates.
func Instrument(started func() RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		observe := started()
		start := time.Now()
		c.Next()
		observe(c.Request.Method, routePath(c), c.Writer.Status(), time.Since(start))
	}
}

func routePath(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return "unmatched"
}
