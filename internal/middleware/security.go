// Package middleware holds the gin middleware chain of the HTTP API.
package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/health-signal-classifier/internal/domain"
	"github.com/health-signal-classifier/internal/logging"
)

// CorrelationHeader carries the request correlation ID in and out.
const CorrelationHeader = "X-Correlation-ID"

// SecurityHeaders adds security headers to all responses
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")

		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		}

		c.Header("Content-Security-Policy", "default-src 'self'; connect-src 'self'; frame-ancestors 'none'")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

		c.Next()
	}
}

// CorrelationID reuses the caller's X-Correlation-ID or assigns a new one,
// and stores it on both the gin and request contexts.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := c.GetHeader(CorrelationHeader)
		if correlationID == "" || len(correlationID) > 128 {
			correlationID = uuid.New().String()
		}

		c.Set(logging.CorrelationField, correlationID)
		c.Header(CorrelationHeader, correlationID)
		c.Request = c.Request.WithContext(logging.WithCorrelation(c.Request.Context(), correlationID))

		c.Next()
	}
}

// GetCorrelationID returns the ID set by CorrelationID.
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(logging.CorrelationField)
}

// RequestTimeout bounds the request context. Handlers that honour the
// context see it expire; if nothing was written yet the client gets 504.
func RequestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, domain.NewAPIError(
				domain.ErrUnavailable, "Request timeout", "", GetCorrelationID(c),
			))
		}
	}
}

// MaxBodySize limits request bodies to n bytes.
func MaxBodySize(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
