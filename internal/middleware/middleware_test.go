package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/health-signal-classifier/internal/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := perform(r, http.MethodGet, "/", nil)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, w.Header().Get("Content-Security-Policy"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"), "HSTS only in release mode")
}

func TestCorrelationID(t *testing.T) {
	r := gin.New()
	r.Use(CorrelationID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "%s|%s", GetCorrelationID(c), logging.CorrelationID(c.Request.Context()))
	})

	t.Run("propagated", func(t *testing.T) {
		w := perform(r, http.MethodGet, "/", map[string]string{CorrelationHeader: "abc-123"})
		assert.Equal(t, "abc-123", w.Header().Get(CorrelationHeader))
		assert.Equal(t, "abc-123|abc-123", w.Body.String())
	})

	t.Run("generated", func(t *testing.T) {
		w := perform(r, http.MethodGet, "/", nil)
		id := w.Header().Get(CorrelationHeader)
		assert.Len(t, id, 36)
		assert.Equal(t, id+"|"+id, w.Body.String())
	})

	t.Run("oversized header replaced", func(t *testing.T) {
		w := perform(r, http.MethodGet, "/", map[string]string{CorrelationHeader: strings.Repeat("x", 200)})
		assert.Len(t, w.Header().Get(CorrelationHeader), 36)
	})
}

func TestRequestTimeout(t *testing.T) {
	r := gin.New()
	r.Use(RequestTimeout(20 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	r.GET("/fast", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusGatewayTimeout, perform(r, http.MethodGet, "/slow", nil).Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/fast", nil).Code)
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name    string
		origins []string
		origin  string
		want    string
	}{
		{"wildcard", []string{"*"}, "https://a.example", "*"},
		{"listed", []string{"https://a.example"}, "https://a.example", "https://a.example"},
		{"unlisted", []string{"https://a.example"}, "https://b.example", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(CORS(tt.origins))
			r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

			w := perform(r, http.MethodGet, "/", map[string]string{"Origin": tt.origin})
			assert.Equal(t, tt.want, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}

	t.Run("preflight", func(t *testing.T) {
		r := gin.New()
		r.Use(CORS([]string{"*"}))
		r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })
		w := perform(r, http.MethodOptions, "/", nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestIPRateLimiter(t *testing.T) {
	limiter := NewIPRateLimiter(1, 2, time.Minute)
	now := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"), "burst exhausted")
	assert.True(t, limiter.Allow("10.0.0.2"), "buckets are per client")

	now = now.Add(time.Second)
	assert.True(t, limiter.Allow("10.0.0.1"), "refilled after one second")

	now = now.Add(2 * time.Minute)
	assert.True(t, limiter.Allow("10.0.0.3"))
	assert.Equal(t, 1, limiter.Len(), "idle clients are evicted")
}

func TestIPRateLimiter_Middleware(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 1, time.Minute)

	r := gin.New()
	r.Use(limiter.Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/", nil).Code)
	w := perform(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")
}

func TestIPRateLimiter_Disabled(t *testing.T) {
	limiter := NewIPRateLimiter(0, 0, 0)

	r := gin.New()
	r.Use(limiter.Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/", nil).Code)
	}
}

func TestAuditLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	r := gin.New()
	r.Use(CorrelationID(), AuditLogger(logger))
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	perform(r, http.MethodGet, "/items/42", map[string]string{CorrelationHeader: "req-1"})

	out := buf.String()
	assert.Contains(t, out, `"path":"/items/:id"`)
	assert.Contains(t, out, `"status":404`)
	assert.Contains(t, out, `"correlation_id":"req-1"`)
	assert.Contains(t, out, "request rejected")
}

func TestInstrument(t *testing.T) {
	type call struct {
		method, path string
		status       int
	}
	var started int
	var calls []call

	r := gin.New()
	r.Use(Instrument(func() RequestObserver {
		started++
		return func(method, path string, status int, _ time.Duration) {
			calls = append(calls, call{method, path, status})
		}
	}))
	r.GET("/things/:id", func(c *gin.Context) { c.Status(http.StatusAccepted) })

	perform(r, http.MethodGet, "/things/7", nil)
	perform(r, http.MethodGet, "/nowhere", nil)

	assert.Equal(t, 2, started)
	assert.Equal(t, []call{
		{http.MethodGet, "/things/:id", http.StatusAccepted},
		{http.MethodGet, "unmatched", http.StatusNotFound},
	}, calls)
}
