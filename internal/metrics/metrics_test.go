package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/health-signal-classifier/internal/domain"
)

func TestObserveClassification(t *testing.T) {
	m := New()

	m.ObserveClassification(&domain.ClassificationResult{
		PrimaryDiagnosis:    domain.Cholera,
		UrgencyLevel:        domain.UrgencyImmediate,
		AnomalyDetected:     true,
		EnvironmentAdjusted: true,
	}, 2*time.Millisecond)
	m.ObserveClassification(&domain.ClassificationResult{
		PrimaryDiagnosis: domain.Cholera,
		UrgencyLevel:     domain.UrgencyImmediate,
	}, time.Millisecond)
	m.ObserveClassification(&domain.ClassificationResult{
		PrimaryDiagnosis: domain.InsufficientInformation,
		UrgencyLevel:     domain.UrgencyLow,
	}, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.classificationsTotal.WithLabelValues("cholera", "IMMEDIATE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.classificationsTotal.WithLabelValues("insufficient_information", "LOW")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.anomaliesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.environmentAdjusted))
	assert.Equal(t, 1, testutil.CollectAndCount(m.classificationDuration))
}

func TestRecorderAndCacheMetrics(t *testing.T) {
	m := New()

	m.RecorderQueueDepth(7)
	m.RecorderWrite("ok")
	m.RecorderWrite("ok")
	m.RecorderWrite("retry")
	m.RecorderDropped()
	m.BreakerState(2)
	m.CacheLookup("memory", true)
	m.CacheLookup("redis", false)
	m.AlertPublished(domain.Cholera)

	assert.Equal(t, 7.0, testutil.ToFloat64(m.recorderQueueDepth))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.recorderWrites.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.recorderWrites.WithLabelValues("retry")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.recorderDropped))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.breakerState))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheRequests.WithLabelValues("memory", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheRequests.WithLabelValues("redis", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.alertsTotal.WithLabelValues("cholera")))
}

func TestHTTPStarted(t *testing.T) {
	m := New()

	done := m.HTTPStarted()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsInFlight))

	done("POST", "/api/v1/classify", http.StatusOK, 10*time.Millisecond)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.httpRequestsInFlight))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("POST", "/api/v1/classify", "200")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.RecorderDropped()

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "hsc_recorder_dropped_total 1")
	assert.Contains(t, string(body), "go_goroutines")
}

func TestNew_Independent(t *testing.T) {
	a, b := New(), New()
	a.RecorderDropped()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.recorderDropped))
}
