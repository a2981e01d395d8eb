package observability

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics("")
	m.ObserveRequest("/api/performance", 200, 0.01)
	m.ObserveRequest("/api/performance", 200, 0.02)
	m.ChartRendered("benchmark")
	m.ChartCacheHit("benchmark")
	m.SetSeries(120, true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/api/performance", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChartsRendered.WithLabelValues("benchmark")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChartCacheHits.WithLabelValues("benchmark")))
	assert.Equal(t, 120.0, testutil.ToFloat64(m.SeriesPoints))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SeriesFallback))
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	// two instances must not collide on registration
	assert.NotPanics(t, func() {
		NewMetrics("a")
		NewMetrics("a")
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics("quantumine")
	m.SetSeries(3, false)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "quantumine_performance_series_points 3")
}
