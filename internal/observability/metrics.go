// Package observability provides Prometheus metrics for the service.
package observability

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service metrics, registered on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Submission metrics
	FormSubmissions *prometheus.CounterVec
	AnalyticsEvents *prometheus.CounterVec
	AgentQuestions  *prometheus.CounterVec

	// Chart metrics
	ChartsRendered *prometheus.CounterVec
	ChartCacheHits *prometheus.CounterVec

	// Data metrics
	SeriesPoints   prometheus.Gauge
	SeriesFallback prometheus.Gauge
}

// NewMetrics creates and registers every metric under namespace.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "quantumine"
	}
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code",
		}, []string{"route", "code"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),

		FormSubmissions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "forms",
			Name:      "submissions_total",
			Help:      "Form submissions by form type and outcome",
		}, []string{"form", "outcome"}),
		AnalyticsEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "forms",
			Name:      "analytics_events_total",
			Help:      "Analytics events accepted by event name",
		}, []string{"event"}),
		AgentQuestions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "agent",
			Name:      "questions_total",
			Help:      "Agent questions by answer source",
		}, []string{"source"}),

		ChartsRendered: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "charts",
			Name:      "rendered_total",
			Help:      "Charts rendered by view",
		}, []string{"view"}),
		ChartCacheHits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "charts",
			Name:      "cache_hits_total",
			Help:      "Chart cache hits by view",
		}, []string{"view"}),

		SeriesPoints: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "performance",
			Name:      "series_points",
			Help:      "Points in the loaded performance series",
		}),
		SeriesFallback: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "performance",
			Name:      "series_fallback",
			Help:      "1 when the fallback series is being served",
		}),
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(route string, code int, seconds float64) {
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(seconds)
}

// SetSeries records the size and origin of the loaded series.
func (m *Metrics) SetSeries(points int, fallback bool) {
	m.SeriesPoints.Set(float64(points))
	if fallback {
		m.SeriesFallback.Set(1)
	} else {
		m.SeriesFallback.Set(0)
	}
}

func (m *Metrics) ChartRendered(view string) { m.ChartsRendered.WithLabelValues(view).Inc() }

func (m *Metrics) ChartCacheHit(view string) { m.ChartCacheHits.WithLabelValues(view).Inc() }
