package providers

import (
	"time"

	"fbconsole/internal/structures"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SessionCounter reports the number of live console sessions.
type SessionCounter interface {
	Count() int
}

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	ObserveBackendCall(operation, outcome string, duration time.Duration)
	IncStaleResponses()
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	backendCalls        *prometheus.CounterVec
	backendDuration     *prometheus.HistogramVec
	staleResponses      prometheus.Counter
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) ObserveBackendCall(operation, outcome string, duration time.Duration) {
	m.backendCalls.WithLabelValues(operation, outcome).Inc()
	m.backendDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncStaleResponses() {
	m.staleResponses.Inc()
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config, sessions SessionCounter) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fbconsole_requests_total",
			Help: "Total number of console HTTP requests",
		}, []string{"endpoint", "status"}),
		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fbconsole_request_duration_seconds",
			Help:    "Console HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		backendCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fbconsole_backend_calls_total",
			Help: "Calls to the feedback backend by operation and outcome",
		}, []string{"operation", "outcome"}),
		backendDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fbconsole_backend_call_duration_seconds",
			Help:    "Feedback backend call duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		staleResponses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fbconsole_stale_responses_total",
			Help: "Backend responses discarded because a newer request superseded them",
		}),
		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fbconsole_cache_hits_total",
			Help: "Total number of view cache hits",
		}),
		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fbconsole_cache_misses_total",
			Help: "Total number of view cache misses",
		}),
		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "fbconsole_session_persistence_duration_seconds",
			Help:    "Duration of session snapshot writes in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "fbconsole_sessions",
		Help: "Current number of console sessions",
	}, func() float64 {
		return float64(sessions.Count())
	})

	return m
}

// noopMetrics is used when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) ObserveBackendCall(_, _ string, _ time.Duration)  {}
func (n *noopMetrics) IncStaleResponses()                               {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
