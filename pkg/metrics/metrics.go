package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Backend REST calls
	BackendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_backend_requests_total",
			Help: "Total number of requests sent to the REST backend",
		},
		[]string{"method", "outcome"}, // outcome: "ok", "http_error", "unauthorized", "network", "rejected"
	)

	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "admin_backend_request_duration_seconds",
			Help:    "Duration of REST backend requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	LoginRedirects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "admin_login_redirects_total",
			Help: "Number of times a 401 forced the operator back to the login screen",
		},
	)

	// Media
	MediaLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_media_loads_total",
			Help: "Media load attempts by kind and outcome",
		},
		[]string{"kind", "outcome"}, // outcome: "ready", "failed", "stale"
	)

	LiveObjectURLs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "admin_live_object_urls",
			Help: "Object URLs currently holding a blob",
		},
	)

	LiveObjectBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "admin_live_object_bytes",
			Help: "Bytes held by live object URLs",
		},
	)

	// Circuit breaker
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "admin_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Content events
	ContentEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_content_events_total",
			Help: "Content change events by direction and result",
		},
		[]string{"direction", "result"}, // direction: "published", "consumed"
	)
)
