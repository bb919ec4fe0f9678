package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artclub_http_requests_total",
		Help: "Number of HTTP requests served by the web front-end.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "artclub_http_request_duration_seconds",
		Help:    "Duration of HTTP requests served by the web front-end.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artclub_api_requests_total",
		Help: "Number of requests issued to the club REST API.",
	}, []string{"method", "status"})

	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "artclub_api_request_duration_seconds",
		Help:    "Latency of requests issued to the club REST API.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	StoreActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artclub_store_actions_total",
		Help: "Store actions dispatched, by type and phase.",
	}, []string{"type", "phase"})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "artclub_active_sessions",
		Help: "Browser sessions with a live store in memory.",
	})
)
