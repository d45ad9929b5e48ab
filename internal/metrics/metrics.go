// Package metrics defines Prometheus metrics for car-value-tracker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cvt"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})
)

// Scoring metrics.
var (
	ScoringRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scoring_requests_total",
		Help:      "Total number of value scores computed.",
	})

	ScoringDistribution = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "scoring_distribution",
		Help:      "Distribution of computed cost-per-mile scores.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 0.01 .. ~20 $/mile
	})

	ScoringExhaustedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scoring_exhausted_total",
		Help:      "Total number of scored listings past their lifetime mileage.",
	})
)

// Saved list metrics.
var (
	ListImportsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "list_imports_total",
		Help:      "Total number of successful list imports.",
	})

	ListImportFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "list_import_failures_total",
		Help:      "Total number of rejected list import payloads.",
	})

	ListExportsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "list_exports_total",
		Help:      "Total number of list exports served.",
	})
)

// Health gauges, flipped by the health-check middleware.
var (
	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "Whether the last liveness probe succeeded (1) or failed (0).",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "Whether the last readiness probe succeeded (1) or failed (0).",
	})
)

// Workspace metrics.
var (
	WorkspacePersistsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "workspace_persists_total",
		Help:      "Total number of workspace state writes.",
	})
)

// Auth metrics.
var (
	AuthLoginFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_login_failures_total",
		Help:      "Total number of failed login attempts.",
	})

	SessionsPurgedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_purged_total",
		Help:      "Total number of expired sessions purged.",
	})
)
