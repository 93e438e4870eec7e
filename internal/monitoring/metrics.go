package monitoring

import "github.com/prometheus/client_golang/prometheus"

var (
	HttpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	HttpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	TogglesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "like_toggles_total",
			Help: "Total number of completed like toggles",
		},
		[]string{"kind", "transition"},
	)

	PartialWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "like_toggle_partial_writes_total",
			Help: "Toggles whose counter write failed after the membership write succeeded",
		},
		[]string{"kind"},
	)

	CascadesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delete_cascades_total",
			Help: "Total number of deletions completed with reference retraction",
		},
		[]string{"kind"},
	)

	ReconciliationRepairsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reconciliation_repairs_total",
			Help: "Counters rewritten by the reconciliation sweep because they had drifted",
		},
		[]string{"kind"},
	)
)

// Register registers all collectors with the given registry.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(
		HttpRequestsTotal,
		HttpRequestDuration,
		TogglesTotal,
		PartialWritesTotal,
		CascadesTotal,
		ReconciliationRepairsTotal,
	)
}
