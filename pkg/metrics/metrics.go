package metrics

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlightGauge   prometheus.Gauge

	RemoteRequestsTotal *prometheus.CounterVec
	CacheFallbacksTotal *prometheus.CounterVec

	ImportRowsTotal    *prometheus.CounterVec
	BackupRecordsTotal prometheus.Counter
}

func NewCollector(serviceName string) *Collector {
	// Metric names only admit [a-zA-Z0-9_:].
	serviceName = strings.NewReplacer("-", "_", ".", "_").Replace(serviceName)
	return &Collector{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code.",
		}, []string{"method", "path", "status"}),

		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "path", "status"}),

		InFlightGauge: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),

		RemoteRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "sync",
			Name:      "remote_requests_total",
			Help:      "Remote store calls by operation, collection, and outcome.",
		}, []string{"operation", "collection", "outcome"}),

		CacheFallbacksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "sync",
			Name:      "cache_fallbacks_total",
			Help:      "Reads served from the local cache instead of the remote store.",
		}, []string{"collection", "reason"}),

		ImportRowsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "import",
			Name:      "rows_total",
			Help:      "Bulk-import rows by collection and result (imported or skipped).",
		}, []string{"collection", "result"}),

		BackupRecordsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "backup",
			Name:      "records_restored_total",
			Help:      "Records written back through the store during backup restores.",
		}),
	}
}

func (c *Collector) Handler() http.Handler {
	return promhttp.Handler()
}
