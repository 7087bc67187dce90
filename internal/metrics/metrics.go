package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the attribution service.
type Metrics struct {
	// Report metrics
	Reports        *prometheus.CounterVec
	ReportDuration prometheus.Histogram

	// Pipeline metrics
	OrdersIngested    prometheus.Counter
	CustomersReported prometheus.Counter
	EventsCorrelated  prometheus.Counter

	// Enrichment metrics
	AdCacheLookups    *prometheus.CounterVec
	AdRemoteLookups   *prometheus.CounterVec
	EnrichmentErrors  prometheus.Counter
	EnrichmentLatency prometheus.Histogram

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		Reports: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reports_total",
				Help:      "Total number of attribution reports computed",
			},
			[]string{"status"},
		),
		ReportDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "report_duration_seconds",
				Help:      "Attribution report computation duration",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
			},
		),
		OrdersIngested: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "orders_ingested_total",
				Help:      "Total number of buy_product orders ingested",
			},
		),
		CustomersReported: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "customers_reported_total",
				Help:      "Total number of customers included in reports",
			},
		),
		EventsCorrelated: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_correlated_total",
				Help:      "Total number of ad events correlated to customers by IP",
			},
		),
		AdCacheLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ad_cache_lookups_total",
				Help:      "Ad metadata cache lookups by result",
			},
			[]string{"result"},
		),
		AdRemoteLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ad_remote_lookups_total",
				Help:      "Remote ad metadata lookups by result",
			},
			[]string{"result"},
		),
		EnrichmentErrors: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "enrichment_errors_total",
				Help:      "Per-ad enrichment failures degraded to error records",
			},
		),
		EnrichmentLatency: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "enrichment_latency_seconds",
				Help:      "Per-ad enrichment latency",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
			},
		),
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests by path and status",
			},
			[]string{"path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration by path",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"path"},
		),
	}
}

// ObserveReport records one report run.
func (m *Metrics) ObserveReport(status string, started time.Time) {
	m.Reports.WithLabelValues(status).Inc()
	m.ReportDuration.Observe(time.Since(started).Seconds())
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
