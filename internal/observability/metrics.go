package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vpnscout"

// Metrics owns a private prometheus registry. All methods are safe on a nil
// receiver so components can run without metrics in tests.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests     *prometheus.CounterVec
	apiLatency      *prometheus.HistogramVec
	dispatchTotal   *prometheus.CounterVec
	dispatchLatency *prometheus.HistogramVec
	recordFailures  *prometheus.CounterVec
	reconcileLinks  *prometheus.CounterVec
	reconcileRuns   *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		dispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "dispatch_total",
			Help:      "Dispatched scrape jobs by type and terminal status.",
		}, []string{"type", "status"}),
		dispatchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "dispatch_duration_seconds",
			Help:      "Scrape job execution time.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"type"}),
		recordFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "record_write_failures_total",
			Help:      "Job record writes that failed, by phase.",
		}, []string{"phase"}),
		reconcileLinks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "affiliate",
			Name:      "reconcile_links_total",
			Help:      "Reconciled affiliate links by outcome.",
		}, []string{"outcome"}),
		reconcileRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "affiliate",
			Name:      "reconcile_runs_total",
			Help:      "Reconciliation runs by status.",
		}, []string{"status"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "content",
			Name:      "summary_cache_lookups_total",
			Help:      "Post summary cache lookups by result.",
		}, []string{"result"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiRequests,
		m.apiLatency,
		m.dispatchTotal,
		m.dispatchLatency,
		m.recordFailures,
		m.reconcileLinks,
		m.reconcileRuns,
		m.cacheLookups,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(dur.Seconds())
}

func (m *Metrics) ObserveDispatch(jobType, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.dispatchTotal.WithLabelValues(jobType, status).Inc()
	m.dispatchLatency.WithLabelValues(jobType).Observe(dur.Seconds())
}

func (m *Metrics) IncRecordWriteFailure(phase string) {
	if m == nil {
		return
	}
	m.recordFailures.WithLabelValues(phase).Inc()
}

func (m *Metrics) IncReconcileLink(outcome string) {
	if m == nil {
		return
	}
	m.reconcileLinks.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncReconcileRun(status string) {
	if m == nil {
		return
	}
	m.reconcileRuns.WithLabelValues(status).Inc()
}

func (m *Metrics) IncCacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}
