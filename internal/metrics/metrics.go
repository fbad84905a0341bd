package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "valuecraft"

// Run and provider outcome labels.
const (
	StatusCommitted  = "committed"
	StatusSuperseded = "superseded"
	StatusCancelled  = "cancelled"
	StatusFailed     = "failed"

	StatusOK      = "ok"
	StatusError   = "error"
	StatusSkipped = "skipped"
)

// Metrics holds the service's Prometheus collectors on a private registry.
type Metrics struct {
	registry         *prometheus.Registry
	runs             *prometheus.CounterVec
	runDuration      prometheus.Histogram
	providerRequests *prometheus.CounterVec
	recordsPersisted *prometheus.CounterVec
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_runs_total",
			Help:      "Analysis runs by outcome.",
		}, []string{"status"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_run_duration_seconds",
			Help:      "Wall-clock duration of analysis runs.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
		providerRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Provider requests by provider and outcome.",
		}, []string{"provider", "status"}),
		recordsPersisted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_records_persisted_total",
			Help:      "Analysis records written to the database by outcome.",
		}, []string{"status"}),
	}

	m.registry.MustRegister(
		m.runs,
		m.runDuration,
		m.providerRequests,
		m.recordsPersisted,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveRun records the outcome and duration of an analysis run.
func (m *Metrics) ObserveRun(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(status).Inc()
	m.runDuration.Observe(d.Seconds())
}

// ProviderRequest counts one provider call.
func (m *Metrics) ProviderRequest(provider, status string) {
	if m == nil {
		return
	}
	m.providerRequests.WithLabelValues(provider, status).Inc()
}

// RecordsPersisted counts persisted analysis records.
func (m *Metrics) RecordsPersisted(status string, n int) {
	if m == nil {
		return
	}
	m.recordsPersisted.WithLabelValues(status).Add(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
