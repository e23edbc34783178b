// Package metrics registers the Prometheus collectors for the triage
// engine and serves them over the standard /metrics endpoint.
package metrics

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	classifications  *prometheus.CounterVec
	transitions      *prometheus.CounterVec
	conflicts        prometheus.Counter
	persistFailures  prometheus.Counter
	queueDepth       prometheus.GaugeFunc
}

// New builds a Metrics set on its own registry. queueDepth is sampled on
// scrape via the given function.
func New(queueDepth func() float64) *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_classifications_total",
			Help: "Committed triage classifications by acuity level.",
		}, []string{"level"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_queue_transitions_total",
			Help: "Queue status transitions by target status.",
		}, []string{"status"}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "triage_concurrent_conflicts_total",
			Help: "Triage commits rejected by the optimistic concurrency check.",
		}),
		persistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "triage_record_persist_failures_total",
			Help: "Triage records that could not be written to the audit store.",
		}),
		queueDepth: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "triage_queue_depth",
			Help: "Entries currently participating in queue ordering.",
		}, queueDepth),
	}

	reg.MustRegister(m.classifications, m.transitions, m.conflicts, m.persistFailures, m.queueDepth)
	return m
}

func (m *Metrics) ObserveClassification(level int) {
	m.classifications.WithLabelValues(strconv.Itoa(level)).Inc()
}

func (m *Metrics) ObserveTransition(status string) {
	m.transitions.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveConflict() { m.conflicts.Inc() }

func (m *Metrics) ObservePersistFailure() { m.persistFailures.Inc() }

// Handler returns the echo handler serving the registry.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
