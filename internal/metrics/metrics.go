// Package metrics exposes Prometheus collectors for tool loads and sentence
// filter outcomes.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jamesainslie/go-sentex/extract"
)

// Metrics holds the registry and extraction collectors.
type Metrics struct {
	gatherer prometheus.Gatherer

	loadsTotal     *prometheus.CounterVec
	loadDuration   *prometheus.HistogramVec
	sentencesTotal *prometheus.CounterVec
}

// New registers the collectors with reg. A nil reg gets a private registry.
// Collectors already present in reg are reused, so several registries can
// share one Registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	loadsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sentex",
			Subsystem: "registry",
			Name:      "loads_total",
			Help:      "Total tool loads by status.",
		},
		[]string{"tool", "status"},
	)
	loadDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sentex",
			Subsystem: "registry",
			Name:      "load_duration_seconds",
			Help:      "Tool load duration in seconds.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"tool"},
	)
	sentencesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sentex",
			Subsystem: "extract",
			Name:      "sentences_total",
			Help:      "Candidate sentences by outcome and rejection reason.",
		},
		[]string{"outcome", "reason"},
	)

	return &Metrics{
		gatherer:       gatherer,
		loadsTotal:     register(reg, loadsTotal),
		loadDuration:   register(reg, loadDuration),
		sentencesTotal: register(reg, sentencesTotal),
	}
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// Handler serves the collectors in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveLoad records one tool load and how long it took.
func (m *Metrics) ObserveLoad(tool string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	m.loadsTotal.WithLabelValues(tool, status).Inc()
	m.loadDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// Observe implements extract.Observer.
func (m *Metrics) Observe(r extract.Result) {
	if r.Accepted {
		m.sentencesTotal.WithLabelValues("accepted", "").Inc()
		return
	}
	m.sentencesTotal.WithLabelValues("rejected", string(r.Reason)).Inc()
}
