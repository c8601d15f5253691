// Package metrics provides observability for the casefile validation module.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus instruments for the validation pipeline.
type Metrics struct {
	// Validation outcomes by status and channel
	Outcome *prometheus.CounterVec

	// Problems reported by code and severity
	Problems *prometheus.CounterVec

	// Matching attempts by outcome
	MatchOutcome *prometheus.CounterVec

	// Reference-data lookup latency by kind
	LookupLatency *prometheus.HistogramVec

	// Overall validation latency including enrichment
	ValidateLatency prometheus.Histogram
}

// New creates a Metrics instance with all casefile metrics registered.
func New() *Metrics {
	return &Metrics{
		Outcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "casefile_validation_outcomes_total",
			Help: "Total validation outcomes by status and submission channel",
		}, []string{"status", "channel"}),

		Problems: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "casefile_validation_problems_total",
			Help: "Total problems reported by code and severity",
		}, []string{"code", "severity"}),

		MatchOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "casefile_defendant_match_outcomes_total",
			Help: "Total defendant matching attempts by outcome",
		}, []string{"outcome"}),

		LookupLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "casefile_refdata_lookup_duration_seconds",
			Help:    "Duration of reference-data lookups by kind",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"kind"}),

		ValidateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "casefile_validation_duration_seconds",
			Help:    "Duration of full submission validation including enrichment",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

// IncOutcome records one classified validation outcome.
func (m *Metrics) IncOutcome(status, channel string) {
	if m != nil {
		m.Outcome.WithLabelValues(status, channel).Inc()
	}
}

// IncProblem records one reported problem.
func (m *Metrics) IncProblem(code, severity string) {
	if m != nil {
		m.Problems.WithLabelValues(code, severity).Inc()
	}
}

// IncMatchOutcome records one matching attempt.
func (m *Metrics) IncMatchOutcome(outcome string) {
	if m != nil {
		m.MatchOutcome.WithLabelValues(outcome).Inc()
	}
}

// ObserveLookupLatency records one reference-data lookup duration.
func (m *Metrics) ObserveLookupLatency(kind string, d time.Duration) {
	if m != nil {
		m.LookupLatency.WithLabelValues(kind).Observe(d.Seconds())
	}
}

// ObserveValidateLatency records the total validation duration.
func (m *Metrics) ObserveValidateLatency(d time.Duration) {
	if m != nil {
		m.ValidateLatency.Observe(d.Seconds())
	}
}
