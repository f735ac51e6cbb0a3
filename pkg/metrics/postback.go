package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PostbackMetrics records the outcome mix and handling latency of inbound
// postbacks. A nil receiver or unregistered metrics are safe no-ops so tests
// and workers can skip wiring.
type PostbackMetrics struct {
	duration *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
	rejected *prometheus.CounterVec
}

// NewPostbackMetrics registers the postback metrics on the provided registerer.
func NewPostbackMetrics(reg prometheus.Registerer) *PostbackMetrics {
	if reg == nil {
		return &PostbackMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "postback_duration_seconds",
		Help:    "Duration of postback handling in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "postback_outcomes_total",
		Help: "Postbacks by terminal outcome.",
	}, []string{"kind", "outcome"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "postback_rejected_total",
		Help: "Postbacks rejected before reconciliation.",
	}, []string{"kind", "reason"})
	reg.MustRegister(duration, outcomes, rejected)
	return &PostbackMetrics{
		duration: duration,
		outcomes: outcomes,
		rejected: rejected,
	}
}

// ObserveDuration records the handling duration for the given postback kind.
func (p *PostbackMetrics) ObserveDuration(kind string, duration time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.WithLabelValues(normalizeLabel(kind)).Observe(duration.Seconds())
}

// IncOutcome increments the counter for a terminal outcome.
func (p *PostbackMetrics) IncOutcome(kind, outcome string) {
	if p == nil || p.outcomes == nil {
		return
	}
	p.outcomes.WithLabelValues(normalizeLabel(kind), normalizeLabel(outcome)).Inc()
}

// IncRejected increments the counter for a pre-reconciliation rejection.
func (p *PostbackMetrics) IncRejected(kind, reason string) {
	if p == nil || p.rejected == nil {
		return
	}
	p.rejected.WithLabelValues(normalizeLabel(kind), normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
