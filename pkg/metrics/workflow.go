package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// WorkflowMetrics records discount approval workflow outcomes and scoring
// request latencies.
type WorkflowMetrics struct {
	decisions *prometheus.CounterVec
	scoring   *prometheus.HistogramVec
}

// NewWorkflowMetrics registers the workflow metrics on the provided registerer.
func NewWorkflowMetrics(reg prometheus.Registerer) *WorkflowMetrics {
	if reg == nil {
		return &WorkflowMetrics{}
	}
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "discount_workflow_decisions_total",
		Help: "Discount workflow actions by action and outcome.",
	}, []string{"action", "outcome"})
	scoring := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inventory_scoring_duration_seconds",
		Help:    "Duration of inventory scoring report builds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"report"})
	reg.MustRegister(decisions, scoring)
	return &WorkflowMetrics{
		decisions: decisions,
		scoring:   scoring,
	}
}

// IncDecision increments the decision counter for the given action/outcome.
func (w *WorkflowMetrics) IncDecision(action, outcome string) {
	if w == nil || w.decisions == nil {
		return
	}
	w.decisions.WithLabelValues(normalizeLabel(action), normalizeLabel(outcome)).Inc()
}

// ObserveScoring records the duration of a scoring report build.
func (w *WorkflowMetrics) ObserveScoring(report string, duration time.Duration) {
	if w == nil || w.scoring == nil {
		return
	}
	w.scoring.WithLabelValues(normalizeLabel(report)).Observe(duration.Seconds())
}
