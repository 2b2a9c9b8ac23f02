package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RuleMetrics tracks the rule core operations.
//
// Metrics:
//   - <ns>_rules_parse_total: Rule texts parsed, by status
//   - <ns>_rules_combine_total: Combine requests, by status
//   - <ns>_rules_evaluations_total: Evaluations, by result (true, false, error)
//   - <ns>_rules_evaluation_duration_seconds: Evaluation duration
type RuleMetrics struct {
	parseTotal         *prometheus.CounterVec
	combineTotal       *prometheus.CounterVec
	evaluationsTotal   *prometheus.CounterVec
	evaluationDuration prometheus.Histogram
}

// NewRuleMetrics creates and registers rule metrics with the provided registry.
func NewRuleMetrics(namespace string, registry *prometheus.Registry) *RuleMetrics {
	rm := &RuleMetrics{
		parseTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "rules",
				Name:      "parse_total",
				Help:      "Total number of rule texts parsed",
			},
			[]string{"status"},
		),

		combineTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "rules",
				Name:      "combine_total",
				Help:      "Total number of rule combine requests",
			},
			[]string{"status"},
		),

		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "rules",
				Name:      "evaluations_total",
				Help:      "Total number of rule evaluations by result",
			},
			[]string{"result"},
		),

		evaluationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "rules",
				Name:      "evaluation_duration_seconds",
				Help:      "Duration of rule evaluation in seconds",
				// Tree walks are fast; 1µs to 16ms.
				Buckets: prometheus.ExponentialBuckets(0.000001, 2, 15),
			},
		),
	}

	registry.MustRegister(
		rm.parseTotal,
		rm.combineTotal,
		rm.evaluationsTotal,
		rm.evaluationDuration,
	)

	return rm
}

// RecordParse counts one parse.
func (rm *RuleMetrics) RecordParse(status string) {
	rm.parseTotal.WithLabelValues(status).Inc()
}

// RecordCombine counts one combine.
func (rm *RuleMetrics) RecordCombine(status string) {
	rm.combineTotal.WithLabelValues(status).Inc()
}

// RecordEvaluation counts one evaluation and observes its duration.
func (rm *RuleMetrics) RecordEvaluation(result string, duration time.Duration) {
	rm.evaluationsTotal.WithLabelValues(result).Inc()
	rm.evaluationDuration.Observe(duration.Seconds())
}
