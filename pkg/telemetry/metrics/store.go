package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics tracks rule storage and its maintenance.
//
// Metrics:
//   - <ns>_store_rules: Number of rules stored
//   - <ns>_store_errors_total: Failed storage operations, by operation
//   - <ns>_store_integrity_checks_total: Integrity check runs, by status
//   - <ns>_store_integrity_failures_total: Stored rules that failed a check
//   - <ns>_store_file_reloads_total: Rule file loads, by status
type StoreMetrics struct {
	rulesStored       prometheus.Gauge
	errorsTotal       *prometheus.CounterVec
	integrityChecks   *prometheus.CounterVec
	integrityFailures prometheus.Counter
	fileReloads       *prometheus.CounterVec
}

// NewStoreMetrics creates and registers storage metrics with the provided registry.
func NewStoreMetrics(namespace string, registry *prometheus.Registry) *StoreMetrics {
	sm := &StoreMetrics{
		rulesStored: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "rules",
			Help:      "Number of rules currently stored",
		}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "errors_total",
			Help:      "Total number of failed storage operations",
		}, []string{"operation"}),
		integrityChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "integrity_checks_total",
			Help:      "Total number of stored rule integrity checks",
		}, []string{"status"}),
		integrityFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "integrity_failures_total",
			Help:      "Total number of stored rules that failed an integrity check",
		}),
		fileReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "file_reloads_total",
			Help:      "Total number of rule definition file loads",
		}, []string{"status"}),
	}

	registry.MustRegister(
		sm.rulesStored,
		sm.errorsTotal,
		sm.integrityChecks,
		sm.integrityFailures,
		sm.fileReloads,
	)

	return sm
}

// SetRulesStored sets the stored rule gauge.
func (sm *StoreMetrics) SetRulesStored(n int) {
	sm.rulesStored.Set(float64(n))
}

// RecordError counts a failed operation.
func (sm *StoreMetrics) RecordError(operation string) {
	sm.errorsTotal.WithLabelValues(operation).Inc()
}

// RecordIntegrityCheck counts a check run and its failures.
func (sm *StoreMetrics) RecordIntegrityCheck(status string, failures int) {
	sm.integrityChecks.WithLabelValues(status).Inc()
	if failures > 0 {
		sm.integrityFailures.Add(float64(failures))
	}
}

// RecordFileReload counts a rule file load.
func (sm *StoreMetrics) RecordFileReload(status string) {
	sm.fileReloads.WithLabelValues(status).Inc()
}
