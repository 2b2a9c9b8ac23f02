package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/config"
)

// Status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Evaluation result label values.
const (
	ResultTrue  = "true"
	ResultFalse = "false"
	ResultError = "error"
)

// Collector owns the rule engine's Prometheus registry and every metric
// recorded into it. A nil Collector, or one created with Enabled false,
// records nothing, so callers never need to check.
type Collector struct {
	config   config.MetricsConfig
	registry *prometheus.Registry

	ruleMetrics  *RuleMetrics
	storeMetrics *StoreMetrics
	httpMetrics  *HTTPMetrics
}

// NewCollector creates a collector registering into registry. A nil registry
// gets a fresh one so tests and multiple servers never collide.
//
// Example:
//
//	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
func NewCollector(cfg config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
	}
	if !cfg.Enabled {
		return c
	}

	c.ruleMetrics = NewRuleMetrics(cfg.Namespace, registry)
	c.storeMetrics = NewStoreMetrics(cfg.Namespace, registry)
	c.httpMetrics = NewHTTPMetrics(cfg.Namespace, registry)

	return c
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// Enabled reports whether the collector records metrics.
func (c *Collector) Enabled() bool {
	return c.enabled()
}

// RecordParse records the outcome of parsing rule text.
func (c *Collector) RecordParse(err error) {
	if !c.enabled() {
		return
	}
	c.ruleMetrics.RecordParse(statusOf(err))
}

// RecordCombine records the outcome of combining rules.
func (c *Collector) RecordCombine(err error) {
	if !c.enabled() {
		return
	}
	c.ruleMetrics.RecordCombine(statusOf(err))
}

// RecordEvaluation records one evaluation, its result and duration.
func (c *Collector) RecordEvaluation(result bool, err error, duration time.Duration) {
	if !c.enabled() {
		return
	}

	label := ResultFalse
	switch {
	case err != nil:
		label = ResultError
	case result:
		label = ResultTrue
	}
	c.ruleMetrics.RecordEvaluation(label, duration)
}

// SetRulesStored sets the number of rules currently stored.
func (c *Collector) SetRulesStored(n int) {
	if !c.enabled() {
		return
	}
	c.storeMetrics.SetRulesStored(n)
}

// RecordStoreError records a failed storage operation.
func (c *Collector) RecordStoreError(operation string) {
	if !c.enabled() {
		return
	}
	c.storeMetrics.RecordError(operation)
}

// RecordIntegrityCheck records a completed integrity check and the number of
// stored rules that failed it.
func (c *Collector) RecordIntegrityCheck(failures int, err error) {
	if !c.enabled() {
		return
	}
	c.storeMetrics.RecordIntegrityCheck(statusOf(err), failures)
}

// RecordFileReload records an attempt to load the rule definition file.
func (c *Collector) RecordFileReload(err error) {
	if !c.enabled() {
		return
	}
	c.storeMetrics.RecordFileReload(statusOf(err))
}

// RecordHTTPRequest records a served API request. route must be the
// registered pattern, not the raw path, to bound label cardinality.
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if !c.enabled() {
		return
	}
	c.httpMetrics.RecordRequest(method, route, status, duration)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func statusOf(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}
