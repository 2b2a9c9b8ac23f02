// Package metrics provides Prometheus metrics for the rule engine.
//
// # Metrics Categories
//
//   - Rule Metrics: parse and combine outcomes, evaluation results and duration
//   - Store Metrics: stored rule count, storage errors, integrity checks and
//     rule file reloads
//   - HTTP Metrics: API request counts and durations by route
//
// # Usage
//
//	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
//	collector.RecordEvaluation(true, nil, 40*time.Microsecond)
//	mux.Handle("/metrics", collector.Handler())
//
// Every Record method is safe on a nil or disabled Collector.
package metrics
