// Package telemetry groups the rule engine's observability packages.
//
//   - logging: slog-based structured logging with record value redaction
//     and request, rule and trace IDs carried in the context
//   - metrics: Prometheus counters and histograms for rule operations,
//     the store and the HTTP API
//   - tracing: OpenTelemetry spans for parse, combine and evaluate, exported
//     over OTLP gRPC
//   - health: readiness checks behind GET /ready
//
// Each package is usable on its own; the ruleengine command wires them
// together in "serve".
package telemetry
