// Package tracing provides OpenTelemetry tracing for rule operations.
//
// The service layer opens rules.parse, rules.combine and rules.evaluate
// spans; the HTTP server wraps each request in a server span continuing any
// W3C traceparent header it receives.
//
//	tracer, err := tracing.New(ctx, cfg.Telemetry.Tracing)
//	if err != nil {
//		return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "rules.evaluate", tracing.AttrRuleID.String(id))
//	result, err := evaluate(ctx)
//	tracing.End(span, err)
//
// With tracing disabled the tracer is a noop and spans cost almost nothing.
// Spans go to an OTLP gRPC collector, sampled always, never or by trace ID
// ratio.
package tracing
