package tracing

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/propagation"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/telemetry/logging"
)

// propagator handles W3C Trace Context and Baggage headers.
var propagator = propagation.NewCompositeTextMapPropagator(
	propagation.TraceContext{},
	propagation.Baggage{},
)

// Extract returns ctx carrying the trace context found in headers, if any.
func Extract(ctx context.Context, headers http.Header) context.Context {
	return propagator.Extract(ctx, propagation.HeaderCarrier(headers))
}

// HTTPMiddleware continues any incoming trace, wraps the request in a
// server span named after the method and path, and reports the trace ID in
// the X-Trace-ID response header and the logging context.
func (t *Tracer) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := Extract(r.Context(), r.Header)

		ctx, span := t.Start(ctx, r.Method+" "+r.URL.Path,
			AttrHTTPMethod.String(r.Method),
			AttrHTTPTarget.String(r.URL.Path),
		)
		defer span.End()

		if id := TraceID(ctx); id != "" {
			w.Header().Set("X-Trace-ID", id)
			ctx = logging.WithTraceID(ctx, id)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
