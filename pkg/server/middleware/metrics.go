package middleware

import (
	"net/http"
	"time"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/telemetry/metrics"
)

// MetricsMiddleware counts requests to one route and observes their
// duration. route is the registered pattern, so path parameters do not
// explode label cardinality.
func MetricsMiddleware(collector *metrics.Collector, route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !collector.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)
			collector.RecordHTTPRequest(r.Method, route, rw.statusCode, time.Since(start))
		})
	}
}
