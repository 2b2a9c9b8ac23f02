package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/telemetry/logging"
)

// RecoveryMiddleware recovers from panics in handlers, logs them with a
// stack trace and answers 500 without exposing internal details.
func RecoveryMiddleware(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}

					logger.ErrorContext(r.Context(), "panic in handler",
						"error", rec,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"message": "Internal server error",
						"error":   "an internal error occurred",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
