// Package middleware provides HTTP middleware for the rule engine API.
//
// # Middleware Chain
//
// The server applies middleware from outermost to innermost:
//
//	Recovery -> RequestID -> tracing -> Logging -> CORS -> timeout -> BodyLimit -> routes
//
// Each route is additionally wrapped by MetricsMiddleware with its pattern
// as the route label.
//
// # Request ID
//
// RequestIDMiddleware reuses a client X-Request-ID or generates a UUID v4,
// echoes it in the response and stores it in the logging context, so every
// log line for the request carries request_id.
//
// # Logging
//
// LoggingMiddleware writes one "request completed" line per request:
//
//	{
//	  "level": "INFO",
//	  "msg": "request completed",
//	  "method": "POST",
//	  "path": "/api/evaluate_rule",
//	  "status": 200,
//	  "latency_ms": 2,
//	  "request_id": "550e8400-e29b-41d4-a716-446655440000",
//	  "trace_id": "4bf92f3577b34da6a3ce929d0e0e4736"
//	}
//
// # CORS
//
// CORSMiddleware follows the server.cors configuration section. Preflight
// requests are answered with 204 and never reach the routes.
package middleware
