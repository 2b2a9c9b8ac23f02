package server

import (
	"net/http"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/server/handlers"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/server/middleware"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/telemetry/health"
)

// routes registers every endpoint. Each handler is wrapped with request
// metrics labelled by its pattern.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	rulesHandler := handlers.NewRulesHandler(s.service)

	handle := func(pattern string, h http.Handler) {
		mux.Handle(pattern, middleware.MetricsMiddleware(s.metrics, pattern)(h))
	}

	handle("GET /{$}", http.HandlerFunc(rulesHandler.Welcome))
	handle("GET /health", handlers.NewHealthHandler(s.service.Store()))
	handle("GET /ready", s.health.ReadinessHandler())
	handle("GET /version", health.VersionHandler(s.version.Version, s.version.Commit, s.version.BuildTime))

	handle("POST /api/create_rule", http.HandlerFunc(rulesHandler.CreateRule))
	handle("POST /api/combine_rules", http.HandlerFunc(rulesHandler.CombineRules))
	handle("POST /api/evaluate_rule", http.HandlerFunc(rulesHandler.EvaluateRule))
	handle("POST /api/evaluate", http.HandlerFunc(rulesHandler.Evaluate))

	handle("GET /api/rules", http.HandlerFunc(rulesHandler.ListRules))
	handle("GET /api/rules/{id}", http.HandlerFunc(rulesHandler.GetRule))
	handle("DELETE /api/rules/{id}", http.HandlerFunc(rulesHandler.DeleteRule))

	if s.metricsConfig.Enabled && s.metrics != nil {
		mux.Handle("GET "+s.metricsConfig.Path, s.metrics.Handler())
	}

	return mux
}
