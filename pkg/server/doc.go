// Package server provides the HTTP server for the rule engine API.
//
// Routes:
//
//	GET    /                    welcome text
//	GET    /health              liveness, with the stored rule count
//	GET    /ready               readiness checks (503 when any fails)
//	GET    /version             build information
//	POST   /api/create_rule     {rule_name, rule_string} -> 201 {message, ruleId}
//	POST   /api/combine_rules   {rule_ids, combined_rule_name} -> 201 {message, ruleId}
//	POST   /api/evaluate_rule   {rule_id, user_data} -> 200 {message, result}
//	POST   /api/evaluate        {rule_string, user_data} -> 200 {message, result}
//	GET    /api/rules           all stored rules
//	GET    /api/rules/{id}      one stored rule
//	DELETE /api/rules/{id}      delete a stored rule
//	GET    <metrics path>       Prometheus metrics, when enabled
//
// rule_ids may be a JSON array or a comma-separated string. Both evaluate
// endpoints accept ?explain=true and then add a per-condition trace to the
// response.
//
// Example usage:
//
//	srv := server.NewServer(cfg, svc, server.Options{Metrics: collector, Tracer: tracer, Logger: logger})
//	if err := srv.Start(ctx); err != nil {
//		return err
//	}
package server
