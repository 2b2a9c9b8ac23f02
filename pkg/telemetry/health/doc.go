// Package health runs readiness checks for the rule engine's dependencies.
//
// A Checker holds named CheckFuncs. CheckReadiness runs them concurrently,
// each bounded by the checker's timeout, and reports "ready" only when all
// of them pass.
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("store", health.StoreCheck(st))
//	checker.RegisterCheck("rule_file", health.FileCheck(cfg.Rules.File))
//	mux.Handle("GET /ready", checker.ReadinessHandler())
//	mux.Handle("GET /version", health.VersionHandler(version, commit, buildDate))
//
// Liveness (GET /health) is served by the server's own handler and does not
// run these checks.
package health
