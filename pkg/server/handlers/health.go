package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/store"
)

// HealthHandler handles liveness checks. It reports unhealthy when the rule
// store cannot be read.
type HealthHandler struct {
	store   store.Store
	timeout time.Duration
}

// NewHealthHandler creates a health check handler.
func NewHealthHandler(s store.Store) *HealthHandler {
	return &HealthHandler{store: s, timeout: 2 * time.Second}
}

// ServeHTTP implements http.Handler.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	count, err := h.store.Count(ctx)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":    "unhealthy",
			"error":     err.Error(),
			"timestamp": time.Now().Unix(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"rules":     count,
		"timestamp": time.Now().Unix(),
	})
}
