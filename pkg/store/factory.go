package store

import (
	"fmt"
	"log/slog"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/config"
)

// New creates the store selected by cfg.Backend.
func New(cfg config.StoreConfig, logger *slog.Logger) (Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemoryStore(), nil
	case config.BackendSQLite, "":
		return NewSQLiteStore(cfg.SQLite, logger)
	default:
		return nil, fmt.Errorf("unknown store backend %q (valid: memory, sqlite)", cfg.Backend)
	}
}
