package rulefile

import (
	"context"
	"log/slog"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/store"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/telemetry/metrics"
)

// Reloader loads a rule file and syncs it into a store, counting outcomes.
type Reloader struct {
	path    string
	loader  *Loader
	store   store.Store
	metrics *metrics.Collector
	logger  *slog.Logger

	// OnSynced, if set, runs after every successful sync.
	OnSynced func(context.Context, SyncResult)
}

// NewReloader creates a Reloader for the rule file at path.
func NewReloader(path string, loader *Loader, st store.Store, collector *metrics.Collector, logger *slog.Logger) *Reloader {
	if loader == nil {
		loader = NewLoader(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reloader{
		path:    path,
		loader:  loader,
		store:   st,
		metrics: collector,
		logger:  logger.With("component", "rulefile"),
	}
}

// Reload loads the file and syncs it. An invalid file leaves the store
// untouched.
func (r *Reloader) Reload(ctx context.Context) (SyncResult, error) {
	defs, err := r.loader.Load(r.path)
	if err != nil {
		r.metrics.RecordFileReload(err)
		return SyncResult{}, err
	}

	result, err := Sync(ctx, r.store, defs)
	r.metrics.RecordFileReload(err)
	if err != nil {
		return result, err
	}

	r.logger.Info("rule file synced",
		"path", r.path,
		"rules", len(defs),
		"created", result.Created,
		"updated", result.Updated,
		"unchanged", result.Unchanged,
	)
	if r.OnSynced != nil {
		r.OnSynced(ctx, result)
	}
	return result, nil
}
