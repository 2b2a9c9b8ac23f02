package store

import (
	"context"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/rules"
)

// Store persists rules. Implementations must be safe for concurrent use and
// must return copies, so callers may modify what they receive.
type Store interface {
	// Save inserts rule, or replaces the stored rule with the same ID.
	// Returns ErrDuplicateName if another rule already uses rule.Name.
	Save(ctx context.Context, rule *rules.Rule) error

	// Get returns the rule with the given ID or ErrRuleNotFound.
	Get(ctx context.Context, id string) (*rules.Rule, error)

	// GetByName returns the rule with the given name or ErrRuleNotFound.
	GetByName(ctx context.Context, name string) (*rules.Rule, error)

	// List returns all rules ordered by creation time.
	List(ctx context.Context) ([]*rules.Rule, error)

	// Delete removes the rule with the given ID or returns ErrRuleNotFound.
	Delete(ctx context.Context, id string) error

	// Count returns the number of stored rules.
	Count(ctx context.Context) (int, error)

	// Close releases resources held by the store.
	Close() error
}

// Checkpointer is implemented by stores with a write-ahead log that can be
// flushed into the main database file.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}
