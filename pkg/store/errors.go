package store

import (
	"errors"
	"fmt"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/rules"
)

var (
	// ErrRuleNotFound is returned when no rule matches an ID or name.
	ErrRuleNotFound = errors.New("rule not found")

	// ErrDuplicateName is returned when saving a rule whose name is taken by
	// a different rule.
	ErrDuplicateName = errors.New("rule name already exists")

	// ErrInvalidRule is returned when saving a rule without an ID, a name
	// or a tree.
	ErrInvalidRule = errors.New("invalid rule")
)

// StorageError represents an error from a storage backend.
type StorageError struct {
	Backend   string // "memory" or "sqlite"
	Operation string // Operation that failed ("save", "get", "list", ...)
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{
		Backend:   backend,
		Operation: operation,
		Cause:     cause,
	}
}

func notFound(key string) error {
	return fmt.Errorf("%w: %s", ErrRuleNotFound, key)
}

func duplicateName(name string) error {
	return fmt.Errorf("%w: %q", ErrDuplicateName, name)
}

func validateRule(rule *rules.Rule) error {
	switch {
	case rule == nil:
		return fmt.Errorf("%w: nil rule", ErrInvalidRule)
	case rule.ID == "":
		return fmt.Errorf("%w: empty id", ErrInvalidRule)
	case rule.Name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidRule)
	case rule.Tree == nil:
		return fmt.Errorf("%w: rule %s has no tree", ErrInvalidRule, rule.ID)
	}
	return nil
}
