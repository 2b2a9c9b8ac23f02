package store

import (
	"context"
	"sort"
	"sync"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/rules"
)

// MemoryStore implements Store with an in-memory map. Contents are lost when
// the process exits.
type MemoryStore struct {
	rules map[string]*rules.Rule
	mu    sync.RWMutex
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rules: make(map[string]*rules.Rule),
	}
}

// Save stores a copy of rule.
func (s *MemoryStore) Save(ctx context.Context, rule *rules.Rule) error {
	if err := validateRule(rule); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.rules {
		if id != rule.ID && existing.Name == rule.Name {
			return duplicateName(rule.Name)
		}
	}

	s.rules[rule.ID] = rule.Clone()
	return nil
}

// Get returns a copy of the rule with the given ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*rules.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rule, ok := s.rules[id]
	if !ok {
		return nil, notFound(id)
	}
	return rule.Clone(), nil
}

// GetByName returns a copy of the rule with the given name.
func (s *MemoryStore) GetByName(ctx context.Context, name string) (*rules.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rule := range s.rules {
		if rule.Name == name {
			return rule.Clone(), nil
		}
	}
	return nil, notFound(name)
}

// List returns copies of all rules, oldest first.
func (s *MemoryStore) List(ctx context.Context) ([]*rules.Rule, error) {
	s.mu.RLock()
	result := make([]*rules.Rule, 0, len(s.rules))
	for _, rule := range s.rules {
		result = append(result, rule.Clone())
	}
	s.mu.RUnlock()

	sortRules(result)
	return result, nil
}

// Delete removes the rule with the given ID.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rules[id]; !ok {
		return notFound(id)
	}
	delete(s.rules, id)
	return nil
}

// Count returns the number of stored rules.
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rules), nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

// sortRules orders rules by creation time, breaking ties by name then ID.
func sortRules(list []*rules.Rule) {
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
}
