package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/config"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/rules"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/rules/ast"
)

// backends returns a fresh instance of every Store implementation.
func backends(t *testing.T) map[string]Store {
	t.Helper()

	stores := map[string]Store{
		"memory": NewMemoryStore(),
	}
	for _, driver := range []string{config.DriverModernc, config.DriverMattn} {
		s, err := NewSQLiteStore(config.SQLiteConfig{
			Path:         filepath.Join(t.TempDir(), "rules.db"),
			Driver:       driver,
			BusyTimeout:  time.Second,
			WALMode:      true,
			MaxOpenConns: 1,
		}, nil)
		if err != nil {
			t.Fatalf("NewSQLiteStore(%s) error = %v", driver, err)
		}
		stores["sqlite/"+driver] = s
	}

	t.Cleanup(func() {
		for _, s := range stores {
			s.Close()
		}
	})
	return stores
}

func mustRule(t *testing.T, name, expression string) *rules.Rule {
	t.Helper()
	r, err := rules.NewRule(name, expression)
	if err != nil {
		t.Fatalf("NewRule(%q) error = %v", expression, err)
	}
	return r
}

func TestStore_SaveAndGet(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			rule := mustRule(t, "seniors", "age > 30 AND department == 'Sales' OR salary >= 50000")

			if err := s.Save(ctx, rule); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			got, err := s.Get(ctx, rule.ID)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got.Name != rule.Name || got.Expression != rule.Expression {
				t.Errorf("Get() = %+v, want %+v", got, rule)
			}
			if !ast.Equal(got.Tree, rule.Tree) {
				t.Errorf("tree = %s, want %s", got.Tree, rule.Tree)
			}
			if !got.CreatedAt.Equal(rule.CreatedAt) {
				t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, rule.CreatedAt)
			}

			byName, err := s.GetByName(ctx, "seniors")
			if err != nil {
				t.Fatalf("GetByName() error = %v", err)
			}
			if byName.ID != rule.ID {
				t.Errorf("GetByName().ID = %s, want %s", byName.ID, rule.ID)
			}
		})
	}
}

func TestStore_PreservesLiteralTypes(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			rule := mustRule(t, "typed", "zip == '01234' AND age > 30")
			if err := s.Save(ctx, rule); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			got, err := s.Get(ctx, rule.ID)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			zip := got.Tree.Left().Value()
			if zip.IsNumber() || zip.Text() != "01234" {
				t.Errorf("zip literal = %v, want string 01234", zip)
			}
			age := got.Tree.Right().Value()
			if !age.IsNumber() || age.Number() != 30 {
				t.Errorf("age literal = %v, want number 30", age)
			}
		})
	}
}

func TestStore_NotFound(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrRuleNotFound) {
				t.Errorf("Get() error = %v, want ErrRuleNotFound", err)
			}
			if _, err := s.GetByName(ctx, "missing"); !errors.Is(err, ErrRuleNotFound) {
				t.Errorf("GetByName() error = %v, want ErrRuleNotFound", err)
			}
			if err := s.Delete(ctx, "missing"); !errors.Is(err, ErrRuleNotFound) {
				t.Errorf("Delete() error = %v, want ErrRuleNotFound", err)
			}
		})
	}
}

func TestStore_DuplicateName(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if err := s.Save(ctx, mustRule(t, "adults", "age >= 18")); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			err := s.Save(ctx, mustRule(t, "adults", "age >= 21"))
			if !errors.Is(err, ErrDuplicateName) {
				t.Fatalf("Save() error = %v, want ErrDuplicateName", err)
			}

			n, err := s.Count(ctx)
			if err != nil {
				t.Fatalf("Count() error = %v", err)
			}
			if n != 1 {
				t.Errorf("Count() = %d, want 1", n)
			}
		})
	}
}

func TestStore_ReplaceByID(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			rule := mustRule(t, "adults", "age >= 18")
			if err := s.Save(ctx, rule); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			updated := rule.Clone()
			updated.Expression = "age >= 21"
			updated.Tree = ast.MustOperand("age", ast.OperatorGreaterEqual, ast.NumberValue(21))
			updated.UpdatedAt = rule.UpdatedAt.Add(time.Minute)
			if err := s.Save(ctx, updated); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			got, err := s.Get(ctx, rule.ID)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got.Expression != "age >= 21" {
				t.Errorf("Expression = %q, want %q", got.Expression, "age >= 21")
			}
			if !got.UpdatedAt.Equal(updated.UpdatedAt) {
				t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, updated.UpdatedAt)
			}
			if n, _ := s.Count(ctx); n != 1 {
				t.Errorf("Count() = %d, want 1", n)
			}
		})
	}
}

func TestStore_ListOrderAndDelete(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

			names := []string{"third", "first", "second"}
			offsets := []time.Duration{2 * time.Second, 0, time.Second}
			ids := map[string]string{}
			for i, n := range names {
				r := mustRule(t, n, "age > 1")
				r.CreatedAt = base.Add(offsets[i])
				r.UpdatedAt = r.CreatedAt
				if err := s.Save(ctx, r); err != nil {
					t.Fatalf("Save(%s) error = %v", n, err)
				}
				ids[n] = r.ID
			}

			list, err := s.List(ctx)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			want := []string{"first", "second", "third"}
			if len(list) != len(want) {
				t.Fatalf("List() returned %d rules, want %d", len(list), len(want))
			}
			for i, r := range list {
				if r.Name != want[i] {
					t.Errorf("List()[%d] = %s, want %s", i, r.Name, want[i])
				}
			}

			if err := s.Delete(ctx, ids["second"]); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if n, _ := s.Count(ctx); n != 2 {
				t.Errorf("Count() after delete = %d, want 2", n)
			}
		})
	}
}

func TestStore_CombinedSources(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			a := mustRule(t, "a", "age > 30")
			b := mustRule(t, "b", "salary > 1000")
			combined, err := rules.CombineRules("a+b", a, b)
			if err != nil {
				t.Fatalf("CombineRules() error = %v", err)
			}
			if err := s.Save(ctx, combined); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			got, err := s.Get(ctx, combined.ID)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if len(got.Sources) != 2 || got.Sources[0] != a.ID || got.Sources[1] != b.ID {
				t.Errorf("Sources = %v, want [%s %s]", got.Sources, a.ID, b.ID)
			}
		})
	}
}

func TestStore_ReturnsCopies(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			rule := mustRule(t, "copy", "age > 1")
			if err := s.Save(ctx, rule); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			rule.Name = "mutated"
			got, _ := s.Get(ctx, rule.ID)
			got.Expression = "mutated"

			again, err := s.Get(ctx, rule.ID)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if again.Name != "copy" || again.Expression != "age > 1" {
				t.Errorf("stored rule was mutated: %+v", again)
			}
		})
	}
}

func TestStore_InvalidRule(t *testing.T) {
	tree := ast.MustOperand("age", ast.OperatorGreaterThan, ast.NumberValue(1))

	tests := []struct {
		name string
		rule *rules.Rule
	}{
		{"nil", nil},
		{"empty id", &rules.Rule{Name: "n", Tree: tree}},
		{"empty name", &rules.Rule{ID: "id", Tree: tree}},
		{"nil tree", &rules.Rule{ID: "id", Name: "n"}},
	}

	for backend, s := range backends(t) {
		for _, tt := range tests {
			t.Run(backend+"/"+tt.name, func(t *testing.T) {
				err := s.Save(context.Background(), tt.rule)
				if !errors.Is(err, ErrInvalidRule) {
					t.Errorf("Save() error = %v, want ErrInvalidRule", err)
				}
			})
		}
	}
}

func TestStore_ConcurrentSaves(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var wg sync.WaitGroup
			errs := make(chan error, 20)

			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					r, err := rules.NewRule("rule-"+string(rune('a'+i)), "age > 1")
					if err != nil {
						errs <- err
						return
					}
					errs <- s.Save(ctx, r)
				}(i)
			}
			wg.Wait()
			close(errs)

			for err := range errs {
				if err != nil {
					t.Errorf("Save() error = %v", err)
				}
			}
			if n, _ := s.Count(ctx); n != 20 {
				t.Errorf("Count() = %d, want 20", n)
			}
		})
	}
}
