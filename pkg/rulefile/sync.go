package rulefile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/rules"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/rules/ast"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/store"
)

// SyncResult counts what Sync did.
type SyncResult struct {
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
}

// Sync upserts definitions into st by name. A stored rule with the same
// name and a different expression is replaced, keeping its ID and creation
// time. Stored rules not named in defs are left alone.
func Sync(ctx context.Context, st store.Store, defs []Definition) (SyncResult, error) {
	var result SyncResult

	for _, def := range defs {
		if def.Tree == nil {
			return result, fmt.Errorf("rule %q has not been parsed", def.Name)
		}

		existing, err := st.GetByName(ctx, def.Name)
		switch {
		case errors.Is(err, store.ErrRuleNotFound):
			rule := rules.NewRuleFromTree(def.Name, def.Expression, def.Tree)
			if err := st.Save(ctx, rule); err != nil {
				return result, fmt.Errorf("create rule %q: %w", def.Name, err)
			}
			result.Created++

		case err != nil:
			return result, fmt.Errorf("look up rule %q: %w", def.Name, err)

		case existing.Expression == def.Expression && ast.Equal(existing.Tree, def.Tree):
			result.Unchanged++

		default:
			updated := existing.Clone()
			updated.Expression = def.Expression
			updated.Tree = def.Tree
			updated.Sources = nil
			updated.UpdatedAt = time.Now().UTC()
			if err := st.Save(ctx, updated); err != nil {
				return result, fmt.Errorf("update rule %q: %w", def.Name, err)
			}
			result.Updated++
		}
	}

	return result, nil
}
