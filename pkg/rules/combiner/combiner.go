// Package combiner merges several rule trees into one.
package combiner

import (
	"fmt"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/rules/ast"
	ruleErrors "github.com/anushka81/Rule-Engine-with-AST/pkg/rules/errors"
)

// Combine joins trees with AND as a strict left fold in input order:
// Combine(r1, r2, r3) is AND(AND(r1, r2), r3). The input trees are shared by
// the result, not copied, and are never modified.
//
// At least two trees are required. A nil tree yields a combine error whose
// Index is its 1-based position.
func Combine(trees ...*ast.Node) (*ast.Node, error) {
	if len(trees) < 2 {
		return nil, ruleErrors.NewCombineError(
			fmt.Sprintf("need at least two rules to combine, got %d", len(trees)), 0)
	}

	for i, tree := range trees {
		if tree == nil {
			return nil, ruleErrors.NewCombineError("rule tree is nil", i+1)
		}
	}

	combined := trees[0]
	for _, tree := range trees[1:] {
		node, err := ast.NewOperator(ast.LogicAnd, combined, tree)
		if err != nil {
			return nil, &ruleErrors.Error{
				Type:    ruleErrors.ErrorTypeCombine,
				Message: "failed to join rules",
				Cause:   err,
			}
		}
		combined = node
	}

	return combined, nil
}
