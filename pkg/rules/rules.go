package rules

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/rules/ast"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/rules/combiner"
	ruleErrors "github.com/anushka81/Rule-Engine-with-AST/pkg/rules/errors"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/rules/evaluator"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/rules/parser"
)

// Record is the data a rule is evaluated against.
type Record = evaluator.Record

// Rule is a named, parsed rule as stored and served by the engine.
type Rule struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Expression string    `json:"expression"`
	Tree       *ast.Node `json:"tree"`

	// Sources lists the IDs of the rules a combined rule was built from.
	Sources []string `json:"sources,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Parse converts rule text into a tree using the default parser limits.
func Parse(rule string) (*ast.Node, error) {
	return parser.Parse(rule)
}

// Combine merges trees with AND as a left fold.
func Combine(trees ...*ast.Node) (*ast.Node, error) {
	return combiner.Combine(trees...)
}

// Evaluate reports whether record satisfies the tree.
func Evaluate(root *ast.Node, record Record) (bool, error) {
	return evaluator.Evaluate(root, record)
}

// NewRule parses expression and wraps it in a Rule with a fresh ID.
func NewRule(name, expression string) (*Rule, error) {
	tree, err := Parse(expression)
	if err != nil {
		return nil, err
	}
	return NewRuleFromTree(name, expression, tree), nil
}

// NewRuleFromTree wraps an already parsed tree in a Rule with a fresh ID.
func NewRuleFromTree(name, expression string, tree *ast.Node) *Rule {
	now := time.Now().UTC()
	return &Rule{
		ID:         uuid.NewString(),
		Name:       name,
		Expression: expression,
		Tree:       tree,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// CombineRules merges the trees of rules, in order, into a new Rule named
// name. The new rule's expression is the display form of the merged tree.
func CombineRules(name string, rules ...*Rule) (*Rule, error) {
	trees := make([]*ast.Node, len(rules))
	sources := make([]string, len(rules))
	for i, r := range rules {
		if r == nil {
			return nil, ruleErrors.NewCombineError("rule is nil", i+1)
		}
		trees[i] = r.Tree
		sources[i] = r.ID
	}

	tree, err := Combine(trees...)
	if err != nil {
		return nil, err
	}

	combined := NewRuleFromTree(name, tree.String(), tree)
	combined.Sources = sources
	return combined, nil
}

// Clone returns a copy of r. The tree is shared; trees are never modified
// after construction.
func (r *Rule) Clone() *Rule {
	if r == nil {
		return nil
	}
	c := *r
	if r.Sources != nil {
		c.Sources = append([]string(nil), r.Sources...)
	}
	return &c
}

// Conditions returns the number of comparisons in the rule.
func (r *Rule) Conditions() int {
	return ast.CountOperands(r.Tree)
}

// String implements fmt.Stringer.
func (r *Rule) String() string {
	return fmt.Sprintf("%s (%s): %s", r.Name, r.ID, r.Expression)
}
