package evaluator

import (
	"fmt"
	"log/slog"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/rules/ast"
	ruleErrors "github.com/anushka81/Rule-Engine-with-AST/pkg/rules/errors"
)

// Record maps attribute names to scalar values (numbers or strings).
type Record map[string]any

// TraceEntry describes how one operand node was decided.
type TraceEntry struct {
	Attribute string       `json:"attribute"`
	Operator  ast.Operator `json:"operator"`
	Expected  any          `json:"expected"`
	Actual    any          `json:"actual,omitempty"`
	Missing   bool         `json:"missing,omitempty"`
	Matched   bool         `json:"matched"`
}

// Evaluator walks rule trees against data records. It holds no per-call
// state and is safe for concurrent use.
type Evaluator struct {
	logger *slog.Logger
}

// New creates an evaluator that writes per-condition debug logs to logger.
// A nil logger uses slog.Default().
func New(logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{logger: logger}
}

// Evaluate evaluates root against record using the default logger.
func Evaluate(root *ast.Node, record Record) (bool, error) {
	return New(nil).Evaluate(root, record)
}

// Evaluate reports whether record satisfies the rule tree.
//
// A condition on an attribute the record lacks (or holds as nil) is not met;
// that is not an error. Both children of an operator node are always
// evaluated. Neither the tree nor the record is modified.
func (e *Evaluator) Evaluate(root *ast.Node, record Record) (bool, error) {
	return e.eval(root, record, nil)
}

// EvaluateWithTrace is like Evaluate but also returns one entry per operand
// node, in left-to-right order.
func (e *Evaluator) EvaluateWithTrace(root *ast.Node, record Record) (bool, []TraceEntry, error) {
	trace := make([]TraceEntry, 0, ast.CountOperands(root))
	result, err := e.eval(root, record, &trace)
	if err != nil {
		return false, nil, err
	}
	return result, trace, nil
}

func (e *Evaluator) eval(n *ast.Node, record Record, trace *[]TraceEntry) (bool, error) {
	if n == nil {
		return false, ruleErrors.NewEvaluationError("nil node in rule tree")
	}

	switch n.Kind() {
	case ast.KindOperand:
		return e.evalOperand(n, record, trace)
	case ast.KindOperator:
		return e.evalOperator(n, record, trace)
	default:
		return false, ruleErrors.NewEvaluationError(fmt.Sprintf("unknown node type %q", n.Kind()))
	}
}

// evalOperand evaluates a single comparison.
func (e *Evaluator) evalOperand(n *ast.Node, record Record, trace *[]TraceEntry) (bool, error) {
	if !n.Operator().IsValid() {
		return false, ruleErrors.NewEvaluationError(
			fmt.Sprintf("unsupported operator %q on attribute %q", n.Operator(), n.Attribute()))
	}

	entry := TraceEntry{
		Attribute: n.Attribute(),
		Operator:  n.Operator(),
		Expected:  n.Value().Interface(),
	}

	actual, ok := record[n.Attribute()]
	if !ok || actual == nil {
		e.logger.Debug("attribute missing, condition not met",
			"attribute", n.Attribute(),
			"operator", n.Operator(),
		)
		entry.Missing = true
		appendTrace(trace, entry)
		return false, nil
	}

	matched, err := evaluateOperator(n.Operator(), actual, n.Value())
	if err != nil {
		return false, err
	}

	e.logger.Debug("condition evaluated",
		"attribute", n.Attribute(),
		"operator", n.Operator(),
		"expected", n.Value().Text(),
		"matched", matched,
	)

	entry.Actual = actual
	entry.Matched = matched
	appendTrace(trace, entry)
	return matched, nil
}

// evalOperator evaluates both subtrees and combines them.
func (e *Evaluator) evalOperator(n *ast.Node, record Record, trace *[]TraceEntry) (bool, error) {
	if !n.Logic().IsValid() {
		return false, ruleErrors.NewEvaluationError(fmt.Sprintf("unsupported logic %q", n.Logic()))
	}

	left, err := e.eval(n.Left(), record, trace)
	if err != nil {
		return false, err
	}
	right, err := e.eval(n.Right(), record, trace)
	if err != nil {
		return false, err
	}

	if n.Logic() == ast.LogicAnd {
		return left && right, nil
	}
	return left || right, nil
}

func appendTrace(trace *[]TraceEntry, entry TraceEntry) {
	if trace != nil {
		*trace = append(*trace, entry)
	}
}
