package ast

import (
	"errors"
	"fmt"
	"strings"
)

// Kind discriminates the two node variants.
type Kind string

const (
	KindOperand  Kind = "operand"  // attribute op value
	KindOperator Kind = "operator" // left AND|OR right
)

// Operator is a comparison operator in an operand node.
type Operator string

const (
	OperatorGreaterThan  Operator = ">"
	OperatorLessThan     Operator = "<"
	OperatorGreaterEqual Operator = ">="
	OperatorLessEqual    Operator = "<="
	OperatorEqual        Operator = "=="
	OperatorNotEqual     Operator = "!="
)

// Operators lists every supported comparison operator, longest first so that
// prefix matching picks ">=" before ">".
var Operators = []Operator{
	OperatorGreaterEqual,
	OperatorLessEqual,
	OperatorEqual,
	OperatorNotEqual,
	OperatorGreaterThan,
	OperatorLessThan,
}

// IsValid returns true if op is a supported comparison operator.
func (op Operator) IsValid() bool {
	for _, o := range Operators {
		if op == o {
			return true
		}
	}
	return false
}

// Logic is the combinator of an operator node.
type Logic string

const (
	LogicAnd Logic = "AND"
	LogicOr  Logic = "OR"
)

// IsValid returns true if l is AND or OR.
func (l Logic) IsValid() bool {
	return l == LogicAnd || l == LogicOr
}

// ErrInvalidNode is returned by the constructors when the node would violate
// the tree invariant.
var ErrInvalidNode = errors.New("invalid AST node")

// Node is one node of a rule tree. It is either an operand (a single
// comparison) or an operator (a logical combination of exactly two subtrees).
//
// Nodes are immutable once built. Fields are only reachable through the
// accessors, and only the constructors and JSON decoding create nodes.
type Node struct {
	kind Kind

	// Operand fields
	attribute string
	operator  Operator
	value     Value

	// Operator fields
	logic Logic
	left  *Node
	right *Node
}

// NewOperand builds a leaf comparing attribute against value.
// The operator is not checked against the supported set; Validate and the
// evaluator do that, so trees from other producers can still be represented.
func NewOperand(attribute string, op Operator, value Value) (*Node, error) {
	if strings.TrimSpace(attribute) == "" {
		return nil, fmt.Errorf("%w: operand requires an attribute", ErrInvalidNode)
	}
	if op == "" {
		return nil, fmt.Errorf("%w: operand %q requires an operator", ErrInvalidNode, attribute)
	}
	return &Node{
		kind:      KindOperand,
		attribute: attribute,
		operator:  op,
		value:     value,
	}, nil
}

// NewOperator builds an internal node combining left and right.
func NewOperator(logic Logic, left, right *Node) (*Node, error) {
	if logic == "" {
		return nil, fmt.Errorf("%w: operator node requires a logic value", ErrInvalidNode)
	}
	if left == nil || right == nil {
		return nil, fmt.Errorf("%w: operator node %s requires two children", ErrInvalidNode, logic)
	}
	return &Node{
		kind:  KindOperator,
		logic: logic,
		left:  left,
		right: right,
	}, nil
}

// MustOperand is like NewOperand but panics on error. Intended for tests and
// static trees.
func MustOperand(attribute string, op Operator, value Value) *Node {
	n, err := NewOperand(attribute, op, value)
	if err != nil {
		panic(err)
	}
	return n
}

// MustOperator is like NewOperator but panics on error.
func MustOperator(logic Logic, left, right *Node) *Node {
	n, err := NewOperator(logic, left, right)
	if err != nil {
		panic(err)
	}
	return n
}

// And is shorthand for MustOperator(LogicAnd, left, right).
func And(left, right *Node) *Node {
	return MustOperator(LogicAnd, left, right)
}

// Or is shorthand for MustOperator(LogicOr, left, right).
func Or(left, right *Node) *Node {
	return MustOperator(LogicOr, left, right)
}

// Kind returns the node variant.
func (n *Node) Kind() Kind { return n.kind }

// IsOperand returns true for leaf comparison nodes.
func (n *Node) IsOperand() bool { return n.kind == KindOperand }

// IsOperator returns true for AND/OR nodes.
func (n *Node) IsOperator() bool { return n.kind == KindOperator }

// Attribute returns the compared attribute name (operand nodes).
func (n *Node) Attribute() string { return n.attribute }

// Operator returns the comparison operator (operand nodes).
func (n *Node) Operator() Operator { return n.operator }

// Value returns the comparison literal (operand nodes).
func (n *Node) Value() Value { return n.value }

// Logic returns AND or OR (operator nodes).
func (n *Node) Logic() Logic { return n.logic }

// Left returns the left subtree (operator nodes).
func (n *Node) Left() *Node { return n.left }

// Right returns the right subtree (operator nodes).
func (n *Node) Right() *Node { return n.right }

// String renders the tree as rule text. Trees shaped like parser output
// (left-nested) render without parentheses and parse back to the same tree;
// a right child that is itself an operator node is parenthesized for display.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	var sb strings.Builder
	n.writeTo(&sb)
	return sb.String()
}

func (n *Node) writeTo(sb *strings.Builder) {
	if n.IsOperand() {
		sb.WriteString(n.attribute)
		sb.WriteString(string(n.operator))
		sb.WriteString(n.value.String())
		return
	}

	n.left.writeTo(sb)
	sb.WriteString(" ")
	sb.WriteString(string(n.logic))
	sb.WriteString(" ")
	if n.right.IsOperator() {
		sb.WriteString("(")
		n.right.writeTo(sb)
		sb.WriteString(")")
		return
	}
	n.right.writeTo(sb)
}

// Equal reports whether two trees have identical shape and contents.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind {
		return false
	}
	if a.IsOperand() {
		return a.attribute == b.attribute &&
			a.operator == b.operator &&
			a.value.Equal(b.value)
	}
	return a.logic == b.logic && Equal(a.left, b.left) && Equal(a.right, b.right)
}
