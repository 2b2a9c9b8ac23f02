package ast

import (
	"errors"
	"fmt"
	"sort"
)

// Visitor is called for every node during Walk.
type Visitor interface {
	VisitOperand(*Node) error
	VisitOperator(*Node) error
}

// VisitorFuncs adapts plain functions to Visitor. Nil functions are skipped.
type VisitorFuncs struct {
	Operand  func(*Node) error
	Operator func(*Node) error
}

// VisitOperand implements Visitor.
func (v VisitorFuncs) VisitOperand(n *Node) error {
	if v.Operand == nil {
		return nil
	}
	return v.Operand(n)
}

// VisitOperator implements Visitor.
func (v VisitorFuncs) VisitOperator(n *Node) error {
	if v.Operator == nil {
		return nil
	}
	return v.Operator(n)
}

// Walk traverses the tree pre-order (node, left, right) and returns the first
// error a visitor reports.
func Walk(n *Node, visitor Visitor) error {
	if n == nil {
		return nil
	}

	if n.IsOperand() {
		return visitor.VisitOperand(n)
	}

	if err := visitor.VisitOperator(n); err != nil {
		return err
	}
	if err := Walk(n.left, visitor); err != nil {
		return err
	}
	return Walk(n.right, visitor)
}

// CountOperands returns the number of leaf comparisons in the tree.
func CountOperands(n *Node) int {
	count := 0
	_ = Walk(n, VisitorFuncs{Operand: func(*Node) error {
		count++
		return nil
	}})
	return count
}

// CountOperators returns the number of AND/OR nodes in the tree.
func CountOperators(n *Node) int {
	count := 0
	_ = Walk(n, VisitorFuncs{Operator: func(*Node) error {
		count++
		return nil
	}})
	return count
}

// Depth returns the height of the tree; a single operand has depth 1.
func Depth(n *Node) int {
	if n == nil {
		return 0
	}
	if n.IsOperand() {
		return 1
	}
	return 1 + max(Depth(n.left), Depth(n.right))
}

// Attributes returns the sorted, de-duplicated attribute names the tree reads.
func Attributes(n *Node) []string {
	seen := make(map[string]struct{})
	_ = Walk(n, VisitorFuncs{Operand: func(op *Node) error {
		seen[op.attribute] = struct{}{}
		return nil
	}})

	attrs := make([]string, 0, len(seen))
	for a := range seen {
		attrs = append(attrs, a)
	}
	sort.Strings(attrs)
	return attrs
}

// Validate checks that every operand uses a supported comparison operator and
// every operator node a supported logic value. All problems are reported.
func Validate(n *Node) error {
	if n == nil {
		return fmt.Errorf("%w: nil tree", ErrInvalidNode)
	}

	var errs []error
	_ = Walk(n, VisitorFuncs{
		Operand: func(op *Node) error {
			if !op.operator.IsValid() {
				errs = append(errs, fmt.Errorf("%w: unsupported operator %q on attribute %q",
					ErrInvalidNode, op.operator, op.attribute))
			}
			return nil
		},
		Operator: func(op *Node) error {
			if !op.logic.IsValid() {
				errs = append(errs, fmt.Errorf("%w: unsupported logic %q", ErrInvalidNode, op.logic))
			}
			return nil
		},
	})

	return errors.Join(errs...)
}
