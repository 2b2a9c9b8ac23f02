package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// wireNode is the persisted shape of a node:
//
//	{"type":"operand","attribute":"age","operator":">","value":30}
//	{"type":"operator","value":"AND","left":{...},"right":{...}}
type wireNode struct {
	Type      Kind            `json:"type"`
	Attribute string          `json:"attribute,omitempty"`
	Operator  Operator        `json:"operator,omitempty"`
	Value     json.RawMessage `json:"value"`
	Left      *Node           `json:"left,omitempty"`
	Right     *Node           `json:"right,omitempty"`
}

// MarshalJSON encodes the node in its persisted shape. Numeric literals are
// JSON numbers and string literals JSON strings, so the literal type survives
// a round trip.
func (n *Node) MarshalJSON() ([]byte, error) {
	w := wireNode{Type: n.kind}

	var err error
	switch n.kind {
	case KindOperand:
		w.Attribute = n.attribute
		w.Operator = n.operator
		w.Value, err = json.Marshal(n.value.Interface())
	case KindOperator:
		w.Value, err = json.Marshal(string(n.logic))
		w.Left = n.left
		w.Right = n.right
	default:
		return nil, fmt.Errorf("%w: unknown node type %q", ErrInvalidNode, n.kind)
	}
	if err != nil {
		return nil, err
	}

	return json.Marshal(w)
}

// UnmarshalJSON decodes a node from its persisted shape, enforcing the same
// invariant as the constructors.
func (n *Node) UnmarshalJSON(data []byte) error {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	var built *Node
	var err error
	switch w.Type {
	case KindOperand:
		if w.Left != nil || w.Right != nil {
			return fmt.Errorf("%w: operand %q must not have children", ErrInvalidNode, w.Attribute)
		}
		value, verr := decodeValue(w.Value)
		if verr != nil {
			return fmt.Errorf("%w: operand %q: %v", ErrInvalidNode, w.Attribute, verr)
		}
		built, err = NewOperand(w.Attribute, w.Operator, value)

	case KindOperator:
		if w.Attribute != "" || w.Operator != "" {
			return fmt.Errorf("%w: operator node must not carry attribute or operator", ErrInvalidNode)
		}
		var logic string
		if err := json.Unmarshal(w.Value, &logic); err != nil || len(w.Value) == 0 {
			return fmt.Errorf("%w: operator node value must be a string", ErrInvalidNode)
		}
		built, err = NewOperator(Logic(logic), w.Left, w.Right)

	default:
		return fmt.Errorf("%w: unknown node type %q", ErrInvalidNode, w.Type)
	}
	if err != nil {
		return err
	}

	*n = *built
	return nil
}

// decodeValue types a raw JSON literal: strings stay strings, numbers become
// numbers. Anything else is rejected.
func decodeValue(raw json.RawMessage) (Value, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Value{}, fmt.Errorf("missing value")
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Value{}, err
		}
		return StringValue(s), nil
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return Value{}, fmt.Errorf("value must be a number or string: %s", raw)
	}
	return NumberValue(f), nil
}
