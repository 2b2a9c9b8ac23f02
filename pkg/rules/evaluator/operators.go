package evaluator

import (
	"cmp"
	"encoding/json"
	"fmt"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/rules/ast"
	ruleErrors "github.com/anushka81/Rule-Engine-with-AST/pkg/rules/errors"
)

// evaluateOperator compares a record value against a rule literal.
// Both sides are compared as numbers when both are numeric; otherwise both
// are compared as strings.
func evaluateOperator(op ast.Operator, actual any, expected ast.Value) (bool, error) {
	if !op.IsValid() {
		return false, ruleErrors.NewEvaluationError(fmt.Sprintf("unsupported operator %q", op))
	}

	actualNum, actualOK := convertToFloat64(actual)
	expectedNum, expectedOK := expectedNumber(expected)
	if actualOK && expectedOK {
		return compareOrdered(op, actualNum, expectedNum), nil
	}

	return compareOrdered(op, toString(actual), expected.Text()), nil
}

// compareOrdered applies a supported comparison operator to two ordered values.
func compareOrdered[T cmp.Ordered](op ast.Operator, actual, expected T) bool {
	switch op {
	case ast.OperatorGreaterThan:
		return actual > expected
	case ast.OperatorLessThan:
		return actual < expected
	case ast.OperatorGreaterEqual:
		return actual >= expected
	case ast.OperatorLessEqual:
		return actual <= expected
	case ast.OperatorEqual:
		return actual == expected
	case ast.OperatorNotEqual:
		return actual != expected
	default:
		return false
	}
}

// expectedNumber returns the rule literal as a number if it was typed as one
// or if its text reads as one.
func expectedNumber(v ast.Value) (float64, bool) {
	if v.IsNumber() {
		return v.Number(), true
	}
	return ast.ParseNumber(v.Text())
}

// convertToFloat64 converts a record value to float64. Strings count as
// numeric when they read as an integer or decimal, so form input like "10"
// compares numerically.
func convertToFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		return ast.ParseNumber(val)
	default:
		return 0, false
	}
}

// toString converts a record value to string.
func toString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(v)
	}
}
