package ast

import (
	"strconv"
	"strings"
)

// ValueType is the type a literal was given at parse time.
type ValueType string

const (
	ValueTypeNumber ValueType = "number"
	ValueTypeString ValueType = "string"
)

// Value is the literal on the right-hand side of a condition.
// The zero Value is the empty string.
type Value struct {
	typ ValueType
	num float64
	str string
}

// NumberValue returns a numeric literal.
func NumberValue(f float64) Value {
	return Value{typ: ValueTypeNumber, num: f}
}

// StringValue returns a string literal.
func StringValue(s string) Value {
	return Value{typ: ValueTypeString, str: s}
}

// ParseValue types a raw token: numeric if it parses as an integer or decimal,
// string otherwise.
func ParseValue(raw string) Value {
	if f, ok := ParseNumber(raw); ok {
		return NumberValue(f)
	}
	return StringValue(raw)
}

// ParseNumber parses s as an integer or decimal literal. Special float forms
// (Inf, NaN, hex, exponents without digits) are rejected so that words such
// as "inf" stay strings.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if !(r >= '0' && r <= '9') && r != '.' && r != '-' && r != '+' && r != 'e' && r != 'E' {
			return 0, false
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Type returns the literal's type.
func (v Value) Type() ValueType {
	if v.typ == "" {
		return ValueTypeString
	}
	return v.typ
}

// IsNumber returns true if the literal was typed as a number.
func (v Value) IsNumber() bool {
	return v.typ == ValueTypeNumber
}

// Number returns the numeric value. It is 0 for string literals.
func (v Value) Number() float64 {
	return v.num
}

// Text returns the literal as written: the string for string literals, the
// shortest decimal form for numbers.
func (v Value) Text() string {
	if v.IsNumber() {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return v.str
}

// Interface returns the literal as float64 or string.
func (v Value) Interface() any {
	if v.IsNumber() {
		return v.num
	}
	return v.str
}

// String renders the literal so that parsing it back yields the same value.
// Strings that would otherwise read as a number or a logical keyword, or that
// contain whitespace, quotes or comparison characters, are quoted. Double
// quotes are preferred; a string containing one is wrapped in single quotes.
func (v Value) String() string {
	if v.IsNumber() {
		return v.Text()
	}
	if !needsQuotes(v.str) {
		return v.str
	}
	if strings.ContainsRune(v.str, '"') {
		return "'" + v.str + "'"
	}
	return `"` + v.str + `"`
}

func needsQuotes(s string) bool {
	if s == "" || s == string(LogicAnd) || s == string(LogicOr) {
		return true
	}
	if _, numeric := ParseNumber(s); numeric {
		return true
	}
	return strings.ContainsAny(s, " \t\n\r\"'<>=!")
}

// Equal reports whether two literals have the same type and value.
func (v Value) Equal(other Value) bool {
	if v.Type() != other.Type() {
		return false
	}
	if v.IsNumber() {
		return v.num == other.num
	}
	return v.str == other.str
}
