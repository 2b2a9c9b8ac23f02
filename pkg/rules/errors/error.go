package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType categorizes the failure raised by the rule core.
type ErrorType string

const (
	ErrorTypeParse      ErrorType = "parse"      // Malformed or empty rule text
	ErrorTypeCombine    ErrorType = "combine"    // Fewer than two trees, or a nil tree
	ErrorTypeEvaluation ErrorType = "evaluation" // Unsupported operator or logic in a tree
)

// Sentinel errors for errors.Is matching. Every *Error matches the sentinel of
// its Type.
var (
	ErrParse      = errors.New("rule parse error")
	ErrCombine    = errors.New("rule combine error")
	ErrEvaluation = errors.New("rule evaluation error")
)

// Error is a rule core failure with enough detail to point at the offending
// part of the input.
type Error struct {
	Type       ErrorType // Category of error
	Message    string    // Error message
	Segment    string    // Offending condition segment (parse errors)
	Index      int       // 1-based position of the segment or tree, 0 if not applicable
	Suggestion string    // Suggested fix (optional)
	Cause      error     // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s", e.Type, e.Message))

	if e.Segment != "" {
		if e.Index > 0 {
			sb.WriteString(fmt.Sprintf(" (condition %d: %q)", e.Index, e.Segment))
		} else {
			sb.WriteString(fmt.Sprintf(" (%q)", e.Segment))
		}
	}

	if e.Cause != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if e.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("; suggestion: %s", e.Suggestion))
	}

	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel for this error's type.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrParse:
		return e.Type == ErrorTypeParse
	case ErrCombine:
		return e.Type == ErrorTypeCombine
	case ErrEvaluation:
		return e.Type == ErrorTypeEvaluation
	}
	return false
}

// NewParseError creates a parse error for the given segment.
// index is the 1-based condition position, or 0 when the error concerns the whole input.
func NewParseError(message, segment string, index int) *Error {
	return &Error{
		Type:    ErrorTypeParse,
		Message: message,
		Segment: segment,
		Index:   index,
	}
}

// NewCombineError creates a combine error.
func NewCombineError(message string, index int) *Error {
	return &Error{
		Type:    ErrorTypeCombine,
		Message: message,
		Index:   index,
	}
}

// NewEvaluationError creates an evaluation error.
func NewEvaluationError(message string) *Error {
	return &Error{
		Type:    ErrorTypeEvaluation,
		Message: message,
	}
}

// WithSuggestion sets the suggestion and returns the error for chaining.
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestion = suggestion
	return e
}

// AsError extracts a *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var re *Error
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
