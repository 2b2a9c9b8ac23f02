// Package errors defines the failures raised by the rule core.
//
// There are three kinds, one per core operation:
//
//   - parse: the rule text is empty or a condition segment does not match
//     the grammar. Segment and Index identify the offending condition.
//   - combine: fewer than two trees were supplied, or one of them is nil.
//   - evaluation: a tree carries a comparison operator or logic value the
//     evaluator does not support. Trees built by this module never do.
//
// A missing attribute during evaluation is not an error; the condition is
// simply not met.
//
// Match kinds with errors.Is:
//
//	if errors.Is(err, ruleErrors.ErrParse) {
//	    // reject the rule text
//	}
package errors
