// Package evaluator decides whether a data record satisfies a rule tree.
//
// Comparison semantics:
//
//   - If the record value and the rule literal are both numeric they are
//     compared as numbers, so 10 > 9 even though "10" < "9" as text. Record
//     strings such as "10" count as numeric.
//   - Otherwise both sides are compared as strings.
//   - A missing attribute makes its condition false. It does not abort the
//     evaluation: OR(missing, true) is true.
//
// An operator or logic value outside the supported set yields an
// evaluation error; trees from the parser and combiner never contain one.
package evaluator
