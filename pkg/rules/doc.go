// Package rules is the entry point to the rule engine core.
//
// A rule is text such as
//
//	age>30 AND department==Sales OR salary>50000
//
// Parse turns it into an ast.Node tree, Combine merges trees under AND, and
// Evaluate checks a data record against a tree:
//
//	tree, err := rules.Parse("steps>10000 AND bmi<25")
//	if err != nil {
//		return err
//	}
//	ok, err := rules.Evaluate(tree, rules.Record{"steps": 12000, "bmi": 22.5})
//
// Logical operators apply strictly left to right with no precedence, so
// "a AND b OR c" means (a AND b) OR c and "a OR b AND c" means (a OR b) AND c.
//
// The subpackages hold the pieces: ast (tree and JSON form), parser,
// evaluator, combiner and errors (typed failures). Rule adds an identity and
// timestamps for storage.
package rules
