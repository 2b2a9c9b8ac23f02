// Package parser compiles rule text into an AST.
//
// # Grammar
//
//	expr       ::= condition ( LOGOP condition )*
//	LOGOP      ::= "AND" | "OR"
//	condition  ::= IDENT COMPOP VALUE
//	COMPOP     ::= ">" | "<" | ">=" | "<=" | "==" | "!="
//	IDENT      ::= [A-Za-z_][A-Za-z0-9_]*
//	VALUE      ::= numeric literal | bare word | quoted string
//
// Logical operators must be separated from conditions by whitespace and are
// case-sensitive. There are no parentheses and no precedence: conditions are
// grouped strictly left to right.
//
// Values are typed here and the type is kept for evaluation: a bare token
// that parses as an integer or decimal is a number, anything else is a
// string. Quoting ("10" or '10') forces a string.
//
// # Usage
//
//	tree, err := parser.Parse("steps>10000 AND bmi<25")
//	if err != nil {
//	    // errors.Is(err, ruleErrors.ErrParse)
//	}
//
// Limits can be tuned on a Parser:
//
//	p := parser.NewParser().WithMaxConditions(32)
//	tree, err := p.Parse(text)
package parser
