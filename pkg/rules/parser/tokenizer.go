package parser

import (
	"strings"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/rules/ast"
)

// tokenKind distinguishes condition segments from logical operators.
type tokenKind int

const (
	tokenCondition tokenKind = iota
	tokenLogic
)

// token is one element of the interleaved condition/operator sequence.
type token struct {
	kind tokenKind
	text string
}

// tokenize splits a rule on whitespace-delimited AND/OR keywords, keeping the
// keywords in sequence between the condition segments. Keywords inside an
// open quote belong to the segment. Runs of whitespace inside a segment are
// collapsed to a single space.
func tokenize(rule string) []token {
	var tokens []token
	var segment []string
	quote := rune(0)

	flush := func() {
		if len(segment) > 0 {
			tokens = append(tokens, token{kind: tokenCondition, text: strings.Join(segment, " ")})
			segment = segment[:0]
		}
	}

	for _, field := range strings.Fields(rule) {
		if quote == 0 && isLogic(field) {
			flush()
			tokens = append(tokens, token{kind: tokenLogic, text: field})
			continue
		}

		segment = append(segment, field)
		quote = trackQuote(quote, field)
	}
	flush()

	return tokens
}

// isLogic reports whether field is a logical keyword. Keywords are
// case-sensitive.
func isLogic(field string) bool {
	return field == string(ast.LogicAnd) || field == string(ast.LogicOr)
}

// trackQuote returns the quote character still open after scanning field.
func trackQuote(open rune, field string) rune {
	for _, r := range field {
		switch {
		case open == 0 && (r == '"' || r == '\''):
			open = r
		case open != 0 && r == open:
			open = 0
		}
	}
	return open
}
