package parser

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/rules/ast"
	ruleErrors "github.com/anushka81/Rule-Engine-with-AST/pkg/rules/errors"
)

const (
	// DefaultMaxLength is the default limit on rule text size in bytes.
	DefaultMaxLength = 4096

	// DefaultMaxConditions is the default limit on conditions per rule.
	DefaultMaxConditions = 256
)

// conditionPattern matches one condition: IDENT COMPOP VALUE. A bare value may
// not start with an operator character, so "a>==5" is rejected rather than
// read as a > "=5".
var conditionPattern = regexp.MustCompile(
	`^([A-Za-z_][A-Za-z0-9_]*)\s*(>=|<=|==|!=|>|<)\s*("[^"]*"|'[^']*'|[^\s"'<>=!][^\s"']*)$`,
)

// loosePattern recovers the attempted operator from a segment that failed
// conditionPattern, for suggestions.
var loosePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*\s*([<>=!&|~]+)`)

// Parser turns rule text into an AST.
type Parser struct {
	maxLength     int // Maximum rule size in bytes (default: 4096)
	maxConditions int // Maximum number of conditions (default: 256)
}

// NewParser creates a new parser with default limits.
func NewParser() *Parser {
	return &Parser{
		maxLength:     DefaultMaxLength,
		maxConditions: DefaultMaxConditions,
	}
}

// WithMaxLength sets the maximum rule size in bytes. Zero or less disables the check.
func (p *Parser) WithMaxLength(n int) *Parser {
	p.maxLength = n
	return p
}

// WithMaxConditions sets the maximum number of conditions. Zero or less
// disables the check.
func (p *Parser) WithMaxConditions(n int) *Parser {
	p.maxConditions = n
	return p
}

// Parse parses rule text using a parser with default limits.
func Parse(rule string) (*ast.Node, error) {
	return NewParser().Parse(rule)
}

// Parse compiles a rule such as "steps>10000 AND bmi<25" into a tree.
//
// Conditions are grouped strictly left to right with no precedence:
// "a>1 AND b<2 OR c==3" is OR(AND(a>1, b<2), c==3). A single condition
// yields a bare operand node. Any segment that is not a valid condition
// fails the whole parse.
func (p *Parser) Parse(rule string) (*ast.Node, error) {
	if strings.TrimSpace(rule) == "" {
		return nil, ruleErrors.NewParseError("rule is empty", "", 0)
	}
	if !utf8.ValidString(rule) {
		return nil, ruleErrors.NewParseError("rule is not valid UTF-8", "", 0)
	}
	if p.maxLength > 0 && len(rule) > p.maxLength {
		return nil, ruleErrors.NewParseError(
			fmt.Sprintf("rule length %d exceeds maximum %d bytes", len(rule), p.maxLength), "", 0)
	}

	conditions, logics, err := p.split(tokenize(rule))
	if err != nil {
		return nil, err
	}

	// Fold left: the first condition seeds the accumulator and each
	// (logic, condition) pair wraps it.
	root := conditions[0]
	for i, logic := range logics {
		root, err = ast.NewOperator(logic, root, conditions[i+1])
		if err != nil {
			return nil, err
		}
	}

	return root, nil
}

// split checks the token sequence alternates condition, logic, condition, ...
// and parses every condition segment.
func (p *Parser) split(tokens []token) ([]*ast.Node, []ast.Logic, error) {
	var conditions []*ast.Node
	var logics []ast.Logic

	expectCondition := true
	for i, tok := range tokens {
		index := len(conditions) + 1

		if tok.kind == tokenLogic {
			if expectCondition {
				if i == 0 {
					return nil, nil, ruleErrors.NewParseError(
						"rule starts with logical operator", tok.text, 0)
				}
				return nil, nil, ruleErrors.NewParseError(
					fmt.Sprintf("missing condition after %s", logics[len(logics)-1]), tok.text, index)
			}
			logics = append(logics, ast.Logic(tok.text))
			expectCondition = true
			continue
		}

		if p.maxConditions > 0 && index > p.maxConditions {
			return nil, nil, ruleErrors.NewParseError(
				fmt.Sprintf("rule has more than %d conditions", p.maxConditions), "", 0)
		}

		node, err := parseCondition(tok.text, index)
		if err != nil {
			return nil, nil, err
		}
		conditions = append(conditions, node)
		expectCondition = false
	}

	if len(conditions) == 0 {
		return nil, nil, ruleErrors.NewParseError("rule contains no conditions", "", 0)
	}
	if expectCondition {
		return nil, nil, ruleErrors.NewParseError(
			"rule ends with logical operator", string(logics[len(logics)-1]), 0)
	}

	return conditions, logics, nil
}

// parseCondition matches a single "attribute operator value" segment.
func parseCondition(segment string, index int) (*ast.Node, error) {
	m := conditionPattern.FindStringSubmatch(strings.TrimSpace(segment))
	if m == nil {
		return nil, ruleErrors.NewParseError(
			"condition does not match 'attribute operator value'", segment, index).
			WithSuggestion(suggest(segment))
	}

	node, err := ast.NewOperand(m[1], ast.Operator(m[2]), parseLiteral(m[3]))
	if err != nil {
		perr := ruleErrors.NewParseError("invalid condition", segment, index)
		perr.Cause = err
		return nil, perr
	}
	return node, nil
}

// parseLiteral types a value token. Quoted tokens are always strings with the
// quotes removed; bare tokens are numbers when they parse as one.
func parseLiteral(raw string) ast.Value {
	if len(raw) >= 2 {
		first, last := raw[0], raw[len(raw)-1]
		if (first == '"' || first == '\'') && first == last {
			return ast.StringValue(raw[1 : len(raw)-1])
		}
	}
	return ast.ParseValue(raw)
}

// suggest produces a hint for a segment that failed to match.
func suggest(segment string) string {
	for _, word := range strings.Fields(segment) {
		if s := ruleErrors.SuggestLogic(word); s != "" {
			return s
		}
	}

	m := loosePattern.FindStringSubmatch(segment)
	if m != nil && !ast.Operator(m[1]).IsValid() {
		return ruleErrors.SuggestOperator(m[1])
	}
	if len(strings.Fields(segment)) > 1 {
		return "Join conditions with AND or OR"
	}
	if m != nil {
		return "Provide a value after the operator"
	}
	return "Write conditions as attribute, operator, value, e.g. age>30"
}
