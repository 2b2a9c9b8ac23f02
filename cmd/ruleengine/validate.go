package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/cli"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/rulefile"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/rules/ast"
	ruleErrors "github.com/anushka81/Rule-Engine-with-AST/pkg/rules/errors"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/rules/parser"
)

var validateFlags struct {
	file string
}

var validateCmd = &cobra.Command{
	Use:   "validate [rule]",
	Short: "Check rule text or a rule file for errors",
	Long: `Check that rule text parses, or with --file that every definition in a
YAML rule file parses. Nothing is stored.

On a parse error the failing condition and a suggested fix are shown and the
command exits with status 3.

Examples:
  # Validate a single rule
  ruleengine validate "age >= 18 AND country == 'NZ'"

  # Validate a rule file
  ruleengine validate --file rules.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateFlags.file, "file", "f", "", "YAML rule file to validate")
}

// validationResult is printed by the validate command.
type validationResult struct {
	Valid      bool                `json:"valid"`
	Rules      int                 `json:"rules,omitempty"`
	Conditions int                 `json:"conditions,omitempty"`
	Errors     []validationProblem `json:"errors,omitempty"`
}

type validationProblem struct {
	Rule       string `json:"rule,omitempty"`
	Message    string `json:"message"`
	Segment    string `json:"segment,omitempty"`
	Index      int    `json:"index,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func (v validationResult) RenderText() string {
	if v.Valid {
		if v.Rules > 0 {
			return fmt.Sprintf("✓ %d rule(s) valid", v.Rules)
		}
		return fmt.Sprintf("✓ valid (%d condition(s))", v.Conditions)
	}

	var sb strings.Builder
	sb.WriteString("✗ invalid\n")
	for _, p := range v.Errors {
		sb.WriteString("  ")
		if p.Rule != "" {
			sb.WriteString(p.Rule + ": ")
		}
		sb.WriteString(p.Message)
		if p.Suggestion != "" {
			sb.WriteString("\n    suggestion: " + p.Suggestion)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func problemFor(rule string, err error) validationProblem {
	p := validationProblem{Rule: rule, Message: err.Error()}
	if perr, ok := ruleErrors.AsError(err); ok {
		p.Message = perr.Message
		p.Segment = perr.Segment
		p.Index = perr.Index
		p.Suggestion = perr.Suggestion
		if perr.Index > 0 {
			p.Message = fmt.Sprintf("%s (condition %d: %q)", perr.Message, perr.Index, perr.Segment)
		}
	}
	return p
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if validateFlags.file != "" {
		if len(args) > 0 {
			return cli.NewCommandError("validate", errors.New("give either rule text or --file, not both"))
		}
		return validateFile(cmd, newParser(cfg.Rules), validateFlags.file)
	}

	if len(args) == 0 {
		return cli.NewCommandError("validate", errors.New("rule text or --file is required"))
	}

	tree, err := newParser(cfg.Rules).Parse(strings.Join(args, " "))
	if err != nil {
		_ = printResult(cmd, validationResult{Errors: []validationProblem{problemFor("", err)}})
		return cli.NewCommandError("validate", err)
	}
	return printResult(cmd, validationResult{Valid: true, Conditions: ast.CountOperands(tree)})
}

func validateFile(cmd *cobra.Command, p *parser.Parser, path string) error {
	defs, err := rulefile.NewLoader(p).Load(path)
	if err == nil {
		return printResult(cmd, validationResult{Valid: true, Rules: len(defs)})
	}

	var loadErr *rulefile.LoadError
	if !errors.As(err, &loadErr) {
		return cli.NewCommandError("validate", err)
	}

	result := validationResult{}
	for _, defErr := range loadErr.Errors {
		name := defErr.Name
		if name == "" {
			name = fmt.Sprintf("rule %d", defErr.Index)
		}
		result.Errors = append(result.Errors, problemFor(name, defErr.Err))
	}
	_ = printResult(cmd, result)
	return cli.NewCommandError("validate", err)
}
