package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/cli"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/rules/ast"
)

var parseCmd = &cobra.Command{
	Use:   "parse <rule>",
	Short: "Print the syntax tree of a rule",
	Long: `Parse rule text and print its abstract syntax tree as JSON.

Multiple arguments are joined with spaces, so quoting the whole rule is
optional.

Examples:
  # Print the tree
  ruleengine parse "age > 30 AND department == 'Sales'"

  # Include condition count and attributes
  ruleengine parse -o json "age > 30 OR salary >= 50000"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

// parseResult is printed by the parse command.
type parseResult struct {
	Expression string    `json:"expression"`
	Conditions int       `json:"conditions"`
	Attributes []string  `json:"attributes"`
	Tree       *ast.Node `json:"tree"`
}

// RenderText prints just the tree.
func (p parseResult) RenderText() string {
	b, err := json.MarshalIndent(p.Tree, "", "  ")
	if err != nil {
		return p.Tree.String()
	}
	return string(b)
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	expression := strings.Join(args, " ")
	tree, err := newParser(cfg.Rules).Parse(expression)
	if err != nil {
		return cli.NewCommandError("parse", err)
	}

	return printResult(cmd, parseResult{
		Expression: strings.TrimSpace(expression),
		Conditions: ast.CountOperands(tree),
		Attributes: ast.Attributes(tree),
		Tree:       tree,
	})
}
