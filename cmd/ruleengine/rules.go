package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/cli"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/maintenance"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/rulefile"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/rules"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/store"
)

var rulesCreateFlags struct {
	name string
	rule string
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage stored rules",
	Long: `Create, list, show, delete, import and check rules in the configured
store.

Examples:
  # Create a rule
  ruleengine rules create --name seniors --rule "age >= 65"

  # List rules
  ruleengine rules list

  # Show a rule by ID or name
  ruleengine rules get seniors

  # Import a YAML rule file
  ruleengine rules import rules.yaml

  # Re-validate every stored rule
  ruleengine rules check`,
}

var rulesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Parse and store a rule",
	Args:  cobra.NoArgs,
	RunE:  runRulesCreate,
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored rules",
	Args:  cobra.NoArgs,
	RunE:  runRulesList,
}

var rulesGetCmd = &cobra.Command{
	Use:   "get <id-or-name>",
	Short: "Show a stored rule",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesGet,
}

var rulesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored rule",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesDelete,
}

var rulesImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Sync a YAML rule file into the store",
	Long: `Load a YAML rule file and upsert its rules by name. A stored rule with
the same name and different text is replaced in place, keeping its ID.
Nothing is written if any definition in the file is invalid.`,
	Args: cobra.ExactArgs(1),
	RunE: runRulesImport,
}

var rulesCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate every stored rule tree",
	Args:  cobra.NoArgs,
	RunE:  runRulesCheck,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesCreateCmd, rulesListCmd, rulesGetCmd, rulesDeleteCmd, rulesImportCmd, rulesCheckCmd)

	rulesCreateCmd.Flags().StringVarP(&rulesCreateFlags.name, "name", "n", "", "rule name (required)")
	rulesCreateCmd.Flags().StringVarP(&rulesCreateFlags.rule, "rule", "r", "", "rule text (required)")
	_ = rulesCreateCmd.MarkFlagRequired("name")
	_ = rulesCreateCmd.MarkFlagRequired("rule")
}

func runRulesCreate(cmd *cobra.Command, args []string) error {
	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	rule, err := a.service.CreateRule(cmd.Context(), rulesCreateFlags.name, rulesCreateFlags.rule)
	if err != nil {
		return cli.NewCommandError("rules create", err)
	}
	return printResult(cmd, cli.RuleDetail{Rule: rule})
}

func runRulesList(cmd *cobra.Command, args []string) error {
	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	list, err := a.service.ListRules(cmd.Context())
	if err != nil {
		return cli.NewCommandError("rules list", err)
	}
	if list == nil {
		list = []*rules.Rule{}
	}
	return printResult(cmd, cli.RuleList(list))
}

func runRulesGet(cmd *cobra.Command, args []string) error {
	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	rule, err := a.service.GetRule(ctx, args[0])
	if errors.Is(err, store.ErrRuleNotFound) {
		rule, err = a.service.GetRuleByName(ctx, args[0])
	}
	if err != nil {
		return cli.NewCommandError("rules get", err)
	}
	return printResult(cmd, cli.RuleDetail{Rule: rule})
}

func runRulesDelete(cmd *cobra.Command, args []string) error {
	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.service.DeleteRule(cmd.Context(), args[0]); err != nil {
		return cli.NewCommandError("rules delete", err)
	}
	return printResult(cmd, map[string]string{"message": "Rule deleted successfully", "id": args[0]})
}

// importResult is printed by rules import.
type importResult struct {
	File string `json:"file"`
	rulefile.SyncResult
}

func (r importResult) RenderText() string {
	return fmt.Sprintf("✓ %s: %d created, %d updated, %d unchanged", r.File, r.Created, r.Updated, r.Unchanged)
}

func runRulesImport(cmd *cobra.Command, args []string) error {
	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	reloader := rulefile.NewReloader(args[0], rulefile.NewLoader(newParser(a.cfg.Rules)), a.store, nil, a.logger.Slog())
	result, err := reloader.Reload(cmd.Context())
	if err != nil {
		return cli.NewCommandError("rules import", err)
	}
	return printResult(cmd, importResult{File: args[0], SyncResult: result})
}

// checkResult is printed by rules check.
type checkResult struct {
	Checked  int            `json:"checked"`
	Failures []checkFailure `json:"failures,omitempty"`
}

type checkFailure struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Error string `json:"error"`
}

func (r checkResult) RenderText() string {
	if len(r.Failures) == 0 {
		return fmt.Sprintf("✓ %d rule(s) checked, all valid", r.Checked)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "✗ %d of %d rule(s) invalid\n", len(r.Failures), r.Checked)
	for _, f := range r.Failures {
		fmt.Fprintf(&sb, "  %s (%s): %s\n", f.Name, f.ID, f.Error)
	}
	return sb.String()
}

func runRulesCheck(cmd *cobra.Command, args []string) error {
	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := maintenance.NewIntegrityChecker(a.store, nil, a.logger.Slog()).Run(cmd.Context())
	if err != nil {
		return cli.NewCommandError("rules check", err)
	}

	result := checkResult{Checked: report.Checked}
	for _, f := range report.Failures {
		result.Failures = append(result.Failures, checkFailure{ID: f.RuleID, Name: f.Name, Error: f.Err.Error()})
	}
	if err := printResult(cmd, result); err != nil {
		return err
	}
	if !report.OK() {
		return cli.NewCommandError("rules check", fmt.Errorf("%d invalid rule(s)", len(report.Failures)))
	}
	return nil
}
