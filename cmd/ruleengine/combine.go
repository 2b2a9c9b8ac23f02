package main

import (
	"github.com/spf13/cobra"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/cli"
)

var combineFlags struct {
	name string
}

var combineCmd = &cobra.Command{
	Use:   "combine --name <name> <rule-id> <rule-id>...",
	Short: "Combine stored rules into a new rule",
	Long: `Combine two or more stored rules into a new stored rule that is true
only when all of them are true. The new rule records the IDs it was built
from.

Examples:
  ruleengine combine --name seniors-and-vip 6f1c... 9a2e...`,
	Args: cobra.MinimumNArgs(2),
	RunE: runCombine,
}

func init() {
	rootCmd.AddCommand(combineCmd)

	combineCmd.Flags().StringVarP(&combineFlags.name, "name", "n", "", "name of the combined rule (required)")
	_ = combineCmd.MarkFlagRequired("name")
}

func runCombine(cmd *cobra.Command, args []string) error {
	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	rule, err := a.service.CombineRules(cmd.Context(), args, combineFlags.name)
	if err != nil {
		return cli.NewCommandError("combine", err)
	}
	return printResult(cmd, cli.RuleDetail{Rule: rule})
}
