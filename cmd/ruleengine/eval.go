package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/cli"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/rules/evaluator"
)

var evalFlags struct {
	rule     string
	id       string
	data     string
	dataFile string
	explain  bool
}

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate a rule against a data record",
	Long: `Evaluate rule text (--rule) or a stored rule (--id) against a JSON
data record.

Attributes missing from the record make their comparison false. With
--explain every comparison that was evaluated is listed.

Examples:
  # Ad-hoc rule text
  ruleengine eval --rule "age > 30 AND department == 'Sales'" \
    --data '{"age": 35, "department": "Sales"}'

  # Stored rule, record from a file
  ruleengine eval --id 6f1c... --data-file user.json --explain

  # Record from standard input
  echo '{"age": 20}' | ruleengine eval --rule "age >= 18" --data-file -`,
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringVarP(&evalFlags.rule, "rule", "r", "", "rule text to evaluate")
	evalCmd.Flags().StringVar(&evalFlags.id, "id", "", "ID of a stored rule to evaluate")
	evalCmd.Flags().StringVarP(&evalFlags.data, "data", "d", "", "data record as a JSON object")
	evalCmd.Flags().StringVar(&evalFlags.dataFile, "data-file", "", "file holding the data record (- for stdin)")
	evalCmd.Flags().BoolVar(&evalFlags.explain, "explain", false, "show how each comparison was decided")
}

func runEval(cmd *cobra.Command, args []string) error {
	if (evalFlags.rule == "") == (evalFlags.id == "") {
		return cli.NewCommandError("eval", errors.New("exactly one of --rule and --id is required"))
	}

	record, err := readRecord(cmd, evalFlags.data, evalFlags.dataFile)
	if err != nil {
		return cli.NewCommandError("eval", err)
	}

	a, err := openApp(evalFlags.id != "")
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	result := cli.EvaluationResult{RuleID: evalFlags.id}
	var trace []evaluator.TraceEntry

	switch {
	case evalFlags.id != "" && evalFlags.explain:
		result.Result, trace, err = a.service.Explain(ctx, evalFlags.id, record)
	case evalFlags.id != "":
		result.Result, err = a.service.EvaluateRule(ctx, evalFlags.id, record)
	case evalFlags.explain:
		result.Result, trace, err = a.service.ExplainExpression(ctx, evalFlags.rule, record)
	default:
		result.Result, err = a.service.EvaluateExpression(ctx, evalFlags.rule, record)
	}
	if err != nil {
		return cli.NewCommandError("eval", err)
	}

	result.Trace = trace
	return printResult(cmd, result)
}
