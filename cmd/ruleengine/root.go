package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/cli"
)

var (
	// Global flags
	cfgFile   string
	verbose   bool
	outputFmt string

	// output is outputFmt after validation.
	output = cli.FormatText
)

var rootCmd = &cobra.Command{
	Use:   "ruleengine",
	Short: "Rule engine - parse, combine and evaluate attribute rules",
	Long: `Ruleengine turns rule text into abstract syntax trees, stores them,
combines them and evaluates them against JSON data records.

A rule is a sequence of comparisons joined by AND or OR, for example:

  age > 30 AND department == 'Sales' OR salary >= 50000

Supported comparisons are >, <, >=, <=, == and !=. Quoted values are strings;
other values are numbers.

The same operations are available over HTTP with "ruleengine serve".`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		format, err := cli.ParseOutputFormat(outputFmt)
		if err != nil {
			return err
		}
		output = format
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults and RULEENGINE_* environment when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "output format: text, json")
}
