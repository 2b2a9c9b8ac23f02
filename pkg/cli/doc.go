/*
Package cli provides command-line helpers for the ruleengine command.

Output Formatting:

Commands print results as text (the default) or JSON:

	format, err := cli.ParseOutputFormat(outputFlag)
	if err != nil {
		return err
	}
	if err := cli.NewFormatter(format).FormatTo(os.Stdout, result); err != nil {
		return err
	}

The text formatter renders rules and evaluation traces as tables; any other
value is printed with its String method.

Errors and Exit Codes:

ConfigError and CommandError wrap failures so that ExitCode can map them to
a process exit status:

	if err := rootCmd.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
	// Use ctx for operations that should be cancelled on shutdown
*/
package cli
