package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/cli"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/config"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/rules"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/rules/parser"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/service"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/store"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/telemetry/logging"
)

// loadConfig loads the --config file with environment overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	return cfg, nil
}

// newLogger builds the process logger and installs it as the slog default.
func newLogger(cfg config.LoggingConfig, w io.Writer) (*logging.Logger, error) {
	logger, err := logging.New(logging.FromConfig(cfg, w))
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger.Slog())
	return logger, nil
}

func newParser(cfg config.RulesConfig) *parser.Parser {
	p := parser.NewParser()
	if cfg.MaxLength > 0 {
		p = p.WithMaxLength(cfg.MaxLength)
	}
	if cfg.MaxConditions > 0 {
		p = p.WithMaxConditions(cfg.MaxConditions)
	}
	return p
}

// app holds what one-shot commands need.
type app struct {
	cfg     *config.Config
	logger  *logging.Logger
	store   store.Store
	service *service.Service
}

// openApp loads configuration and builds a service. With persistent false
// the service runs on an empty in-memory store, for commands that never
// read stored rules. One-shot commands log warnings and errors only unless
// --verbose is set.
func openApp(persistent bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logCfg := cfg.Telemetry.Logging
	if !verbose && (logCfg.Level == "" || logCfg.Level == "info") {
		logCfg.Level = "warn"
	}
	logger, err := newLogger(logCfg, os.Stderr)
	if err != nil {
		return nil, err
	}

	var st store.Store = store.NewMemoryStore()
	if persistent {
		st, err = store.New(cfg.Store, logger.Slog())
		if err != nil {
			return nil, fmt.Errorf("failed to open rule store: %w", err)
		}
	}

	svc, err := service.New(service.Config{
		Store:  st,
		Rules:  cfg.Rules,
		Logger: logger,
	})
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	return &app{cfg: cfg, logger: logger, store: st, service: svc}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close rule store", "error", err)
	}
}

// printResult writes data to the command's output in the --output format.
func printResult(cmd *cobra.Command, data any) error {
	return cli.NewFormatter(output).FormatTo(cmd.OutOrStdout(), data)
}

// readRecord decodes a JSON object from inline data or from a file ("-"
// reads standard input). Numbers are kept as json.Number.
func readRecord(cmd *cobra.Command, data, file string) (rules.Record, error) {
	var r io.Reader
	switch {
	case data != "" && file != "":
		return nil, errors.New("use only one of --data and --data-file")
	case data != "":
		r = strings.NewReader(data)
	case file == "-":
		r = cmd.InOrStdin()
	case file != "":
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open data file: %w", err)
		}
		defer f.Close()
		r = f
	default:
		return rules.Record{}, nil
	}

	dec := json.NewDecoder(r)
	dec.UseNumber()
	var record rules.Record
	if err := dec.Decode(&record); err != nil {
		return nil, fmt.Errorf("invalid data record: %w", err)
	}
	if record == nil {
		record = rules.Record{}
	}
	return record, nil
}
