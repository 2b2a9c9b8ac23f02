package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/cli"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/config"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/maintenance"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/rulefile"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/server"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/service"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/store"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/telemetry/health"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/telemetry/logging"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/telemetry/metrics"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/telemetry/tracing"
)

var serveFlags struct {
	listenAddress string
	logLevel      string
	rulesFile     string
	dryRun        bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the rule engine HTTP API",
	Long: `Start the rule engine HTTP API with the specified configuration.

On startup the rule file (rules.file) is synced into the store and, with
rules.watch, re-synced whenever it changes. Stored rules are re-validated on
the maintenance.integrity_schedule cron schedule.

Examples:
  # Start with defaults (SQLite store at data/rules.db, port 8080)
  ruleengine serve

  # Start with custom config
  ruleengine serve --config /etc/ruleengine/config.yaml

  # Override listen address and seed rules from a file
  ruleengine serve --listen 127.0.0.1:9000 --rules-file rules.yaml

  # Validate config without starting server
  ruleengine serve --dry-run`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	serveCmd.Flags().StringVar(&serveFlags.rulesFile, "rules-file", "", "override rule definition file")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Apply flag overrides
	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}
	if serveFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = serveFlags.logLevel
	}
	if serveFlags.rulesFile != "" {
		cfg.Rules.File = serveFlags.rulesFile
	}
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("", err.Error())
	}

	logger, err := newLogger(cfg.Telemetry.Logging, os.Stderr)
	if err != nil {
		return err
	}

	if serveFlags.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration valid")
		return nil
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(cfg.Telemetry.Metrics, registry)

	tracer, err := tracing.New(ctx, cfg.Telemetry.Tracing)
	if err != nil {
		return cli.NewCommandError("serve", fmt.Errorf("failed to initialize tracing: %w", err))
	}
	defer shutdownTracer(tracer, logger)

	st, err := store.New(cfg.Store, logger.Slog())
	if err != nil {
		return cli.NewCommandError("serve", fmt.Errorf("failed to open rule store: %w", err))
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("failed to close rule store", "error", err)
		}
	}()

	svc, err := service.New(service.Config{
		Store:   st,
		Rules:   cfg.Rules,
		Metrics: collector,
		Tracer:  tracer,
		Logger:  logger,
	})
	if err != nil {
		return cli.NewCommandError("serve", err)
	}

	if cfg.Rules.File != "" {
		watcher, err := startRuleFile(ctx, cfg, st, svc, collector, logger)
		if err != nil {
			return cli.NewCommandError("serve", err)
		}
		if watcher != nil {
			defer watcher.Stop()
		}
	}
	svc.RefreshRuleCount(ctx)

	integrity := maintenance.NewIntegrityChecker(st, collector, logger.Slog())
	scheduler := maintenance.NewScheduler(integrity, cfg.Maintenance, logger.Slog())
	if err := scheduler.Start(ctx); err != nil {
		return cli.NewCommandError("serve", err)
	}
	defer scheduler.Stop()
	if next := scheduler.NextRun(); next != nil {
		logger.Debug("integrity check scheduled", "next_run", next)
	}

	checker := health.New(cfg.Server.RequestTimeout)
	checker.RegisterCheck("store", health.StoreCheck(st))
	if cfg.Rules.File != "" {
		checker.RegisterCheck("rule_file", health.FileCheck(cfg.Rules.File))
	}

	srv := server.NewServer(cfg, svc, server.Options{
		Metrics: collector,
		Tracer:  tracer,
		Logger:  logger,
		Health:  checker,
		Version: health.VersionInfo{Version: Version, Commit: GitCommit, BuildTime: BuildDate},
	})

	logger.Info("rule engine starting",
		"version", Version,
		"address", cfg.Server.ListenAddress,
		"store", cfg.Store.Backend,
		"metrics", cfg.Telemetry.Metrics.Enabled,
		"tracing", tracer.Enabled(),
	)

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("serve", err)
	}
	return nil
}

// startRuleFile syncs the configured rule file and, when enabled, starts a
// watcher that re-syncs it on change. The returned watcher is nil when
// watching is off.
func startRuleFile(ctx context.Context, cfg *config.Config, st store.Store, svc *service.Service, collector *metrics.Collector, logger *logging.Logger) (*rulefile.Watcher, error) {
	reloader := rulefile.NewReloader(cfg.Rules.File, rulefile.NewLoader(newParser(cfg.Rules)), st, collector, logger.Slog())
	reloader.OnSynced = func(ctx context.Context, _ rulefile.SyncResult) {
		svc.RefreshRuleCount(ctx)
	}

	if _, err := reloader.Reload(ctx); err != nil {
		return nil, fmt.Errorf("failed to load rule file: %w", err)
	}

	if !cfg.Rules.Watch {
		return nil, nil
	}

	watcher, err := rulefile.NewWatcher(cfg.Rules.File, cfg.Rules.WatchDebounce, logger.Slog())
	if err != nil {
		return nil, err
	}

	go func() {
		err := watcher.Watch(ctx, func(ctx context.Context) error {
			_, err := reloader.Reload(ctx)
			return err
		})
		if err != nil {
			logger.Error("rule file watcher stopped", "error", err)
		}
	}()

	return watcher, nil
}

func shutdownTracer(tracer *tracing.Tracer, logger *logging.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := tracer.Shutdown(ctx); err != nil {
		logger.Warn("failed to flush traces", "error", err)
	}
}
