package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/config"
)

// Scheduler runs the integrity check on a cron schedule.
type Scheduler struct {
	checker  *IntegrityChecker
	schedule string
	cron     *cron.Cron
	mu       sync.Mutex
	logger   *slog.Logger
	running  bool
}

// NewScheduler creates a scheduler for checker using cfg.IntegritySchedule.
// A disabled config leaves the schedule empty so that Start is a no-op.
func NewScheduler(checker *IntegrityChecker, cfg config.MaintenanceConfig, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	schedule := cfg.IntegritySchedule
	if !cfg.Enabled {
		schedule = ""
	}
	return &Scheduler{
		checker:  checker,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger.With("component", "maintenance.scheduler"),
	}
}

// Start validates the schedule, registers the job and starts the cron
// runner. The scheduler stops itself when ctx is cancelled. An empty
// schedule is not an error; the scheduler simply never runs.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	if s.schedule == "" {
		s.logger.Info("integrity schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}

	if _, err := s.cron.AddFunc(s.schedule, func() {
		s.runCheck(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule integrity check: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("integrity scheduler started", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// RunNow runs one check immediately, outside the schedule.
func (s *Scheduler) RunNow(ctx context.Context) (*Report, error) {
	return s.checker.Run(ctx)
}

func (s *Scheduler) runCheck(ctx context.Context) {
	s.logger.Debug("starting scheduled integrity check")

	report, err := s.checker.Run(ctx)
	if err != nil {
		s.logger.Error("scheduled integrity check failed", "error", err)
		return
	}

	if !report.OK() {
		s.logger.Warn("integrity check found invalid rules",
			"checked", report.Checked,
			"failures", len(report.Failures),
		)
		return
	}

	s.logger.Debug("integrity check completed",
		"checked", report.Checked,
		"checkpointed", report.Checkpointed,
		"duration", report.Duration,
	)
}

// Stop stops the scheduler and waits for a running check to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		<-s.cron.Stop().Done()
		s.running = false
		s.logger.Info("integrity scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// NextRun returns the next scheduled check time, or nil when nothing is
// scheduled.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}

	next := entries[0].Next
	return &next
}
