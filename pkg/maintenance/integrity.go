package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/rules/ast"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/store"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/telemetry/metrics"
)

// Failure describes a stored rule whose tree did not validate.
type Failure struct {
	RuleID string
	Name   string
	Err    error
}

// Report is the outcome of one integrity check.
type Report struct {
	Checked      int
	Failures     []Failure
	Checkpointed bool
	Duration     time.Duration
}

// OK reports whether every checked rule was valid.
func (r *Report) OK() bool {
	return len(r.Failures) == 0
}

// IntegrityChecker validates stored rule trees.
type IntegrityChecker struct {
	store   store.Store
	metrics *metrics.Collector
	logger  *slog.Logger
}

// NewIntegrityChecker creates a checker for st. collector may be nil.
func NewIntegrityChecker(st store.Store, collector *metrics.Collector, logger *slog.Logger) *IntegrityChecker {
	if logger == nil {
		logger = slog.Default()
	}
	return &IntegrityChecker{
		store:   st,
		metrics: collector,
		logger:  logger.With("component", "maintenance.integrity"),
	}
}

// Run lists every stored rule and validates its tree. Invalid rules are
// reported, not removed. When the store implements store.Checkpointer its
// write-ahead log is checkpointed afterwards.
//
// The returned error covers failures to read the store or checkpoint it;
// invalid rules are only listed in the report.
func (c *IntegrityChecker) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{}

	all, err := c.store.List(ctx)
	if err != nil {
		err = fmt.Errorf("failed to list rules: %w", err)
		c.metrics.RecordIntegrityCheck(0, err)
		return report, err
	}

	for _, rule := range all {
		if err := ctx.Err(); err != nil {
			c.metrics.RecordIntegrityCheck(len(report.Failures), err)
			return report, err
		}

		report.Checked++
		if err := ast.Validate(rule.Tree); err != nil {
			report.Failures = append(report.Failures, Failure{RuleID: rule.ID, Name: rule.Name, Err: err})
			c.logger.Warn("stored rule failed integrity check",
				"rule_id", rule.ID,
				"rule_name", rule.Name,
				"error", err,
			)
		}
	}

	if cp, ok := c.store.(store.Checkpointer); ok {
		if err := cp.Checkpoint(ctx); err != nil {
			err = fmt.Errorf("failed to checkpoint store: %w", err)
			c.metrics.RecordIntegrityCheck(len(report.Failures), err)
			return report, err
		}
		report.Checkpointed = true
	}

	report.Duration = time.Since(start)
	c.metrics.RecordIntegrityCheck(len(report.Failures), nil)
	c.metrics.SetRulesStored(report.Checked)

	return report, nil
}
