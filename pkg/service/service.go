package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/config"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/rules"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/rules/ast"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/rules/evaluator"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/rules/parser"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/store"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/telemetry/logging"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/telemetry/metrics"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/telemetry/tracing"
)

// ErrInvalidInput is returned for requests missing a required field.
var ErrInvalidInput = errors.New("invalid input")

// Config holds the collaborators of a Service. Only Store is required.
type Config struct {
	Store   store.Store
	Rules   config.RulesConfig
	Metrics *metrics.Collector
	Tracer  *tracing.Tracer
	Logger  *logging.Logger
}

// Service creates, combines, evaluates and manages stored rules. It is safe
// for concurrent use.
type Service struct {
	store     store.Store
	parser    *parser.Parser
	evaluator *evaluator.Evaluator
	metrics   *metrics.Collector
	tracer    *tracing.Tracer
	logger    *logging.Logger
}

// New creates a Service.
func New(cfg Config) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("service requires a store")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.With("component", "service")

	p := parser.NewParser()
	if cfg.Rules.MaxLength > 0 {
		p = p.WithMaxLength(cfg.Rules.MaxLength)
	}
	if cfg.Rules.MaxConditions > 0 {
		p = p.WithMaxConditions(cfg.Rules.MaxConditions)
	}

	tracer := cfg.Tracer
	if tracer == nil {
		tracer = tracing.Noop()
	}

	return &Service{
		store:     cfg.Store,
		parser:    p,
		evaluator: evaluator.New(logger.Slog()),
		metrics:   cfg.Metrics,
		tracer:    tracer,
		logger:    logger,
	}, nil
}

// Store returns the underlying rule store.
func (s *Service) Store() store.Store {
	return s.store
}

// Parse converts expression into a tree using the configured limits.
func (s *Service) Parse(ctx context.Context, expression string) (*ast.Node, error) {
	_, span := s.tracer.Start(ctx, "rules.parse")
	tree, err := s.parser.Parse(expression)
	if err == nil {
		span.SetAttributes(tracing.AttrRuleConditions.Int(ast.CountOperands(tree)))
	}
	tracing.End(span, err)

	s.metrics.RecordParse(err)
	if err != nil {
		s.logger.DebugContext(ctx, "rule rejected by parser", "error", err)
	}
	return tree, err
}

// CreateRule parses expression and stores it under name.
func (s *Service) CreateRule(ctx context.Context, name, expression string) (*rules.Rule, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: rule name is required", ErrInvalidInput)
	}

	tree, err := s.Parse(ctx, expression)
	if err != nil {
		return nil, err
	}

	rule := rules.NewRuleFromTree(name, strings.TrimSpace(expression), tree)
	if err := s.save(ctx, rule); err != nil {
		return nil, err
	}

	s.logger.InfoContext(logging.WithRuleID(ctx, rule.ID), "rule created",
		"name", rule.Name,
		"conditions", rule.Conditions(),
	)
	return rule, nil
}

// CombineRules loads the rules with the given IDs, in order, merges their
// trees with AND and stores the result under name. IDs are trimmed; an
// unknown ID fails with store.ErrRuleNotFound.
func (s *Service) CombineRules(ctx context.Context, ids []string, name string) (*rules.Rule, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: combined rule name is required", ErrInvalidInput)
	}

	ctx, span := s.tracer.Start(ctx, "rules.combine", tracing.AttrRuleCount.Int(len(ids)))
	combined, err := s.combine(ctx, ids, name)
	if combined != nil {
		span.SetAttributes(tracing.RuleAttributes(combined.ID, combined.Name, combined.Conditions())...)
	}
	tracing.End(span, err)

	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(logging.WithRuleID(ctx, combined.ID), "rules combined",
		"name", combined.Name,
		"sources", combined.Sources,
		"conditions", combined.Conditions(),
	)
	return combined, nil
}

func (s *Service) combine(ctx context.Context, ids []string, name string) (*rules.Rule, error) {
	sources := make([]*rules.Rule, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		rule, err := s.get(ctx, id)
		if err != nil {
			return nil, err
		}
		sources = append(sources, rule)
	}

	combined, err := rules.CombineRules(name, sources...)
	s.metrics.RecordCombine(err)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, combined); err != nil {
		return nil, err
	}
	return combined, nil
}

// EvaluateRule evaluates the stored rule with the given ID against record.
func (s *Service) EvaluateRule(ctx context.Context, id string, record rules.Record) (bool, error) {
	rule, err := s.get(ctx, strings.TrimSpace(id))
	if err != nil {
		return false, err
	}
	return s.evaluate(logging.WithRuleID(ctx, rule.ID), rule.ID, rule.Tree, record)
}

// EvaluateExpression parses expression and evaluates it against record
// without storing anything.
func (s *Service) EvaluateExpression(ctx context.Context, expression string, record rules.Record) (bool, error) {
	tree, err := s.Parse(ctx, expression)
	if err != nil {
		return false, err
	}
	return s.evaluate(ctx, "", tree, record)
}

// Explain evaluates the stored rule with the given ID and returns the
// per-condition trace alongside the result.
func (s *Service) Explain(ctx context.Context, id string, record rules.Record) (bool, []evaluator.TraceEntry, error) {
	rule, err := s.get(ctx, strings.TrimSpace(id))
	if err != nil {
		return false, nil, err
	}
	return s.explain(rule.Tree, record)
}

// ExplainExpression is Explain for an ad-hoc expression.
func (s *Service) ExplainExpression(ctx context.Context, expression string, record rules.Record) (bool, []evaluator.TraceEntry, error) {
	tree, err := s.Parse(ctx, expression)
	if err != nil {
		return false, nil, err
	}
	return s.explain(tree, record)
}

func (s *Service) explain(tree *ast.Node, record rules.Record) (bool, []evaluator.TraceEntry, error) {
	start := time.Now()
	result, trace, err := s.evaluator.EvaluateWithTrace(tree, record)
	s.metrics.RecordEvaluation(result, err, time.Since(start))
	return result, trace, err
}

func (s *Service) evaluate(ctx context.Context, id string, tree *ast.Node, record rules.Record) (bool, error) {
	attrs := tracing.RuleAttributes(id, "", ast.CountOperands(tree))
	attrs = append(attrs, tracing.AttrRecordSize.Int(len(record)))
	_, span := s.tracer.Start(ctx, "rules.evaluate", attrs...)

	start := time.Now()
	result, err := s.evaluator.Evaluate(tree, record)
	duration := time.Since(start)

	if err == nil {
		span.SetAttributes(tracing.AttrResult.Bool(result))
	}
	tracing.End(span, err)
	s.metrics.RecordEvaluation(result, err, duration)

	if err != nil {
		s.logger.WarnContext(ctx, "rule evaluation failed", "error", err)
		return false, err
	}

	s.logger.DebugContext(ctx, "rule evaluated",
		"result", result,
		"duration", duration,
		"user_data", map[string]any(record),
	)
	return result, nil
}

// GetRule returns the stored rule with the given ID.
func (s *Service) GetRule(ctx context.Context, id string) (*rules.Rule, error) {
	return s.get(ctx, strings.TrimSpace(id))
}

// GetRuleByName returns the stored rule with the given name.
func (s *Service) GetRuleByName(ctx context.Context, name string) (*rules.Rule, error) {
	rule, err := s.store.GetByName(ctx, name)
	if err != nil {
		s.recordStoreError("get_by_name", err)
		return nil, err
	}
	return rule, nil
}

// ListRules returns every stored rule, oldest first.
func (s *Service) ListRules(ctx context.Context) ([]*rules.Rule, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		s.recordStoreError("list", err)
		return nil, err
	}
	return list, nil
}

// DeleteRule removes the stored rule with the given ID. Combined rules built
// from it are not affected; they hold their own copy of the tree.
func (s *Service) DeleteRule(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if err := s.store.Delete(ctx, id); err != nil {
		s.recordStoreError("delete", err)
		return err
	}
	s.refreshRuleCount(ctx)
	s.logger.InfoContext(logging.WithRuleID(ctx, id), "rule deleted")
	return nil
}

func (s *Service) get(ctx context.Context, id string) (*rules.Rule, error) {
	rule, err := s.store.Get(ctx, id)
	if err != nil {
		s.recordStoreError("get", err)
		return nil, err
	}
	return rule, nil
}

func (s *Service) save(ctx context.Context, rule *rules.Rule) error {
	if err := s.store.Save(ctx, rule); err != nil {
		s.recordStoreError("save", err)
		return err
	}
	s.refreshRuleCount(ctx)
	return nil
}

// recordStoreError counts backend failures. Lookup misses and name clashes
// are caller errors, not store errors.
func (s *Service) recordStoreError(op string, err error) {
	if errors.Is(err, store.ErrRuleNotFound) || errors.Is(err, store.ErrDuplicateName) {
		return
	}
	s.metrics.RecordStoreError(op)
	s.logger.Error("store operation failed", "operation", op, "error", err)
}

func (s *Service) refreshRuleCount(ctx context.Context) {
	if !s.metrics.Enabled() {
		return
	}
	n, err := s.store.Count(ctx)
	if err != nil {
		s.recordStoreError("count", err)
		return
	}
	s.metrics.SetRulesStored(n)
}

// RefreshRuleCount updates the stored rules gauge from the store.
func (s *Service) RefreshRuleCount(ctx context.Context) {
	s.refreshRuleCount(ctx)
}
