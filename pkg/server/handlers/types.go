package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/rules"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/rules/ast"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/rules/evaluator"
)

// CreateRuleRequest is the body of POST /api/create_rule.
type CreateRuleRequest struct {
	RuleName   string `json:"rule_name"`
	RuleString string `json:"rule_string"`
}

// CombineRulesRequest is the body of POST /api/combine_rules.
type CombineRulesRequest struct {
	RuleIDs          RuleIDs `json:"rule_ids"`
	CombinedRuleName string  `json:"combined_rule_name"`
}

// EvaluateRuleRequest is the body of POST /api/evaluate_rule.
type EvaluateRuleRequest struct {
	RuleID   string       `json:"rule_id"`
	UserData rules.Record `json:"user_data"`
}

// EvaluateRequest is the body of POST /api/evaluate.
type EvaluateRequest struct {
	RuleString string       `json:"rule_string"`
	UserData   rules.Record `json:"user_data"`
}

// RuleIDs accepts either a JSON array of IDs or one comma-separated string.
type RuleIDs []string

// UnmarshalJSON implements json.Unmarshaler.
func (ids *RuleIDs) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*ids = nil
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*ids = list
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return fmt.Errorf("rule_ids must be an array of strings or a comma-separated string")
	}
	*ids = nil
	for _, id := range strings.Split(joined, ",") {
		if id = strings.TrimSpace(id); id != "" {
			*ids = append(*ids, id)
		}
	}
	return nil
}

// CreatedResponse answers rule creation and combination. The ruleId key
// matches what the rule editor frontend reads.
type CreatedResponse struct {
	Message string      `json:"message"`
	RuleID  string      `json:"ruleId"`
	Rule    *RuleResult `json:"rule,omitempty"`
}

// EvaluationResponse answers rule evaluation.
type EvaluationResponse struct {
	Message string                 `json:"message"`
	Result  bool                   `json:"result"`
	Trace   []evaluator.TraceEntry `json:"trace,omitempty"`
}

// RuleResult is the API view of a stored rule.
type RuleResult struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Expression string    `json:"expression"`
	Tree       *ast.Node `json:"tree"`
	Sources    []string  `json:"sources,omitempty"`
	Conditions int       `json:"conditions"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// RuleListResponse answers GET /api/rules.
type RuleListResponse struct {
	Rules []*RuleResult `json:"rules"`
	Count int           `json:"count"`
}

// MessageResponse carries a bare confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Message string       `json:"message"`
	Error   string       `json:"error"`
	Details *ErrorDetail `json:"details,omitempty"`
}

// ErrorDetail locates a rule core error in the input.
type ErrorDetail struct {
	Type       string `json:"type"`
	Segment    string `json:"segment,omitempty"`
	Index      int    `json:"index,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func newRuleResult(r *rules.Rule) *RuleResult {
	return &RuleResult{
		ID:         r.ID,
		Name:       r.Name,
		Expression: r.Expression,
		Tree:       r.Tree,
		Sources:    r.Sources,
		Conditions: r.Conditions(),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}
