package handlers

import (
	"net/http"
	"strconv"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/service"
)

// RulesHandler serves the rule API on top of a Service.
type RulesHandler struct {
	service *service.Service
}

// NewRulesHandler creates a rule API handler.
func NewRulesHandler(svc *service.Service) *RulesHandler {
	return &RulesHandler{service: svc}
}

// Welcome answers GET / with a plain greeting.
func (h *RulesHandler) Welcome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Welcome to the Rule Engine API"))
}

// CreateRule handles POST /api/create_rule.
func (h *RulesHandler) CreateRule(w http.ResponseWriter, r *http.Request) {
	const failure = "Error creating rule"

	var req CreateRuleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, failure, err)
		return
	}

	rule, err := h.service.CreateRule(r.Context(), req.RuleName, req.RuleString)
	if err != nil {
		writeError(w, failure, err)
		return
	}

	writeJSON(w, http.StatusCreated, CreatedResponse{
		Message: "Rule created successfully",
		RuleID:  rule.ID,
		Rule:    newRuleResult(rule),
	})
}

// CombineRules handles POST /api/combine_rules.
func (h *RulesHandler) CombineRules(w http.ResponseWriter, r *http.Request) {
	const failure = "Error combining rules"

	var req CombineRulesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, failure, err)
		return
	}

	rule, err := h.service.CombineRules(r.Context(), req.RuleIDs, req.CombinedRuleName)
	if err != nil {
		writeError(w, failure, err)
		return
	}

	writeJSON(w, http.StatusCreated, CreatedResponse{
		Message: "Combined rule created successfully",
		RuleID:  rule.ID,
		Rule:    newRuleResult(rule),
	})
}

// EvaluateRule handles POST /api/evaluate_rule. With ?explain=true the
// response includes the outcome of every condition.
func (h *RulesHandler) EvaluateRule(w http.ResponseWriter, r *http.Request) {
	const failure = "Error evaluating rule"

	var req EvaluateRuleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, failure, err)
		return
	}

	resp := EvaluationResponse{Message: "Evaluation complete"}
	var err error
	if explain, _ := strconv.ParseBool(r.URL.Query().Get("explain")); explain {
		resp.Result, resp.Trace, err = h.service.Explain(r.Context(), req.RuleID, req.UserData)
	} else {
		resp.Result, err = h.service.EvaluateRule(r.Context(), req.RuleID, req.UserData)
	}
	if err != nil {
		writeError(w, failure, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Evaluate handles POST /api/evaluate: parse and evaluate rule text without
// storing it. ?explain=true works as for EvaluateRule.
func (h *RulesHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	const failure = "Error evaluating rule"

	var req EvaluateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, failure, err)
		return
	}

	resp := EvaluationResponse{Message: "Evaluation complete"}
	var err error
	if explain, _ := strconv.ParseBool(r.URL.Query().Get("explain")); explain {
		resp.Result, resp.Trace, err = h.service.ExplainExpression(r.Context(), req.RuleString, req.UserData)
	} else {
		resp.Result, err = h.service.EvaluateExpression(r.Context(), req.RuleString, req.UserData)
	}
	if err != nil {
		writeError(w, failure, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListRules handles GET /api/rules.
func (h *RulesHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListRules(r.Context())
	if err != nil {
		writeError(w, "Error listing rules", err)
		return
	}

	resp := RuleListResponse{Rules: make([]*RuleResult, 0, len(list)), Count: len(list)}
	for _, rule := range list {
		resp.Rules = append(resp.Rules, newRuleResult(rule))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetRule handles GET /api/rules/{id}.
func (h *RulesHandler) GetRule(w http.ResponseWriter, r *http.Request) {
	rule, err := h.service.GetRule(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, "Error fetching rule", err)
		return
	}
	writeJSON(w, http.StatusOK, newRuleResult(rule))
}

// DeleteRule handles DELETE /api/rules/{id}.
func (h *RulesHandler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteRule(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, "Error deleting rule", err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Rule deleted successfully"})
}
