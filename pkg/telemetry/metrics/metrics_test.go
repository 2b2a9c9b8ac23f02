package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/config"
)

func testConfig() config.MetricsConfig {
	return config.MetricsConfig{Enabled: true, Namespace: "test", Path: "/metrics"}
}

func TestCollector_NewCollector(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := NewCollector(testConfig(), registry)

	if collector.Registry() != registry {
		t.Error("Collector registry not set correctly")
	}
	if !collector.Enabled() {
		t.Error("expected enabled collector")
	}
}

func TestCollector_DefaultNamespace(t *testing.T) {
	collector := NewCollector(config.MetricsConfig{Enabled: true}, nil)
	collector.RecordParse(nil)

	if got := testutil.ToFloat64(collector.ruleMetrics.parseTotal.WithLabelValues(StatusSuccess)); got != 1 {
		t.Errorf("parse_total = %v, want 1", got)
	}
	n, err := testutil.GatherAndCount(collector.Registry(), "ruleengine_rules_parse_total")
	if err != nil || n != 1 {
		t.Errorf("GatherAndCount() = %d, %v", n, err)
	}
}

func TestCollector_RecordParseAndCombine(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.RecordParse(nil)
	collector.RecordParse(nil)
	collector.RecordParse(errors.New("bad rule"))
	collector.RecordCombine(errors.New("need two"))

	rm := collector.ruleMetrics
	if got := testutil.ToFloat64(rm.parseTotal.WithLabelValues(StatusSuccess)); got != 2 {
		t.Errorf("parse success = %v, want 2", got)
	}
	if got := testutil.ToFloat64(rm.parseTotal.WithLabelValues(StatusError)); got != 1 {
		t.Errorf("parse error = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rm.combineTotal.WithLabelValues(StatusError)); got != 1 {
		t.Errorf("combine error = %v, want 1", got)
	}
}

func TestCollector_RecordEvaluation(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	tests := []struct {
		result bool
		err    error
		label  string
	}{
		{true, nil, ResultTrue},
		{false, nil, ResultFalse},
		{false, errors.New("unsupported operator"), ResultError},
		{true, errors.New("error wins over result"), ResultError},
	}
	for _, tt := range tests {
		collector.RecordEvaluation(tt.result, tt.err, 50*time.Microsecond)
	}

	rm := collector.ruleMetrics
	if got := testutil.ToFloat64(rm.evaluationsTotal.WithLabelValues(ResultTrue)); got != 1 {
		t.Errorf("true = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rm.evaluationsTotal.WithLabelValues(ResultFalse)); got != 1 {
		t.Errorf("false = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rm.evaluationsTotal.WithLabelValues(ResultError)); got != 2 {
		t.Errorf("error = %v, want 2", got)
	}
	if n := testutil.CollectAndCount(rm.evaluationDuration); n != 1 {
		t.Errorf("duration histogram series = %d, want 1", n)
	}
}

func TestCollector_StoreMetrics(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.SetRulesStored(7)
	collector.RecordStoreError("save")
	collector.RecordIntegrityCheck(2, nil)
	collector.RecordIntegrityCheck(0, errors.New("list failed"))
	collector.RecordFileReload(nil)
	collector.RecordFileReload(errors.New("bad yaml"))

	sm := collector.storeMetrics
	if got := testutil.ToFloat64(sm.rulesStored); got != 7 {
		t.Errorf("rules stored = %v, want 7", got)
	}
	if got := testutil.ToFloat64(sm.errorsTotal.WithLabelValues("save")); got != 1 {
		t.Errorf("save errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(sm.integrityFailures); got != 2 {
		t.Errorf("integrity failures = %v, want 2", got)
	}
	if got := testutil.ToFloat64(sm.integrityChecks.WithLabelValues(StatusError)); got != 1 {
		t.Errorf("integrity check errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(sm.fileReloads.WithLabelValues(StatusSuccess)); got != 1 {
		t.Errorf("file reload success = %v, want 1", got)
	}
}

func TestCollector_RecordHTTPRequest(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.RecordHTTPRequest("POST", "/api/create_rule", 201, time.Millisecond)
	collector.RecordHTTPRequest("POST", "/api/create_rule", 400, time.Millisecond)

	hm := collector.httpMetrics
	if got := testutil.ToFloat64(hm.requestsTotal.WithLabelValues("POST", "/api/create_rule", "201")); got != 1 {
		t.Errorf("201 count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(hm.requestsTotal.WithLabelValues("POST", "/api/create_rule", "400")); got != 1 {
		t.Errorf("400 count = %v, want 1", got)
	}
}

func TestCollector_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	collector := NewCollector(cfg, nil)

	collector.RecordParse(nil)
	collector.RecordEvaluation(true, nil, time.Millisecond)
	collector.SetRulesStored(3)
	collector.RecordHTTPRequest("GET", "/", 200, time.Millisecond)

	n, err := testutil.GatherAndCount(collector.Registry())
	if err != nil {
		t.Fatalf("GatherAndCount() error = %v", err)
	}
	if n != 0 {
		t.Errorf("disabled collector registered %d series", n)
	}
}

func TestCollector_Nil(t *testing.T) {
	var collector *Collector

	collector.RecordParse(nil)
	collector.RecordCombine(nil)
	collector.RecordEvaluation(false, nil, 0)
	collector.SetRulesStored(1)
	collector.RecordStoreError("get")
	collector.RecordIntegrityCheck(1, nil)
	collector.RecordFileReload(nil)
	collector.RecordHTTPRequest("GET", "/", 200, 0)

	if collector.Enabled() {
		t.Error("nil collector should report disabled")
	}
}

func TestCollector_Handler(t *testing.T) {
	collector := NewCollector(testConfig(), nil)
	collector.RecordEvaluation(true, nil, time.Millisecond)

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `test_rules_evaluations_total{result="true"} 1`) {
		t.Errorf("metrics output missing evaluation counter:\n%s", body)
	}
}

func TestCollector_SeparateRegistries(t *testing.T) {
	// Two collectors must not panic on duplicate registration.
	NewCollector(testConfig(), nil)
	NewCollector(testConfig(), nil)
}
