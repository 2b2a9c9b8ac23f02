package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/config"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/telemetry/logging"
)

func TestNew_Disabled(t *testing.T) {
	tracer, err := New(context.Background(), config.TracingConfig{Enabled: false})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if tracer.Enabled() {
		t.Error("Enabled() = true, want false")
	}

	_, span := tracer.Start(context.Background(), "rules.parse")
	if span.IsRecording() {
		t.Error("span from disabled tracer is recording")
	}
	span.End()

	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNew_InvalidSampler(t *testing.T) {
	_, err := New(context.Background(), config.TracingConfig{
		Enabled:  true,
		Sampler:  "sometimes",
		Endpoint: "localhost:4317",
	})
	if err == nil {
		t.Fatal("New() error = nil, want sampler error")
	}
}

func TestNew_MissingEndpoint(t *testing.T) {
	_, err := New(context.Background(), config.TracingConfig{
		Enabled: true,
		Sampler: SamplerAlways,
	})
	if err == nil {
		t.Fatal("New() error = nil, want endpoint error")
	}
}

func TestNilTracer(t *testing.T) {
	var tracer *Tracer

	_, span := tracer.Start(context.Background(), "rules.evaluate")
	span.End()

	if tracer.Enabled() {
		t.Error("nil tracer reports enabled")
	}
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestTracer_RecordsSpans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tracer := NewWithExporter(exporter, nil)
	defer tracer.Shutdown(context.Background())

	ctx, parent := tracer.Start(context.Background(), "rules.combine", AttrRuleCount.Int(2))
	_, child := tracer.Start(ctx, "rules.parse", RuleAttributes("r-1", "adults", 3)...)
	End(child, nil)
	End(parent, errors.New("boom"))

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}

	byName := map[string]tracetest.SpanStub{}
	for _, s := range spans {
		byName[s.Name] = s
	}

	parse := byName["rules.parse"]
	combine := byName["rules.combine"]
	if parse.Parent.SpanID() != combine.SpanContext.SpanID() {
		t.Error("rules.parse is not a child of rules.combine")
	}
	if parse.Status.Code != codes.Ok {
		t.Errorf("parse status = %v, want Ok", parse.Status.Code)
	}
	if combine.Status.Code != codes.Error {
		t.Errorf("combine status = %v, want Error", combine.Status.Code)
	}

	attrs := map[string]bool{}
	for _, kv := range parse.Attributes {
		attrs[string(kv.Key)] = true
	}
	for _, key := range []string{"rule.id", "rule.name", "rule.conditions"} {
		if !attrs[key] {
			t.Errorf("missing attribute %s", key)
		}
	}
}

func TestRuleAttributes_OmitsEmpty(t *testing.T) {
	attrs := RuleAttributes("", "", 1)
	if len(attrs) != 1 {
		t.Fatalf("got %d attributes, want 1", len(attrs))
	}
	if attrs[0].Key != AttrRuleConditions {
		t.Errorf("key = %s, want %s", attrs[0].Key, AttrRuleConditions)
	}
}

func TestTraceID_NoSpan(t *testing.T) {
	if got := TraceID(context.Background()); got != "" {
		t.Errorf("TraceID() = %q, want empty", got)
	}
}

func TestCreateSampler(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		ratio    float64
		wantErr  bool
	}{
		{"always", SamplerAlways, 0, false},
		{"never", SamplerNever, 0, false},
		{"ratio", SamplerRatio, 0.25, false},
		{"ratio lower bound", SamplerRatio, 0, false},
		{"ratio upper bound", SamplerRatio, 1, false},
		{"ratio too high", SamplerRatio, 1.5, true},
		{"ratio negative", SamplerRatio, -0.1, true},
		{"unknown", "random", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sampler, err := createSampler(tt.strategy, tt.ratio)
			if (err != nil) != tt.wantErr {
				t.Fatalf("createSampler() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && sampler == nil {
				t.Error("createSampler() returned nil sampler")
			}
		})
	}
}

func TestNeverSampler_DropsSpans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	sampler, err := createSampler(SamplerNever, 0)
	if err != nil {
		t.Fatal(err)
	}
	tracer := NewWithExporter(exporter, sampler)
	defer tracer.Shutdown(context.Background())

	_, span := tracer.Start(context.Background(), "rules.evaluate")
	span.End()

	if n := len(exporter.GetSpans()); n != 0 {
		t.Errorf("got %d spans, want 0", n)
	}
}

func TestHTTPMiddleware_ContinuesIncomingTrace(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tracer := NewWithExporter(exporter, sdktrace.AlwaysSample())
	defer tracer.Shutdown(context.Background())

	const incomingTrace = "4bf92f3577b34da6a3ce929d0e0e4736"

	var seen string
	handler := tracer.HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = TraceID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/evaluate", nil)
	req.Header.Set("traceparent", "00-"+incomingTrace+"-00f067aa0ba902b7-01")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != incomingTrace {
		t.Errorf("handler trace ID = %q, want %q", seen, incomingTrace)
	}
	if got := rec.Header().Get("X-Trace-ID"); got != incomingTrace {
		t.Errorf("X-Trace-ID = %q, want %q", got, incomingTrace)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Name != "POST /api/evaluate" {
		t.Errorf("span name = %q", spans[0].Name)
	}
}

func TestHTTPMiddleware_AddsTraceIDToLogContext(t *testing.T) {
	tracer := NewWithExporter(tracetest.NewInMemoryExporter(), nil)
	defer tracer.Shutdown(context.Background())

	var logged, traced string
	handler := tracer.HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logged = logging.GetTraceID(r.Context())
		traced = TraceID(r.Context())
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	if logged == "" || logged != traced {
		t.Errorf("logging trace ID = %q, span trace ID = %q", logged, traced)
	}
}
