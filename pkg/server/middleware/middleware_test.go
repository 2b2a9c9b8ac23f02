package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/config"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/telemetry/logging"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/telemetry/metrics"
)

func newTestLogger(t *testing.T) (*logging.Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger, err := logging.New(logging.Config{Level: "debug", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("logging.New() error = %v", err)
	}
	return logger, &buf
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}

func TestCORSMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		cfg        config.CORSConfig
		method     string
		origin     string
		preflight  bool
		wantOrigin string
		wantStatus int
	}{
		{
			name:       "specific origin allowed",
			cfg:        config.CORSConfig{Enabled: true, AllowedOrigins: []string{"https://rules.example.com"}},
			method:     http.MethodGet,
			origin:     "https://rules.example.com",
			wantOrigin: "https://rules.example.com",
			wantStatus: http.StatusOK,
		},
		{
			name:       "wildcard",
			cfg:        config.CORSConfig{Enabled: true, AllowedOrigins: []string{"*"}},
			method:     http.MethodPost,
			origin:     "http://localhost:5173",
			wantOrigin: "*",
			wantStatus: http.StatusOK,
		},
		{
			name:       "wildcard with credentials echoes origin",
			cfg:        config.CORSConfig{Enabled: true, AllowedOrigins: []string{"*"}, AllowCredentials: true},
			method:     http.MethodGet,
			origin:     "http://localhost:5173",
			wantOrigin: "http://localhost:5173",
			wantStatus: http.StatusOK,
		},
		{
			name:       "disallowed origin",
			cfg:        config.CORSConfig{Enabled: true, AllowedOrigins: []string{"https://rules.example.com"}},
			method:     http.MethodGet,
			origin:     "https://evil.example.com",
			wantOrigin: "",
			wantStatus: http.StatusOK,
		},
		{
			name:       "disabled",
			cfg:        config.CORSConfig{Enabled: false, AllowedOrigins: []string{"*"}},
			method:     http.MethodGet,
			origin:     "https://rules.example.com",
			wantOrigin: "",
			wantStatus: http.StatusOK,
		},
		{
			name: "preflight",
			cfg: config.CORSConfig{
				Enabled:        true,
				AllowedOrigins: []string{"*"},
				AllowedMethods: []string{"GET", "POST"},
				AllowedHeaders: []string{"Content-Type"},
				MaxAge:         600,
			},
			method:     http.MethodOptions,
			origin:     "http://localhost:5173",
			preflight:  true,
			wantOrigin: "*",
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/rules", nil)
			req.Header.Set("Origin", tt.origin)
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			rec := httptest.NewRecorder()

			CORSMiddleware(tt.cfg)(okHandler()).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if tt.preflight {
				if rec.Header().Get("Access-Control-Allow-Methods") != "GET, POST" {
					t.Errorf("Access-Control-Allow-Methods = %q", rec.Header().Get("Access-Control-Allow-Methods"))
				}
				if rec.Header().Get("Access-Control-Max-Age") != "600" {
					t.Errorf("Access-Control-Max-Age = %q", rec.Header().Get("Access-Control-Max-Age"))
				}
			}
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logging.GetRequestID(r.Context())
	}))

	t.Run("generates ID", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		header := rec.Header().Get(RequestIDHeader)
		if len(header) != 36 {
			t.Errorf("generated request ID %q is not a UUID", header)
		}
		if seen != header {
			t.Errorf("context ID = %q, header = %q", seen, header)
		}
	})

	t.Run("reuses client ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "client-123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if seen != "client-123" || rec.Header().Get(RequestIDHeader) != "client-123" {
			t.Errorf("request ID = %q, want client-123", seen)
		}
	})

	t.Run("replaces oversized client ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("x", 500))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if len(seen) != 36 {
			t.Errorf("oversized ID was not replaced: %d bytes", len(seen))
		}
	})
}

func TestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{"success", http.StatusOK, "INFO"},
		{"client error", http.StatusNotFound, "WARN"},
		{"server error", http.StatusInternalServerError, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newTestLogger(t)
			handler := RequestIDMiddleware(LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})))

			req := httptest.NewRequest(http.MethodPost, "/api/evaluate_rule", nil)
			req.Header.Set(RequestIDHeader, "req-42")
			handler.ServeHTTP(httptest.NewRecorder(), req)

			var completed map[string]any
			for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
				var entry map[string]any
				if err := json.Unmarshal([]byte(line), &entry); err != nil {
					t.Fatalf("invalid log line %q: %v", line, err)
				}
				if entry["msg"] == "request completed" {
					completed = entry
				}
			}
			if completed == nil {
				t.Fatalf("no completion log in %s", buf.String())
			}
			if completed["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %s", completed["level"], tt.wantLevel)
			}
			if completed["status"] != float64(tt.status) {
				t.Errorf("status = %v, want %d", completed["status"], tt.status)
			}
			if completed["request_id"] != "req-42" {
				t.Errorf("request_id = %v, want req-42", completed["request_id"])
			}
		})
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	logger, buf := newTestLogger(t)
	handler := RecoveryMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("evaluator exploded")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body["message"] == "" || strings.Contains(body["error"], "exploded") {
		t.Errorf("body = %v, want generic error", body)
	}
	if !strings.Contains(buf.String(), "panic in handler") {
		t.Error("panic was not logged")
	}
}

func TestBodyLimitMiddleware(t *testing.T) {
	var readErr error
	handler := BodyLimitMiddleware(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	t.Run("declared length over limit", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789")))
		if rec.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("status = %d, want 413", rec.Code)
		}
	})

	t.Run("streamed body over limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", io.NopCloser(strings.NewReader("0123456789")))
		req.ContentLength = -1
		handler.ServeHTTP(httptest.NewRecorder(), req)

		var maxErr *http.MaxBytesError
		if !errors.As(readErr, &maxErr) {
			t.Errorf("read error = %v, want *http.MaxBytesError", readErr)
		}
	})

	t.Run("within limit", func(t *testing.T) {
		readErr = nil
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("small")))
		if readErr != nil {
			t.Errorf("read error = %v", readErr)
		}
	})

	t.Run("disabled", func(t *testing.T) {
		h := BodyLimitMiddleware(0)(okHandler())
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 100))))
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}

func TestMetricsMiddleware(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(config.MetricsConfig{Enabled: true, Namespace: "ruleengine"}, registry)

	handler := MetricsMiddleware(collector, "GET /api/rules/{id}")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/rules/abc", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/rules/def", nil))

	n, err := testutil.GatherAndCount(registry, "ruleengine_http_requests_total")
	if err != nil {
		t.Fatalf("GatherAndCount() error = %v", err)
	}
	if n != 1 {
		t.Errorf("got %d series, want 1 (route label must not include the ID)", n)
	}
}

func TestMetricsMiddleware_Disabled(t *testing.T) {
	h := okHandler()
	wrapped := MetricsMiddleware(nil, "/")(h)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
