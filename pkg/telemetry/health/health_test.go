package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/store"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		want    time.Duration
	}{
		{"default timeout", 0, DefaultTimeout},
		{"negative timeout", -time.Second, DefaultTimeout},
		{"custom timeout", 10 * time.Second, 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(tt.timeout).timeout; got != tt.want {
				t.Errorf("timeout = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegisterCheck(t *testing.T) {
	checker := New(time.Second)
	checker.RegisterCheck("store", func(context.Context) error { return nil })
	checker.RegisterCheck("rule_file", func(context.Context) error { return nil })
	checker.RegisterCheck("store", func(context.Context) error { return errors.New("replaced") })

	if got, want := checker.Names(), []string{"rule_file", "store"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	status := checker.CheckReadiness(context.Background())
	if status.Checks["store"].Message != "replaced" {
		t.Errorf("store check was not replaced: %+v", status.Checks["store"])
	}
}

func TestCheckReadiness(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]CheckFunc
		wantStatus string
	}{
		{
			name:       "no checks",
			checks:     nil,
			wantStatus: StatusReady,
		},
		{
			name: "all passing",
			checks: map[string]CheckFunc{
				"a": func(context.Context) error { return nil },
				"b": func(context.Context) error { return nil },
			},
			wantStatus: StatusReady,
		},
		{
			name: "one failing",
			checks: map[string]CheckFunc{
				"a": func(context.Context) error { return nil },
				"b": func(context.Context) error { return errors.New("down") },
			},
			wantStatus: StatusDegraded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(time.Second)
			for name, check := range tt.checks {
				checker.RegisterCheck(name, check)
			}

			status := checker.CheckReadiness(context.Background())
			if status.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", status.Status, tt.wantStatus)
			}
			if len(status.Checks) != len(tt.checks) {
				t.Errorf("got %d results, want %d", len(status.Checks), len(tt.checks))
			}
			if status.Timestamp.IsZero() {
				t.Error("Timestamp not set")
			}
		})
	}
}

func TestCheckReadiness_Timeout(t *testing.T) {
	checker := New(20 * time.Millisecond)
	release := make(chan struct{})
	defer close(release)

	// Ignores its context on purpose.
	checker.RegisterCheck("slow", func(context.Context) error {
		<-release
		return nil
	})

	start := time.Now()
	status := checker.CheckReadiness(context.Background())
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("CheckReadiness took %v", elapsed)
	}
	if got := status.Checks["slow"]; got.Status != StatusUnhealthy || got.Message != ErrCheckTimeout.Error() {
		t.Errorf("slow check = %+v", got)
	}
}

func TestStoreCheck(t *testing.T) {
	st := store.NewMemoryStore()
	if err := StoreCheck(st)(context.Background()); err != nil {
		t.Errorf("StoreCheck() on open store = %v", err)
	}
}

func TestFileCheck(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "rules.yaml")
	if err := os.WriteFile(file, []byte("rules: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"regular file", file, false},
		{"missing", filepath.Join(dir, "absent.yaml"), true},
		{"directory", dir, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FileCheck(tt.path)(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("FileCheck() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestReadinessHandler(t *testing.T) {
	checker := New(time.Second)
	checker.RegisterCheck("store", func(context.Context) error { return nil })

	rec := httptest.NewRecorder()
	checker.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	var status Status
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatal(err)
	}
	if status.Status != StatusReady || status.Checks["store"].Status != StatusOK {
		t.Errorf("body = %+v", status)
	}

	checker.RegisterCheck("rule_file", func(context.Context) error { return errors.New("missing") })
	rec = httptest.NewRecorder()
	checker.ReadinessHandler()(rec, httptest.NewRequest(http.MethodHead, "/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("HEAD response has a body: %q", rec.Body.String())
	}
}

func TestVersionHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	VersionHandler("1.2.3", "abc123", "2026-01-02")(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	var info VersionInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatal(err)
	}
	if info.Version != "1.2.3" || info.Commit != "abc123" || info.GoVersion == "" {
		t.Errorf("info = %+v", info)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func BenchmarkCheckReadiness(b *testing.B) {
	checker := New(time.Second)
	checker.RegisterCheck("store", StoreCheck(store.NewMemoryStore()))
	ctx := context.Background()

	b.ReportAllocs()
	for b.Loop() {
		_ = checker.CheckReadiness(ctx)
	}
}
