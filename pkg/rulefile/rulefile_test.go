package rulefile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/config"
	ruleErrors "github.com/anushka81/Rule-Engine-with-AST/pkg/rules/errors"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/rules/parser"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/store"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/telemetry/metrics"
)

func writeFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "rules.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

const validFile = `
rules:
  - name: fitness
    expression: steps > 10000 AND bmi < 25
    description: Active members with a healthy BMI
  - name: seniors
    expression: age >= 65
`

func TestLoad(t *testing.T) {
	path := writeFile(t, t.TempDir(), validFile)

	defs, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("Load() returned %d definitions, want 2", len(defs))
	}
	if defs[0].Name != "fitness" || defs[0].Description == "" {
		t.Errorf("defs[0] = %+v", defs[0])
	}
	if defs[0].Tree == nil || defs[0].Tree.String() != "steps>10000 AND bmi<25" {
		t.Errorf("defs[0].Tree = %v", defs[0].Tree)
	}
}

func TestLoad_Empty(t *testing.T) {
	path := writeFile(t, t.TempDir(), "")
	defs, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(defs) != 0 {
		t.Errorf("Load() returned %d definitions, want 0", len(defs))
	}
}

func TestLoad_CollectsErrors(t *testing.T) {
	path := writeFile(t, t.TempDir(), `
rules:
  - name: ok
    expression: age > 1
  - name: broken
    expression: age ~ 1
  - expression: age > 2
  - name: ok
    expression: age > 3
  - name: dangling
    expression: age > 1 OR
`)

	_, err := Load(path)
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Load() error = %v, want *LoadError", err)
	}
	if loadErr.Path != path {
		t.Errorf("Path = %q, want %q", loadErr.Path, path)
	}
	if len(loadErr.Errors) != 4 {
		t.Fatalf("got %d errors, want 4: %v", len(loadErr.Errors), loadErr)
	}

	wantIndex := []int{2, 3, 4, 5}
	for i, e := range loadErr.Errors {
		if e.Index != wantIndex[i] {
			t.Errorf("error %d index = %d, want %d", i, e.Index, wantIndex[i])
		}
	}
	if !errors.Is(err, ruleErrors.ErrParse) {
		t.Error("LoadError does not unwrap to a parse error")
	}
	if !errors.Is(err, errDuplicate) || !errors.Is(err, errMissingName) {
		t.Error("LoadError does not unwrap to the name errors")
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "absent.yaml")},
		{"invalid yaml", writeFile(t, t.TempDir(), "rules: [")},
		{"unknown field", writeFile(t, t.TempDir(), "rules:\n  - name: a\n    expresion: age > 1\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.path); err == nil {
				t.Error("Load() error = nil, want error")
			}
		})
	}
}

func TestLoader_ParserLimits(t *testing.T) {
	loader := NewLoader(parser.NewParser().WithMaxConditions(1))
	_, err := loader.Parse([]byte(validFile))
	if !errors.Is(err, ruleErrors.ErrParse) {
		t.Errorf("Parse() error = %v, want ErrParse", err)
	}
}

func TestSync(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	loader := NewLoader(nil)

	defs, err := loader.Parse([]byte(validFile))
	if err != nil {
		t.Fatal(err)
	}

	result, err := Sync(ctx, st, defs)
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if result != (SyncResult{Created: 2}) {
		t.Errorf("first Sync() = %+v, want 2 created", result)
	}

	original, err := st.GetByName(ctx, "seniors")
	if err != nil {
		t.Fatal(err)
	}

	result, err = Sync(ctx, st, defs)
	if err != nil {
		t.Fatal(err)
	}
	if result != (SyncResult{Unchanged: 2}) {
		t.Errorf("second Sync() = %+v, want 2 unchanged", result)
	}

	changed, err := loader.Parse([]byte(strings.Replace(validFile, "age >= 65", "age >= 70", 1)))
	if err != nil {
		t.Fatal(err)
	}
	result, err = Sync(ctx, st, changed)
	if err != nil {
		t.Fatal(err)
	}
	if result != (SyncResult{Updated: 1, Unchanged: 1}) {
		t.Errorf("third Sync() = %+v, want 1 updated, 1 unchanged", result)
	}

	replaced, err := st.GetByName(ctx, "seniors")
	if err != nil {
		t.Fatal(err)
	}
	if replaced.ID != original.ID {
		t.Errorf("ID changed from %s to %s", original.ID, replaced.ID)
	}
	if replaced.Expression != "age >= 70" {
		t.Errorf("Expression = %q, want %q", replaced.Expression, "age >= 70")
	}
	if !replaced.CreatedAt.Equal(original.CreatedAt) {
		t.Error("CreatedAt changed on update")
	}
}

func TestSync_KeepsUnlistedRules(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	defs, err := NewLoader(nil).Parse([]byte(validFile))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Sync(ctx, st, defs); err != nil {
		t.Fatal(err)
	}
	if _, err := Sync(ctx, st, defs[:1]); err != nil {
		t.Fatal(err)
	}
	if n, _ := st.Count(ctx); n != 2 {
		t.Errorf("Count() = %d, want 2", n)
	}
}

func TestSync_Unparsed(t *testing.T) {
	_, err := Sync(context.Background(), store.NewMemoryStore(), []Definition{{Name: "raw", Expression: "a > 1"}})
	if err == nil {
		t.Error("Sync() error = nil, want error for unparsed definition")
	}
}

func TestReloader(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := writeFile(t, dir, validFile)

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(config.MetricsConfig{Enabled: true, Namespace: "ruleengine"}, registry)
	st := store.NewMemoryStore()

	var synced int
	reloader := NewReloader(path, nil, st, collector, nil)
	reloader.OnSynced = func(context.Context, SyncResult) { synced++ }

	if _, err := reloader.Reload(ctx); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	writeFile(t, dir, "rules:\n  - name: bad\n    expression: nope\n")
	if _, err := reloader.Reload(ctx); err == nil {
		t.Fatal("Reload() of invalid file succeeded")
	}
	if n, _ := st.Count(ctx); n != 2 {
		t.Errorf("store changed after failed reload: %d rules", n)
	}
	if synced != 1 {
		t.Errorf("OnSynced ran %d times, want 1", synced)
	}

	expected := `
# HELP ruleengine_store_file_reloads_total Total number of rule definition file loads
# TYPE ruleengine_store_file_reloads_total counter
ruleengine_store_file_reloads_total{status="error"} 1
ruleengine_store_file_reloads_total{status="success"} 1
`
	if err := testutil.GatherAndCompare(registry, strings.NewReader(expected), "ruleengine_store_file_reloads_total"); err != nil {
		t.Errorf("unexpected reload metrics: %v", err)
	}
}

func TestDebouncer(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var calls atomic.Int32

	for i := 0; i < 5; i++ {
		d.Trigger(func() { calls.Add(1) })
		time.Sleep(2 * time.Millisecond)
	}
	time.Sleep(100 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Errorf("callback ran %d times, want 1", got)
	}

	d.Trigger(func() { calls.Add(1) })
	d.Stop()
	d.Trigger(func() { calls.Add(1) })
	time.Sleep(60 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Errorf("callback ran after Stop: %d calls", got)
	}
}

func TestDebouncer_StopWaitsForRunningCallback(t *testing.T) {
	d := NewDebouncer(time.Millisecond)
	started := make(chan struct{})
	var finished atomic.Bool

	d.Trigger(func() {
		close(started)
		time.Sleep(50 * time.Millisecond)
		finished.Store(true)
	})

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("callback did not start")
	}

	d.Stop()
	if !finished.Load() {
		t.Error("Stop returned while the callback was still running")
	}
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, validFile)

	w, err := NewWatcher(path, 20*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	reloaded := make(chan struct{}, 10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, func(context.Context) error {
			reloaded <- struct{}{}
			return nil
		})
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, validFile+"  - name: extra\n    expression: a > 1\n")

	select {
	case <-reloaded:
	case <-time.After(3 * time.Second):
		t.Fatal("no reload after file change")
	}

	w.Stop()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch() did not return after Stop")
	}
}
