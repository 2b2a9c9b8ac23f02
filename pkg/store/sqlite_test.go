package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/config"
)

func TestNewSQLiteStore_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.SQLiteConfig
	}{
		{"empty path", config.SQLiteConfig{Driver: config.DriverModernc}},
		{"unknown driver", config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "x.db"), Driver: "postgres"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSQLiteStore(tt.cfg, nil)
			var storageErr *StorageError
			if !errors.As(err, &storageErr) {
				t.Fatalf("NewSQLiteStore() error = %v, want *StorageError", err)
			}
			if storageErr.Backend != "sqlite" {
				t.Errorf("Backend = %q, want sqlite", storageErr.Backend)
			}
		})
	}
}

// TestSQLiteStore_Persistence reopens the database file with each driver
// and checks that rules written by one are read by the other.
func TestSQLiteStore_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "rules.db")
	ctx := context.Background()

	first, err := NewSQLiteStore(config.SQLiteConfig{
		Path:        path,
		Driver:      config.DriverModernc,
		BusyTimeout: time.Second,
		WALMode:     true,
	}, nil)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	rule := mustRule(t, "persisted", "department == 'Marketing' OR experience > 5")
	if err := first.Save(ctx, rule); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := first.Checkpoint(ctx); err != nil {
		t.Fatalf("Checkpoint() error = %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	second, err := NewSQLiteStore(config.SQLiteConfig{
		Path:        path,
		Driver:      config.DriverMattn,
		BusyTimeout: time.Second,
		WALMode:     true,
	}, nil)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer second.Close()

	got, err := second.Get(ctx, rule.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Tree.String() != rule.Tree.String() {
		t.Errorf("tree = %s, want %s", got.Tree, rule.Tree)
	}
}

func TestSQLiteStore_CheckpointWithoutWAL(t *testing.T) {
	s, err := NewSQLiteStore(config.SQLiteConfig{
		Path:   filepath.Join(t.TempDir(), "rules.db"),
		Driver: config.DriverModernc,
	}, nil)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	defer s.Close()

	if err := s.Checkpoint(context.Background()); err != nil {
		t.Errorf("Checkpoint() error = %v", err)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.StoreConfig
		wantErr bool
	}{
		{"memory", config.StoreConfig{Backend: config.BackendMemory}, false},
		{"sqlite", config.StoreConfig{
			Backend: config.BackendSQLite,
			SQLite:  config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "r.db"), Driver: config.DriverModernc},
		}, false},
		{"unknown", config.StoreConfig{Backend: "mongodb"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.cfg, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if s != nil {
				s.Close()
			}
		})
	}
}

func TestStorageError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStorageError("sqlite", "save", cause)

	if !errors.Is(err, cause) {
		t.Error("StorageError does not unwrap to its cause")
	}
	want := "storage error [backend=sqlite, operation=save]: disk full"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
