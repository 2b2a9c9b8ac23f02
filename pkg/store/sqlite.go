package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers "sqlite3"
	_ "modernc.org/sqlite"          // registers "sqlite"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/config"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/rules"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/rules/ast"
)

const backendSQLite = "sqlite"

// SQLiteStore implements Store on a SQLite database through database/sql.
// Either the pure Go modernc driver ("sqlite") or the cgo mattn driver
// ("sqlite3") can be used; both read and write the same file format.
type SQLiteStore struct {
	db     *sql.DB
	config config.SQLiteConfig
	logger *slog.Logger
}

var (
	_ Store        = (*SQLiteStore)(nil)
	_ Checkpointer = (*SQLiteStore)(nil)
)

// NewSQLiteStore opens (creating if needed) the database at cfg.Path and
// initializes its schema.
func NewSQLiteStore(cfg config.SQLiteConfig, logger *slog.Logger) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, NewStorageError(backendSQLite, "open", errors.New("database path cannot be empty"))
	}
	if cfg.Driver == "" {
		cfg.Driver = config.DefaultSQLiteDriver
	}
	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "store.sqlite")

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, NewStorageError(backendSQLite, "create_dir", err)
		}
	}

	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, NewStorageError(backendSQLite, "open", err)
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, NewStorageError(backendSQLite, "open", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxOpenConns)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStore{
		db:     db,
		config: cfg,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite store initialized",
		"path", cfg.Path,
		"driver", cfg.Driver,
		"wal_mode", cfg.WALMode,
		"max_open_conns", cfg.MaxOpenConns,
	)

	return s, nil
}

// buildDSN applies busy timeout and journal mode through connection
// parameters, so every pooled connection gets them. The two drivers spell
// these differently.
func buildDSN(cfg config.SQLiteConfig) (string, error) {
	busy := cfg.BusyTimeout.Milliseconds()
	journal := "DELETE"
	if cfg.WALMode {
		journal = "WAL"
	}

	switch cfg.Driver {
	case config.DriverModernc:
		return fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(%s)", cfg.Path, busy, journal), nil
	case config.DriverMattn:
		return fmt.Sprintf("%s?_busy_timeout=%d&_journal_mode=%s", cfg.Path, busy, journal), nil
	default:
		return "", fmt.Errorf("unsupported sqlite driver %q", cfg.Driver)
	}
}

// initialize creates the schema and checks its version.
func (s *SQLiteStore) initialize() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return NewStorageError(backendSQLite, "create_schema", err)
	}

	if _, err := s.db.Exec(insertSchemaVersion, SchemaVersion); err != nil {
		return NewStorageError(backendSQLite, "insert_schema_version", err)
	}

	var version int
	if err := s.db.QueryRow(getSchemaVersion).Scan(&version); err != nil {
		return NewStorageError(backendSQLite, "get_schema_version", err)
	}
	if version != SchemaVersion {
		return NewStorageError(backendSQLite, "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	s.logger.Debug("schema version verified", "version", version)
	return nil
}

// Save inserts or replaces rule inside a transaction that first checks the
// name is not used by another rule.
func (s *SQLiteStore) Save(ctx context.Context, rule *rules.Rule) error {
	if err := validateRule(rule); err != nil {
		return err
	}

	tree, err := json.Marshal(rule.Tree)
	if err != nil {
		return NewStorageError(backendSQLite, "encode_tree", err)
	}
	var sources any
	if len(rule.Sources) > 0 {
		encoded, err := json.Marshal(rule.Sources)
		if err != nil {
			return NewStorageError(backendSQLite, "encode_sources", err)
		}
		sources = string(encoded)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return NewStorageError(backendSQLite, "save", err)
	}
	defer tx.Rollback()

	var otherID string
	err = tx.QueryRowContext(ctx, `SELECT id FROM rules WHERE name = ? AND id <> ?`, rule.Name, rule.ID).Scan(&otherID)
	switch {
	case err == nil:
		return duplicateName(rule.Name)
	case !errors.Is(err, sql.ErrNoRows):
		return NewStorageError(backendSQLite, "save", err)
	}

	_, err = tx.ExecContext(ctx, upsertRule,
		rule.ID, rule.Name, rule.Expression, string(tree), sources,
		formatTime(rule.CreatedAt), formatTime(rule.UpdatedAt),
	)
	if err != nil {
		return NewStorageError(backendSQLite, "save", err)
	}

	if err := tx.Commit(); err != nil {
		return NewStorageError(backendSQLite, "save", err)
	}
	return nil
}

// Get returns the rule with the given ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*rules.Rule, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	rule, err := scanRule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, NewStorageError(backendSQLite, "get", err)
	}
	return rule, nil
}

// GetByName returns the rule with the given name.
func (s *SQLiteStore) GetByName(ctx context.Context, name string) (*rules.Rule, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE name = ?`, name)
	rule, err := scanRule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, NewStorageError(backendSQLite, "get_by_name", err)
	}
	return rule, nil
}

// List returns all rules, oldest first.
func (s *SQLiteStore) List(ctx context.Context) ([]*rules.Rule, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY created_at, name, id`)
	if err != nil {
		return nil, NewStorageError(backendSQLite, "list", err)
	}
	defer rows.Close()

	result := []*rules.Rule{}
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, NewStorageError(backendSQLite, "scan", err)
		}
		result = append(result, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError(backendSQLite, "list", err)
	}
	return result, nil
}

// Delete removes the rule with the given ID.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM rules WHERE id = ?`, id)
	if err != nil {
		return NewStorageError(backendSQLite, "delete", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return NewStorageError(backendSQLite, "delete", err)
	}
	if n == 0 {
		return notFound(id)
	}
	return nil
}

// Count returns the number of stored rules.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rules`).Scan(&n); err != nil {
		return 0, NewStorageError(backendSQLite, "count", err)
	}
	return n, nil
}

// Checkpoint copies the write-ahead log into the database file and
// truncates it. It is a no-op when WAL mode is off.
func (s *SQLiteStore) Checkpoint(ctx context.Context) error {
	if !s.config.WALMode {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return NewStorageError(backendSQLite, "checkpoint", err)
	}
	s.logger.Debug("WAL checkpoint complete")
	return nil
}

// Close checkpoints the WAL and closes the database.
func (s *SQLiteStore) Close() error {
	if s.config.WALMode {
		_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	}
	if err := s.db.Close(); err != nil {
		return NewStorageError(backendSQLite, "close", err)
	}
	s.logger.Info("SQLite store closed")
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRule(row rowScanner) (*rules.Rule, error) {
	var (
		rule                 rules.Rule
		tree                 string
		sources              sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(&rule.ID, &rule.Name, &rule.Expression, &tree, &sources, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	rule.Tree = new(ast.Node)
	if err := json.Unmarshal([]byte(tree), rule.Tree); err != nil {
		return nil, fmt.Errorf("decode tree of rule %s: %w", rule.ID, err)
	}
	if sources.Valid && sources.String != "" {
		if err := json.Unmarshal([]byte(sources.String), &rule.Sources); err != nil {
			return nil, fmt.Errorf("decode sources of rule %s: %w", rule.ID, err)
		}
	}

	var err error
	if rule.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at of rule %s: %w", rule.ID, err)
	}
	if rule.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at of rule %s: %w", rule.ID, err)
	}
	return &rule, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
