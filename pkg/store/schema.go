package store

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema creates the rules table. The tree column holds the JSON encoding
// of the rule tree; sources holds a JSON array of rule IDs for combined rules.
const Schema = `
CREATE TABLE IF NOT EXISTS rules (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    expression TEXT NOT NULL,
    tree TEXT NOT NULL,
    sources TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_rules_created_at ON rules(created_at);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);
`

const (
	insertSchemaVersion = `INSERT OR IGNORE INTO schema_version (version) VALUES (?)`
	getSchemaVersion    = `SELECT MAX(version) FROM schema_version`

	selectColumns = `SELECT id, name, expression, tree, sources, created_at, updated_at FROM rules`

	upsertRule = `
		INSERT INTO rules (id, name, expression, tree, sources, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			expression = excluded.expression,
			tree = excluded.tree,
			sources = excluded.sources,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`
)

// timeLayout keeps stored timestamps fixed-width so they sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
