package config

import "time"

// Config is the root configuration structure for the rule engine.
// It contains the HTTP server, rule storage, parser limits, scheduled
// maintenance and telemetry settings.
type Config struct {
	// Server contains HTTP API server configuration including listen address,
	// timeouts, body limits and CORS.
	Server ServerConfig `yaml:"server"`

	// Store selects and configures the rule storage backend.
	Store StoreConfig `yaml:"store"`

	// Rules contains parser limits and the optional rule definition file.
	Rules RulesConfig `yaml:"rules"`

	// Maintenance contains the schedule for background integrity checks.
	Maintenance MaintenanceConfig `yaml:"maintenance"`

	// Telemetry contains configuration for logging, metrics and tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP API server.
type ServerConfig struct {
	// ListenAddress is the address and port for the server to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:3000", ":3000").
	// Default: ":3000"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is how long graceful shutdown waits for in-flight
	// requests.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// RequestTimeout bounds the handling of a single request.
	// Default: 10s
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// MaxBodyBytes is the largest request body accepted.
	// Default: 1048576 (1MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// CORS contains Cross-Origin Resource Sharing settings.
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig contains configuration for Cross-Origin Resource Sharing.
type CORSConfig struct {
	// Enabled controls whether CORS headers are sent.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins is a list of allowed origins. ["*"] allows all.
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods is a list of allowed HTTP methods.
	// Default: ["GET", "POST", "DELETE", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders is a list of allowed request headers.
	// Default: ["Content-Type", "X-Request-ID", "Traceparent"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// ExposedHeaders is a list of headers exposed to the client.
	// Default: ["X-Request-ID"]
	ExposedHeaders []string `yaml:"exposed_headers"`

	// MaxAge is the preflight cache lifetime in seconds.
	// Default: 3600
	MaxAge int `yaml:"max_age"`

	// AllowCredentials controls whether credentials are allowed.
	// Default: false
	AllowCredentials bool `yaml:"allow_credentials"`
}

// StoreConfig selects where rules are persisted.
type StoreConfig struct {
	// Backend is the storage backend.
	// Options: "memory", "sqlite"
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLite contains settings for the sqlite backend.
	SQLite SQLiteConfig `yaml:"sqlite"`
}

// SQLiteConfig contains SQLite-specific storage settings.
type SQLiteConfig struct {
	// Path is the database file path.
	// Default: "data/rules.db"
	Path string `yaml:"path"`

	// Driver is the database/sql driver name.
	// Options: "sqlite" (modernc.org/sqlite, pure Go), "sqlite3" (mattn/go-sqlite3, cgo)
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// BusyTimeout is how long a writer waits on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// WALMode enables write-ahead logging.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// MaxOpenConns caps the connection pool.
	// Default: 1
	MaxOpenConns int `yaml:"max_open_conns"`
}

// RulesConfig contains parser limits and file-based rule definitions.
type RulesConfig struct {
	// MaxLength is the longest accepted rule text in bytes. 0 disables the check.
	// Default: 4096
	MaxLength int `yaml:"max_length"`

	// MaxConditions is the most comparisons accepted in one rule.
	// 0 disables the check.
	// Default: 256
	MaxConditions int `yaml:"max_conditions"`

	// File is an optional YAML file of rule definitions synced into the
	// store at startup.
	File string `yaml:"file"`

	// Watch reloads File when it changes.
	// Default: false
	Watch bool `yaml:"watch"`

	// WatchDebounce coalesces bursts of file events.
	// Default: 100ms
	WatchDebounce time.Duration `yaml:"watch_debounce"`
}

// MaintenanceConfig contains settings for scheduled background jobs.
type MaintenanceConfig struct {
	// Enabled turns the integrity check scheduler on.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// IntegritySchedule is a standard 5-field cron expression.
	// Default: "*/30 * * * *"
	IntegritySchedule string `yaml:"integrity_schedule"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains OpenTelemetry tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// LogRecordValues writes evaluated data record values to logs. Records
	// may carry personal data, so values are redacted unless this is set.
	// Default: false
	LogRecordValues bool `yaml:"log_record_values"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and served.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path metrics are served on.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace prefixes every metric name.
	// Default: "ruleengine"
	Namespace string `yaml:"namespace"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether spans are exported.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Only used when Sampler is "ratio".
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector address.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS to the collector.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Timeout bounds each export.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// ServiceName is reported as the service.name resource attribute.
	// Default: "rule-engine"
	ServiceName string `yaml:"service_name"`
}
