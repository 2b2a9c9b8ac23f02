package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix starts the name of every environment override.
const EnvPrefix = "RULEENGINE_"

// LoadConfig loads configuration from a YAML file at the specified path.
// Fields missing from the file keep their defaults. The result is validated.
// Environment variables are not consulted; use LoadConfigWithEnvOverrides
// for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML configuration on top of Default. It does not validate.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(cfg)
	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention RULEENGINE_SECTION_FIELD (e.g., RULEENGINE_SERVER_LISTEN_ADDRESS)
// and always take precedence over the file. An empty path skips the file and
// starts from defaults.
//
// The loading sequence is:
// 1. Load YAML from file (or defaults)
// 2. Apply environment variable overrides
// 3. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	var cfg *Config
	if path == "" {
		cfg = Default()
	} else {
		var err error
		if cfg, err = LoadConfig(path); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Values that fail to parse are ignored.
func applyEnvOverrides(cfg *Config) {
	// PORT is honoured for compatibility with hosting platforms that set it.
	if val := os.Getenv("PORT"); val != "" {
		cfg.Server.ListenAddress = ":" + val
	}

	// Server overrides
	envString(&cfg.Server.ListenAddress, "SERVER_LISTEN_ADDRESS")
	envDuration(&cfg.Server.ReadTimeout, "SERVER_READ_TIMEOUT")
	envDuration(&cfg.Server.WriteTimeout, "SERVER_WRITE_TIMEOUT")
	envDuration(&cfg.Server.IdleTimeout, "SERVER_IDLE_TIMEOUT")
	envDuration(&cfg.Server.ShutdownTimeout, "SERVER_SHUTDOWN_TIMEOUT")
	envDuration(&cfg.Server.RequestTimeout, "SERVER_REQUEST_TIMEOUT")
	if val := os.Getenv(EnvPrefix + "SERVER_MAX_BODY_BYTES"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Server.MaxBodyBytes = i
		}
	}
	envBool(&cfg.Server.CORS.Enabled, "SERVER_CORS_ENABLED")
	if val := os.Getenv(EnvPrefix + "SERVER_CORS_ALLOWED_ORIGINS"); val != "" {
		cfg.Server.CORS.AllowedOrigins = splitList(val)
	}

	// Store overrides
	envString(&cfg.Store.Backend, "STORE_BACKEND")
	envString(&cfg.Store.SQLite.Path, "STORE_SQLITE_PATH")
	envString(&cfg.Store.SQLite.Driver, "STORE_SQLITE_DRIVER")
	envDuration(&cfg.Store.SQLite.BusyTimeout, "STORE_SQLITE_BUSY_TIMEOUT")
	envBool(&cfg.Store.SQLite.WALMode, "STORE_SQLITE_WAL_MODE")
	envInt(&cfg.Store.SQLite.MaxOpenConns, "STORE_SQLITE_MAX_OPEN_CONNS")

	// Rules overrides
	envInt(&cfg.Rules.MaxLength, "RULES_MAX_LENGTH")
	envInt(&cfg.Rules.MaxConditions, "RULES_MAX_CONDITIONS")
	envString(&cfg.Rules.File, "RULES_FILE")
	envBool(&cfg.Rules.Watch, "RULES_WATCH")
	envDuration(&cfg.Rules.WatchDebounce, "RULES_WATCH_DEBOUNCE")

	// Maintenance overrides
	envBool(&cfg.Maintenance.Enabled, "MAINTENANCE_ENABLED")
	envString(&cfg.Maintenance.IntegritySchedule, "MAINTENANCE_INTEGRITY_SCHEDULE")

	// Telemetry overrides
	envString(&cfg.Telemetry.Logging.Level, "TELEMETRY_LOGGING_LEVEL")
	envString(&cfg.Telemetry.Logging.Format, "TELEMETRY_LOGGING_FORMAT")
	envBool(&cfg.Telemetry.Logging.AddSource, "TELEMETRY_LOGGING_ADD_SOURCE")
	envBool(&cfg.Telemetry.Logging.LogRecordValues, "TELEMETRY_LOGGING_LOG_RECORD_VALUES")
	envBool(&cfg.Telemetry.Metrics.Enabled, "TELEMETRY_METRICS_ENABLED")
	envString(&cfg.Telemetry.Metrics.Path, "TELEMETRY_METRICS_PATH")
	envString(&cfg.Telemetry.Metrics.Namespace, "TELEMETRY_METRICS_NAMESPACE")
	envBool(&cfg.Telemetry.Tracing.Enabled, "TELEMETRY_TRACING_ENABLED")
	envString(&cfg.Telemetry.Tracing.Sampler, "TELEMETRY_TRACING_SAMPLER")
	envString(&cfg.Telemetry.Tracing.Endpoint, "TELEMETRY_TRACING_ENDPOINT")
	envBool(&cfg.Telemetry.Tracing.Insecure, "TELEMETRY_TRACING_INSECURE")
	envString(&cfg.Telemetry.Tracing.ServiceName, "TELEMETRY_TRACING_SERVICE_NAME")
	if val := os.Getenv(EnvPrefix + "TELEMETRY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}
}

func envString(dst *string, key string) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		*dst = val
	}
}

func envBool(dst *bool, key string) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func envInt(dst *int, key string) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func envDuration(dst *time.Duration, key string) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}

// splitList splits a comma-separated value, dropping empty items.
func splitList(val string) []string {
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
