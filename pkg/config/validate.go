package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every field error found in a configuration.
type ValidationError struct {
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate checks the whole configuration and returns a ValidationError
// listing every problem, or nil.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateStore(&cfg.Store)...)
	errs = append(errs, validateRules(&cfg.Rules)...)
	errs = append(errs, validateMaintenance(&cfg.Maintenance)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateServer validates server configuration.
func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	} else if !strings.Contains(cfg.ListenAddress, ":") {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: fmt.Sprintf("listen address %q must be in host:port form", cfg.ListenAddress),
		})
	}

	durations := []struct {
		field string
		value int64
	}{
		{"server.read_timeout", int64(cfg.ReadTimeout)},
		{"server.write_timeout", int64(cfg.WriteTimeout)},
		{"server.idle_timeout", int64(cfg.IdleTimeout)},
		{"server.shutdown_timeout", int64(cfg.ShutdownTimeout)},
		{"server.request_timeout", int64(cfg.RequestTimeout)},
	}
	for _, d := range durations {
		if d.value < 0 {
			errs = append(errs, FieldError{Field: d.field, Message: "timeout must not be negative"})
		}
	}

	if cfg.MaxBodyBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_body_bytes",
			Message: "max body bytes must not be negative",
		})
	}

	if cfg.CORS.MaxAge < 0 {
		errs = append(errs, FieldError{
			Field:   "server.cors.max_age",
			Message: "max age must not be negative",
		})
	}
	if cfg.CORS.AllowCredentials && slices.Contains(cfg.CORS.AllowedOrigins, "*") {
		errs = append(errs, FieldError{
			Field:   "server.cors.allow_credentials",
			Message: "credentials cannot be allowed with wildcard origin",
		})
	}

	return errs
}

// validateStore validates storage configuration.
func validateStore(cfg *StoreConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case BackendMemory:
		return nil
	case BackendSQLite:
	default:
		return []FieldError{{
			Field:   "store.backend",
			Message: fmt.Sprintf("unsupported backend %q (use %q or %q)", cfg.Backend, BackendMemory, BackendSQLite),
		}}
	}

	if cfg.SQLite.Path == "" {
		errs = append(errs, FieldError{
			Field:   "store.sqlite.path",
			Message: "path is required for the sqlite backend",
		})
	}
	if cfg.SQLite.Driver != DriverModernc && cfg.SQLite.Driver != DriverMattn {
		errs = append(errs, FieldError{
			Field:   "store.sqlite.driver",
			Message: fmt.Sprintf("unsupported driver %q (use %q or %q)", cfg.SQLite.Driver, DriverModernc, DriverMattn),
		})
	}
	if cfg.SQLite.BusyTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "store.sqlite.busy_timeout",
			Message: "busy timeout must not be negative",
		})
	}
	if cfg.SQLite.MaxOpenConns < 0 {
		errs = append(errs, FieldError{
			Field:   "store.sqlite.max_open_conns",
			Message: "max open connections must not be negative",
		})
	}

	return errs
}

// validateRules validates parser limits and the rule file settings.
func validateRules(cfg *RulesConfig) []FieldError {
	var errs []FieldError

	if cfg.MaxLength < 0 {
		errs = append(errs, FieldError{
			Field:   "rules.max_length",
			Message: "max length must not be negative",
		})
	}
	if cfg.MaxConditions < 0 {
		errs = append(errs, FieldError{
			Field:   "rules.max_conditions",
			Message: "max conditions must not be negative",
		})
	}
	if cfg.Watch && cfg.File == "" {
		errs = append(errs, FieldError{
			Field:   "rules.watch",
			Message: "watch requires rules.file",
		})
	}
	if cfg.WatchDebounce < 0 {
		errs = append(errs, FieldError{
			Field:   "rules.watch_debounce",
			Message: "debounce must not be negative",
		})
	}

	return errs
}

// validateMaintenance validates the cron schedule.
func validateMaintenance(cfg *MaintenanceConfig) []FieldError {
	if !cfg.Enabled {
		return nil
	}
	if _, err := cron.ParseStandard(cfg.IntegritySchedule); err != nil {
		return []FieldError{{
			Field:   "maintenance.integrity_schedule",
			Message: fmt.Sprintf("invalid cron expression %q: %v", cfg.IntegritySchedule, err),
		}}
	}
	return nil
}

// validateTelemetry validates logging, metrics and tracing configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLevels, strings.ToLower(cfg.Logging.Level)) {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid log level %q (must be one of: %s)", cfg.Logging.Level, strings.Join(validLevels, ", ")),
		})
	}

	validFormats := []string{"json", "text", "console"}
	if !slices.Contains(validFormats, strings.ToLower(cfg.Logging.Format)) {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid log format %q (must be one of: %s)", cfg.Logging.Format, strings.Join(validFormats, ", ")),
		})
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with /",
		})
	}

	switch cfg.Tracing.Sampler {
	case "always", "never", "ratio":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("invalid sampler %q (must be one of: always, never, ratio)", cfg.Tracing.Sampler),
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}
	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "endpoint is required when tracing is enabled",
		})
	}

	return errs
}
