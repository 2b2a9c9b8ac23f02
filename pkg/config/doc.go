// Package config loads and validates rule engine configuration.
//
// Configuration comes from a YAML file, environment variables, or both:
//
//	cfg, err := config.LoadConfig("config.yaml")
//	cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//	cfg, err := config.LoadConfigWithEnvOverrides("") // defaults + environment
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention RULEENGINE_SECTION_FIELD:
//
//   - RULEENGINE_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - RULEENGINE_STORE_SQLITE_DRIVER overrides store.sqlite.driver
//   - RULEENGINE_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// PORT, when set, overrides the listen address with ":$PORT".
//
// # Configuration Precedence
//
//  1. Default values (defaults.go)
//  2. Values from the YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Example Configuration
//
//	server:
//	  listen_address: ":3000"
//
//	store:
//	  backend: sqlite
//	  sqlite:
//	    path: data/rules.db
//	    driver: sqlite
//
//	rules:
//	  max_conditions: 64
//	  file: rules.yaml
//	  watch: true
//
//	maintenance:
//	  integrity_schedule: "0 * * * *"
//
//	telemetry:
//	  logging:
//	    level: info
//	    format: json
package config
