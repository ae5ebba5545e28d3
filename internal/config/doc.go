// Package config provides centralized configuration management for the
// media response curve service. It handles loading configuration from
// multiple sources, validation, and provides a type-safe API for
// accessing configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of
// precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (YAML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern MRC_* for namespacing:
//
//	MRC_SERVER_PORT=8080
//	MRC_LOGGING_LEVEL=info
//	MRC_MODEL_HALF_LIFE=7
//	MRC_MODEL_PENETRATION=2000
//	MRC_PATHS_REPORTS_DIR=data/reports
//
// # Model Defaults
//
// The Model section carries the default response model parameters
// (half life, penetration, effectiveness, hill power) plus the
// saturation target. API requests may override any of them per
// computation; the configured values only serve as fallbacks.
//
// # Validation
//
// All configuration is validated at load time: the server port and
// timeouts must be sane, the model defaults must be strictly positive,
// and the saturation target must lie inside (0,1).
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
