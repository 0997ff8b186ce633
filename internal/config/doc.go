// Package config provides centralized configuration management for tickstats.
// It loads configuration from multiple sources, validates it, and exposes a
// typed struct to the rest of the application.
//
// # Configuration Sources
//
// Configuration is resolved in the following order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Default values (lowest priority)
//
// The YAML file is read from $TICKSTATS_CONFIG when set, otherwise from
// config.yaml or configs/config.yaml in the working directory.
//
// # Environment Variables
//
// All environment variables follow the pattern TICKSTATS_<SECTION>_<FIELD>:
//
//	TICKSTATS_SERVER_PORT=3000
//	TICKSTATS_LOGGING_LEVEL=debug
//	TICKSTATS_SECURITY_RATE_LIMIT_RPS=250
//	TICKSTATS_TELEMETRY_TRACE_EXPORTER=stdout
//	TICKSTATS_ENGINE_MAX_BATCH_SIZE=50000
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
