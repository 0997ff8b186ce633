package config

import (
	"time"

	"tickstats/pkg/contracts"
)

// Application constants
const (
	AppName    = "tickstats"
	AppVersion = contracts.Version

	// EnvPrefix namespaces every environment variable, e.g. TICKSTATS_SERVER_PORT
	EnvPrefix = "TICKSTATS"
	// ConfigFileEnv points at an explicit YAML config file
	ConfigFileEnv = "TICKSTATS_CONFIG"

	DefaultPort            = 3000
	DefaultShutdownTimeout = 30 * time.Second
	DefaultRequestTimeout  = 60 * time.Second
	DefaultLogFile         = "logs/tickstats.log"

	// DefaultMaxBatchSize lets an empty 10^8 window fill in 100 requests
	DefaultMaxBatchSize = 1_000_000
	// DefaultMaxBodyBytes fits a full batch of 17-digit JSON numbers
	DefaultMaxBodyBytes = 32 << 20

	// MaxSymbolLength bounds series names accepted by the API
	MaxSymbolLength = 32
)
