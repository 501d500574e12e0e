package config

import "os"

// Environment variable names for overrides.
const (
	EnvConfig   = "XNATC_CONFIG"
	EnvLogLevel = "XNATC_LOG_LEVEL"
)

// EnvOverrides holds values derived from environment variables.
type EnvOverrides struct {
	ConfigPath string // XNATC_CONFIG: override config file path
	LogLevel   string // XNATC_LOG_LEVEL: override log level
}

// ReadEnvOverrides reads environment variables and returns any overrides
// found. This does not modify the Config; callers apply the relevant
// fields.
func ReadEnvOverrides() EnvOverrides {
	return EnvOverrides{
		ConfigPath: os.Getenv(EnvConfig),
		LogLevel:   os.Getenv(EnvLogLevel),
	}
}
