package config

// Default values for configuration options. These are "layer 0" of the
// four-layer override chain and work without any config file present.
const (
	defaultLogLevel        = "info"
	defaultLogFormat       = "auto"
	defaultConnectTimeout  = "30s"
	defaultResponseTimeout = "2m"
	defaultChunkSize       = "128KiB"
)

// DefaultConfig returns a Config populated with all default values.
// This is used both as the starting point for TOML decoding (so unset
// fields retain defaults) and as the fallback when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			LogLevel:  defaultLogLevel,
			LogFormat: defaultLogFormat,
		},
		Network: NetworkConfig{
			ConnectTimeout:  defaultConnectTimeout,
			ResponseTimeout: defaultResponseTimeout,
		},
		Transfer: TransferConfig{
			ChunkSize: defaultChunkSize,
		},
	}
}
