// Package config implements TOML configuration loading, validation, and
// platform-specific path resolution for xnatc. It supports a four-layer
// override chain (defaults -> config file -> environment -> CLI flags).
// The config file tunes tool behavior only; everything about a transfer
// itself comes from the access descriptor.
package config

// Config is the top-level configuration structure parsed from a TOML file.
type Config struct {
	Logging  LoggingConfig  `toml:"logging"`
	Network  NetworkConfig  `toml:"network"`
	Transfer TransferConfig `toml:"transfer"`
}

// LoggingConfig controls log output behavior: level and format.
type LoggingConfig struct {
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// NetworkConfig controls HTTP client behavior. connect_timeout bounds the
// dial and TLS handshake; response_timeout bounds the wait for response
// headers. Neither caps body streaming, so a transfer is never cut off
// mid-file for being large. force_http_11 is useful behind front-end
// proxies that mishandle HTTP/2.
type NetworkConfig struct {
	ConnectTimeout  string `toml:"connect_timeout"`
	ResponseTimeout string `toml:"response_timeout"`
	UserAgent       string `toml:"user_agent"`
	ForceHTTP11     bool   `toml:"force_http_11"`
}

// TransferConfig controls local I/O during transfers.
type TransferConfig struct {
	ChunkSize string `toml:"chunk_size"`
}

// CLIOverrides holds values from CLI flags that override config file and
// environment settings.
type CLIOverrides struct {
	ConfigPath string // --config flag (empty = use default)
}
