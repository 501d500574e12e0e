package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Load reads and parses a TOML config file, validates it, and returns the
// resulting Config. Unknown keys are fatal and carry a "did you mean?"
// suggestion so a typo in the file never goes unnoticed.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := checkUnknownKeys(&md); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault reads a TOML config file if it exists, otherwise returns
// a Config populated with all default values. This supports the
// zero-config first run: the tool works without any file in place.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}

	return Load(path)
}

// Resolved is the effective configuration after the override chain, with
// durations and sizes parsed into their final types.
type Resolved struct {
	LogLevel        string
	LogFormat       string
	ConnectTimeout  time.Duration
	ResponseTimeout time.Duration
	UserAgent       string
	ForceHTTP11     bool
	ChunkSize       int
}

// Resolve loads configuration and applies the override chain:
// defaults -> config file -> environment variables -> CLI flags.
// CLI flags always win.
func Resolve(env EnvOverrides, cli CLIOverrides) (*Resolved, error) {
	// Config path: CLI > env > default.
	cfgPath := DefaultConfigPath()
	if env.ConfigPath != "" {
		cfgPath = env.ConfigPath
	}

	if cli.ConfigPath != "" {
		cfgPath = cli.ConfigPath
	}

	cfg, err := LoadOrDefault(cfgPath)
	if err != nil {
		return nil, err
	}

	if env.LogLevel != "" {
		cfg.Logging.LogLevel = env.LogLevel
	}

	// Re-validate after overrides; the environment can introduce values
	// the file never contained.
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return resolve(cfg)
}

// resolve parses the string-typed durations and sizes into their final
// types. Validation has already bounded them.
func resolve(cfg *Config) (*Resolved, error) {
	connectTimeout, err := time.ParseDuration(cfg.Network.ConnectTimeout)
	if err != nil {
		return nil, fmt.Errorf("connect_timeout: %w", err)
	}

	responseTimeout, err := time.ParseDuration(cfg.Network.ResponseTimeout)
	if err != nil {
		return nil, fmt.Errorf("response_timeout: %w", err)
	}

	chunkSize, err := parseSize(cfg.Transfer.ChunkSize)
	if err != nil {
		return nil, fmt.Errorf("chunk_size: %w", err)
	}

	return &Resolved{
		LogLevel:        cfg.Logging.LogLevel,
		LogFormat:       cfg.Logging.LogFormat,
		ConnectTimeout:  connectTimeout,
		ResponseTimeout: responseTimeout,
		UserAgent:       cfg.Network.UserAgent,
		ForceHTTP11:     cfg.Network.ForceHTTP11,
		ChunkSize:       int(chunkSize),
	}, nil
}
