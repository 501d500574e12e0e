package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/xnat-tools/xnatc/internal/access"
	"github.com/xnat-tools/xnatc/internal/config"
	"github.com/xnat-tools/xnatc/internal/connector"
	"github.com/xnat-tools/xnatc/internal/xnat"
)

// version is set at build time via ldflags.
var version = "dev"

// Global persistent flags, bound in newRootCmd().
var (
	flagConfigPath string
	flagJSON       bool
	flagVerbose    bool
	flagQuiet      bool
)

// resolvedCfg holds the effective configuration loaded by PersistentPreRunE.
// It is available to all subcommands after the root pre-run phase completes.
var resolvedCfg *config.Resolved

// skipConfigCommands lists commands that run without tool configuration:
// the validate-only verbs never touch the network, so a broken config file
// must not keep them from checking a descriptor. Uses CommandPath() for
// explicit matching, safe against future subcommand collisions.
var skipConfigCommands = map[string]bool{
	"xnatc send-validate":    true,
	"xnatc receive-validate": true,
}

// newRootCmd builds and returns the fully-assembled root command with all
// subcommands registered. Called once from main().
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "xnatc",
		Short:   "XNAT file connector",
		Long:    "Transfer single files between the local filesystem and an XNAT imaging repository, driven by JSON access descriptors.",
		Version: version,
		// Silence Cobra's default error/usage printing; we handle it ourselves.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if skipConfigCommands[cmd.CommandPath()] {
				return nil
			}

			return loadConfig()
		},
	}

	cmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "config file path")
	cmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output results and errors in JSON format")
	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress status output")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	// Register subcommands.
	cmd.AddCommand(newSendCmd())
	cmd.AddCommand(newReceiveCmd())
	cmd.AddCommand(newSendValidateCmd())
	cmd.AddCommand(newReceiveValidateCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// loadConfig resolves the effective configuration from the four-layer
// override chain and stores the result in resolvedCfg for use by
// subcommands.
func loadConfig() error {
	cli := config.CLIOverrides{
		ConfigPath: flagConfigPath,
	}

	env := config.ReadEnvOverrides()

	resolved, err := config.Resolve(env, cli)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	resolvedCfg = resolved

	return nil
}

// buildLogger creates an slog.Logger configured by the resolved config and
// CLI flags. Config-file log level provides the baseline; --verbose and
// --quiet override it because CLI flags always win.
func buildLogger() *slog.Logger {
	level := slog.LevelInfo

	// Config-based log level (lower priority than CLI flags).
	if resolvedCfg != nil {
		switch resolvedCfg.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}

	// CLI flags override config (highest priority).
	if flagVerbose {
		level = slog.LevelDebug
	}

	if flagQuiet {
		level = slog.LevelError
	}

	format := "auto"
	if resolvedCfg != nil {
		format = resolvedCfg.LogFormat
	}

	return slog.New(newLogHandler(format, isatty.IsTerminal(os.Stderr.Fd()), level))
}

// newLogHandler picks the slog handler for the configured format. "auto"
// resolves to text on a terminal and JSON otherwise, so interactive runs
// stay readable while piped output stays parseable.
func newLogHandler(format string, tty bool, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}

	switch format {
	case "text":
		return slog.NewTextHandler(os.Stderr, opts)
	case "json":
		return slog.NewJSONHandler(os.Stderr, opts)
	default:
		if tty {
			return slog.NewTextHandler(os.Stderr, opts)
		}

		return slog.NewJSONHandler(os.Stderr, opts)
	}
}

// newConnector wires the HTTP client from the resolved network config and
// the descriptor's TLS preference, then builds a connector on top of it.
func newConnector(acc *access.Access, logger *slog.Logger) *connector.Connector {
	httpClient := xnat.NewHTTPClient(xnat.HTTPOptions{
		ConnectTimeout:  resolvedCfg.ConnectTimeout,
		ResponseTimeout: resolvedCfg.ResponseTimeout,
		ForceHTTP11:     resolvedCfg.ForceHTTP11,
		SkipTLSVerify:   !acc.VerifyTLS(),
	})

	client := xnat.NewClient(acc.BaseURL, httpClient, acc.Auth, logger, resolvedCfg.UserAgent)

	return connector.New(client, logger, resolvedCfg.ChunkSize)
}

// errorKind classifies an error for machine-readable output.
func errorKind(err error) string {
	var (
		verr     *access.ValidationError
		conflict *connector.ConflictError
		httpErr  *xnat.HTTPError
	)

	switch {
	case errors.As(err, &verr):
		return "schema"
	case errors.As(err, &conflict):
		return "conflict"
	case errors.As(err, &httpErr):
		return "http"
	default:
		return "error"
	}
}

// exitOnError prints a user-friendly error message and exits non-zero.
// With --json the error is emitted as a JSON object on stdout instead.
func exitOnError(err error) {
	if flagJSON {
		_ = json.NewEncoder(os.Stdout).Encode(map[string]string{
			"error": err.Error(),
			"kind":  errorKind(err),
		})
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
