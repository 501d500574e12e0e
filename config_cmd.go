package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xnat-tools/xnatc/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration after all overrides",
		RunE:  runConfigShow,
	}
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	if resolvedCfg == nil {
		return fmt.Errorf("no configuration loaded")
	}

	if flagJSON {
		out := struct {
			LogLevel        string `json:"log_level"`
			LogFormat       string `json:"log_format"`
			ConnectTimeout  string `json:"connect_timeout"`
			ResponseTimeout string `json:"response_timeout"`
			UserAgent       string `json:"user_agent"`
			ForceHTTP11     bool   `json:"force_http_11"`
			ChunkSize       int    `json:"chunk_size"`
		}{
			LogLevel:        resolvedCfg.LogLevel,
			LogFormat:       resolvedCfg.LogFormat,
			ConnectTimeout:  resolvedCfg.ConnectTimeout.String(),
			ResponseTimeout: resolvedCfg.ResponseTimeout.String(),
			UserAgent:       resolvedCfg.UserAgent,
			ForceHTTP11:     resolvedCfg.ForceHTTP11,
			ChunkSize:       resolvedCfg.ChunkSize,
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(out)
	}

	return config.RenderEffective(resolvedCfg, os.Stdout)
}
