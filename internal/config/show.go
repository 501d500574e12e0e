package config

import (
	"fmt"
	"io"
)

// RenderEffective writes the resolved configuration as a human-readable
// annotated summary to w. This powers the "config show" command, so users
// can see the effective values after all override layers
// (defaults -> file -> env -> CLI) have been applied.
func RenderEffective(r *Resolved, w io.Writer) error {
	ew := &errWriter{w: w}

	ew.printf("# Effective configuration\n\n")

	renderLoggingSection(ew, r)
	renderNetworkSection(ew, r)
	renderTransferSection(ew, r)

	return ew.err
}

// errWriter wraps an io.Writer and captures the first write error.
// Subsequent writes after an error are no-ops, so callers can chain
// printf calls without checking each one individually.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}

	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func renderLoggingSection(ew *errWriter, r *Resolved) {
	ew.printf("[logging]\n")
	ew.printf("  log_level  = %q\n", r.LogLevel)
	ew.printf("  log_format = %q\n", r.LogFormat)
	ew.printf("\n")
}

func renderNetworkSection(ew *errWriter, r *Resolved) {
	ew.printf("[network]\n")
	ew.printf("  connect_timeout  = %q\n", r.ConnectTimeout.String())
	ew.printf("  response_timeout = %q\n", r.ResponseTimeout.String())

	if r.UserAgent != "" {
		ew.printf("  user_agent       = %q\n", r.UserAgent)
	}

	ew.printf("  force_http_11    = %t\n", r.ForceHTTP11)
	ew.printf("\n")
}

func renderTransferSection(ew *errWriter, r *Resolved) {
	ew.printf("[transfer]\n")
	ew.printf("  chunk_size = %d\n", r.ChunkSize)
}
