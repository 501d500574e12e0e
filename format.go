package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/xnat-tools/xnatc/internal/connector"
)

// statusf prints a status message to stderr unless quiet mode is set.
func statusf(format string, args ...any) {
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// Size unit constants for human-readable formatting.
const (
	sizeKB = 1024
	sizeMB = 1024 * 1024
	sizeGB = 1024 * 1024 * 1024
	sizeTB = 1024 * 1024 * 1024 * 1024
)

// formatSize returns a human-readable size string (e.g. "1.2 MB").
func formatSize(bytes int64) string {
	switch {
	case bytes >= sizeTB:
		return fmt.Sprintf("%.1f TB", float64(bytes)/float64(sizeTB))
	case bytes >= sizeGB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(sizeGB))
	case bytes >= sizeMB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(sizeMB))
	case bytes >= sizeKB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(sizeKB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// progressInterval throttles progress line rewrites.
const progressInterval = 200 * time.Millisecond

// progressPrinter rewrites a single stderr line with transfer progress.
// It activates only when stderr is a terminal and quiet mode is off;
// otherwise it stays silent and the connector receives no callback.
type progressPrinter struct {
	w       io.Writer
	label   string
	total   int64
	last    time.Time
	active  bool
	printed bool
}

// newProgressPrinter creates a printer for one transfer. total may be 0
// when the final size is unknown (receive).
func newProgressPrinter(label string, total int64) *progressPrinter {
	return &progressPrinter{
		w:      os.Stderr,
		label:  label,
		total:  total,
		active: !flagQuiet && isatty.IsTerminal(os.Stderr.Fd()),
	}
}

// fn returns the connector callback, or nil when the printer is inactive.
func (p *progressPrinter) fn() connector.ProgressFunc {
	if !p.active {
		return nil
	}

	return p.update
}

func (p *progressPrinter) update(transferred int64) {
	if time.Since(p.last) < progressInterval {
		return
	}

	p.last = time.Now()
	p.printed = true

	if p.total > 0 {
		fmt.Fprintf(p.w, "\r%s %s / %s", p.label, formatSize(transferred), formatSize(p.total))
	} else {
		fmt.Fprintf(p.w, "\r%s %s", p.label, formatSize(transferred))
	}
}

// finish clears the progress line so the final summary prints cleanly.
func (p *progressPrinter) finish() {
	if p.printed {
		fmt.Fprint(p.w, "\r\033[K")
	}
}
