// Package connector implements the send and receive operations against an
// XNAT imaging repository: receive streams a stored file to the local
// filesystem, send uploads a local file with existence-aware container
// replacement (upsert). Both operations validate their access descriptor
// before touching the network, run strictly sequentially with no retries,
// and invalidate the server-side session when done.
package connector

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/xnat-tools/xnatc/internal/access"
	"github.com/xnat-tools/xnatc/internal/xnat"
)

// sessionTeardownTimeout bounds the best-effort session delete on error
// paths, where the operation's own context may already be canceled.
const sessionTeardownTimeout = 10 * time.Second

// defaultChunkSize is the copy buffer for streaming downloads when the
// configuration does not set one. Memory per transfer stays bounded at
// the buffer size regardless of how large the remote file is.
const defaultChunkSize = 128 * 1024

// ProgressFunc is called with the cumulative number of bytes transferred
// as an operation streams data. It must be fast; it runs on the transfer
// path.
type ProgressFunc func(transferred int64)

// Connector executes transfers against one XNAT deployment.
type Connector struct {
	client    *xnat.Client
	logger    *slog.Logger
	chunkSize int
}

// New creates a Connector on top of an XNAT client. A nil logger falls
// back to slog.Default(); chunkSize <= 0 uses a 128 KiB download buffer.
func New(client *xnat.Client, logger *slog.Logger, chunkSize int) *Connector {
	if logger == nil {
		logger = slog.Default()
	}

	return &Connector{
		client:    client,
		logger:    logger,
		chunkSize: chunkSize,
	}
}

// fileRef maps an access descriptor onto the XNAT path hierarchy. The
// resource label is passed separately because send defaults it while
// receive requires it.
func fileRef(acc *access.Access, resource string) xnat.FileRef {
	return xnat.FileRef{
		Project:       acc.Project,
		Subject:       acc.Subject,
		Session:       acc.Session,
		ContainerType: acc.ContainerType,
		Container:     acc.Container,
		Resource:      resource,
		File:          acc.File,
	}
}

// closeQuietly tears down the server session after a failed operation.
// The teardown error is logged and discarded so the primary error
// reaches the caller unchanged. Skipped when no cookie was ever
// captured; there is nothing server-side to invalidate.
func (c *Connector) closeQuietly(ctx context.Context, sess *xnat.Session) {
	if !sess.Established() {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sessionTeardownTimeout)
	defer cancel()

	if err := c.client.CloseSession(ctx, sess); err != nil {
		c.logger.Warn("session teardown failed", slog.String("error", err.Error()))
	}
}

// countingWriter reports the cumulative byte count after every write.
type countingWriter struct {
	w     io.Writer
	fn    ProgressFunc
	total int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.total += int64(n)
	cw.fn(cw.total)

	return n, err
}

// countingReader reports the cumulative byte count after every read.
type countingReader struct {
	r     io.Reader
	fn    ProgressFunc
	total int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.total += int64(n)
	cr.fn(cr.total)

	return n, err
}
