package connector

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/xnat-tools/xnatc/internal/access"
	"github.com/xnat-tools/xnatc/internal/xnat"
)

// Receive downloads the file named by the descriptor to localPath. The
// download request is issued before the destination is created, so a
// failed request leaves no local file behind; on a mid-stream failure the
// partial file is left in place and the next run overwrites it. The
// session established by the download is invalidated before returning; on
// the success path a failed invalidation fails the operation, on error
// paths it is best-effort.
func (c *Connector) Receive(ctx context.Context, acc *access.Access, localPath string, progress ProgressFunc) (err error) {
	if verr := access.Validate(acc, access.Receive); verr != nil {
		return verr
	}

	ref := fileRef(acc, acc.Resource)
	sess := xnat.NewSession()

	var closed bool

	defer func() {
		if err != nil && !closed {
			c.closeQuietly(ctx, sess)
		}
	}()

	body, err := c.client.OpenDownload(ctx, sess, ref)
	if err != nil {
		return err
	}
	defer body.Close()

	f, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("creating destination file %s: %w", localPath, err)
	}

	// No deferred close: both exit paths close f explicitly, and the
	// success path needs the close error.

	var w io.Writer = f
	if progress != nil {
		w = &countingWriter{w: f, fn: progress}
	}

	bufSize := c.chunkSize
	if bufSize <= 0 {
		bufSize = defaultChunkSize
	}

	n, err := io.CopyBuffer(w, body, make([]byte, bufSize))
	if err != nil {
		f.Close()

		return fmt.Errorf("streaming %s to %s: %w", ref.File, localPath, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing destination file %s: %w", localPath, err)
	}

	c.logger.Info("file received",
		slog.String("file", ref.File),
		slog.String("path", localPath),
		slog.Int64("bytes", n),
	)

	closed = true

	return c.client.CloseSession(ctx, sess)
}
