package xnat

import (
	"context"
	"io"
	"log/slog"
	"net/http"
)

// OpenDownload issues the authenticated streamed GET for ref's file and
// returns the response body. Nothing is buffered here; the caller owns
// the stream, copies it in bounded chunks, and must close it.
func (c *Client) OpenDownload(ctx context.Context, sess *Session, ref FileRef) (io.ReadCloser, error) {
	resp, err := c.do(ctx, http.MethodGet, ref.FileURI(), nil, sess, nil)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("download started", slog.String("file", ref.File))

	return resp.Body, nil
}
