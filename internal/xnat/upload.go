package xnat

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
)

// CreateContainer creates ref's container with the given XNAT document
// type, e.g. "xnat:mrScanData". The server requires the type on creation;
// everything else about the container comes from schema defaults.
func (c *Client) CreateContainer(ctx context.Context, sess *Session, ref FileRef, xsiType string) error {
	resp, err := c.do(ctx, http.MethodPut, ref.ContainerURI(), url.Values{"xsiType": {xsiType}}, sess, nil)
	if err != nil {
		return err
	}

	c.logger.Debug("container created",
		slog.String("container", ref.Container),
		slog.String("xsi_type", xsiType),
	)

	return drainAndClose(resp)
}

// UploadFile streams size bytes from r into the referenced file slot with
// an inbody PUT. ContentLength is set explicitly so the body is not sent
// with chunked transfer encoding, which some XNAT front-end proxies
// reject.
func (c *Client) UploadFile(ctx context.Context, sess *Session, ref FileRef, r io.Reader, size int64) error {
	req, err := c.newRequest(ctx, http.MethodPut, ref.FileURI(), url.Values{"inbody": {"true"}}, sess, r)
	if err != nil {
		return err
	}

	req.ContentLength = size
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.execute(req, sess)
	if err != nil {
		return err
	}

	c.logger.Debug("file uploaded",
		slog.String("file", ref.File),
		slog.Int64("bytes", size),
	)

	return drainAndClose(resp)
}
