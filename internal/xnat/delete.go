package xnat

import (
	"context"
	"log/slog"
	"net/http"
)

// DeleteFile removes the referenced file from its resource.
func (c *Client) DeleteFile(ctx context.Context, sess *Session, ref FileRef) error {
	resp, err := c.do(ctx, http.MethodDelete, ref.FileURI(), nil, sess, nil)
	if err != nil {
		return err
	}

	c.logger.Debug("file deleted", slog.String("file", ref.File))

	return drainAndClose(resp)
}

// DeleteContainer removes the referenced container. The server cascades
// the delete to every resource and file underneath it.
func (c *Client) DeleteContainer(ctx context.Context, sess *Session, ref FileRef) error {
	resp, err := c.do(ctx, http.MethodDelete, ref.ContainerURI(), nil, sess, nil)
	if err != nil {
		return err
	}

	c.logger.Debug("container deleted", slog.String("container", ref.Container))

	return drainAndClose(resp)
}
