package xnat

import (
	"context"
	"net/http"
	"net/url"
)

// ListContainers returns the entries of ref's container type under its
// experiment. For a send operation this is typically the first call and
// therefore the one that establishes the session.
func (c *Client) ListContainers(ctx context.Context, sess *Session, ref FileRef) ([]Container, error) {
	return listEntries[Container](ctx, c, sess, ref.ContainersURI())
}

// ListResources returns the resources under ref's container.
func (c *Client) ListResources(ctx context.Context, sess *Session, ref FileRef) ([]Resource, error) {
	return listEntries[Resource](ctx, c, sess, ref.ResourcesURI())
}

// ListFiles returns the files under ref's resource.
func (c *Client) ListFiles(ctx context.Context, sess *Session, ref FileRef) ([]File, error) {
	return listEntries[File](ctx, c, sess, ref.FilesURI())
}

// listEntries issues a format=json GET against a listing endpoint and
// decodes the ResultSet envelope.
func listEntries[T any](ctx context.Context, c *Client, sess *Session, uri string) ([]T, error) {
	resp, err := c.do(ctx, http.MethodGet, uri, url.Values{"format": {"json"}}, sess, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return decodeResultSet[T](resp.Body)
}
