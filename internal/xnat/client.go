package xnat

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// defaultUserAgent identifies the connector when the configuration does
// not override it.
const defaultUserAgent = "xnatc"

// maxErrorBodyBytes bounds how much of an error response body is kept for
// the error message. XNAT error pages are HTML and can run long.
const maxErrorBodyBytes = 2048

// CredentialSource supplies the basic-auth credentials attached to every
// request. Credentials go on every call, not only the first, so a request
// that misses the session cookie still authenticates instead of failing
// mid-operation.
type CredentialSource interface {
	BasicAuth() (username, password string)
}

// Client is an HTTP client for the XNAT REST API. Every request carries
// basic-auth credentials and the operation's session cookie. The client
// performs no retries: the first failed call aborts the surrounding
// operation.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      CredentialSource
	logger     *slog.Logger
	userAgent  string
}

// NewClient creates an XNAT API client. Trailing slashes on baseURL are
// stripped so path concatenation yields the same URL either way. A nil
// httpClient falls back to http.DefaultClient and a nil logger to
// slog.Default(). creds must be non-nil.
func NewClient(baseURL string, httpClient *http.Client, creds CredentialSource, logger *slog.Logger, userAgent string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if logger == nil {
		logger = slog.Default()
	}

	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Client{
		baseURL:    normalizeBaseURL(baseURL),
		httpClient: httpClient,
		creds:      creds,
		logger:     logger,
		userAgent:  userAgent,
	}
}

// normalizeBaseURL strips trailing slashes so endpoint URIs can be
// appended directly.
func normalizeBaseURL(s string) string {
	return strings.TrimRight(s, "/")
}

// do builds and executes a plain request in one step.
func (c *Client) do(ctx context.Context, method, uri string, query url.Values, sess *Session, body io.Reader) (*http.Response, error) {
	req, err := c.newRequest(ctx, method, uri, query, sess, body)
	if err != nil {
		return nil, err
	}

	return c.execute(req, sess)
}

// newRequest builds a request with credentials, user agent, and session
// cookies attached.
func (c *Client) newRequest(ctx context.Context, method, uri string, query url.Values, sess *Session, body io.Reader) (*http.Request, error) {
	u := c.baseURL + uri
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("xnat: creating %s request for %s: %w", method, uri, err)
	}

	user, pass := c.creds.BasicAuth()
	req.SetBasicAuth(user, pass)
	req.Header.Set("User-Agent", c.userAgent)
	sess.attach(req)

	return req, nil
}

// execute sends the request, turns non-2xx statuses into *HTTPError, and
// captures the session cookie from the first successful response. The
// caller owns the response body on success.
func (c *Client) execute(req *http.Request, sess *Session) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("xnat: %s %s: %w", req.Method, req.URL.Path, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg := readErrorBody(resp.Body)
		resp.Body.Close()

		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Method:     req.Method,
			URL:        req.URL.String(),
			Message:    msg,
			Err:        classifyStatus(resp.StatusCode),
		}
	}

	sess.capture(resp)

	c.logger.Debug("request completed",
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.Int("status", resp.StatusCode),
	)

	return resp, nil
}

// readErrorBody returns a trimmed excerpt of an error response body.
func readErrorBody(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, maxErrorBodyBytes))
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(b))
}

// drainAndClose consumes the remainder of a response body and closes it so
// the underlying connection can be reused.
func drainAndClose(resp *http.Response) error {
	defer resp.Body.Close()

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return fmt.Errorf("xnat: draining response body: %w", err)
	}

	return nil
}

// HTTPOptions configures the transport for one operation's HTTP client.
// A zero timeout leaves that phase unbounded.
type HTTPOptions struct {
	ConnectTimeout  time.Duration
	ResponseTimeout time.Duration
	ForceHTTP11     bool
	SkipTLSVerify   bool
}

// NewHTTPClient builds an *http.Client for a single transfer operation.
// Only the dial, TLS handshake, and response-header phases are bounded;
// there is no whole-request timeout, so body streaming of large imaging
// files is never cut off mid-transfer.
func NewHTTPClient(opts HTTPOptions) *http.Client {
	dialer := &net.Dialer{Timeout: opts.ConnectTimeout}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     !opts.ForceHTTP11,
		TLSHandshakeTimeout:   opts.ConnectTimeout,
		ResponseHeaderTimeout: opts.ResponseTimeout,
	}

	if opts.SkipTLSVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // descriptor opt-out for self-signed deployments
	}

	if opts.ForceHTTP11 {
		transport.TLSNextProto = map[string]func(string, *tls.Conn) http.RoundTripper{}
	}

	return &http.Client{Transport: transport}
}
