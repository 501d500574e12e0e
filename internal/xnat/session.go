package xnat

import (
	"context"
	"net/http"
)

// sessionURI is the endpoint that invalidates the server-side session
// behind the JSESSIONID cookie.
const sessionURI = "/data/JSESSION"

// Session carries the cookies the server issues on the first authenticated
// call of an operation. It is scoped to exactly one operation: created
// empty, populated once, passed by pointer to every subsequent call, and
// invalidated at the end. Sessions are never shared between operations or
// goroutines.
type Session struct {
	cookies []*http.Cookie
}

// NewSession returns an empty session ready to capture the cookies of the
// first authenticated call.
func NewSession() *Session {
	return &Session{}
}

// Established reports whether the session has captured cookies. An
// unestablished session has no server-side state to tear down.
func (s *Session) Established() bool {
	return s != nil && len(s.cookies) > 0
}

// capture stores the response cookies if the session is still empty.
// Only the first successful response establishes the session; later
// Set-Cookie headers are ignored so the cookie threaded through the
// operation stays the one the server issued first.
func (s *Session) capture(resp *http.Response) {
	if s == nil || len(s.cookies) > 0 {
		return
	}

	s.cookies = resp.Cookies()
}

// attach adds the session cookies to an outgoing request.
func (s *Session) attach(req *http.Request) {
	if s == nil {
		return
	}

	for _, c := range s.cookies {
		req.AddCookie(c)
	}
}

// CloseSession invalidates the server-side session behind the cookie.
// XNAT sessions otherwise live until their server-side timeout, so every
// operation ends with this call.
func (c *Client) CloseSession(ctx context.Context, sess *Session) error {
	resp, err := c.do(ctx, http.MethodDelete, sessionURI, nil, sess, nil)
	if err != nil {
		return err
	}

	c.logger.Debug("session invalidated")

	return drainAndClose(resp)
}
