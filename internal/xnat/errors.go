// Package xnat provides an HTTP client for the XNAT REST API with
// basic-auth sessions, cookie threading, and error classification.
package xnat

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for HTTP status code classification.
// Use errors.Is(err, xnat.ErrNotFound) to check.
var (
	ErrBadRequest   = errors.New("xnat: bad request")
	ErrUnauthorized = errors.New("xnat: unauthorized")
	ErrForbidden    = errors.New("xnat: forbidden")
	ErrNotFound     = errors.New("xnat: not found")
	ErrConflict     = errors.New("xnat: conflict")
	ErrServerError  = errors.New("xnat: server error")
)

// HTTPError wraps a sentinel error with the HTTP status code, the method
// and URL of the failing call, and an excerpt of the response body for
// debugging.
type HTTPError struct {
	StatusCode int
	Method     string
	URL        string
	Message    string
	Err        error // sentinel, for errors.Is()
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("xnat: %s %s: HTTP %d: %s", e.Method, e.URL, e.StatusCode, e.Message)
	}

	return fmt.Sprintf("xnat: %s %s: HTTP %d", e.Method, e.URL, e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// classifyStatus maps an HTTP status code to a sentinel error.
// Returns nil for 2xx success codes.
func classifyStatus(code int) error {
	switch code {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	default:
		if code >= http.StatusInternalServerError {
			return ErrServerError
		}

		return nil
	}
}
