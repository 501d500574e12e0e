package xnat

import (
	"encoding/json"
	"fmt"
	"io"
)

// Listing endpoints wrap their results in a ResultSet envelope. Field
// names below are the server's own wire keys; each hierarchy level has a
// different canonical identifier, so existence checks match containers on
// ID, resources on label, and files on Name.

// Container is one entry of a container listing (scans, reconstructions,
// or assessors under an experiment).
type Container struct {
	ID      string `json:"ID"` //nolint:tagliatelle // XNAT wire key
	XSIType string `json:"xsiType,omitempty"`
}

// Resource is one entry of a resource listing under a container or
// experiment.
type Resource struct {
	Label string `json:"label"`
}

// File is one entry of a file listing under a resource. The server
// reports sizes as decimal strings.
type File struct {
	Name string `json:"Name"`           //nolint:tagliatelle // XNAT wire key
	Size string `json:"Size,omitempty"` //nolint:tagliatelle // XNAT wire key
}

// resultSet is the envelope every listing endpoint returns.
type resultSet[T any] struct {
	ResultSet struct {
		Result []T `json:"Result"` //nolint:tagliatelle // XNAT wire key
	} `json:"ResultSet"` //nolint:tagliatelle // XNAT wire key
}

// decodeResultSet decodes a ResultSet envelope from r. An envelope with no
// Result array decodes to an empty slice, which callers treat the same as
// an empty listing.
func decodeResultSet[T any](r io.Reader) ([]T, error) {
	var rs resultSet[T]
	if err := json.NewDecoder(r).Decode(&rs); err != nil {
		return nil, fmt.Errorf("xnat: decoding result set: %w", err)
	}

	return rs.ResultSet.Result, nil
}
