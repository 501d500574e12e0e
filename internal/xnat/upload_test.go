package xnat

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateContainer(t *testing.T) {
	var (
		gotMethod  string
		gotPath    string
		gotXSIType string
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotXSIType = r.URL.Query().Get("xsiType")

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	err := client.CreateContainer(context.Background(), NewSession(), containerRef(), "xnat:mrScanData")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/REST/projects/proj1/subjects/subj1/experiments/exp1/scans/scan42", gotPath)
	assert.Equal(t, "xnat:mrScanData", gotXSIType)
}

func TestUploadFile(t *testing.T) {
	content := bytes.Repeat([]byte("voxels"), 2048)

	var (
		gotMethod        string
		gotPath          string
		gotInbody        string
		gotContentType   string
		gotContentLength int64
		gotBody          []byte
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotInbody = r.URL.Query().Get("inbody")
		gotContentType = r.Header.Get("Content-Type")
		gotContentLength = r.ContentLength
		gotBody, _ = io.ReadAll(r.Body)

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	// Wrap the reader so net/http cannot infer the length from its type;
	// the declared ContentLength must come from UploadFile itself.
	body := struct{ io.Reader }{bytes.NewReader(content)}

	err := client.UploadFile(context.Background(), NewSession(), containerRef(), body, int64(len(content)))
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/REST/projects/proj1/subjects/subj1/experiments/exp1/scans/scan42/resources/NIFTI/files/brain.nii.gz", gotPath)
	assert.Equal(t, "true", gotInbody)
	assert.Equal(t, "application/octet-stream", gotContentType)
	assert.Equal(t, int64(len(content)), gotContentLength, "length must be declared, not chunked")
	assert.Equal(t, content, gotBody)
}

func TestUploadFile_ZeroBytes(t *testing.T) {
	var gotContentLength int64 = -1

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentLength = r.ContentLength
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	err := client.UploadFile(context.Background(), NewSession(), containerRef(), bytes.NewReader(nil), 0)
	require.NoError(t, err)
	assert.Zero(t, gotContentLength)
}

func TestUploadFile_Forbidden(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	err := client.UploadFile(context.Background(), NewSession(), containerRef(), bytes.NewReader([]byte("data")), 4)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForbidden)
}
