package connector

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xnat-tools/xnatc/internal/access"
	"github.com/xnat-tools/xnatc/internal/xnat"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Paths for the fixture hierarchy served by fakeXNAT.
const (
	experimentPath  = "/REST/projects/proj1/subjects/subj1/experiments/exp1"
	containersPath  = experimentPath + "/scans"
	containerPath   = containersPath + "/scan42"
	resourcesPath   = containerPath + "/resources"
	filesPath       = resourcesPath + "/NIFTI/files"
	filePath        = filesPath + "/brain.nii.gz"
	sessionFilePath = experimentPath + "/resources/NIFTI/files/brain.nii.gz"
)

type recordedCall struct {
	method string
	path   string
	cookie bool
}

func (rc recordedCall) String() string {
	return rc.method + " " + rc.path
}

// fakeContainer is one scan/reconstruction/assessor with its resources.
type fakeContainer struct {
	xsiType   string
	resources map[string]map[string][]byte // label -> file name -> content
}

// fakeXNAT is a stateful in-memory XNAT server. It authenticates every
// request, issues a session cookie on every response, serves the
// container hierarchy of a single experiment, applies uploads and deletes
// to its state, and records calls in arrival order.
type fakeXNAT struct {
	t *testing.T

	mu               sync.Mutex
	calls            []recordedCall
	containers       map[string]*fakeContainer
	sessionResources map[string]map[string][]byte // experiment-level resources
	sessionDeletes   int

	// failSessionDelete makes DELETE /data/JSESSION return 500.
	failSessionDelete bool
}

func newFakeXNAT(t *testing.T) (*fakeXNAT, *httptest.Server) {
	t.Helper()

	fx := &fakeXNAT{
		t:                t,
		containers:       map[string]*fakeContainer{},
		sessionResources: map[string]map[string][]byte{},
	}

	srv := httptest.NewServer(fx)
	t.Cleanup(srv.Close)

	return fx, srv
}

func (fx *fakeXNAT) seedContainer(id, xsiType string) {
	fx.mu.Lock()
	defer fx.mu.Unlock()

	fx.containers[id] = &fakeContainer{
		xsiType:   xsiType,
		resources: map[string]map[string][]byte{},
	}
}

func (fx *fakeXNAT) seedFile(containerID, label, name string, data []byte) {
	fx.mu.Lock()
	defer fx.mu.Unlock()

	ct, ok := fx.containers[containerID]
	require.True(fx.t, ok, "seedFile: container %q not seeded", containerID)

	if ct.resources[label] == nil {
		ct.resources[label] = map[string][]byte{}
	}

	ct.resources[label][name] = data
}

func (fx *fakeXNAT) seedSessionFile(label, name string, data []byte) {
	fx.mu.Lock()
	defer fx.mu.Unlock()

	if fx.sessionResources[label] == nil {
		fx.sessionResources[label] = map[string][]byte{}
	}

	fx.sessionResources[label][name] = data
}

// callStrings returns every recorded call as "METHOD /path".
func (fx *fakeXNAT) callStrings() []string {
	fx.mu.Lock()
	defer fx.mu.Unlock()

	out := make([]string, len(fx.calls))
	for i, c := range fx.calls {
		out[i] = c.String()
	}

	return out
}

// mutations returns the PUT/DELETE calls against the container hierarchy,
// in order. The session lifecycle DELETE is not a hierarchy mutation and
// is excluded.
func (fx *fakeXNAT) mutations() []string {
	fx.mu.Lock()
	defer fx.mu.Unlock()

	var out []string

	for _, c := range fx.calls {
		if c.path == sessionPath {
			continue
		}

		if c.method == http.MethodPut || c.method == http.MethodDelete {
			out = append(out, c.String())
		}
	}

	return out
}

func (fx *fakeXNAT) sessionDeleteCount() int {
	fx.mu.Lock()
	defer fx.mu.Unlock()

	return fx.sessionDeletes
}

func (fx *fakeXNAT) fileContent(containerID, label, name string) ([]byte, bool) {
	fx.mu.Lock()
	defer fx.mu.Unlock()

	ct, ok := fx.containers[containerID]
	if !ok {
		return nil, false
	}

	data, ok := ct.resources[label][name]

	return data, ok
}

func (fx *fakeXNAT) containerXSIType(id string) (string, bool) {
	fx.mu.Lock()
	defer fx.mu.Unlock()

	ct, ok := fx.containers[id]
	if !ok {
		return "", false
	}

	return ct.xsiType, true
}

const sessionPath = "/data/JSESSION"

func (fx *fakeXNAT) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fx.mu.Lock()
	defer fx.mu.Unlock()

	if user, pass, ok := r.BasicAuth(); !ok || user != "alice" || pass != "secret" {
		w.WriteHeader(http.StatusUnauthorized)

		return
	}

	_, cookieErr := r.Cookie("JSESSIONID")
	fx.calls = append(fx.calls, recordedCall{
		method: r.Method,
		path:   r.URL.Path,
		cookie: cookieErr == nil,
	})

	http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "fake-session"})

	if r.URL.Path == sessionPath && r.Method == http.MethodDelete {
		if fx.failSessionDelete {
			w.WriteHeader(http.StatusInternalServerError)

			return
		}

		fx.sessionDeletes++
		w.WriteHeader(http.StatusOK)

		return
	}

	// /REST/projects/{p}/subjects/{s}/experiments/{e}/...
	segs := strings.Split(strings.TrimPrefix(r.URL.Path, "/"), "/")
	if len(segs) < 8 || segs[0] != "REST" {
		w.WriteHeader(http.StatusNotFound)

		return
	}

	rest := segs[7:]

	switch {
	case len(rest) == 1:
		fx.serveContainers(w)
	case len(rest) == 2:
		fx.serveContainer(w, r, rest[1])
	case len(rest) == 3 && rest[2] == "resources":
		fx.serveResources(w, rest[1])
	case len(rest) == 5 && rest[2] == "resources" && rest[4] == "files":
		fx.serveFiles(w, rest[1], rest[3])
	case len(rest) == 6 && rest[2] == "resources" && rest[4] == "files":
		fx.serveFile(w, r, rest[1], rest[3], rest[5])
	case len(rest) == 4 && rest[0] == "resources" && rest[2] == "files":
		fx.serveSessionFile(w, r, rest[1], rest[3])
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (fx *fakeXNAT) serveContainers(w http.ResponseWriter) {
	type entry struct {
		ID      string `json:"ID"`      //nolint:tagliatelle // XNAT wire key
		XSIType string `json:"xsiType"` //nolint:tagliatelle // XNAT wire key
	}

	entries := make([]entry, 0, len(fx.containers))
	for id, ct := range fx.containers {
		entries = append(entries, entry{ID: id, XSIType: ct.xsiType})
	}

	writeResultSet(fx.t, w, entries)
}

func (fx *fakeXNAT) serveContainer(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodPut:
		fx.containers[id] = &fakeContainer{
			xsiType:   r.URL.Query().Get("xsiType"),
			resources: map[string]map[string][]byte{},
		}
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		if _, ok := fx.containers[id]; !ok {
			w.WriteHeader(http.StatusNotFound)

			return
		}

		delete(fx.containers, id)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (fx *fakeXNAT) serveResources(w http.ResponseWriter, containerID string) {
	ct, ok := fx.containers[containerID]
	if !ok {
		w.WriteHeader(http.StatusNotFound)

		return
	}

	type entry struct {
		Label string `json:"label"`
	}

	entries := make([]entry, 0, len(ct.resources))
	for label := range ct.resources {
		entries = append(entries, entry{Label: label})
	}

	writeResultSet(fx.t, w, entries)
}

func (fx *fakeXNAT) serveFiles(w http.ResponseWriter, containerID, label string) {
	ct, ok := fx.containers[containerID]
	if !ok {
		w.WriteHeader(http.StatusNotFound)

		return
	}

	type entry struct {
		Name string `json:"Name"` //nolint:tagliatelle // XNAT wire key
	}

	entries := make([]entry, 0, len(ct.resources[label]))
	for name := range ct.resources[label] {
		entries = append(entries, entry{Name: name})
	}

	writeResultSet(fx.t, w, entries)
}

func (fx *fakeXNAT) serveFile(w http.ResponseWriter, r *http.Request, containerID, label, name string) {
	ct, ok := fx.containers[containerID]
	if !ok {
		w.WriteHeader(http.StatusNotFound)

		return
	}

	switch r.Method {
	case http.MethodGet:
		data, ok := ct.resources[label][name]
		if !ok {
			w.WriteHeader(http.StatusNotFound)

			return
		}

		_, _ = w.Write(data)
	case http.MethodPut:
		if r.URL.Query().Get("inbody") != "true" {
			w.WriteHeader(http.StatusBadRequest)

			return
		}

		data, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)

			return
		}

		if ct.resources[label] == nil {
			ct.resources[label] = map[string][]byte{}
		}

		ct.resources[label][name] = data
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		if _, ok := ct.resources[label][name]; !ok {
			w.WriteHeader(http.StatusNotFound)

			return
		}

		delete(ct.resources[label], name)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (fx *fakeXNAT) serveSessionFile(w http.ResponseWriter, r *http.Request, label, name string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)

		return
	}

	data, ok := fx.sessionResources[label][name]
	if !ok {
		w.WriteHeader(http.StatusNotFound)

		return
	}

	_, _ = w.Write(data)
}

func writeResultSet[T any](t *testing.T, w http.ResponseWriter, entries []T) {
	t.Helper()

	payload := map[string]any{
		"ResultSet": map[string]any{"Result": entries},
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

// --- Fixture descriptors and connector construction ---

func sendAccess(baseURL string) *access.Access {
	return &access.Access{
		BaseURL:       baseURL,
		Project:       "proj1",
		Subject:       "subj1",
		Session:       "exp1",
		ContainerType: "scans",
		Container:     "scan42",
		Resource:      "NIFTI",
		XSIType:       "xnat:mrScanData",
		File:          "brain.nii.gz",
		Auth:          access.Auth{Username: "alice", Password: "secret"},
	}
}

func receiveAccess(baseURL string) *access.Access {
	return &access.Access{
		BaseURL:       baseURL,
		Project:       "proj1",
		Subject:       "subj1",
		Session:       "exp1",
		ContainerType: "scans",
		Container:     "scan42",
		Resource:      "NIFTI",
		File:          "brain.nii.gz",
		Auth:          access.Auth{Username: "alice", Password: "secret"},
	}
}

func receiveSessionAccess(baseURL string) *access.Access {
	return &access.Access{
		BaseURL:  baseURL,
		Project:  "proj1",
		Subject:  "subj1",
		Session:  "exp1",
		Resource: "NIFTI",
		File:     "brain.nii.gz",
		Auth:     access.Auth{Username: "alice", Password: "secret"},
	}
}

func newTestConnector(t *testing.T, acc *access.Access) *Connector {
	t.Helper()

	client := xnat.NewClient(acc.BaseURL, nil, acc.Auth, testLogger(), "xnatc-test")

	return New(client, testLogger(), 0)
}
