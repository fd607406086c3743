package httpclient_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	// Packages
	httpclient "github.com/mutablelogic/go-lingo/pkg/httpclient"
	schema "github.com/mutablelogic/go-lingo/pkg/schema"
	token "github.com/mutablelogic/go-lingo/pkg/token"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
)

///////////////////////////////////////////////////////////////////////////////
// MOCK API SERVER

// mockAPI accepts a single access token at a time. A refresh replaces both
// tokens, and every other request is answered with an envelope, or with
// frames when it asks for a stream.
type mockAPI struct {
	*httptest.Server
	mu          sync.Mutex
	access      string
	refresh     string
	rotation    int
	refreshFail bool
	errorBody   string
	frames      []string
	streamFn    http.HandlerFunc
	data        map[string]any
	requests    []mockRequest
	refreshes   atomic.Int32
}

type mockRequest struct {
	Method    string
	Path      string
	Query     string
	Auth      string
	RequestID string
	Body      string
}

func newMockAPI(t *testing.T) *mockAPI {
	t.Helper()
	mock := &mockAPI{
		access:  "access-0",
		refresh: "refresh-0",
		data:    make(map[string]any),
	}
	mock.Server = httptest.NewServer(http.HandlerFunc(mock.serve))
	t.Cleanup(mock.Close)
	return mock
}

// URL returns the endpoint of the API
func (m *mockAPI) URL() string {
	return m.Server.URL + "/api"
}

// Tokens returns the tokens the server currently accepts
func (m *mockAPI) Tokens() (string, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.access, m.refresh
}

// Expire rotates the access token without telling the client
func (m *mockAPI) Expire() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = "expired-" + m.access
}

// SetFrames sets the frames written by streaming endpoints
func (m *mockAPI) SetFrames(frames ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames = frames
}

// SetStreamFn replaces the handler for streaming endpoints
func (m *mockAPI) SetStreamFn(fn http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.streamFn = fn
}

// SetData sets the envelope data returned for a path
func (m *mockAPI) SetData(path string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[path] = data
}

// FailRefresh makes every refresh unsuccessful
func (m *mockAPI) FailRefresh() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshFail = true
}

// SetErrorBody sets the shape of error responses: "envelope" for the
// backend's response envelope, "empty" for no body, or "" for a go-server
// error body
func (m *mockAPI) SetErrorBody(shape string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorBody = shape
}

// Requests returns the requests made, except token refreshes
func (m *mockAPI) Requests() []mockRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []mockRequest
	for _, r := range m.requests {
		if r.Path != "/api/Authenticate/Refresh" {
			result = append(result, r)
		}
	}
	return result
}

func (m *mockAPI) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	m.mu.Lock()
	m.requests = append(m.requests, mockRequest{
		Method:    r.Method,
		Path:      r.URL.Path,
		Query:     r.URL.RawQuery,
		Auth:      r.Header.Get("Authorization"),
		RequestID: r.Header.Get("X-Request-Id"),
		Body:      string(body),
	})
	m.mu.Unlock()

	switch r.URL.Path {
	case "/api/Authenticate/Refresh":
		m.serveRefresh(w, r)
		return
	case "/api/Authenticate/Login":
		m.serveLogin(w, body)
		return
	}

	m.mu.Lock()
	authorized := r.Header.Get("Authorization") == "Bearer "+m.access
	m.mu.Unlock()
	if !authorized {
		m.fail(w, http.StatusUnauthorized)
		return
	}

	// Answer with the status in the path
	if status, ok := strings.CutPrefix(r.URL.Path, "/api/Status/"); ok {
		code, _ := strconv.Atoi(status)
		m.fail(w, code)
		return
	}

	if r.Header.Get("Accept") == "text/event-stream" {
		m.serveStream(w, r)
		return
	}

	m.mu.Lock()
	data := m.data[strings.TrimPrefix(r.URL.Path, "/api/")]
	m.mu.Unlock()
	_ = httpresponse.JSON(w, http.StatusOK, 0, schema.Envelope[any]{IsSuccess: true, Data: data})
}

func (m *mockAPI) fail(w http.ResponseWriter, code int) {
	m.mu.Lock()
	shape := m.errorBody
	m.mu.Unlock()
	switch shape {
	case "envelope":
		_ = httpresponse.JSON(w, code, 0, schema.Envelope[any]{Message: http.StatusText(code), Code: code})
	case "empty":
		w.WriteHeader(code)
	default:
		_ = httpresponse.Error(w, httpresponse.Err(code))
	}
}

func (m *mockAPI) serveRefresh(w http.ResponseWriter, r *http.Request) {
	m.refreshes.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.refreshFail || r.Method != http.MethodPost || r.URL.Query().Get("refreshToken") != m.refresh {
		_ = httpresponse.JSON(w, http.StatusOK, 0, schema.Envelope[any]{Message: "invalid refresh token", Code: 401})
		return
	}
	_ = httpresponse.JSON(w, http.StatusOK, 0, schema.Envelope[schema.Tokens]{IsSuccess: true, Data: m.rotate()})
}

func (m *mockAPI) serveLogin(w http.ResponseWriter, body []byte) {
	var req schema.LoginRequest
	if err := json.Unmarshal(body, &req); err != nil || req.Password != "secret" {
		_ = httpresponse.JSON(w, http.StatusOK, 0, schema.Envelope[any]{Message: "invalid credentials"})
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_ = httpresponse.JSON(w, http.StatusOK, 0, schema.Envelope[schema.Tokens]{IsSuccess: true, Data: m.rotate()})
}

func (m *mockAPI) serveStream(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	frames, fn := m.frames, m.streamFn
	m.mu.Unlock()
	if fn != nil {
		fn(w, r)
		return
	}
	writeFrames(w, frames...)
}

// rotate issues new tokens, and must be called with the lock held
func (m *mockAPI) rotate() schema.Tokens {
	m.rotation++
	m.access = fmt.Sprintf("access-%d", m.rotation)
	m.refresh = fmt.Sprintf("refresh-%d", m.rotation)
	return schema.Tokens{AccessToken: m.access, RefreshToken: m.refresh}
}

///////////////////////////////////////////////////////////////////////////////
// HELPERS

// writeFrames writes each frame as it would appear on the wire
func writeFrames(w http.ResponseWriter, frames ...string) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.WriteHeader(http.StatusOK)
	for _, frame := range frames {
		fmt.Fprint(w, frame)
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}

func frame(content string) string {
	data, _ := json.Marshal(schema.Chunk{Content: content})
	return schema.FramePrefix + string(data) + schema.FrameSeparator
}

func errorFrame(code int, message string) string {
	data, _ := json.Marshal(schema.Chunk{Error: &schema.ChunkError{Code: code, Message: message}})
	return schema.FramePrefix + string(data) + schema.FrameSeparator
}

// logouts records the reasons a store was logged out
type logouts struct {
	sync.Mutex
	reasons []string
}

func (l *logouts) fn(reason string) {
	l.Lock()
	defer l.Unlock()
	l.reasons = append(l.reasons, reason)
}

func (l *logouts) get() []string {
	l.Lock()
	defer l.Unlock()
	return append([]string(nil), l.reasons...)
}

// newClient returns a client with a session the mock accepts
func newClient(t *testing.T, mock *mockAPI, opts ...httpclient.Opt) (*httpclient.Client, *token.MemoryStore, *logouts) {
	t.Helper()
	access, refresh := mock.Tokens()
	return newClientWithTokens(t, mock, access, refresh, opts...)
}

func newClientWithTokens(t *testing.T, mock *mockAPI, access, refresh string, opts ...httpclient.Opt) (*httpclient.Client, *token.MemoryStore, *logouts) {
	t.Helper()
	l := new(logouts)
	storeOpts := []token.Opt{token.WithLogout(l.fn)}
	if access != "" {
		storeOpts = append(storeOpts, token.WithTokens(access, refresh))
	}
	store, err := token.NewMemoryStore(storeOpts...)
	if err != nil {
		t.Fatal(err)
	}
	c, err := httpclient.New(mock.URL(), store, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return c, store, l
}
