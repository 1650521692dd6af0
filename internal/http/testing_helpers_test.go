package http

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookreviews/internal/audit"
	"github.com/mrlokans/bookreviews/internal/catalog"
	"github.com/mrlokans/bookreviews/internal/readonly"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router  *gin.Engine
	service *catalog.Service
}

type testOption func(*RouterConfig)

func withAudit(dir string) testOption {
	return func(cfg *RouterConfig) { cfg.Audit = audit.NewService(dir) }
}

func withReadOnly() testOption {
	return func(cfg *RouterConfig) { cfg.ReadOnly = readonly.NewMiddleware(true) }
}

func newTestServer(t *testing.T, opts ...testOption) *testServer {
	t.Helper()
	svc := catalog.NewService(nil)
	cfg := RouterConfig{
		Store:   svc,
		Version: "test",
		Backend: "json",
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &testServer{router: NewRouter(cfg), service: svc}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// mustDo performs the request and requires the given status.
func (s *testServer) mustDo(t *testing.T, method, path string, body any, status int) *httptest.ResponseRecorder {
	t.Helper()
	w := s.do(t, method, path, body)
	require.Equal(t, status, w.Code, "%s %s: %s", method, path, w.Body.String())
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type jsonObject = map[string]any

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[ErrorResponse](t, w).Error
}

func newRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

func serve(s *testServer, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeHealth(t *testing.T, s *testServer) (*httptest.ResponseRecorder, HealthResponse) {
	t.Helper()
	w := s.do(t, http.MethodGet, "/health", nil)
	return w, decode[HealthResponse](t, w)
}
