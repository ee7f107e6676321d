package preview

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHandler(t *testing.T, ttl time.Duration) (*Handler, string) {
	t.Helper()
	root := t.TempDir()
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewHandler(root, ttl, logger), root
}

func TestServeConfig(t *testing.T) {
	handler, root := testHandler(t, time.Minute)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "chains", "v22"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "chains", "v22", "chains.json"),
		[]byte(`[{"chainId": "0x1"}]`), 0o644))

	router := NewRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/chains/v22/chains.json", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `[{"chainId": "0x1"}]`, rec.Body.String())
}

func TestServeConfigNotFound(t *testing.T) {
	handler, _ := testHandler(t, time.Minute)
	router := NewRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/chains/v99/chains.json", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeConfigCachesReads(t *testing.T) {
	handler, root := testHandler(t, time.Minute)
	path := filepath.Join(root, "chains.json")
	require.NoError(t, os.WriteFile(path, []byte(`["first"]`), 0o644))

	router := NewRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/chains.json", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.JSONEq(t, `["first"]`, rec.Body.String())

	// A rewrite inside the TTL window stays invisible, like on the
	// production host.
	require.NoError(t, os.WriteFile(path, []byte(`["second"]`), 0o644))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.JSONEq(t, `["first"]`, rec.Body.String())
}

func TestServeConfigCachesMisses(t *testing.T) {
	handler, root := testHandler(t, time.Minute)
	router := NewRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/late.json", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.NoError(t, os.WriteFile(filepath.Join(root, "late.json"), []byte(`{}`), 0o644))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeConfigRejectsEscapes(t *testing.T) {
	handler, _ := testHandler(t, time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.URL.Path = "/../secrets"
	rec := httptest.NewRecorder()
	handler.ServeConfig(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	handler, _ := testHandler(t, time.Minute)
	router := NewRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

func TestContentTypes(t *testing.T) {
	assert.Equal(t, "application/json", contentType("chains/v22/chains.json"))
	assert.Equal(t, "image/svg+xml", contentType("icons/chains/pezkuwi.svg"))
	assert.Equal(t, "image/png", contentType("icons/banner.png"))
	assert.Equal(t, "application/octet-stream", contentType("README"))
}
