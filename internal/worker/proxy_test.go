package worker

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestIsAPIRequest(t *testing.T) {
	const apiPrefix = "/api/"
	const backendHost = "localhost:8080"

	assert.True(t, IsAPIRequest(mustParseURL(t, "/api/tasks"), apiPrefix, backendHost))
	assert.True(t, IsAPIRequest(mustParseURL(t, "http://localhost:8080/tasks"), apiPrefix, backendHost))
	assert.False(t, IsAPIRequest(mustParseURL(t, "/static/js/main.js"), apiPrefix, backendHost))
	assert.False(t, IsAPIRequest(mustParseURL(t, "/tasks/5"), apiPrefix, backendHost))
}

func TestIsStaticAsset(t *testing.T) {
	assert.True(t, IsStaticAsset("/"))
	assert.True(t, IsStaticAsset("/static/js/main.js"))
	assert.True(t, IsStaticAsset("/static/css/MAIN.CSS"))
	assert.True(t, IsStaticAsset("/icons/icon-192.png"))
	assert.False(t, IsStaticAsset("/tasks/5"))
	assert.False(t, IsStaticAsset("/ws"))
}

// seedCachedAsset writes an asset into the cache directory the way Install
// would, without a network fetch.
func seedCachedAsset(t *testing.T, baseDir, version, asset, content string) {
	t.Helper()
	dir := filepath.Join(baseDir, CacheNamePrefix+version)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, assetFileName(asset)), []byte(content), 0o644))
}

func TestFetchProxy_ServesStaticAssetsCacheFirst(t *testing.T) {
	var backendHits int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&backendHits, 1)
		_, _ = w.Write([]byte("from network"))
	}))
	defer backend.Close()

	baseDir := t.TempDir()
	seedCachedAsset(t, baseDir, "1", "/static/js/main.js", "cached bundle")
	cache := NewAssetCache(baseDir, "1", backend.URL, testLogger())

	proxy, err := NewFetchProxy(cache, backend.URL, "/api/", "", testLogger())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	proxy.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/js/main.js", nil))

	assert.Equal(t, "cached bundle", rec.Body.String())
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Contains(t, rec.Header().Get("Content-Type"), "javascript")
	assert.Zero(t, atomic.LoadInt32(&backendHits), "cache hit must not touch the network")
}

func TestFetchProxy_CacheMissFallsBackWithoutBackfill(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("from network"))
	}))
	defer backend.Close()

	cache := NewAssetCache(t.TempDir(), "1", backend.URL, testLogger())
	proxy, err := NewFetchProxy(cache, backend.URL, "/api/", "", testLogger())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	proxy.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/css/main.css", nil))
	assert.Equal(t, "from network", rec.Body.String())
	assert.Empty(t, rec.Header().Get("X-Cache"))

	_, ok := cache.Get("/static/css/main.css")
	assert.False(t, ok, "network fallback must not populate the cache")
}

func TestFetchProxy_APIAlwaysPassesThrough(t *testing.T) {
	var gotPath string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"tasks":[]}`))
	}))
	defer backend.Close()

	baseDir := t.TempDir()
	// Even a (hypothetical) cached copy must be ignored for API paths.
	seedCachedAsset(t, baseDir, "1", "/api/tasks", "stale data")
	cache := NewAssetCache(baseDir, "1", backend.URL, testLogger())

	proxy, err := NewFetchProxy(cache, backend.URL, "/api/", "", testLogger())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	proxy.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))

	assert.Equal(t, "/api/tasks", gotPath)
	assert.Equal(t, `{"tasks":[]}`, rec.Body.String())
}
