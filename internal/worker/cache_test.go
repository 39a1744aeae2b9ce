package worker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaleCaches(t *testing.T) {
	existing := []string{"static-cache-v1", "static-cache-v2", "static-cache-v3", "uploads"}

	stale := StaleCaches(existing, "static-cache-v3")

	assert.ElementsMatch(t, []string{"static-cache-v1", "static-cache-v2"}, stale)
	assert.NotContains(t, stale, "uploads", "non-cache directories are never touched")
	assert.Empty(t, StaleCaches(nil, "static-cache-v3"))
}

func TestAssetCache_InstallAndGet(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("asset:" + r.URL.Path))
	}))
	defer origin.Close()

	cache := NewAssetCache(t.TempDir(), "2", origin.URL, testLogger())
	require.NoError(t, cache.Install(context.Background()))

	for _, asset := range AssetManifest {
		data, ok := cache.Get(asset)
		require.True(t, ok, "asset %s should be cached", asset)
		assert.Equal(t, "asset:"+asset, string(data))
	}

	_, ok := cache.Get("/not-in-manifest.js")
	assert.False(t, ok)
}

func TestAssetCache_InstallAbortsOnFetchFailure(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/manifest.json" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer origin.Close()

	cache := NewAssetCache(t.TempDir(), "1", origin.URL, testLogger())
	err := cache.Install(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/manifest.json")
}

func TestAssetCache_ActivateLeavesExactlyOneCache(t *testing.T) {
	baseDir := t.TempDir()
	for _, name := range []string{"static-cache-v1", "static-cache-v2", "static-cache-v3", "uploads"} {
		require.NoError(t, os.MkdirAll(filepath.Join(baseDir, name), 0o755))
	}

	cache := NewAssetCache(baseDir, "3", "http://localhost:8080", testLogger())
	require.NoError(t, cache.Activate())

	entries, err := os.ReadDir(baseDir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"static-cache-v3", "uploads"}, names)
}
