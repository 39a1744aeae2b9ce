package worker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// CacheNamePrefix prefixes every versioned cache directory. Directories in
// the cache root that don't carry it are left alone.
const CacheNamePrefix = "static-cache-v"

// AssetManifest is the fixed list of core static assets pre-fetched at
// install time: app shell, main bundle, stylesheet, web-app manifest, icons.
// Cache entries are only ever created from this list.
var AssetManifest = []string{
	"/",
	"/index.html",
	"/static/js/main.js",
	"/static/css/main.css",
	"/manifest.json",
	"/icons/icon-192.png",
	"/icons/icon-512.png",
}

// AssetCache is the worker's on-disk static asset cache. Each worker version
// owns one directory named after its cache version; activation deletes every
// other versioned directory.
type AssetCache struct {
	baseDir string
	version string
	origin  string
	client  *http.Client
	logger  *logrus.Logger
}

func NewAssetCache(baseDir, version, origin string, logger *logrus.Logger) *AssetCache {
	return &AssetCache{
		baseDir: baseDir,
		version: version,
		origin:  strings.TrimRight(origin, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

// Name returns the versioned cache name, e.g. "static-cache-v3".
func (c *AssetCache) Name() string {
	return CacheNamePrefix + c.version
}

func (c *AssetCache) dir() string {
	return filepath.Join(c.baseDir, c.Name())
}

// Install pre-fetches the full asset manifest into this version's cache
// directory. Any fetch failure aborts the install; a partially populated
// cache is never used.
func (c *AssetCache) Install(ctx context.Context) error {
	if err := os.MkdirAll(c.dir(), 0o755); err != nil {
		return fmt.Errorf("error creating cache directory %s: %w", c.dir(), err)
	}

	for _, asset := range AssetManifest {
		if err := c.fetchAsset(ctx, asset); err != nil {
			return err
		}
	}
	c.logger.WithFields(logrus.Fields{
		"cache":  c.Name(),
		"assets": len(AssetManifest),
	}).Info("Static asset cache populated")
	return nil
}

func (c *AssetCache) fetchAsset(ctx context.Context, asset string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.origin+asset, nil)
	if err != nil {
		return fmt.Errorf("error building request for asset %s: %w", asset, err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("error fetching asset %s: %w", asset, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d fetching asset %s", resp.StatusCode, asset)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading asset %s: %w", asset, err)
	}
	if err := os.WriteFile(filepath.Join(c.dir(), assetFileName(asset)), data, 0o644); err != nil {
		return fmt.Errorf("error writing cached asset %s: %w", asset, err)
	}
	return nil
}

// Get returns the cached bytes for a root-relative asset path.
func (c *AssetCache) Get(asset string) ([]byte, bool) {
	data, err := os.ReadFile(filepath.Join(c.dir(), assetFileName(asset)))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Activate deletes every cache directory whose name differs from the current
// versioned name, leaving exactly this worker version's cache alive.
func (c *AssetCache) Activate() error {
	entries, err := os.ReadDir(c.baseDir)
	if err != nil {
		return fmt.Errorf("error listing cache root %s: %w", c.baseDir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}

	for _, stale := range StaleCaches(names, c.Name()) {
		if err := os.RemoveAll(filepath.Join(c.baseDir, stale)); err != nil {
			c.logger.WithField("cache", stale).WithError(err).Warn("Could not delete stale cache")
			continue
		}
		c.logger.WithField("cache", stale).Info("Deleted stale cache")
	}
	return nil
}

// StaleCaches computes which of the existing cache names must be deleted for
// the given current cache name. Pure; Activate applies the side effects.
func StaleCaches(existing []string, current string) []string {
	var stale []string
	for _, name := range existing {
		if strings.HasPrefix(name, CacheNamePrefix) && name != current {
			stale = append(stale, name)
		}
	}
	return stale
}

func assetFileName(asset string) string {
	return url.PathEscape(asset)
}
