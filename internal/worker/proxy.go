package worker

import (
	"mime"
	"net/http"
	"net/http/httputil"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// FetchProxy intercepts requests the way the worker intercepts fetches:
// API traffic is always passed through to the origin untouched (dynamic data
// must never be served stale), static assets are served cache-first with a
// network fallback, and the fallback response is NOT written back to the
// cache — entries exist only from install time.
type FetchProxy struct {
	cache       *AssetCache
	apiPrefix   string
	backendHost string
	passthrough *httputil.ReverseProxy
	logger      *logrus.Logger
}

func NewFetchProxy(cache *AssetCache, originURL, apiPrefix, backendHost string, logger *logrus.Logger) (*FetchProxy, error) {
	origin, err := url.Parse(originURL)
	if err != nil {
		return nil, err
	}
	return &FetchProxy{
		cache:       cache,
		apiPrefix:   apiPrefix,
		backendHost: backendHost,
		passthrough: httputil.NewSingleHostReverseProxy(origin),
		logger:      logger,
	}, nil
}

func (p *FetchProxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if IsAPIRequest(r.URL, p.apiPrefix, p.backendHost) {
		p.passthrough.ServeHTTP(w, r)
		return
	}

	if IsStaticAsset(r.URL.Path) {
		if data, ok := p.cache.Get(r.URL.Path); ok {
			w.Header().Set("Content-Type", contentTypeFor(r.URL.Path))
			w.Header().Set("X-Cache", "HIT")
			_, _ = w.Write(data)
			return
		}
		p.logger.WithField("path", r.URL.Path).Debug("Cache miss, falling back to network")
	}

	p.passthrough.ServeHTTP(w, r)
}

// IsAPIRequest reports whether the request targets dynamic data: its path
// contains the API prefix or the URL addresses the known backend host:port.
func IsAPIRequest(u *url.URL, apiPrefix, backendHost string) bool {
	if apiPrefix != "" && strings.Contains(u.Path, apiPrefix) {
		return true
	}
	return backendHost != "" && u.Host == backendHost
}

// IsStaticAsset reports whether the path names a cacheable document, script,
// style or image resource.
func IsStaticAsset(path string) bool {
	if path == "/" {
		return true
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".js", ".css", ".json", ".webmanifest", ".png", ".jpg", ".jpeg", ".svg", ".ico", ".woff", ".woff2":
		return true
	}
	return false
}

func contentTypeFor(path string) string {
	if path == "/" {
		return "text/html; charset=utf-8"
	}
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
