package offline

import (
	"net/http"
	"net/url"
	"strings"
)

// Category is the resource class of an intercepted request.
type Category int

const (
	CategoryDefault Category = iota
	CategoryStaticAsset
	CategoryNavigation
	CategoryAPI
)

func (c Category) String() string {
	switch c {
	case CategoryStaticAsset:
		return "static_asset"
	case CategoryNavigation:
		return "navigation"
	case CategoryAPI:
		return "api"
	case CategoryDefault:
		return "default"
	}
	return "unknown"
}

// Strategy returns the cache strategy selected for the category.
func (c Category) Strategy() Strategy {
	switch c {
	case CategoryStaticAsset:
		return CacheFirst
	case CategoryNavigation:
		return NetworkFirst
	case CategoryAPI:
		return NetworkFirstWithFallback
	case CategoryDefault:
		return NetworkFirst
	}
	return NetworkFirst
}

var staticExtensions = []string{
	".js", ".css", ".woff2", ".woff", ".ttf", ".eot",
	".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp",
}

// IsStaticAsset reports whether path ends in a static asset extension.
func IsStaticAsset(path string) bool {
	for _, ext := range staticExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// IsNavigation reports whether r is a GET for a full HTML document. Fetch
// metadata wins when present; otherwise the Accept header must list text/html.
func IsNavigation(r *http.Request) bool {
	if r.Method != http.MethodGet {
		return false
	}
	if mode := r.Header.Get("Sec-Fetch-Mode"); mode != "" {
		return mode == "navigate"
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

// Classify picks the category of r. Rules are evaluated in order and the
// first match wins.
func Classify(r *http.Request, apiPrefix string) Category {
	path := r.URL.Path
	switch {
	case IsStaticAsset(path):
		return CategoryStaticAsset
	case IsNavigation(r):
		return CategoryNavigation
	case apiPrefix != "" && strings.HasPrefix(path, apiPrefix):
		return CategoryAPI
	}
	return CategoryDefault
}

// RequestKey is the cache key of u: path plus the raw query.
func RequestKey(u *url.URL) string {
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		return path + "?" + u.RawQuery
	}
	return path
}

// sameOrigin reports whether u targets origin. Relative URLs always do.
func sameOrigin(u, origin *url.URL) bool {
	if !u.IsAbs() {
		return true
	}
	return origin != nil &&
		strings.EqualFold(u.Scheme, origin.Scheme) &&
		strings.EqualFold(u.Host, origin.Host)
}
