// Package navigation provides helpers for safe URL navigation and redirects.
package navigation

import (
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
)

// BackURLOptions configures the behavior of SafeBackURL.
type BackURLOptions struct {
	// AllowedPrefix is the required URL prefix. Empty allows any safe URL.
	AllowedPrefix string

	// ExcludedPrefixes are rejected to avoid redirecting back into an
	// action endpoint (e.g. "/login").
	ExcludedPrefixes []string

	// Fallback is used when no valid return URL is found.
	Fallback string
}

// SafeBackURL extracts and validates a return URL from the request.
//
// The "return" query parameter is checked first, then the form value. Only
// local paths pass urlutil.SafeReturn, so the result is never an open
// redirect.
func SafeBackURL(r *http.Request, opts BackURLOptions) string {
	ret := urlutil.SafeReturn(query.Get(r, "return"), "", "")
	if ret == "" {
		ret = urlutil.SafeReturn(strings.TrimSpace(r.FormValue("return")), "", "")
	}
	if ret == "" {
		return opts.Fallback
	}

	if opts.AllowedPrefix != "" && !strings.HasPrefix(ret, opts.AllowedPrefix) {
		return opts.Fallback
	}
	for _, excluded := range opts.ExcludedPrefixes {
		if strings.HasPrefix(ret, excluded) {
			return opts.Fallback
		}
	}
	return ret
}

// AuthBackURL is used after the mock login and logout.
var AuthBackURL = BackURLOptions{
	ExcludedPrefixes: []string{"/login", "/logout", "/api/", "/interception_modal"},
	Fallback:         "/",
}
