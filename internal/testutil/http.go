package testutil

import (
	"net/http"

	"github.com/dalemusser/starterkit/internal/app/system/auth"
)

// WithSession attaches a session context to the request, bypassing the
// session middleware.
func WithSession(r *http.Request, authenticated bool) *http.Request {
	return auth.WithSessionContext(r, auth.SessionContext{Authenticated: authenticated})
}

// HTMX marks the request as sent by htmx from inside the app.
func HTMX(r *http.Request) *http.Request {
	r.Header.Set("HX-Request", "true")
	return r
}
