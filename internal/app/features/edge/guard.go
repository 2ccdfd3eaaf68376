package edge

import (
	"crypto/subtle"
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// RequireToken guards the worker control surface and metrics.
//
// With a token configured, callers must send "Authorization: Bearer <token>"
// and get 401 otherwise. Without one, only loopback callers are served and
// everyone else gets 403.
func RequireToken(token string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				if !isLoopback(r.RemoteAddr) {
					logger.Warn("worker control refused: no token configured",
						zap.String("remote", r.RemoteAddr), zap.String("path", r.URL.Path))
					writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			got, ok := bearer(r)
			if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				logger.Warn("worker control refused: bad token",
					zap.String("remote", r.RemoteAddr), zap.String("path", r.URL.Path))
				w.Header().Set("WWW-Authenticate", `Bearer realm="worker"`)
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearer(r *http.Request) (string, bool) {
	const prefix = "bearer "
	h := r.Header.Get("Authorization")
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(h[len(prefix):]), true
}

// isLoopback uses RemoteAddr only; forwarding headers are client-controlled.
func isLoopback(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
