// Package auth carries the display-only "is authenticated" flag.
//
// The flag lives in a signed cookie session. It is not an identity system:
// there are no credentials, tokens or users, and forcing the flag true only
// changes what the dynamic layout region renders.
package auth

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session constants                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	DefaultSessionName = "starterkit-session"

	isAuthKey = "is_authenticated"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session context                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionContext is the per-request view of the session handed to renderers.
type SessionContext struct {
	Authenticated bool
}

type ctxKey string

const sessionCtxKey ctxKey = "sessionContext"

// FromRequest returns the SessionContext placed by LoadSession.
// Requests that did not pass through the middleware are unauthenticated.
func FromRequest(r *http.Request) SessionContext {
	sc, _ := r.Context().Value(sessionCtxKey).(SessionContext)
	return sc
}

// WithSessionContext returns a copy of r carrying sc.
func WithSessionContext(r *http.Request, sc SessionContext) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), sessionCtxKey, sc))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Session manager                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionManager wraps the cookie store and the session cookie name.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewSessionManager builds the cookie store.
//
// An empty key is only accepted outside production; a random key is generated
// so sessions work until the process restarts.
// In production (secure=true), cookies are Secure + SameSite=None.
// In local dev over http://localhost, use secure=false so cookies are accepted.
func NewSessionManager(sessionKey, name, domain string, secure bool, logger *zap.Logger) (*SessionManager, error) {
	key := []byte(sessionKey)
	if sessionKey == "" {
		if secure {
			return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
		}
		key = securecookie.GenerateRandomKey(32)
		if key == nil {
			return nil, fmt.Errorf("generate session key: no randomness available")
		}
		logger.Warn("session key is empty; using an ephemeral key",
			zap.String("key_prefix", hex.EncodeToString(key[:4])))
	} else if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if name == "" {
		name = DefaultSessionName
	}

	store := sessions.NewCookieStore(key)
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.String("name", name),
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// Store exposes the underlying cookie store.
func (sm *SessionManager) Store() *sessions.CookieStore {
	return sm.store
}

// Name returns the session cookie name.
func (sm *SessionManager) Name() string {
	return sm.name
}

// GetSession returns the session for r. A cookie signed with an old key
// yields a fresh session and a non-nil error.
func (sm *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	return sm.store.Get(r, sm.name)
}

// LoadSession derives the SessionContext from the cookie and stores it in
// the request context.
func (sm *SessionManager) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sm.GetSession(r)
		if err != nil {
			var cerr securecookie.Error
			if errors.As(err, &cerr) && cerr.IsDecode() {
				sm.log.Debug("ignoring undecodable session cookie", zap.Error(err))
			} else {
				sm.log.Warn("session load failed", zap.Error(err))
			}
		}

		var sc SessionContext
		if sess != nil {
			sc.Authenticated, _ = sess.Values[isAuthKey].(bool)
		}
		next.ServeHTTP(w, WithSessionContext(r, sc))
	})
}

// SetAuthenticated stores the flag in the session cookie.
// Clearing it expires the cookie.
func (sm *SessionManager) SetAuthenticated(w http.ResponseWriter, r *http.Request, authenticated bool) error {
	sess, err := sm.GetSession(r)
	if err != nil {
		sm.log.Debug("replacing unreadable session", zap.Error(err))
	}

	if authenticated {
		sess.Values[isAuthKey] = true
	} else {
		delete(sess.Values, isAuthKey)
		sess.Options.MaxAge = -1 // delete immediately
	}

	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// WantsHTML reports whether the caller expects an HTML response.
func WantsHTML(r *http.Request) bool {
	if IsHTMX(r) {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

// IsHTMX reports whether r was issued by htmx from inside a loaded page.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
