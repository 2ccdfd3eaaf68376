package logout_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/starterkit/internal/app/features/logout"
	"github.com/dalemusser/starterkit/internal/app/system/auth"
	"github.com/dalemusser/starterkit/internal/testutil"
	"go.uber.org/zap"
)

func newSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return sm
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.DefaultSessionName {
			return c
		}
	}
	return nil
}

func TestLogout_ExpiresCookieAndRedirects(t *testing.T) {
	sm := newSessionManager(t)
	r := logout.Routes(logout.NewHandler(testutil.NewSite(t), sm, zap.NewNop()))

	req := testutil.WithSession(httptest.NewRequest("POST", "/", nil), true)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want 303", rec.Code)
	}
	c := sessionCookie(rec)
	if c == nil {
		t.Fatal("logout should write the session cookie")
	}
	if c.MaxAge >= 0 {
		t.Errorf("cookie MaxAge: got %d, want expired", c.MaxAge)
	}
}

func TestLogout_HTMXClearsDynamicRegion(t *testing.T) {
	sm := newSessionManager(t)
	r := logout.Routes(logout.NewHandler(testutil.NewSite(t), sm, zap.NewNop()))

	req := testutil.HTMX(testutil.WithSession(httptest.NewRequest("POST", "/", nil), true))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "Admin Dashboard") {
		t.Error("dynamic overlay should be gone after logout")
	}
	if !strings.Contains(body, "Log in") {
		t.Error("swap should show the login button")
	}
}
