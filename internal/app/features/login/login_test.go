package login_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/starterkit/internal/app/features/login"
	"github.com/dalemusser/starterkit/internal/app/system/auth"
	"github.com/dalemusser/starterkit/internal/testutil"
	"go.uber.org/zap"
)

const testKey = "0123456789abcdef0123456789abcdef"

func newSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(testKey, "", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return sm
}

// authenticatedAfter replays the cookies from rec through LoadSession.
func authenticatedAfter(sm *auth.SessionManager, rec *httptest.ResponseRecorder) bool {
	req := httptest.NewRequest("GET", "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	var got bool
	sm.LoadSession(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = auth.FromRequest(r).Authenticated
	})).ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestLogin_Redirects(t *testing.T) {
	sm := newSessionManager(t)
	r := login.Routes(login.NewHandler(testutil.NewSite(t), sm, zap.NewNop()))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("Location: got %q, want /", loc)
	}
	if !authenticatedAfter(sm, rec) {
		t.Error("session cookie should carry the authenticated flag")
	}
}

func TestLogin_ReturnsToPage(t *testing.T) {
	r := login.Routes(login.NewHandler(testutil.NewSite(t), newSessionManager(t), zap.NewNop()))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/?return=/hire-me", nil))

	if loc := rec.Header().Get("Location"); loc != "/hire-me" {
		t.Errorf("Location: got %q, want /hire-me", loc)
	}
}

func TestLogin_HTMXSwapsDynamicRegion(t *testing.T) {
	sm := newSessionManager(t)
	r := login.Routes(login.NewHandler(testutil.NewSite(t), sm, zap.NewNop()))

	req := testutil.HTMX(httptest.NewRequest("POST", "/", nil))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Admin Dashboard") {
		t.Error("swap should render the dynamic overlay")
	}
	if !strings.Contains(body, "Log out") {
		t.Error("swap should replace the login button with logout")
	}
	if strings.Contains(body, "<!DOCTYPE html>") {
		t.Error("swap should be a fragment")
	}
	if !authenticatedAfter(sm, rec) {
		t.Error("session cookie should carry the authenticated flag")
	}
}

func TestLogin_RejectsGet(t *testing.T) {
	r := login.Routes(login.NewHandler(testutil.NewSite(t), newSessionManager(t), zap.NewNop()))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status: got %d, want 405", rec.Code)
	}
}
