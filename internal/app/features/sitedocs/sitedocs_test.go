package sitedocs_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/starterkit/internal/app/features/sitedocs"
	"github.com/dalemusser/starterkit/internal/app/system/pwa"
	"github.com/dalemusser/starterkit/internal/app/system/siteconfig"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func newRouter() http.Handler {
	h := sitedocs.NewHandler(siteconfig.Default(), siteconfig.PublicEnv{}, zap.NewNop())
	h.Now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	r := chi.NewRouter()
	sitedocs.Register(r, h)
	return r
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
	return rec
}

func TestRobots(t *testing.T) {
	rec := get(newRouter(), "/robots.txt")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type: got %q", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"User-Agent: *",
		"Disallow: /api/",
		"Sitemap: http://localhost:3000/sitemap.xml",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("robots.txt missing %q:\n%s", want, body)
		}
	}
}

func TestSitemap(t *testing.T) {
	rec := get(newRouter(), "/sitemap.xml")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/xml") {
		t.Errorf("Content-Type: got %q", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"<urlset",
		"<loc>http://localhost:3000/about</loc>",
		"2025-10-16",
		"2026-03-01",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("sitemap missing %q", want)
		}
	}
}

func TestManifest(t *testing.T) {
	rec := get(newRouter(), "/manifest.webmanifest")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != pwa.ContentType {
		t.Errorf("Content-Type: got %q, want %q", ct, pwa.ContentType)
	}
	var m map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("manifest is not JSON: %v", err)
	}
	if m["name"] != "Starter Kit" || m["short_name"] != "StarterKit" {
		t.Errorf("names: %v / %v", m["name"], m["short_name"])
	}
	if m["display"] != "standalone" {
		t.Errorf("display: got %v", m["display"])
	}
}
