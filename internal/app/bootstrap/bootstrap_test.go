package bootstrap

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/starterkit/internal/app/system/siteconfig"
	"github.com/dalemusser/starterkit/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func testAppConfig() AppConfig {
	p := siteconfig.Default()
	return AppConfig{
		SessionName:     "starterkit-session",
		Profile:         p,
		StaticDir:       "public",
		UpdateInterval:  time.Hour,
		CacheStorage:    StorageMemory,
		MongoURI:        "mongodb://localhost:27017",
		MongoDatabase:   "starterkit",
		SQLitePath:      "cache.db",
		LeadRateLimit:   5,
		WorkerRateLimit: 60,
		MailTo:          p.MailSupport,
		MailFrom:        "noreply@starterkit.test",
		MailFromName:    "StarterKit",
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{"defaults", "dev", func(*AppConfig) {}, false},
		{"sqlite", "dev", func(c *AppConfig) { c.CacheStorage = StorageSQLite }, false},
		{"sqlite without path", "dev", func(c *AppConfig) { c.CacheStorage = StorageSQLite; c.SQLitePath = " " }, true},
		{"mongo", "dev", func(c *AppConfig) { c.CacheStorage = StorageMongo }, false},
		{"mongo bad uri", "dev", func(c *AppConfig) { c.CacheStorage = StorageMongo; c.MongoURI = "postgres://x" }, true},
		{"unknown storage", "dev", func(c *AppConfig) { c.CacheStorage = "redis" }, true},
		{"edge origin", "dev", func(c *AppConfig) { c.EdgeOrigin = "http://origin.test" }, false},
		{"relative edge origin", "dev", func(c *AppConfig) { c.EdgeOrigin = "/relative" }, true},
		{"negative timeout", "dev", func(c *AppConfig) { c.EdgeFetchTimeout = -time.Second }, true},
		{"zero rate limit", "dev", func(c *AppConfig) { c.LeadRateLimit = 0 }, true},
		{"zero worker rate limit", "dev", func(c *AppConfig) { c.WorkerRateLimit = 0 }, true},
		{"short worker token", "dev", func(c *AppConfig) { c.WorkerToken = "short" }, true},
		{"negative medium timeout", "dev", func(c *AppConfig) { c.TimeoutMedium = -time.Second }, true},
		{"prod edge without worker token", "prod", func(c *AppConfig) {
			c.SessionKey = strings.Repeat("k", 32)
			c.EdgeOrigin = "http://origin.test"
		}, true},
		{"prod edge with worker token", "prod", func(c *AppConfig) {
			c.SessionKey = strings.Repeat("k", 32)
			c.EdgeOrigin = "http://origin.test"
			c.WorkerToken = strings.Repeat("w", 16)
		}, false},
		{"prod without session key", "prod", func(*AppConfig) {}, true},
		{"prod with session key", "prod", func(c *AppConfig) { c.SessionKey = strings.Repeat("k", 32) }, false},
		{"invalid profile", "dev", func(c *AppConfig) { c.Profile.URL = "not a url" }, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testAppConfig()
			tc.mutate(&cfg)
			err := ValidateConfig(&config.CoreConfig{Env: tc.env}, cfg, testLogger())
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateConfig: err=%v, wantErr=%v", err, tc.wantErr)
			}
		})
	}
}

func TestAppConfig_Mode(t *testing.T) {
	cfg := testAppConfig()
	if cfg.EdgeMode() || cfg.Mode() != "site" {
		t.Errorf("default: edge=%v mode=%q", cfg.EdgeMode(), cfg.Mode())
	}
	cfg.EdgeOrigin = "http://origin.test"
	if !cfg.EdgeMode() || cfg.Mode() != "edge" {
		t.Errorf("edge: edge=%v mode=%q", cfg.EdgeMode(), cfg.Mode())
	}
}

// boot runs the lifecycle hooks up to BuildHandler.
func boot(t *testing.T, appCfg AppConfig) (http.Handler, DBDeps) {
	t.Helper()
	ctx := context.Background()
	coreCfg := &config.CoreConfig{Env: "dev"}
	logger := testLogger()

	deps, err := ConnectDB(ctx, coreCfg, appCfg, logger)
	if err != nil {
		t.Fatalf("ConnectDB: %v", err)
	}
	if err := EnsureSchema(ctx, coreCfg, appCfg, deps, logger); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if err := Startup(ctx, coreCfg, appCfg, deps, logger); err != nil {
		t.Fatalf("Startup: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := Shutdown(ctx, coreCfg, appCfg, deps, logger); err != nil {
			t.Errorf("Shutdown: %v", err)
		}
	})

	h, err := BuildHandler(coreCfg, appCfg, deps, logger)
	if err != nil {
		t.Fatalf("BuildHandler: %v", err)
	}
	return h, deps
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestBuildHandler_SiteMode(t *testing.T) {
	h, _ := boot(t, testAppConfig())

	tests := []struct {
		method   string
		path     string
		wantCode int
		wantBody string
	}{
		{"GET", "/", http.StatusOK, `id="dynamic-region"`},
		{"GET", "/about-aifa", http.StatusOK, "<h1>About</h1>"},
		{"GET", "/features/dynamic-generation", http.StatusOK, "<h1>Dynamic generation</h1>"},
		{"GET", "/robots.txt", http.StatusOK, "Sitemap: http://localhost:3000/sitemap.xml"},
		{"GET", "/sitemap.xml", http.StatusOK, "<urlset"},
		{"GET", "/manifest.webmanifest", http.StatusOK, `"short_name": "StarterKit"`},
		{"GET", "/health", http.StatusOK, `"storage":"none"`},
		{"GET", "/interception_modal/lead-form", http.StatusOK, `id="lead-form"`},
		{"GET", "/no/such/page", http.StatusNotFound, "Page Not Found"},
		{"GET", "/api/unknown", http.StatusNotFound, "Page Not Found"},
	}
	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := serve(h, httptest.NewRequest(tc.method, tc.path, nil))
			if rec.Code != tc.wantCode {
				t.Fatalf("status: got %d, want %d", rec.Code, tc.wantCode)
			}
			if !strings.Contains(rec.Body.String(), tc.wantBody) {
				t.Errorf("body missing %q", tc.wantBody)
			}
		})
	}
}

func TestBuildHandler_LeadForm(t *testing.T) {
	h, _ := boot(t, testAppConfig())

	req := httptest.NewRequest("POST", "/api/lead-form",
		strings.NewReader(`{"name":"Ada","phone":"5550100200","email":"ada@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(h, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success bool `json:"success"`
		Mock    bool `json:"mock"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || !resp.Success || !resp.Mock {
		t.Errorf("response: %+v err=%v", resp, err)
	}
}

func TestBuildHandler_LoginTogglesOverlay(t *testing.T) {
	h, _ := boot(t, testAppConfig())

	if body := serve(h, httptest.NewRequest("GET", "/", nil)).Body.String(); strings.Contains(body, "Admin Dashboard") {
		t.Fatal("overlay visible before login")
	}

	login := serve(h, httptest.NewRequest("POST", "/login", nil))
	if login.Code != http.StatusSeeOther {
		t.Fatalf("login: got %d, want 303", login.Code)
	}

	req := httptest.NewRequest("GET", "/", nil)
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}
	if body := serve(h, req).Body.String(); !strings.Contains(body, "Admin Dashboard") {
		t.Error("overlay should be visible after login")
	}
}

func TestBuildHandler_EdgeMode(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.Header().Set("Content-Type", "text/html")
			_, _ = io.WriteString(w, "<html>origin home</html>")
		case "/api/ping":
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"ok":true}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer origin.Close()

	cfg := testAppConfig()
	cfg.EdgeOrigin = origin.URL
	cfg.CacheStorage = StorageSQLite
	cfg.SQLitePath = filepath.Join(t.TempDir(), "cache.db")
	cfg.WorkerToken = "edge-mode-worker-token"

	h, deps := boot(t, cfg)
	withToken := func(req *http.Request) *http.Request {
		req.Header.Set("Authorization", "Bearer "+cfg.WorkerToken)
		return req
	}

	deadline := time.Now().Add(5 * time.Second)
	for deps.Runtime.Registry.Active() == nil {
		if time.Now().After(deadline) {
			t.Fatal("offline worker did not register")
		}
		time.Sleep(10 * time.Millisecond)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Accept", "text/html")
	rec := serve(h, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "origin home") {
		t.Fatalf("navigation: got %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Offline-Source") == "" {
		t.Error("navigation should be answered by the worker")
	}

	rec = serve(h, httptest.NewRequest("GET", "/api/ping", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok":true`) {
		t.Errorf("api: got %d %q", rec.Code, rec.Body.String())
	}

	rec = serve(h, withToken(httptest.NewRequest("GET", "/_worker/state", nil)))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"state":"activated"`) {
		t.Errorf("state: got %d %q", rec.Code, rec.Body.String())
	}

	rec = serve(h, httptest.NewRequest("GET", "/health", nil))
	if !strings.Contains(rec.Body.String(), `"storage":"sqlite"`) || !strings.Contains(rec.Body.String(), `"mode":"edge"`) {
		t.Errorf("health: %q", rec.Body.String())
	}

	rec = serve(h, withToken(httptest.NewRequest("GET", "/metrics", nil)))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "starterkit_offline_responses_total") {
		t.Errorf("metrics: got %d", rec.Code)
	}

	for _, target := range []string{"/_worker/state", "/metrics"} {
		if rec := serve(h, httptest.NewRequest("GET", target, nil)); rec.Code != http.StatusUnauthorized {
			t.Errorf("%s without token: got %d, want 401", target, rec.Code)
		}
	}
	if rec := serve(h, httptest.NewRequest("POST", "/_worker/update", nil)); rec.Code != http.StatusUnauthorized {
		t.Errorf("update without token: got %d, want 401", rec.Code)
	}
}

func TestBuildHandler_EdgeModeWithoutTokenIsLoopbackOnly(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, "<html>origin</html>")
	}))
	defer origin.Close()

	cfg := testAppConfig()
	cfg.EdgeOrigin = origin.URL
	h, _ := boot(t, cfg)

	remote := httptest.NewRequest("GET", "/metrics", nil)
	remote.RemoteAddr = "192.0.2.10:4000"
	if rec := serve(h, remote); rec.Code != http.StatusForbidden {
		t.Errorf("remote metrics: got %d, want 403", rec.Code)
	}

	local := httptest.NewRequest("GET", "/metrics", nil)
	local.RemoteAddr = "127.0.0.1:4000"
	if rec := serve(h, local); rec.Code != http.StatusOK {
		t.Errorf("loopback metrics: got %d, want 200", rec.Code)
	}
}

func TestStartup_ConfiguresTimeouts(t *testing.T) {
	t.Cleanup(timeouts.Reset)

	cfg := testAppConfig()
	cfg.TimeoutShort = 3 * time.Second
	cfg.TimeoutLong = 2 * time.Minute
	boot(t, cfg)

	got := timeouts.Current()
	if got.Short != 3*time.Second || got.Long != 2*time.Minute {
		t.Errorf("timeouts = %+v", got)
	}
	if got.Medium != timeouts.DefaultMedium {
		t.Errorf("medium = %v, want default %v", got.Medium, timeouts.DefaultMedium)
	}
}
