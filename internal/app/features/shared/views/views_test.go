package views_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/starterkit/internal/app/features/shared/views"
	"github.com/dalemusser/starterkit/internal/app/system/seo"
	"github.com/dalemusser/starterkit/internal/testutil"
)

func TestRenderPage_Regions(t *testing.T) {
	site := testutil.NewSite(t)

	tests := []struct {
		name          string
		authenticated bool
		wantDynamic   bool
	}{
		{"anonymous", false, false},
		{"authenticated", true, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.WithSession(httptest.NewRequest("GET", "/", nil), tc.authenticated)
			rec := httptest.NewRecorder()

			site.RenderPage(rec, req, views.Page{
				SEO:     seo.Input{Title: "Hello", Path: "/hello"},
				Content: "page",
				Data: map[string]any{
					"ID":    "hello",
					"Title": "Hello",
				},
				JSONLD: []any{seo.BuildOrganization(site.Profile).WithContext()},
			})

			if rec.Code != http.StatusOK {
				t.Fatalf("status: got %d", rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
				t.Errorf("Content-Type: got %q", ct)
			}
			body := rec.Body.String()
			for _, want := range []string{
				`<html lang="en">`,
				`id="static-region"`,
				`id="dynamic-region"`,
				`id="modal-slot"`,
				`<title>Hello | StarterKit</title>`,
				`application/ld+json`,
				`class="page page-hello"`,
			} {
				if !strings.Contains(body, want) {
					t.Errorf("body missing %q", want)
				}
			}
			if got := strings.Contains(body, "Admin Dashboard"); got != tc.wantDynamic {
				t.Errorf("dynamic region rendered=%v, want %v", got, tc.wantDynamic)
			}
			wantButton := "Log in"
			if tc.authenticated {
				wantButton = "Log out"
			}
			if !strings.Contains(body, wantButton) {
				t.Errorf("body missing %q button", wantButton)
			}
		})
	}
}

func TestRenderPage_StatusAndUnknownTemplate(t *testing.T) {
	site := testutil.NewSite(t)

	rec := httptest.NewRecorder()
	site.RenderPage(rec, httptest.NewRequest("GET", "/x", nil), views.Page{
		Status:  http.StatusNotFound,
		Content: "not_found",
		Data:    map[string]any{},
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	site.RenderPage(rec, httptest.NewRequest("GET", "/x", nil), views.Page{Content: "no_such_template"})
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("unknown template: got %d, want 500", rec.Code)
	}
}

func TestNav_ListsPublishedPages(t *testing.T) {
	site := testutil.NewSite(t)
	nav := site.Nav()
	for _, l := range nav {
		if l.Href == "/home" {
			t.Errorf("unpublished page /home in nav")
		}
	}
	if len(nav) == 0 || nav[0].Href != "/chat" {
		t.Errorf("nav: got %v", nav)
	}
}

func TestRenderAuthSwap(t *testing.T) {
	site := testutil.NewSite(t)

	rec := httptest.NewRecorder()
	site.RenderAuthSwap(rec, false, true)
	body := rec.Body.String()
	if !strings.Contains(body, "Admin Dashboard") {
		t.Error("login swap should contain the dynamic overlay")
	}
	if !strings.Contains(body, `hx-swap-oob="innerHTML:#auth-controls"`) || !strings.Contains(body, "Log out") {
		t.Errorf("login swap should replace the header controls: %s", body)
	}

	rec = httptest.NewRecorder()
	site.RenderAuthSwap(rec, true, false)
	body = rec.Body.String()
	if strings.Contains(body, "Admin Dashboard") {
		t.Error("logout swap should clear the dynamic overlay")
	}
	if !strings.Contains(body, "Log in") {
		t.Error("logout swap should show the login button")
	}
}

func TestComponent_RendersIntoOverlay(t *testing.T) {
	site := testutil.NewSite(t)

	store, ov := site.MountDynamic(false)
	defer ov.Unmount()
	if ov.HTML() != "" {
		t.Fatalf("hidden overlay rendered %q", ov.HTML())
	}
	store.Set(true)
	if !strings.Contains(string(ov.HTML()), `aria-label="Dynamic admin content"`) {
		t.Errorf("visible overlay: got %q", ov.HTML())
	}
}
