package navigation_test

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/dalemusser/starterkit/internal/app/system/navigation"
)

func TestSafeBackURL(t *testing.T) {
	tests := []struct {
		name   string
		target string
		form   string
		opts   navigation.BackURLOptions
		want   string
	}{
		{"no return", "/login", "", navigation.AuthBackURL, "/"},
		{"query return", "/login?return=/hire-me", "", navigation.AuthBackURL, "/hire-me"},
		{"form return", "/login", "/features/static-generation", navigation.AuthBackURL, "/features/static-generation"},
		{"external url", "/login?return=" + url.QueryEscape("https://evil.example/"), "", navigation.AuthBackURL, "/"},
		{"excluded prefix", "/login?return=/logout", "", navigation.AuthBackURL, "/"},
		{"api excluded", "/login?return=/api/lead-form", "", navigation.AuthBackURL, "/"},
		{"outside allowed prefix", "/x?return=/hire-me", "", navigation.BackURLOptions{AllowedPrefix: "/features", Fallback: "/features"}, "/features"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", tc.target, strings.NewReader(url.Values{"return": {tc.form}}.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if got := navigation.SafeBackURL(req, tc.opts); got != tc.want {
				t.Errorf("SafeBackURL: got %q, want %q", got, tc.want)
			}
		})
	}
}
