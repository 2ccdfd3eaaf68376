package ratelimit_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/starterkit/internal/app/system/ratelimit"
)

func TestAllow_BurstThenBlocked(t *testing.T) {
	l := ratelimit.New(3, time.Hour)

	for i := 0; i < 3; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("1.2.3.4") {
		t.Error("fourth request should be limited")
	}

	// Other keys have their own bucket.
	if !l.Allow("5.6.7.8") {
		t.Error("different key should be allowed")
	}
}

func TestReset(t *testing.T) {
	l := ratelimit.New(1, time.Hour)
	l.Allow("k")
	if l.Allow("k") {
		t.Fatal("second request should be limited")
	}
	l.Reset("k")
	if !l.Allow("k") {
		t.Error("request after Reset should be allowed")
	}
}

func TestMiddleware_Returns429(t *testing.T) {
	l := ratelimit.New(1, time.Hour)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest("POST", "/api/lead-form", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Errorf("request %d: status %d, want %d", i+1, rec.Code, want)
		}
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		xff    string
		xri    string
		remote string
		want   string
	}{
		{"forwarded for", "203.0.113.7, 10.0.0.1", "", "10.0.0.1:80", "203.0.113.7"},
		{"real ip", "", " 198.51.100.2 ", "10.0.0.1:80", "198.51.100.2"},
		{"remote addr", "", "", "192.0.2.10:4321", "192.0.2.10"},
		{"remote addr without port", "", "", "192.0.2.11", "192.0.2.11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			if got := ratelimit.ClientIP(req); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}
