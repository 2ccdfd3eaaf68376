package offline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Fetcher performs network requests for the worker. An error means the
// network could not be reached; any HTTP status is a successful fetch.
type Fetcher interface {
	Fetch(ctx context.Context, key string, header http.Header) (Snapshot, error)
}

// hopHeaders are connection-level headers that are never forwarded or stored.
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Proxy-Connection",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

func stripHopHeaders(h http.Header) {
	for _, f := range h.Values("Connection") {
		for _, name := range strings.Split(f, ",") {
			if name = strings.TrimSpace(name); name != "" {
				h.Del(name)
			}
		}
	}
	for _, name := range hopHeaders {
		h.Del(name)
	}
}

// HTTPFetcher fetches keys from an origin server.
type HTTPFetcher struct {
	Origin *url.URL
	Client *http.Client
	// Timeout bounds each fetch. Zero means no timeout.
	Timeout time.Duration
}

// NewHTTPFetcher parses origin and returns a fetcher for it.
func NewHTTPFetcher(origin string, client *http.Client, timeout time.Duration) (*HTTPFetcher, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("parse origin: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("origin %q must be an absolute URL", origin)
	}
	if client == nil {
		client = &http.Client{
			// Redirects are returned to the caller as-is.
			CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
		}
	}
	return &HTTPFetcher{Origin: u, Client: client, Timeout: timeout}, nil
}

// Fetch requests key from the origin, forwarding header minus hop-by-hop
// fields. Accept-Encoding is dropped so stored bodies are always decoded.
func (f *HTTPFetcher) Fetch(ctx context.Context, key string, header http.Header) (Snapshot, error) {
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	ref, err := url.Parse(key)
	if err != nil {
		return Snapshot{}, fmt.Errorf("parse key %q: %w", key, err)
	}
	target := f.Origin.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("build request: %w", err)
	}
	if header != nil {
		req.Header = header.Clone()
		stripHopHeaders(req.Header)
		req.Header.Del("Accept-Encoding")
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return Snapshot{}, fmt.Errorf("fetch %s: %w", key, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read %s: %w", key, err)
	}

	h := resp.Header.Clone()
	stripHopHeaders(h)
	h.Del("Content-Length")

	return Snapshot{
		Key:      key,
		Status:   resp.StatusCode,
		Header:   h,
		Body:     body,
		StoredAt: time.Now().UTC(),
	}, nil
}
