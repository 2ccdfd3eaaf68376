package offline

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/starterkit/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Strategy is a cache strategy.
type Strategy int

const (
	CacheFirst Strategy = iota + 1
	NetworkFirst
	NetworkFirstWithFallback
	// StaleWhileRevalidate is never selected by Classify. It serves the
	// runtime entry and refreshes it in the background.
	StaleWhileRevalidate
)

func (s Strategy) String() string {
	switch s {
	case CacheFirst:
		return "cache_first"
	case NetworkFirst:
		return "network_first"
	case NetworkFirstWithFallback:
		return "network_first_with_fallback"
	case StaleWhileRevalidate:
		return "stale_while_revalidate"
	}
	return "unknown"
}

// Source says where a Result came from.
type Source int

const (
	SourceNetwork Source = iota + 1
	SourceCache
	SourceFallback
	SourceOffline
)

func (s Source) String() string {
	switch s {
	case SourceNetwork:
		return "network"
	case SourceCache:
		return "cache"
	case SourceFallback:
		return "fallback"
	case SourceOffline:
		return "offline"
	}
	return "unknown"
}

// Request is an intercepted same-origin GET.
type Request struct {
	Key        string
	Header     http.Header
	Navigation bool
}

// Result is the response chosen by a strategy.
type Result struct {
	Snapshot
	Source Source
}

// Write sends the result to w.
func (r Result) Write(w http.ResponseWriter) {
	h := w.Header()
	for k, vv := range r.Header {
		h[k] = append([]string(nil), vv...)
	}
	h.Set("Content-Length", fmt.Sprint(len(r.Body)))
	h.Set("X-Offline-Source", r.Source.String())
	w.WriteHeader(r.Status)
	_, _ = w.Write(r.Body)
}

const (
	textResourceUnavailable = "Offline - Resource not available"
	textPageUnavailable     = "Offline - Page not available"
	offlineAPIMessage       = "You are currently offline. Some features may be limited."
)

func offlineText(key, text string) Result {
	h := http.Header{}
	h.Set("Content-Type", "text/plain; charset=utf-8")
	return Result{
		Snapshot: Snapshot{Key: key, Status: http.StatusServiceUnavailable, Header: h, Body: []byte(text)},
		Source:   SourceOffline,
	}
}

func offlineJSON(key string) Result {
	body, _ := json.Marshal(struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}{"offline", offlineAPIMessage})
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	return Result{
		Snapshot: Snapshot{Key: key, Status: http.StatusServiceUnavailable, Header: h, Body: body},
		Source:   SourceOffline,
	}
}

// Serve runs strategy s for req.
func (w *Worker) Serve(ctx context.Context, req Request, s Strategy) Result {
	switch s {
	case CacheFirst:
		return w.cacheFirst(ctx, req)
	case NetworkFirst:
		return w.networkFirst(ctx, req, false)
	case NetworkFirstWithFallback:
		return w.networkFirst(ctx, req, true)
	case StaleWhileRevalidate:
		return w.staleWhileRevalidate(ctx, req)
	}
	return w.networkFirst(ctx, req, false)
}

func (w *Worker) cacheFirst(ctx context.Context, req Request) Result {
	assets := w.names.Assets
	if snap, ok := w.lookup(ctx, assets, req.Key); ok {
		w.log.Debug("cache hit", zap.String("key", req.Key))
		return Result{Snapshot: snap, Source: SourceCache}
	}

	snap, err := w.fetchAndStore(ctx, assets, req.Key, req.Header)
	if err == nil {
		return Result{Snapshot: snap, Source: SourceNetwork}
	}
	w.log.Info("fetch failed", zap.String("key", req.Key), zap.Error(err))

	if fb, ok := w.lookup(ctx, assets, w.cfg.Fallback); ok {
		return Result{Snapshot: fb, Source: SourceFallback}
	}
	return offlineText(req.Key, textResourceUnavailable)
}

// networkFirst serves the network response and falls back to the runtime
// bucket. When api is set the final failure is the offline JSON payload.
func (w *Worker) networkFirst(ctx context.Context, req Request, api bool) Result {
	runtime := w.names.Runtime
	snap, err := w.fetchAndStore(ctx, runtime, req.Key, req.Header)
	if err == nil {
		return Result{Snapshot: snap, Source: SourceNetwork}
	}
	w.log.Info("network failed, using cache", zap.String("key", req.Key), zap.Error(err))

	if cached, ok := w.lookup(ctx, runtime, req.Key); ok {
		return Result{Snapshot: cached, Source: SourceCache}
	}

	switch {
	case api:
		return offlineJSON(req.Key)
	case req.Navigation:
		if fb, ok := w.fallbackPage(ctx); ok {
			return Result{Snapshot: fb, Source: SourceFallback}
		}
		return offlineText(req.Key, textPageUnavailable)
	}
	return offlineText(req.Key, textResourceUnavailable)
}

func (w *Worker) staleWhileRevalidate(ctx context.Context, req Request) Result {
	runtime := w.names.Runtime
	if cached, ok := w.lookup(ctx, runtime, req.Key); ok {
		bg := context.WithoutCancel(ctx)
		go func() {
			if _, err := w.fetchAndStore(bg, runtime, req.Key, req.Header); err != nil {
				w.log.Debug("revalidate failed", zap.String("key", req.Key), zap.Error(err))
			}
		}()
		return Result{Snapshot: cached, Source: SourceCache}
	}

	snap, err := w.fetchAndStore(ctx, runtime, req.Key, req.Header)
	if err != nil {
		w.log.Info("fetch failed", zap.String("key", req.Key), zap.Error(err))
		return offlineText(req.Key, textResourceUnavailable)
	}
	return Result{Snapshot: snap, Source: SourceNetwork}
}

// fallbackPage looks for the offline fallback in the runtime bucket, where
// navigations store it, and then in the assets bucket, where install puts it.
func (w *Worker) fallbackPage(ctx context.Context) (Snapshot, bool) {
	if fb, ok := w.lookup(ctx, w.names.Runtime, w.cfg.Fallback); ok {
		return fb, true
	}
	return w.lookup(ctx, w.names.Assets, w.cfg.Fallback)
}

// lookup treats storage errors as a miss.
func (w *Worker) lookup(ctx context.Context, bucket, key string) (Snapshot, bool) {
	b, err := w.storage.Open(ctx, bucket)
	if err != nil {
		w.log.Warn("open bucket failed", zap.String("bucket", bucket), zap.Error(err))
		return Snapshot{}, false
	}
	snap, ok, err := b.Get(ctx, key)
	if err != nil {
		w.log.Warn("cache read failed", zap.String("bucket", bucket), zap.String("key", key), zap.Error(err))
		return Snapshot{}, false
	}
	return snap, ok
}

// fetchAndStore fetches key and stores 200 responses in bucket. Concurrent
// calls for the same bucket and key share one network request. The shared
// fetch is detached from the caller that started it, so one caller going
// away does not fail the others; each caller still stops waiting when its
// own ctx is done. The fetcher's timeout bounds the detached fetch.
func (w *Worker) fetchAndStore(ctx context.Context, bucket, key string, header http.Header) (Snapshot, error) {
	ch := w.flight.DoChan(bucket+"\x00"+key, func() (any, error) {
		fctx := context.WithoutCancel(ctx)
		snap, err := w.fetcher.Fetch(fctx, key, header)
		if err != nil {
			w.metrics.fetchFailed(bucket)
			return Snapshot{}, err
		}
		if snap.Status == http.StatusOK {
			w.store(fctx, bucket, snap)
		}
		return snap, nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return Snapshot{}, res.Err
		}
		return res.Val.(Snapshot), nil
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

// store writes a copy of snap. Failures are logged; the caller still gets
// the network response.
func (w *Worker) store(ctx context.Context, bucket string, snap Snapshot) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), w.log, "cache write")
	defer cancel()
	b, err := w.storage.Open(ctx, bucket)
	if err != nil {
		w.log.Warn("open bucket failed", zap.String("bucket", bucket), zap.Error(err))
		return
	}
	c := snap.Clone()
	if c.StoredAt.IsZero() {
		c.StoredAt = time.Now().UTC()
	}
	if err := b.Put(ctx, c); err != nil {
		w.log.Warn("cache write failed", zap.String("bucket", bucket), zap.String("key", snap.Key), zap.Error(err))
	}
}
