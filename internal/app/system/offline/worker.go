// Package offline is the offline edge worker: an interceptor that sits in
// front of an origin server, classifies each request, answers it with a cache
// strategy over named buckets, and carries an install/activate lifecycle with
// message, push, notification click and background sync handlers.
package offline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/dalemusser/starterkit/internal/app/system/siteconfig"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// State is the lifecycle state of a worker.
type State int

const (
	StateInstalling State = iota
	StateActivated
	StateSuperseded
)

func (s State) String() string {
	switch s {
	case StateInstalling:
		return "installing"
	case StateActivated:
		return "activated"
	case StateSuperseded:
		return "superseded"
	}
	return "unknown"
}

// SyncTag is the background sync tag that replays the runtime bucket.
const SyncTag = "sync-data"

const defaultInstallConcurrency = 4

// BucketNames are the three current bucket names for a version.
type BucketNames struct {
	General string
	Runtime string
	Assets  string
}

// NewBucketNames derives <prefix>-cache-<v>, <prefix>-runtime-<v> and
// <prefix>-assets-<v>.
func NewBucketNames(prefix, version string) BucketNames {
	return BucketNames{
		General: fmt.Sprintf("%s-cache-%s", prefix, version),
		Runtime: fmt.Sprintf("%s-runtime-%s", prefix, version),
		Assets:  fmt.Sprintf("%s-assets-%s", prefix, version),
	}
}

// Current lists the names in a stable order.
func (b BucketNames) Current() []string {
	return []string{b.General, b.Runtime, b.Assets}
}

// Contains reports whether name is one of the current names.
func (b BucketNames) Contains(name string) bool {
	return name == b.General || name == b.Runtime || name == b.Assets
}

// Config describes one worker version.
type Config struct {
	CachePrefix string
	Version     string
	APIPrefix   string
	Fallback    string
	Precache    []string

	// Origin is the upstream the worker fronts; absolute request URLs for
	// any other origin pass through.
	Origin *url.URL

	// Notification defaults.
	AppName string
	Icon    string
	Badge   string

	InstallConcurrency int
}

// ConfigFromProfile derives the worker configuration from a site profile.
func ConfigFromProfile(p siteconfig.Profile, origin *url.URL) Config {
	return Config{
		CachePrefix: p.Offline.CachePrefix,
		Version:     p.Offline.Version,
		APIPrefix:   p.Offline.APIPrefix,
		Fallback:    p.Offline.Fallback,
		Precache:    append([]string(nil), p.Offline.Precache...),
		Origin:      origin,
		AppName:     p.ShortName,
		Icon:        p.Icons.Icon192,
		Badge:       p.Icons.Icon48,
	}
}

// Deps are shared by every worker version.
type Deps struct {
	Storage  Storage
	Fetcher  Fetcher
	Clients  *Clients
	Notifier *Notifier
	Metrics  *Metrics
	Log      *zap.Logger
}

// Worker is one installed version of the offline worker.
type Worker struct {
	cfg      Config
	names    BucketNames
	storage  Storage
	fetcher  Fetcher
	clients  *Clients
	notifier *Notifier
	metrics  *Metrics
	log      *zap.Logger

	flight singleflight.Group

	mu    sync.RWMutex
	state State
}

// New creates a worker in the installing state.
func New(cfg Config, deps Deps) *Worker {
	if cfg.Fallback == "" {
		cfg.Fallback = "/"
	}
	if cfg.InstallConcurrency <= 0 {
		cfg.InstallConcurrency = defaultInstallConcurrency
	}
	if deps.Clients == nil {
		deps.Clients = NewClients()
	}
	if deps.Notifier == nil {
		deps.Notifier = NewNotifier()
	}
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Worker{
		cfg:      cfg,
		names:    NewBucketNames(cfg.CachePrefix, cfg.Version),
		storage:  deps.Storage,
		fetcher:  deps.Fetcher,
		clients:  deps.Clients,
		notifier: deps.Notifier,
		metrics:  deps.Metrics,
		log:      log.With(zap.String("worker_version", cfg.Version)),
		state:    StateInstalling,
	}
}

func (w *Worker) Version() string     { return w.cfg.Version }
func (w *Worker) Names() BucketNames  { return w.names }
func (w *Worker) Clients() *Clients   { return w.clients }
func (w *Worker) Notifier() *Notifier { return w.notifier }

func (w *Worker) State() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

func (w *Worker) setState(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

// Install pre-populates the assets bucket with the precache list and then
// skips waiting. Entries that cannot be fetched are logged and skipped; only
// a storage failure fails the install.
func (w *Worker) Install(ctx context.Context) error {
	w.log.Info("installing offline worker", zap.Int("precache", len(w.cfg.Precache)))

	assets, err := w.storage.Open(ctx, w.names.Assets)
	if err != nil {
		return fmt.Errorf("open assets bucket: %w", err)
	}

	var g errgroup.Group
	g.SetLimit(w.cfg.InstallConcurrency)
	for _, key := range w.cfg.Precache {
		g.Go(func() error {
			snap, err := w.fetcher.Fetch(ctx, key, nil)
			if err != nil {
				w.metrics.precacheFailed()
				w.log.Warn("precache fetch failed", zap.String("key", key), zap.Error(err))
				return nil
			}
			if snap.Status != http.StatusOK {
				w.metrics.precacheFailed()
				w.log.Warn("precache skipped", zap.String("key", key), zap.Int("status", snap.Status))
				return nil
			}
			if err := assets.Put(ctx, snap); err != nil {
				w.metrics.precacheFailed()
				w.log.Warn("precache write failed", zap.String("key", key), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()
	w.log.Info("static assets cached")

	return w.SkipWaiting(ctx)
}

// SkipWaiting activates a worker that is still installing. It is a no-op in
// any other state.
func (w *Worker) SkipWaiting(ctx context.Context) error {
	if w.State() != StateInstalling {
		return nil
	}
	return w.Activate(ctx)
}

// Activate deletes every bucket that is not a current name and claims all
// clients.
func (w *Worker) Activate(ctx context.Context) error {
	names, err := w.storage.Names(ctx)
	if err != nil {
		return fmt.Errorf("list buckets: %w", err)
	}
	for _, name := range names {
		if w.names.Contains(name) {
			continue
		}
		w.log.Info("deleting old cache", zap.String("bucket", name))
		if err := w.storage.Delete(ctx, name); err != nil {
			if errors.Is(err, ErrBucketNotFound) {
				continue
			}
			return fmt.Errorf("delete bucket %s: %w", name, err)
		}
		w.metrics.bucketDeleted()
	}

	w.setState(StateActivated)
	n := w.clients.Claim(w.cfg.Version)
	w.log.Info("clients claimed", zap.Int("clients", n))
	return nil
}

// supersede marks the worker as replaced by a newer version.
func (w *Worker) supersede() {
	w.setState(StateSuperseded)
}

// Respond answers r when the worker intercepts it. Non-GET and cross-origin
// requests are not intercepted and report false.
func (w *Worker) Respond(ctx context.Context, r *http.Request) (Result, bool) {
	if r.Method != http.MethodGet || !sameOrigin(r.URL, w.cfg.Origin) {
		return Result{}, false
	}

	category := Classify(r, w.cfg.APIPrefix)
	req := Request{
		Key:        RequestKey(r.URL),
		Header:     r.Header,
		Navigation: category == CategoryNavigation || IsNavigation(r),
	}
	res := w.Serve(ctx, req, category.Strategy())
	w.metrics.response(category, res.Source)
	return res, true
}
