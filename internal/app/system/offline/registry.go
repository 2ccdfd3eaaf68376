package offline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultUpdateInterval is how often Run checks for a new worker version.
const DefaultUpdateInterval = time.Hour

// ConfigSource returns the configuration of the latest worker version.
type ConfigSource func(ctx context.Context) (Config, error)

// Registry owns the active worker and replaces it when a new version
// appears.
type Registry struct {
	source   ConfigSource
	deps     Deps
	interval time.Duration
	log      *zap.Logger

	mu     sync.Mutex // serializes Register and Update
	active *Worker
	stateM sync.RWMutex
}

// NewRegistry returns a registry. A zero interval means DefaultUpdateInterval.
func NewRegistry(source ConfigSource, deps Deps, interval time.Duration) *Registry {
	if interval <= 0 {
		interval = DefaultUpdateInterval
	}
	if deps.Clients == nil {
		deps.Clients = NewClients()
	}
	if deps.Notifier == nil {
		deps.Notifier = NewNotifier()
	}
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	return &Registry{source: source, deps: deps, interval: interval, log: deps.Log}
}

// Active returns the activated worker, or nil before registration.
func (r *Registry) Active() *Worker {
	r.stateM.RLock()
	defer r.stateM.RUnlock()
	return r.active
}

func (r *Registry) setActive(w *Worker) {
	r.stateM.Lock()
	r.active = w
	r.stateM.Unlock()
}

// Register installs the current version when no worker is active.
func (r *Registry) Register(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Active() != nil {
		r.log.Info("offline worker already registered")
		return nil
	}
	_, err := r.install(ctx)
	return err
}

// Update checks the source and installs a new worker when its version
// differs from the active one. It reports whether a new worker took over.
func (r *Registry) Update(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.install(ctx)
}

func (r *Registry) install(ctx context.Context) (bool, error) {
	cfg, err := r.source(ctx)
	if err != nil {
		return false, fmt.Errorf("load worker config: %w", err)
	}
	if cfg.Version == "" {
		return false, errors.New("worker config has no version")
	}

	prev := r.Active()
	if prev != nil && prev.Version() == cfg.Version {
		return false, nil
	}

	w := New(cfg, r.deps)
	if err := w.Install(ctx); err != nil {
		return false, fmt.Errorf("install worker %s: %w", cfg.Version, err)
	}
	if w.State() != StateActivated {
		return false, fmt.Errorf("worker %s did not activate", cfg.Version)
	}
	if prev != nil {
		prev.supersede()
		r.log.Info("offline worker superseded",
			zap.String("previous", prev.Version()), zap.String("current", cfg.Version))
	}
	r.setActive(w)
	r.log.Info("offline worker registered", zap.String("version", cfg.Version))
	return true, nil
}

// Run registers the worker and then checks for updates on every tick until
// ctx is done. Errors are logged; the loop keeps going.
func (r *Registry) Run(ctx context.Context) {
	if err := r.Register(ctx); err != nil {
		r.log.Warn("offline worker registration failed", zap.Error(err))
	}

	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := r.Update(ctx); err != nil {
				r.log.Warn("offline worker update failed", zap.Error(err))
			}
		}
	}
}
