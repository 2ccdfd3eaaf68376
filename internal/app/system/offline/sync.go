package offline

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// SyncReport summarizes one background sync pass.
type SyncReport struct {
	Tag     string `json:"tag"`
	Ignored bool   `json:"ignored"`
	Synced  int    `json:"synced"`
	Failed  int    `json:"failed"`
}

// HandleSync replays every key in the runtime bucket for SyncTag: each key
// is re-fetched once and overwritten on a 200. Other tags are ignored.
func (w *Worker) HandleSync(ctx context.Context, tag string) (SyncReport, error) {
	rep := SyncReport{Tag: tag}
	if tag != SyncTag {
		rep.Ignored = true
		return rep, nil
	}

	runtime, err := w.storage.Open(ctx, w.names.Runtime)
	if err != nil {
		return rep, fmt.Errorf("open runtime bucket: %w", err)
	}
	keys, err := runtime.Keys(ctx)
	if err != nil {
		return rep, fmt.Errorf("list runtime keys: %w", err)
	}

	for _, key := range keys {
		snap, err := w.fetcher.Fetch(ctx, key, nil)
		if err != nil {
			rep.Failed++
			w.log.Info("sync failed", zap.String("key", key), zap.Error(err))
			continue
		}
		if snap.Status != http.StatusOK {
			rep.Failed++
			w.log.Info("sync skipped", zap.String("key", key), zap.Int("status", snap.Status))
			continue
		}
		if err := runtime.Put(ctx, snap); err != nil {
			rep.Failed++
			w.log.Warn("sync write failed", zap.String("key", key), zap.Error(err))
			continue
		}
		rep.Synced++
		w.log.Debug("synced", zap.String("key", key))
	}
	return rep, nil
}
