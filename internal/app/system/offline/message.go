package offline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrUnknownMessage is returned for message types the worker does not handle.
var ErrUnknownMessage = errors.New("unknown message type")

// MessageKind is the type of a client message.
type MessageKind int

const (
	MessageSkipWaiting MessageKind = iota + 1
	MessageClearCache
	MessageCacheURLs
	MessageGetCacheSize
)

var messageKinds = map[string]MessageKind{
	"SKIP_WAITING":   MessageSkipWaiting,
	"CLEAR_CACHE":    MessageClearCache,
	"CACHE_URLS":     MessageCacheURLs,
	"GET_CACHE_SIZE": MessageGetCacheSize,
}

func (k MessageKind) String() string {
	for name, kind := range messageKinds {
		if kind == k {
			return name
		}
	}
	return "UNKNOWN"
}

// Message is a decoded client message.
type Message struct {
	Kind MessageKind
	URLs []string
}

type wireMessage struct {
	Type    string `json:"type"`
	Payload struct {
		URLs []string `json:"urls"`
	} `json:"payload"`
}

// DecodeMessage parses {"type": ..., "payload": {...}}.
func DecodeMessage(data []byte) (Message, error) {
	var wm wireMessage
	if err := json.Unmarshal(data, &wm); err != nil {
		return Message{}, fmt.Errorf("decode message: %w", err)
	}
	kind, ok := messageKinds[wm.Type]
	if !ok {
		return Message{}, fmt.Errorf("%w: %q", ErrUnknownMessage, wm.Type)
	}
	return Message{Kind: kind, URLs: wm.Payload.URLs}, nil
}

// Reply is sent back for messages that answer, such as GET_CACHE_SIZE.
type Reply struct {
	Type string `json:"type"`
	Size int64  `json:"size"`
}

// HandleMessage dispatches m. Only GET_CACHE_SIZE returns a reply.
func (w *Worker) HandleMessage(ctx context.Context, m Message) (*Reply, error) {
	switch m.Kind {
	case MessageSkipWaiting:
		return nil, w.SkipWaiting(ctx)
	case MessageClearCache:
		w.ClearCaches(ctx)
		return nil, nil
	case MessageCacheURLs:
		w.CacheURLs(ctx, m.URLs)
		return nil, nil
	case MessageGetCacheSize:
		size := w.CacheSize(ctx)
		return &Reply{Type: "CACHE_SIZE", Size: size}, nil
	}
	w.log.Warn("unknown message type", zap.Int("kind", int(m.Kind)))
	return nil, ErrUnknownMessage
}

// ClearCaches deletes every bucket. Errors are logged.
func (w *Worker) ClearCaches(ctx context.Context) {
	names, err := w.storage.Names(ctx)
	if err != nil {
		w.log.Error("error clearing caches", zap.Error(err))
		return
	}
	for _, name := range names {
		err := w.storage.Delete(ctx, name)
		switch {
		case err == nil:
			w.metrics.bucketDeleted()
		case errors.Is(err, ErrBucketNotFound):
			// Already gone.
		default:
			w.log.Error("error clearing cache", zap.String("bucket", name), zap.Error(err))
		}
	}
	w.log.Info("all caches cleared", zap.Int("buckets", len(names)))
}

// CacheURLs fetches urls into the runtime bucket. Failures are logged.
func (w *Worker) CacheURLs(ctx context.Context, urls []string) {
	var g errgroup.Group
	g.SetLimit(w.cfg.InstallConcurrency)
	for _, key := range urls {
		g.Go(func() error {
			snap, err := w.fetchAndStore(ctx, w.names.Runtime, key, nil)
			switch {
			case err != nil:
				w.log.Warn("error caching url", zap.String("key", key), zap.Error(err))
			case snap.Status != http.StatusOK:
				w.log.Warn("url not cached", zap.String("key", key), zap.Int("status", snap.Status))
			}
			return nil
		})
	}
	_ = g.Wait()
	w.log.Info("urls cached", zap.Strings("urls", urls))
}

// CacheSize sums the body sizes across all buckets. Errors are logged and
// the size reported is 0.
func (w *Worker) CacheSize(ctx context.Context) int64 {
	names, err := w.storage.Names(ctx)
	if err != nil {
		w.log.Error("error getting cache size", zap.Error(err))
		return 0
	}
	var total int64
	for _, name := range names {
		b, err := w.storage.Open(ctx, name)
		if err != nil {
			w.log.Error("error getting cache size", zap.String("bucket", name), zap.Error(err))
			return 0
		}
		n, err := b.Size(ctx)
		if err != nil {
			w.log.Error("error getting cache size", zap.String("bucket", name), zap.Error(err))
			return 0
		}
		total += n
	}
	w.metrics.cacheSize(total)
	w.log.Debug("cache size", zap.String("size", humanize.Bytes(uint64(total))))
	return total
}
