// Package buckets provides the cache storage backends of the offline worker:
// in-process memory, SQLite and MongoDB. Each backend implements
// offline.Storage and replaces whole snapshots on write.
package buckets

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dalemusser/starterkit/internal/app/system/offline"
)

// Memory keeps buckets in process memory.
type Memory struct {
	mu      sync.Mutex
	buckets map[string]*memoryBucket
}

// NewMemory returns an empty in-memory storage.
func NewMemory() *Memory {
	return &Memory{buckets: make(map[string]*memoryBucket)}
}

func (m *Memory) Open(_ context.Context, name string) (offline.Bucket, error) {
	if name == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.buckets[name]
	if !ok {
		b = &memoryBucket{name: name, entries: make(map[string]offline.Snapshot)}
		m.buckets[name] = b
	}
	return b, nil
}

func (m *Memory) Names(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.buckets))
	for name := range m.buckets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *Memory) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.buckets[name]; !ok {
		return offline.ErrBucketNotFound
	}
	delete(m.buckets, name)
	return nil
}

type memoryBucket struct {
	name    string
	mu      sync.RWMutex
	entries map[string]offline.Snapshot
}

func (b *memoryBucket) Name() string { return b.name }

func (b *memoryBucket) Get(_ context.Context, key string) (offline.Snapshot, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	snap, ok := b.entries[key]
	if !ok {
		return offline.Snapshot{}, false, nil
	}
	return snap.Clone(), true, nil
}

func (b *memoryBucket) Put(_ context.Context, snap offline.Snapshot) error {
	if snap.Key == "" {
		return fmt.Errorf("snapshot key is required")
	}
	stored := snap.Clone()
	if stored.StoredAt.IsZero() {
		stored.StoredAt = time.Now().UTC()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[snap.Key] = stored
	return nil
}

func (b *memoryBucket) Keys(context.Context) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	keys := make([]string, 0, len(b.entries))
	for k := range b.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (b *memoryBucket) Size(context.Context) (int64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var n int64
	for _, s := range b.entries {
		n += int64(len(s.Body))
	}
	return n, nil
}
