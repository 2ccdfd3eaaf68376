package offline

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"
)

// ErrBucketNotFound is returned when deleting a bucket that does not exist.
var ErrBucketNotFound = errors.New("cache bucket not found")

// Snapshot is a stored response. It is written and replaced as a whole.
type Snapshot struct {
	Key      string
	Status   int
	Header   http.Header
	Body     []byte
	StoredAt time.Time
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	c := s
	c.Header = s.Header.Clone()
	c.Body = bytes.Clone(s.Body)
	return c
}

// Bucket is a named key -> snapshot store.
type Bucket interface {
	Name() string
	Get(ctx context.Context, key string) (Snapshot, bool, error)
	Put(ctx context.Context, snap Snapshot) error
	Keys(ctx context.Context) ([]string, error)
	// Size is the sum of the stored body sizes in bytes.
	Size(ctx context.Context) (int64, error)
}

// Storage holds the buckets. Open creates a bucket when it does not exist.
type Storage interface {
	Open(ctx context.Context, name string) (Bucket, error)
	Names(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
}
