package buckets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/starterkit/internal/app/system/offline"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// bucketDoc is one document in cache_buckets.
type bucketDoc struct {
	Name      string    `bson:"_id"`
	CreatedAt time.Time `bson:"created_at"`
}

// entryDoc is one document in cache_entries.
type entryDoc struct {
	Bucket   string              `bson:"bucket"`
	Key      string              `bson:"key"`
	Status   int                 `bson:"status"`
	Header   map[string][]string `bson:"header"`
	Body     []byte              `bson:"body"`
	Size     int64               `bson:"size"`
	StoredAt time.Time           `bson:"stored_at"`
}

// Mongo stores buckets in two MongoDB collections.
type Mongo struct {
	buckets *mongo.Collection
	entries *mongo.Collection
}

// NewMongo returns a storage over db.
func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{
		buckets: db.Collection("cache_buckets"),
		entries: db.Collection("cache_entries"),
	}
}

// EnsureIndexes creates the unique (bucket, key) index.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := m.entries.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "bucket", Value: 1}, {Key: "key", Value: 1}},
		Options: options.Index().SetName("idx_cache_entries_bucket_key").SetUnique(true),
	})
	return err
}

func (m *Mongo) Open(ctx context.Context, name string) (offline.Bucket, error) {
	if name == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	if err := m.ensureBucket(ctx, name); err != nil {
		return nil, err
	}
	return &mongoBucket{store: m, name: name}, nil
}

func (m *Mongo) ensureBucket(ctx context.Context, name string) error {
	_, err := m.buckets.UpdateOne(ctx,
		bson.M{"_id": name},
		bson.M{"$setOnInsert": bson.M{"created_at": time.Now().UTC()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("create bucket %s: %w", name, err)
	}
	return nil
}

func (m *Mongo) Names(ctx context.Context) ([]string, error) {
	cur, err := m.buckets.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list buckets: %w", err)
	}
	var docs []bucketDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode buckets: %w", err)
	}
	names := make([]string, 0, len(docs))
	for _, d := range docs {
		names = append(names, d.Name)
	}
	return names, nil
}

func (m *Mongo) Delete(ctx context.Context, name string) error {
	res, err := m.buckets.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return fmt.Errorf("delete bucket %s: %w", name, err)
	}
	if res.DeletedCount == 0 {
		return offline.ErrBucketNotFound
	}
	if _, err := m.entries.DeleteMany(ctx, bson.M{"bucket": name}); err != nil {
		return fmt.Errorf("delete entries of %s: %w", name, err)
	}
	return nil
}

type mongoBucket struct {
	store *Mongo
	name  string
}

func (b *mongoBucket) Name() string { return b.name }

func (b *mongoBucket) Get(ctx context.Context, key string) (offline.Snapshot, bool, error) {
	var doc entryDoc
	err := b.store.entries.FindOne(ctx, bson.M{"bucket": b.name, "key": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return offline.Snapshot{}, false, nil
	}
	if err != nil {
		return offline.Snapshot{}, false, fmt.Errorf("get %s/%s: %w", b.name, key, err)
	}
	return offline.Snapshot{
		Key:      doc.Key,
		Status:   doc.Status,
		Header:   http.Header(doc.Header),
		Body:     doc.Body,
		StoredAt: doc.StoredAt.UTC(),
	}, true, nil
}

func (b *mongoBucket) Put(ctx context.Context, snap offline.Snapshot) error {
	if snap.Key == "" {
		return fmt.Errorf("snapshot key is required")
	}
	storedAt := snap.StoredAt
	if storedAt.IsZero() {
		storedAt = time.Now().UTC()
	}
	body := snap.Body
	if body == nil {
		body = []byte{}
	}
	doc := entryDoc{
		Bucket:   b.name,
		Key:      snap.Key,
		Status:   snap.Status,
		Header:   map[string][]string(snap.Header.Clone()),
		Body:     body,
		Size:     int64(len(body)),
		StoredAt: storedAt,
	}
	if err := b.store.ensureBucket(ctx, b.name); err != nil {
		return err
	}
	_, err := b.store.entries.ReplaceOne(ctx,
		bson.M{"bucket": b.name, "key": snap.Key},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", b.name, snap.Key, err)
	}
	return nil
}

func (b *mongoBucket) Keys(ctx context.Context) ([]string, error) {
	cur, err := b.store.entries.Find(ctx,
		bson.M{"bucket": b.name},
		options.Find().SetProjection(bson.M{"key": 1}).SetSort(bson.D{{Key: "key", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list keys of %s: %w", b.name, err)
	}
	var docs []struct {
		Key string `bson:"key"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode keys: %w", err)
	}
	keys := make([]string, 0, len(docs))
	for _, d := range docs {
		keys = append(keys, d.Key)
	}
	return keys, nil
}

func (b *mongoBucket) Size(ctx context.Context) (int64, error) {
	cur, err := b.store.entries.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"bucket": b.name}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$size"}}}},
	})
	if err != nil {
		return 0, fmt.Errorf("size of %s: %w", b.name, err)
	}
	var out []struct {
		Total int64 `bson:"total"`
	}
	if err := cur.All(ctx, &out); err != nil {
		return 0, fmt.Errorf("decode size: %w", err)
	}
	if len(out) == 0 {
		return 0, nil
	}
	return out[0].Total, nil
}
