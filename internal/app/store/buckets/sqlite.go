package buckets

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/dalemusser/starterkit/internal/app/system/offline"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS cache_buckets (
	name       TEXT PRIMARY KEY,
	created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS cache_entries (
	bucket    TEXT NOT NULL,
	key       TEXT NOT NULL,
	status    INTEGER NOT NULL,
	header    TEXT NOT NULL,
	body      BLOB NOT NULL,
	stored_at INTEGER NOT NULL,
	PRIMARY KEY (bucket, key)
);`

// SQLite stores buckets in a SQLite database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and applies
// the schema. Writes go through a single connection.
func OpenSQLite(path string) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close releases the database.
func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping checks the database connection.
func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLite) Open(ctx context.Context, name string) (offline.Bucket, error) {
	if name == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	if err := s.ensureBucket(ctx, name); err != nil {
		return nil, err
	}
	return &sqliteBucket{db: s.db, store: s, name: name}, nil
}

func (s *SQLite) ensureBucket(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO cache_buckets (name, created_at) VALUES (?, ?)`,
		name, time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("create bucket %s: %w", name, err)
	}
	return nil
}

func (s *SQLite) Names(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM cache_buckets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list buckets: %w", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan bucket name: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

func (s *SQLite) Delete(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM cache_buckets WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete bucket %s: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return offline.ErrBucketNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM cache_entries WHERE bucket = ?`, name); err != nil {
		return fmt.Errorf("delete entries of %s: %w", name, err)
	}
	return tx.Commit()
}

type sqliteBucket struct {
	db    *sql.DB
	store *SQLite
	name  string
}

func (b *sqliteBucket) Name() string { return b.name }

func (b *sqliteBucket) Get(ctx context.Context, key string) (offline.Snapshot, bool, error) {
	row := b.db.QueryRowContext(ctx,
		`SELECT status, header, body, stored_at FROM cache_entries WHERE bucket = ? AND key = ?`,
		b.name, key)

	var (
		snap     = offline.Snapshot{Key: key}
		header   string
		storedAt int64
	)
	if err := row.Scan(&snap.Status, &header, &snap.Body, &storedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return offline.Snapshot{}, false, nil
		}
		return offline.Snapshot{}, false, fmt.Errorf("get %s/%s: %w", b.name, key, err)
	}
	snap.Header = http.Header{}
	if err := json.Unmarshal([]byte(header), &snap.Header); err != nil {
		return offline.Snapshot{}, false, fmt.Errorf("decode header of %s/%s: %w", b.name, key, err)
	}
	snap.StoredAt = time.UnixMilli(storedAt).UTC()
	return snap, true, nil
}

func (b *sqliteBucket) Put(ctx context.Context, snap offline.Snapshot) error {
	if snap.Key == "" {
		return fmt.Errorf("snapshot key is required")
	}
	header, err := json.Marshal(snap.Header)
	if err != nil {
		return fmt.Errorf("encode header: %w", err)
	}
	if snap.Header == nil {
		header = []byte("{}")
	}
	body := snap.Body
	if body == nil {
		body = []byte{}
	}
	storedAt := snap.StoredAt
	if storedAt.IsZero() {
		storedAt = time.Now().UTC()
	}

	if err := b.store.ensureBucket(ctx, b.name); err != nil {
		return err
	}
	_, err = b.db.ExecContext(ctx,
		`INSERT INTO cache_entries (bucket, key, status, header, body, stored_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(bucket, key) DO UPDATE SET
		   status = excluded.status,
		   header = excluded.header,
		   body = excluded.body,
		   stored_at = excluded.stored_at`,
		b.name, snap.Key, snap.Status, string(header), body, storedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", b.name, snap.Key, err)
	}
	return nil
}

func (b *sqliteBucket) Keys(ctx context.Context) ([]string, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT key FROM cache_entries WHERE bucket = ? ORDER BY key`, b.name)
	if err != nil {
		return nil, fmt.Errorf("list keys of %s: %w", b.name, err)
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (b *sqliteBucket) Size(ctx context.Context) (int64, error) {
	var n int64
	err := b.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(LENGTH(body)), 0) FROM cache_entries WHERE bucket = ?`, b.name).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("size of %s: %w", b.name, err)
	}
	return n, nil
}
