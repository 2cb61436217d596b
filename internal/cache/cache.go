// Package cache persists decoded-and-normalized audio analysis results
// across runs, keyed by the source file's identity, so re-running a
// sync over the same media doesn't re-decode and re-normalize audio
// that hasn't changed.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"

	"github.com/tp7/sushi-go/internal/errorsx"
)

const bucketName = "audio_streams"

// Cache wraps a single bbolt database file holding one bucket of
// serialized audio streams.
type Cache struct {
	db   *bbolt.DB
	path string
}

// Open opens (or creates) the bbolt database at path. The directory
// holding path must already exist.
func Open(path string) (*Cache, error) {
	options := bbolt.DefaultOptions
	options.Timeout = 500 * time.Millisecond

	db, err := bbolt.Open(path, 0o600, options)
	if err != nil {
		return nil, errorsx.Wrap(err, fmt.Sprintf("opening cache db %s", path))
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errorsx.Wrap(err, "creating cache bucket")
	}

	return &Cache{db: db, path: path}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Key identifies one decoded stream: the source file's path, its
// modification time and size (a cheap, good-enough change detector),
// and the sample rate it was decoded at, since the same file decoded
// at two different rates is two different cache entries.
type Key struct {
	Path       string
	ModTime    time.Time
	Size       int64
	SampleRate int
}

// KeyFromFile builds a Key from the file currently on disk at path.
func KeyFromFile(path string, sampleRate int) (Key, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Key{}, errorsx.FileMissing(path, path)
	}
	return Key{
		Path:       path,
		ModTime:    info.ModTime(),
		Size:       info.Size(),
		SampleRate: sampleRate,
	}, nil
}

func (k Key) bucketKey() []byte {
	return []byte(fmt.Sprintf("%s|%d|%d|%d", k.Path, k.ModTime.UnixNano(), k.Size, k.SampleRate))
}

// Entry is the serialized form of a decoded, normalized audio stream.
type Entry struct {
	SampleRate int       `json:"sample_rate"`
	Samples    []float64 `json:"samples"`
}

// Load returns the cached entry for key, and false if nothing is cached.
func (c *Cache) Load(key Key) (Entry, bool, error) {
	var entry Entry
	found := false

	err := c.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		if bucket == nil {
			return errors.Errorf("cache bucket %q missing", bucketName)
		}
		raw := bucket.Get(key.bucketKey())
		if raw == nil {
			return nil
		}
		found = true
		return json.Unmarshal(raw, &entry)
	})
	if err != nil {
		return Entry{}, false, errorsx.Wrap(err, "reading cache entry")
	}
	return entry, found, nil
}

// Store saves entry under key, overwriting any existing value.
func (c *Cache) Store(key Key, entry Entry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return errorsx.Wrap(err, "marshaling cache entry")
	}

	err = c.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		if err != nil {
			return err
		}
		return bucket.Put(key.bucketKey(), raw)
	})
	if err != nil {
		return errorsx.Wrap(err, "writing cache entry")
	}
	return nil
}
