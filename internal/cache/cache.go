// Package cache stores batch scrape results keyed by document content so
// unchanged documents are not scraped twice.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-redis/redis/v8"

	"github.com/ramkansal/recipe-scrapers/pkg/plugin"
)

const keyPrefix = "recipes:result:"

// Store persists scrape results. Get reports a miss with ok == false and a
// nil error.
type Store interface {
	Name() string
	Get(ctx context.Context, key string) (result *plugin.ScrapeResult, ok bool, err error)
	Set(ctx context.Context, key string, result *plugin.ScrapeResult) error
	Close() error
}

// Key derives a cache key from the page URL, its HTML and any variant
// strings, such as an options fingerprint, that change the scraped record.
func Key(pageURL, html string, variants ...string) string {
	h := sha256.New()
	h.Write([]byte(pageURL))
	h.Write([]byte{0})
	h.Write([]byte(html))
	for _, v := range variants {
		h.Write([]byte{0})
		h.Write([]byte(v))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ---------- File store ----------

// FileStore keeps one JSON file per key under a directory. Entries older
// than the TTL are treated as misses; a zero TTL never expires.
type FileStore struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string, ttl time.Duration) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create cache dir %s", dir)
	}
	return &FileStore{dir: dir, ttl: ttl, now: time.Now}, nil
}

func (s *FileStore) Name() string { return "file" }

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *FileStore) Get(_ context.Context, key string) (*plugin.ScrapeResult, bool, error) {
	path := s.path(key)
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "stat %s", path)
	}
	if s.ttl > 0 && s.now().Sub(info.ModTime()) > s.ttl {
		return nil, false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, errors.Wrapf(err, "read %s", path)
	}
	var result plugin.ScrapeResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false, errors.Wrapf(err, "decode %s", path)
	}
	return &result, true, nil
}

func (s *FileStore) Set(_ context.Context, key string, result *plugin.ScrapeResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return errors.Wrap(err, "encode result")
	}
	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "write %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "close %s", tmp.Name())
	}
	return errors.Wrap(os.Rename(tmp.Name(), s.path(key)), "commit cache entry")
}

func (s *FileStore) Close() error { return nil }

// ---------- Redis store ----------

// RedisStore keeps results in redis with the TTL as expiry.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to addr and pings it.
func NewRedisStore(ctx context.Context, addr string, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "connect to redis at %s", addr)
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func (s *RedisStore) Name() string { return "redis" }

func (s *RedisStore) Get(ctx context.Context, key string) (*plugin.ScrapeResult, bool, error) {
	data, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "redis get")
	}
	var result plugin.ScrapeResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false, errors.Wrap(err, "decode cached result")
	}
	return &result, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, result *plugin.ScrapeResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return errors.Wrap(err, "encode result")
	}
	return errors.Wrap(s.client.Set(ctx, keyPrefix+key, data, s.ttl).Err(), "redis set")
}

func (s *RedisStore) Close() error { return s.client.Close() }

// Open picks a store from the settings: redis when addr is set, else a
// file store when dir is set, else nil (caching disabled).
func Open(ctx context.Context, dir, redisAddr string, ttl time.Duration) (Store, error) {
	switch {
	case redisAddr != "":
		s, err := NewRedisStore(ctx, redisAddr, ttl)
		if err != nil {
			return nil, err
		}
		return s, nil
	case dir != "":
		s, err := NewFileStore(dir, ttl)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, nil
	}
}
