package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	apperrors "github.com/gmsas95/habitlens/internal/errors"
)

// Cache keys
const (
	KeyDashboardInsights = "dashboard:insights"
	KeyDashboardStats    = "dashboard:stats"

	alertPrefix = "alert:"
)

// Cache stores JSON snapshots in BadgerDB with an optional TTL
type Cache struct {
	db  *badger.DB
	ttl time.Duration
}

// OpenCache opens (or creates) a cache directory
func OpenCache(path string, ttl time.Duration) (*Cache, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithNumVersionsToKeep(1).
		WithCompactL0OnClose(true).
		WithValueLogFileSize(16 << 20).
		WithMemTableSize(16 << 20)

	return openCache(opts, ttl)
}

// OpenMemoryCache opens a cache that lives only in memory
func OpenMemoryCache(ttl time.Duration) (*Cache, error) {
	return openCache(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil), ttl)
}

func openCache(opts badger.Options, ttl time.Duration) (*Cache, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrStoreUnavailable.Code, "failed to open badger")
	}
	return &Cache{db: db, ttl: ttl}, nil
}

// Close closes the underlying database
func (c *Cache) Close() error {
	return c.db.Close()
}

// TTL returns the lifetime of cached snapshots
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Put stores v as JSON under key
func (c *Cache) Put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), data)
		if c.ttl > 0 {
			e = e.WithTTL(c.ttl)
		}
		return txn.SetEntry(e)
	})
}

// Get decodes the value under key into v. It returns ErrCacheMiss when the
// key is absent or expired.
func (c *Cache) Get(key string, v any) error {
	return c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return apperrors.ErrCacheMiss
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}

// Delete removes key. Missing keys are not an error.
func (c *Cache) Delete(keys ...string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		for _, key := range keys {
			if err := txn.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	})
}

// InvalidateDashboard drops the cached dashboard snapshots
func (c *Cache) InvalidateDashboard() error {
	return c.Delete(KeyDashboardInsights, KeyDashboardStats)
}

// MarkOnce records that an alert for habitID was sent on day. It returns
// false when the marker already exists.
func (c *Cache) MarkOnce(habitID, day string) (bool, error) {
	key := []byte(alertPrefix + day + ":" + habitID)
	first := false

	err := c.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		first = true
		return txn.SetEntry(badger.NewEntry(key, []byte(day)).WithTTL(48 * time.Hour))
	})
	if err != nil {
		return false, err
	}
	return first, nil
}
