package audiocache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"
)

const bucketName = "audio"

// BoltStore implements Store on a bbolt database file. bbolt serializes
// writes internally, which satisfies the single-writer requirement of the
// persistent tier.
type BoltStore struct {
	db *bolt.DB
}

var _ Store = (*BoltStore)(nil)

// NewBoltStore opens (or creates) the database file and its bucket.
func NewBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll > %w", err)
	}

	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("bolt.Open(%s) > %w", dbPath, err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("tx.CreateBucketIfNotExists > %w", err)
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Get implements the Store interface.
func (s *BoltStore) Get(key string) (*Entry, error) {
	var entry *Entry
	if err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketName)).Get([]byte(key))
		if data == nil {
			return nil
		}
		var decoded Entry
		if err := json.Unmarshal(data, &decoded); err != nil {
			return fmt.Errorf("json.Unmarshal(%s) > %w", key, err)
		}
		entry = &decoded
		return nil
	}); err != nil {
		return nil, fmt.Errorf("db.View > %w", err)
	}
	return entry, nil
}

// Put implements the Store interface.
func (s *BoltStore) Put(entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("json.Marshal > %w", err)
	}
	if err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(entry.Key), data)
	}); err != nil {
		return fmt.Errorf("db.Update > %w", err)
	}
	return nil
}

// Count implements the Store interface.
func (s *BoltStore) Count() (int, error) {
	count := 0
	if err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket([]byte(bucketName)).Stats().KeyN
		return nil
	}); err != nil {
		return 0, fmt.Errorf("db.View > %w", err)
	}
	return count, nil
}

// DeleteOldestByLastAccess implements the Store interface. A single
// transaction scans access times and deletes the n oldest, amortizing
// eviction cost over batches.
func (s *BoltStore) DeleteOldestByLastAccess(n int) (int, error) {
	if n <= 0 {
		return 0, nil
	}

	type accessedKey struct {
		key            string
		lastAccessedAt time.Time
	}

	removed := 0
	if err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))

		var keys []accessedKey
		if err := bucket.ForEach(func(k, v []byte) error {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				// Undecodable entries are the oldest candidates of all.
				keys = append(keys, accessedKey{key: string(k)})
				return nil
			}
			keys = append(keys, accessedKey{key: string(k), lastAccessedAt: entry.LastAccessedAt})
			return nil
		}); err != nil {
			return err
		}

		sort.Slice(keys, func(i, j int) bool {
			return keys[i].lastAccessedAt.Before(keys[j].lastAccessedAt)
		})
		if n > len(keys) {
			n = len(keys)
		}
		for _, candidate := range keys[:n] {
			if err := bucket.Delete([]byte(candidate.key)); err != nil {
				return err
			}
			removed++
		}
		return nil
	}); err != nil {
		return removed, fmt.Errorf("db.Update > %w", err)
	}
	return removed, nil
}

// DeleteOlderThan implements the Store interface.
func (s *BoltStore) DeleteOlderThan(cutoff time.Time) (int, error) {
	removed := 0
	if err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))

		var stale [][]byte
		if err := bucket.ForEach(func(k, v []byte) error {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				stale = append(stale, append([]byte(nil), k...))
				return nil
			}
			if entry.CreatedAt.Before(cutoff) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		}); err != nil {
			return err
		}

		for _, key := range stale {
			if err := bucket.Delete(key); err != nil {
				return err
			}
			removed++
		}
		return nil
	}); err != nil {
		return removed, fmt.Errorf("db.Update > %w", err)
	}
	return removed, nil
}

// Clear implements the Store interface.
func (s *BoltStore) Clear() error {
	if err := s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketName)); err != nil {
			return err
		}
		_, err := tx.CreateBucket([]byte(bucketName))
		return err
	}); err != nil {
		return fmt.Errorf("db.Update > %w", err)
	}
	return nil
}
