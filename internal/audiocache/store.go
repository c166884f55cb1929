// Package audiocache caches synthesized pronunciation clips across reading
// views: a small in-process LRU in front of a bounded persistent store.
package audiocache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

//go:generate mockgen -source=store.go -destination=../mocks/audiocache/mock_store.go -package=mock_audiocache

// Type distinguishes what kind of clip was synthesized for a text.
type Type string

const (
	TypeWord     Type = "word"
	TypeSentence Type = "sentence"
)

// Entry is one audio clip in the persistent tier. Payload bytes are opaque to
// the cache.
type Entry struct {
	Key            string    `json:"key"`
	Payload        []byte    `json:"payload"`
	CreatedAt      time.Time `json:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
	SizeBytes      int64     `json:"size_bytes"`
}

// Store is the persistent tier. It is authoritative: the fast tier only ever
// holds promoted copies of entries that exist (or existed) here.
// Implementations serialize their own writes; callers never write
// concurrently through different stores.
type Store interface {
	// Get returns the entry, or nil with no error when the key is absent.
	Get(key string) (*Entry, error)
	Put(entry Entry) error
	Count() (int, error)
	// DeleteOldestByLastAccess evicts the n least-recently-accessed entries
	// in one batch and returns how many were removed.
	DeleteOldestByLastAccess(n int) (int, error)
	// DeleteOlderThan removes entries created before the cutoff and returns
	// how many were removed.
	DeleteOlderThan(cutoff time.Time) (int, error)
	Clear() error
}

// CacheKey derives the content-addressed key for a clip: language, audio
// type, and a hash of the normalized text.
func CacheKey(text, language string, audioType Type) string {
	normalized := strings.ToLower(strings.TrimSpace(text))
	sum := sha256.Sum256([]byte(normalized))
	return language + ":" + string(audioType) + ":" + hex.EncodeToString(sum[:])[:16]
}
