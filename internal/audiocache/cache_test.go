package audiocache

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store for exercising the two-tier interplay
// without a database file.
type memStore struct {
	mu       sync.Mutex
	entries  map[string]Entry
	getCalls int
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[string]Entry)}
}

func (s *memStore) Get(key string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls++
	entry, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (s *memStore) Put(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.Key] = entry
	return nil
}

func (s *memStore) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries), nil
}

func (s *memStore) DeleteOldestByLastAccess(n int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return s.entries[keys[i]].LastAccessedAt.Before(s.entries[keys[j]].LastAccessedAt)
	})
	if n > len(keys) {
		n = len(keys)
	}
	for _, key := range keys[:n] {
		delete(s.entries, key)
	}
	return n, nil
}

func (s *memStore) DeleteOlderThan(cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, entry := range s.entries {
		if entry.CreatedAt.Before(cutoff) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

func (s *memStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]Entry)
	return nil
}

func TestCache_SetGet(t *testing.T) {
	store := newMemStore()
	cache := New(store)

	cache.Set("morning", "en", TypeWord, []byte("audio"))

	payload, ok := cache.Get("morning", "en", TypeWord)
	require.True(t, ok)
	assert.Equal(t, []byte("audio"), payload)

	// Both tiers hold the entry after a set.
	stats := cache.Stats()
	assert.Equal(t, 1, stats.FastEntries)
	assert.Equal(t, 1, stats.PersistentEntries)
}

func TestCache_Get_miss(t *testing.T) {
	cache := New(newMemStore())
	_, ok := cache.Get("missing", "en", TypeWord)
	assert.False(t, ok)
}

func TestCache_Get_promotesPersistentHits(t *testing.T) {
	store := newMemStore()
	now := time.Now()
	key := CacheKey("morning", "en", TypeWord)
	require.NoError(t, store.Put(Entry{
		Key:            key,
		Payload:        []byte("audio"),
		CreatedAt:      now,
		LastAccessedAt: now,
	}))

	cache := New(store)
	store.mu.Lock()
	store.getCalls = 0
	store.mu.Unlock()

	payload, ok := cache.Get("morning", "en", TypeWord)
	require.True(t, ok)
	assert.Equal(t, []byte("audio"), payload)

	store.mu.Lock()
	callsAfterFirst := store.getCalls
	store.mu.Unlock()
	assert.Equal(t, 1, callsAfterFirst)

	// The second read is served from the fast tier.
	_, ok = cache.Get("morning", "en", TypeWord)
	require.True(t, ok)
	store.mu.Lock()
	callsAfterSecond := store.getCalls
	store.mu.Unlock()
	assert.Equal(t, callsAfterFirst, callsAfterSecond)
}

func TestCache_Get_expiredPersistentEntryIsAMiss(t *testing.T) {
	store := newMemStore()
	cache := New(store, WithTTL(time.Minute))

	// Written after the constructor sweep, so only Get can notice the expiry.
	key := CacheKey("morning", "en", TypeWord)
	require.NoError(t, store.Put(Entry{
		Key:       key,
		Payload:   []byte("audio"),
		CreatedAt: time.Now().Add(-time.Hour),
	}))

	_, ok := cache.Get("morning", "en", TypeWord)
	assert.False(t, ok)

	// The expired entry is gone from the store as well.
	got, err := store.Get(key)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCache_fastTierBatchEviction(t *testing.T) {
	cache := New(newMemStore(), WithFastCapacity(3), WithEvictionBatch(2))

	cache.Set("one", "en", TypeWord, []byte("1"))
	cache.Set("two", "en", TypeWord, []byte("2"))
	cache.Set("three", "en", TypeWord, []byte("3"))

	// Touch "one" so it is the most recently used.
	_, ok := cache.Get("one", "en", TypeWord)
	require.True(t, ok)

	// Inserting a fourth entry evicts a batch of the least recently used.
	cache.Set("four", "en", TypeWord, []byte("4"))

	stats := cache.Stats()
	assert.Equal(t, 2, stats.FastEntries)

	// "one" was protected by the recent get; "two" was evicted from the fast
	// tier but still lives in the persistent store.
	cache.mu.Lock()
	_, oneInFast := cache.items[CacheKey("one", "en", TypeWord)]
	_, twoInFast := cache.items[CacheKey("two", "en", TypeWord)]
	cache.mu.Unlock()
	assert.True(t, oneInFast)
	assert.False(t, twoInFast)

	payload, ok := cache.Get("two", "en", TypeWord)
	require.True(t, ok)
	assert.Equal(t, []byte("2"), payload)
}

func TestCache_persistentBatchEviction(t *testing.T) {
	store := newMemStore()
	cache := New(store, WithPersistentCapacity(3), WithEvictionBatch(2))

	base := time.Now().Add(-time.Minute)
	for i, word := range []string{"one", "two", "three"} {
		require.NoError(t, store.Put(Entry{
			Key:            CacheKey(word, "en", TypeWord),
			CreatedAt:      base,
			LastAccessedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	// The store is at capacity, so this set evicts the two least recently
	// accessed entries before writing.
	cache.Set("four", "en", TypeWord, []byte("4"))

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	got, err := store.Get(CacheKey("one", "en", TypeWord))
	require.NoError(t, err)
	assert.Nil(t, got)
	got, err = store.Get(CacheKey("four", "en", TypeWord))
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestCache_SweepExpired(t *testing.T) {
	store := newMemStore()
	now := time.Now()
	require.NoError(t, store.Put(Entry{
		Key:       CacheKey("stale", "en", TypeWord),
		CreatedAt: now.Add(-2 * time.Hour),
	}))
	require.NoError(t, store.Put(Entry{
		Key:       CacheKey("fresh", "en", TypeWord),
		CreatedAt: now,
	}))

	// The constructor sweep removes the stale entry immediately.
	cache := New(store, WithTTL(time.Hour))
	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.Equal(t, 0, cache.SweepExpired())
}

func TestCache_Clear(t *testing.T) {
	store := newMemStore()
	cache := New(store)
	cache.Set("morning", "en", TypeWord, []byte("audio"))

	cache.Clear()

	_, ok := cache.Get("morning", "en", TypeWord)
	assert.False(t, ok)
	stats := cache.Stats()
	assert.Equal(t, 0, stats.FastEntries)
	assert.Equal(t, 0, stats.PersistentEntries)
}

func TestCache_Stats(t *testing.T) {
	cache := New(newMemStore())
	cache.Set("morning", "en", TypeWord, []byte("12345"))
	cache.Set("evening", "en", TypeSentence, []byte("123"))

	stats := cache.Stats()
	assert.Equal(t, 2, stats.FastEntries)
	assert.Equal(t, int64(8), stats.FastBytes)
	assert.Equal(t, 2, stats.PersistentEntries)
}

type synthesizerFunc func(ctx context.Context, text, language string, audioType Type) ([]byte, error)

func (f synthesizerFunc) Synthesize(ctx context.Context, text, language string, audioType Type) ([]byte, error) {
	return f(ctx, text, language, audioType)
}

func TestCache_Preload(t *testing.T) {
	t.Run("synthesizes missing items", func(t *testing.T) {
		store := newMemStore()
		synthesized := make(chan string, 10)
		cache := New(store, WithSynthesizer(synthesizerFunc(func(ctx context.Context, text, language string, audioType Type) ([]byte, error) {
			synthesized <- text
			return []byte("audio:" + text), nil
		})))

		// Already cached: must not be synthesized again.
		cache.Set("cached", "en", TypeWord, []byte("existing"))

		cache.Preload(context.Background(), []PreloadItem{
			{Text: "cached", Language: "en", Type: TypeWord},
			{Text: "missing", Language: "en", Type: TypeWord},
		})

		select {
		case text := <-synthesized:
			assert.Equal(t, "missing", text)
		case <-time.After(5 * time.Second):
			t.Fatal("preload never synthesized the missing item")
		}

		require.Eventually(t, func() bool {
			_, ok := cache.Get("missing", "en", TypeWord)
			return ok
		}, 5*time.Second, 10*time.Millisecond)

		select {
		case text := <-synthesized:
			t.Fatalf("unexpected synthesis for already-cached item: %s", text)
		case <-time.After(50 * time.Millisecond):
		}
	})

	t.Run("individual failures do not abort the batch", func(t *testing.T) {
		cache := New(newMemStore(), WithSynthesizer(synthesizerFunc(func(ctx context.Context, text, language string, audioType Type) ([]byte, error) {
			if text == "broken" {
				return nil, fmt.Errorf("synthesis failed")
			}
			return []byte("audio"), nil
		})))

		cache.Preload(context.Background(), []PreloadItem{
			{Text: "broken", Language: "en", Type: TypeWord},
			{Text: "working", Language: "en", Type: TypeWord},
		})

		require.Eventually(t, func() bool {
			_, ok := cache.Get("working", "en", TypeWord)
			return ok
		}, 5*time.Second, 10*time.Millisecond)
		_, ok := cache.Get("broken", "en", TypeWord)
		assert.False(t, ok)
	})

	t.Run("no-op without a synthesizer", func(t *testing.T) {
		cache := New(newMemStore())
		cache.Preload(context.Background(), []PreloadItem{
			{Text: "anything", Language: "en", Type: TypeWord},
		})
	})
}
