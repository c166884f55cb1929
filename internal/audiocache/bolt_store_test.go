package audiocache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *BoltStore {
	t.Helper()
	store, err := NewBoltStore(filepath.Join(t.TempDir(), "cache", "audio.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func TestNewBoltStore_createsParentDirectories(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "deeper", "audio.db")
	store, err := NewBoltStore(dbPath)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, store.Close())
	}()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err)
}

func TestBoltStore_PutGet(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().Truncate(time.Second)

	entry := Entry{
		Key:            CacheKey("morning", "en", TypeWord),
		Payload:        []byte("audio-bytes"),
		CreatedAt:      now,
		LastAccessedAt: now,
		SizeBytes:      11,
	}
	require.NoError(t, store.Put(entry))

	got, err := store.Get(entry.Key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entry.Key, got.Key)
	assert.Equal(t, entry.Payload, got.Payload)
	assert.True(t, entry.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, entry.SizeBytes, got.SizeBytes)
}

func TestBoltStore_Get_absentKey(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Get("en:word:missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBoltStore_Put_overwrites(t *testing.T) {
	store := newTestStore(t)
	key := CacheKey("morning", "en", TypeWord)

	require.NoError(t, store.Put(Entry{Key: key, Payload: []byte("old")}))
	require.NoError(t, store.Put(Entry{Key: key, Payload: []byte("new")}))

	got, err := store.Get(key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []byte("new"), got.Payload)

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestBoltStore_Count(t *testing.T) {
	store := newTestStore(t)

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	for _, word := range []string{"one", "two", "three"} {
		require.NoError(t, store.Put(Entry{Key: CacheKey(word, "en", TypeWord)}))
	}

	count, err = store.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestBoltStore_DeleteOldestByLastAccess(t *testing.T) {
	store := newTestStore(t)
	now := time.Now()

	for i, word := range []string{"oldest", "middle", "newest"} {
		require.NoError(t, store.Put(Entry{
			Key:            CacheKey(word, "en", TypeWord),
			LastAccessedAt: now.Add(time.Duration(i) * time.Hour),
		}))
	}

	removed, err := store.DeleteOldestByLastAccess(2)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	// Only the most recently accessed entry survives.
	got, err := store.Get(CacheKey("newest", "en", TypeWord))
	require.NoError(t, err)
	assert.NotNil(t, got)
	got, err = store.Get(CacheKey("oldest", "en", TypeWord))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBoltStore_DeleteOldestByLastAccess_moreThanStored(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Put(Entry{Key: CacheKey("only", "en", TypeWord)}))

	removed, err := store.DeleteOldestByLastAccess(10)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	removed, err = store.DeleteOldestByLastAccess(0)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestBoltStore_DeleteOlderThan(t *testing.T) {
	store := newTestStore(t)
	now := time.Now()

	require.NoError(t, store.Put(Entry{
		Key:       CacheKey("stale", "en", TypeWord),
		CreatedAt: now.Add(-8 * 24 * time.Hour),
	}))
	require.NoError(t, store.Put(Entry{
		Key:       CacheKey("fresh", "en", TypeWord),
		CreatedAt: now,
	}))

	removed, err := store.DeleteOlderThan(now.Add(-7 * 24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	got, err := store.Get(CacheKey("fresh", "en", TypeWord))
	require.NoError(t, err)
	assert.NotNil(t, got)
	got, err = store.Get(CacheKey("stale", "en", TypeWord))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBoltStore_Clear(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Put(Entry{Key: CacheKey("morning", "en", TypeWord)}))
	require.NoError(t, store.Put(Entry{Key: CacheKey("evening", "en", TypeSentence)}))

	require.NoError(t, store.Clear())

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// The store stays usable after a clear.
	require.NoError(t, store.Put(Entry{Key: CacheKey("again", "en", TypeWord)}))
}

func TestCacheKey(t *testing.T) {
	t.Run("deterministic and normalized", func(t *testing.T) {
		assert.Equal(t,
			CacheKey("Morning ", "en", TypeWord),
			CacheKey("morning", "en", TypeWord))
	})

	t.Run("type and language scope the key", func(t *testing.T) {
		word := CacheKey("morning", "en", TypeWord)
		sentence := CacheKey("morning", "en", TypeSentence)
		german := CacheKey("morning", "de", TypeWord)
		assert.NotEqual(t, word, sentence)
		assert.NotEqual(t, word, german)
	})
}
