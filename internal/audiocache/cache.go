package audiocache

import (
	"container/list"
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	DefaultFastCapacity       = 50
	DefaultPersistentCapacity = 500
	DefaultEvictionBatch      = 10
	DefaultTTL                = 7 * 24 * time.Hour
)

// Synthesizer produces pronunciation audio for a text. The cache treats it as
// an opaque capability; Preload is its only caller.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, language string, audioType Type) ([]byte, error)
}

type fastEntry struct {
	key            string
	payload        []byte
	createdAt      time.Time
	lastAccessedAt time.Time
}

// Cache is the two-tier audio cache. The fast tier is a promotion cache over
// the authoritative persistent store: entries appear there only after a set
// or a persistent-tier hit.
type Cache struct {
	mu    sync.Mutex
	items map[string]*list.Element
	order *list.List // front = most recently used

	store              Store
	synthesizer        Synthesizer
	fastCapacity       int
	persistentCapacity int
	evictionBatch      int
	ttl                time.Duration
	now                func() time.Time
}

type Option func(*Cache)

func WithFastCapacity(n int) Option {
	return func(c *Cache) { c.fastCapacity = n }
}

func WithPersistentCapacity(n int) Option {
	return func(c *Cache) { c.persistentCapacity = n }
}

func WithEvictionBatch(n int) Option {
	return func(c *Cache) { c.evictionBatch = n }
}

func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// WithSynthesizer enables Preload.
func WithSynthesizer(synthesizer Synthesizer) Option {
	return func(c *Cache) { c.synthesizer = synthesizer }
}

// New creates the cache and runs one TTL sweep against the persistent store.
// Later sweeps only happen via SweepExpired; capacity-based eviction bounds
// the store regardless.
func New(store Store, opts ...Option) *Cache {
	c := &Cache{
		items:              make(map[string]*list.Element),
		order:              list.New(),
		store:              store,
		fastCapacity:       DefaultFastCapacity,
		persistentCapacity: DefaultPersistentCapacity,
		evictionBatch:      DefaultEvictionBatch,
		ttl:                DefaultTTL,
		now:                time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.SweepExpired()
	return c
}

// Get returns the cached clip. Fast-tier hits bump recency; persistent-tier
// hits are promoted into the fast tier. Expired persistent entries are
// deleted and reported as misses, even if never swept.
func (c *Cache) Get(text, language string, audioType Type) ([]byte, bool) {
	key := CacheKey(text, language, audioType)
	now := c.now()

	c.mu.Lock()
	if element, ok := c.items[key]; ok {
		entry := element.Value.(*fastEntry)
		if now.Sub(entry.createdAt) <= c.ttl {
			entry.lastAccessedAt = now
			c.order.MoveToFront(element)
			payload := entry.payload
			c.mu.Unlock()
			return payload, true
		}
		c.removeFast(element)
	}
	c.mu.Unlock()

	entry, err := c.store.Get(key)
	if err != nil {
		// Storage failures are cache misses, never user-visible errors.
		slog.Default().Warn("audio cache: persistent read failed", "key", key, "error", err)
		return nil, false
	}
	if entry == nil {
		return nil, false
	}
	if now.Sub(entry.CreatedAt) > c.ttl {
		if _, err := c.store.DeleteOlderThan(now.Add(-c.ttl)); err != nil {
			slog.Default().Warn("audio cache: expired delete failed", "key", key, "error", err)
		}
		return nil, false
	}

	// Promote into the fast tier and refresh the access time in the store.
	c.mu.Lock()
	c.insertFast(key, entry.Payload, entry.CreatedAt, now)
	c.mu.Unlock()

	entry.LastAccessedAt = now
	if err := c.store.Put(*entry); err != nil {
		slog.Default().Warn("audio cache: access-time refresh failed", "key", key, "error", err)
	}
	return entry.Payload, true
}

// Set writes the clip to both tiers, batch-evicting the least-recently-used
// persistent entries first when the store is at capacity.
func (c *Cache) Set(text, language string, audioType Type, payload []byte) {
	key := CacheKey(text, language, audioType)
	now := c.now()

	c.mu.Lock()
	c.insertFast(key, payload, now, now)
	c.mu.Unlock()

	count, err := c.store.Count()
	if err != nil {
		slog.Default().Warn("audio cache: persistent count failed", "key", key, "error", err)
	} else if count >= c.persistentCapacity {
		if _, err := c.store.DeleteOldestByLastAccess(c.evictionBatch); err != nil {
			slog.Default().Warn("audio cache: batch eviction failed", "error", err)
		}
	}

	if err := c.store.Put(Entry{
		Key:            key,
		Payload:        payload,
		CreatedAt:      now,
		LastAccessedAt: now,
		SizeBytes:      int64(len(payload)),
	}); err != nil {
		slog.Default().Warn("audio cache: persistent write failed", "key", key, "error", err)
	}
}

// PreloadItem names one clip to fetch ahead of need.
type PreloadItem struct {
	Text     string
	Language string
	Type     Type
}

// Preload fires background synthesis for any items not already cached.
// Individual failures are logged and do not abort the batch. Without a
// synthesizer it is a no-op.
func (c *Cache) Preload(ctx context.Context, items []PreloadItem) {
	if c.synthesizer == nil {
		return
	}

	go func() {
		for _, item := range items {
			if ctx.Err() != nil {
				return
			}
			if c.contains(item) {
				continue
			}
			payload, err := c.synthesizer.Synthesize(ctx, item.Text, item.Language, item.Type)
			if err != nil {
				slog.Default().Debug("audio preload failed",
					"text", item.Text,
					"language", item.Language,
					"type", item.Type,
					"error", err)
				continue
			}
			c.Set(item.Text, item.Language, item.Type, payload)
		}
	}()
}

// contains checks both tiers without bumping recency.
func (c *Cache) contains(item PreloadItem) bool {
	key := CacheKey(item.Text, item.Language, item.Type)

	c.mu.Lock()
	_, ok := c.items[key]
	c.mu.Unlock()
	if ok {
		return true
	}

	entry, err := c.store.Get(key)
	if err != nil || entry == nil {
		return false
	}
	return c.now().Sub(entry.CreatedAt) <= c.ttl
}

// SweepExpired removes TTL-expired entries from both tiers and returns how
// many persistent entries were removed.
func (c *Cache) SweepExpired() int {
	cutoff := c.now().Add(-c.ttl)

	c.mu.Lock()
	for element := c.order.Back(); element != nil; {
		previous := element.Prev()
		if element.Value.(*fastEntry).createdAt.Before(cutoff) {
			c.removeFast(element)
		}
		element = previous
	}
	c.mu.Unlock()

	removed, err := c.store.DeleteOlderThan(cutoff)
	if err != nil {
		slog.Default().Warn("audio cache: TTL sweep failed", "error", err)
		return 0
	}
	if removed > 0 {
		slog.Default().Debug("audio cache sweep", "removed", removed)
	}
	return removed
}

// Clear empties both tiers.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.items = make(map[string]*list.Element)
	c.order.Init()
	c.mu.Unlock()

	if err := c.store.Clear(); err != nil {
		slog.Default().Warn("audio cache: persistent clear failed", "error", err)
	}
}

// Stats reports entry counts and the fast tier's byte footprint for
// diagnostics. Persistent bytes are not tracked; the count bounds them.
type Stats struct {
	FastEntries       int
	FastBytes         int64
	PersistentEntries int
}

func (c *Cache) Stats() Stats {
	c.mu.Lock()
	stats := Stats{FastEntries: c.order.Len()}
	for element := c.order.Front(); element != nil; element = element.Next() {
		stats.FastBytes += int64(len(element.Value.(*fastEntry).payload))
	}
	c.mu.Unlock()

	count, err := c.store.Count()
	if err != nil {
		slog.Default().Warn("audio cache: persistent count failed", "error", err)
		return stats
	}
	stats.PersistentEntries = count
	return stats
}

// insertFast adds or refreshes a fast-tier entry, batch-evicting by LRU when
// at capacity. Caller holds the lock.
func (c *Cache) insertFast(key string, payload []byte, createdAt, accessedAt time.Time) {
	if element, ok := c.items[key]; ok {
		entry := element.Value.(*fastEntry)
		entry.payload = payload
		entry.createdAt = createdAt
		entry.lastAccessedAt = accessedAt
		c.order.MoveToFront(element)
		return
	}

	if c.order.Len() >= c.fastCapacity {
		for i := 0; i < c.evictionBatch; i++ {
			oldest := c.order.Back()
			if oldest == nil {
				break
			}
			c.removeFast(oldest)
		}
	}

	c.items[key] = c.order.PushFront(&fastEntry{
		key:            key,
		payload:        payload,
		createdAt:      createdAt,
		lastAccessedAt: accessedAt,
	})
}

// removeFast drops a fast-tier element. Caller holds the lock.
func (c *Cache) removeFast(element *list.Element) {
	c.order.Remove(element)
	delete(c.items, element.Value.(*fastEntry).key)
}
