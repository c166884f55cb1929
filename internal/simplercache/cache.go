// Package simplercache holds "simpler" paraphrase results so that reopening
// the same sentence does not re-run the simplification pipeline. Entries are
// versioned: bumping SchemaVersion invalidates everything cached by older
// builds without an explicit migration.
package simplercache

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// SchemaVersion identifies the Analysis layout. Bump it whenever the struct
// changes shape so stale entries read as misses.
const SchemaVersion = 2

const (
	DefaultCapacity      = 150
	DefaultTTL           = 30 * time.Minute
	DefaultSweepInterval = 5 * time.Minute

	// sentencePrefixRunes bounds how much of the sentence participates in
	// the key; paraphrases of very long sentences still dedupe.
	sentencePrefixRunes = 100
)

// Analysis is one cached paraphrase result.
type Analysis struct {
	SimplifiedSentence    string
	SentenceTranslation   string
	SimplifiedTranslation string
	EquivalentWord        string
}

type entry struct {
	key       string
	analysis  Analysis
	version   int
	createdAt time.Time
}

// Cache is a single-tier in-process LRU+TTL cache for paraphrase results.
type Cache struct {
	mu       sync.Mutex
	items    map[string]*list.Element
	order    *list.List // front = most recently used
	capacity int
	ttl      time.Duration

	sweeper *cron.Cron
	now     func() time.Time
}

type Option func(*Cache)

func WithCapacity(capacity int) Option {
	return func(c *Cache) { c.capacity = capacity }
}

func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

func New(opts ...Option) *Cache {
	c := &Cache{
		items:    make(map[string]*list.Element),
		order:    list.New(),
		capacity: DefaultCapacity,
		ttl:      DefaultTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// cacheKey derives the entry key from book scope, subject, and a hash of the
// sentence prefix.
func cacheKey(bookID int64, subject, sentence string) string {
	runes := []rune(sentence)
	if len(runes) > sentencePrefixRunes {
		runes = runes[:sentencePrefixRunes]
	}
	sum := sha256.Sum256([]byte(string(runes)))
	return "b" + strconv.FormatInt(bookID, 10) + ":" + subject + ":" + hex.EncodeToString(sum[:])[:16]
}

// Get returns the cached analysis, treating misses, TTL expiry, and schema
// version mismatches all as "not cached".
func (c *Cache) Get(bookID int64, subject, sentence string) (Analysis, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	element, ok := c.items[cacheKey(bookID, subject, sentence)]
	if !ok {
		return Analysis{}, false
	}

	e := element.Value.(*entry)
	if e.version != SchemaVersion || c.now().Sub(e.createdAt) > c.ttl {
		c.remove(element)
		return Analysis{}, false
	}

	c.order.MoveToFront(element)
	return e.analysis, true
}

// Set stores an analysis, evicting the least-recently-used entry first if the
// cache is at capacity.
func (c *Cache) Set(bookID int64, subject, sentence string, analysis Analysis) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(bookID, subject, sentence)
	if element, ok := c.items[key]; ok {
		e := element.Value.(*entry)
		e.analysis = analysis
		e.version = SchemaVersion
		e.createdAt = c.now()
		c.order.MoveToFront(element)
		return
	}

	if c.order.Len() >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			c.remove(oldest)
		}
	}

	c.items[key] = c.order.PushFront(&entry{
		key:       key,
		analysis:  analysis,
		version:   SchemaVersion,
		createdAt: c.now(),
	})
}

// Sweep removes every TTL-expired or version-stale entry and returns how many
// were removed.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for element := c.order.Back(); element != nil; {
		previous := element.Prev()
		e := element.Value.(*entry)
		if e.version != SchemaVersion || now.Sub(e.createdAt) > c.ttl {
			c.remove(element)
			removed++
		}
		element = previous
	}
	return removed
}

// Len returns the number of cached entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Clear empties the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.order.Init()
}

// StartSweeper schedules Sweep at the given interval until StopSweeper.
func (c *Cache) StartSweeper(interval time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sweeper != nil {
		return nil
	}

	sweeper := cron.New()
	if _, err := sweeper.AddFunc("@every "+interval.String(), func() {
		if removed := c.Sweep(); removed > 0 {
			slog.Default().Debug("simpler cache sweep", "removed", removed)
		}
	}); err != nil {
		return err
	}
	sweeper.Start()
	c.sweeper = sweeper
	return nil
}

// StopSweeper stops the periodic sweep, waiting for a running sweep to finish.
func (c *Cache) StopSweeper() {
	c.mu.Lock()
	sweeper := c.sweeper
	c.sweeper = nil
	c.mu.Unlock()

	if sweeper != nil {
		<-sweeper.Stop().Done()
	}
}

func (c *Cache) remove(element *list.Element) {
	e := element.Value.(*entry)
	c.order.Remove(element)
	delete(c.items, e.key)
}
