// Package lookup implements the deferred-enrichment queue: words and phrases
// the reader selects are enqueued here, fetched in the background under a
// concurrency cap, and read back through polling accessors.
package lookup

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

//go:generate mockgen -source=queue.go -destination=../mocks/lookup/mock_fetcher.go -package=mock_lookup

// Fetcher executes the enrichment work for one claimed entry. The returned
// result becomes the entry's payload; a non-nil error flips the entry to the
// error state unless it is the dispatch context's cancellation.
type Fetcher interface {
	Fetch(ctx context.Context, entry QueuedEntry) (*Result, error)
}

const DefaultConcurrency = 1

// Queue owns the authoritative state of every queued lookup. All entry
// mutation happens under its mutex; fetch goroutines only wait on I/O and
// hand their results back through complete.
type Queue struct {
	mu      sync.Mutex
	entries map[Key]*QueuedEntry
	order   []Key // insertion order; claims prefer older entries to avoid starvation
	active  int

	ctx         context.Context
	fetcher     Fetcher
	concurrency int
	callbacks   []func(key Key, status Status)
	now         func() time.Time
}

type QueueOption func(*Queue)

// WithConcurrency caps simultaneous in-flight fetches. 1 is the deliberate
// default for weak local inference backends; higher values are safe against a
// remote service.
func WithConcurrency(n int) QueueOption {
	return func(q *Queue) {
		if n > 0 {
			q.concurrency = n
		}
	}
}

// NewQueue creates a queue whose fetches run under ctx. Cancelling ctx rolls
// in-flight entries back to pending rather than leaving them stuck in
// fetching.
func NewQueue(ctx context.Context, fetcher Fetcher, opts ...QueueOption) *Queue {
	q := &Queue{
		entries:     make(map[Key]*QueuedEntry),
		ctx:         ctx,
		fetcher:     fetcher,
		concurrency: DefaultConcurrency,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Notify registers a callback invoked after every status transition. The
// callback runs outside the queue lock and must not block for long.
func (q *Queue) Notify(fn func(key Key, status Status)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.callbacks = append(q.callbacks, fn)
}

// Enqueue inserts a pending entry for the subject, deduplicating by key.
// Re-enqueueing a pending/fetching/ready key is a no-op; re-enqueueing an
// error key resets it to pending (the retry path). Completion is observed via
// IsReady/GetStatus/GetResult or a Notify callback.
func (q *Queue) Enqueue(subject, sentence string, bookID int64, language string) {
	normalized, isPhrase := NormalizeSubject(subject)
	if normalized == "" {
		return
	}
	key := DeriveKey(bookID, subject, sentence)

	q.mu.Lock()
	if existing, ok := q.entries[key]; ok {
		if existing.Status != StatusError {
			q.mu.Unlock()
			return
		}
		existing.Status = StatusPending
		existing.Error = ""
		existing.Result = nil
		existing.QueuedAt = q.now()
		existing.FetchStartedAt = time.Time{}
		existing.FetchCompletedAt = time.Time{}
		q.mu.Unlock()
		q.notify(key, StatusPending)
		q.dispatch()
		return
	}

	q.entries[key] = &QueuedEntry{
		Key:      key,
		Subject:  normalized,
		IsPhrase: isPhrase,
		Sentence: sentence,
		BookID:   bookID,
		Language: language,
		Status:   StatusPending,
		QueuedAt: q.now(),
	}
	q.order = append(q.order, key)
	q.mu.Unlock()

	q.notify(key, StatusPending)
	q.dispatch()
}

// IsReady reports whether the matching entry has completed successfully.
func (q *Queue) IsReady(subject, sentence string, bookID int64) bool {
	status, ok := q.GetStatus(subject, sentence, bookID)
	return ok && status == StatusReady
}

// GetStatus returns the entry's status, or false when no entry exists.
func (q *Queue) GetStatus(subject, sentence string, bookID int64) (Status, bool) {
	key := DeriveKey(bookID, subject, sentence)
	q.mu.Lock()
	defer q.mu.Unlock()
	entry, ok := q.entries[key]
	if !ok {
		return "", false
	}
	return entry.Status, true
}

// GetResult returns the cached payload, only when the entry is ready.
func (q *Queue) GetResult(subject, sentence string, bookID int64) (Result, bool) {
	key := DeriveKey(bookID, subject, sentence)
	q.mu.Lock()
	defer q.mu.Unlock()
	entry, ok := q.entries[key]
	if !ok || entry.Status != StatusReady || entry.Result == nil {
		return Result{}, false
	}
	return *entry.Result, true
}

// GetError returns the failure message of an error entry.
func (q *Queue) GetError(subject, sentence string, bookID int64) (string, bool) {
	key := DeriveKey(bookID, subject, sentence)
	q.mu.Lock()
	defer q.mu.Unlock()
	entry, ok := q.entries[key]
	if !ok || entry.Status != StatusError {
		return "", false
	}
	return entry.Error, true
}

// ClearForBook removes every entry scoped to the book. Invoked when a book is
// closed to bound memory. In-flight fetches for removed entries complete and
// are discarded.
func (q *Queue) ClearForBook(bookID int64) {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.order[:0]
	for _, key := range q.order {
		if key.BookID() == bookID {
			delete(q.entries, key)
			continue
		}
		kept = append(kept, key)
	}
	q.order = kept
}

// PendingCount returns the number of entries waiting for a worker slot.
// Callers use it together with FetchingCount to throttle bulk enqueues.
func (q *Queue) PendingCount() int {
	return q.countByStatus(StatusPending)
}

// FetchingCount returns the number of in-flight fetches.
func (q *Queue) FetchingCount() int {
	return q.countByStatus(StatusFetching)
}

func (q *Queue) countByStatus(status Status) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	count := 0
	for _, entry := range q.entries {
		if entry.Status == status {
			count++
		}
	}
	return count
}

// SweepExpired removes ready entries whose fetch completed more than ttl ago
// and returns how many were removed.
func (q *Queue) SweepExpired(ttl time.Duration) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	cutoff := q.now().Add(-ttl)
	kept := q.order[:0]
	removed := 0
	for _, key := range q.order {
		entry, ok := q.entries[key]
		if !ok {
			continue
		}
		if entry.Status == StatusReady && entry.FetchCompletedAt.Before(cutoff) {
			delete(q.entries, key)
			removed++
			continue
		}
		kept = append(kept, key)
	}
	q.order = kept
	return removed
}

// dispatch claims pending entries up to the concurrency cap and launches one
// fetch goroutine per claim. Must be called without the lock held.
func (q *Queue) dispatch() {
	if q.ctx.Err() != nil {
		// Shutting down: rolled-back entries stay pending instead of
		// spinning against a cancelled context.
		return
	}

	q.mu.Lock()
	var claimed []QueuedEntry
	for _, key := range q.order {
		if q.active >= q.concurrency {
			break
		}
		entry, ok := q.entries[key]
		if !ok || entry.Status != StatusPending {
			continue
		}
		entry.Status = StatusFetching
		entry.FetchStartedAt = q.now()
		q.active++
		claimed = append(claimed, *entry)
	}
	q.mu.Unlock()

	for _, entry := range claimed {
		q.notify(entry.Key, StatusFetching)
		go q.run(entry)
	}
}

func (q *Queue) run(entry QueuedEntry) {
	result, err := q.fetcher.Fetch(q.ctx, entry)
	q.complete(entry.Key, result, err)
}

// complete merges one fetch outcome back into the single-owner state and
// immediately reuses the freed slot.
func (q *Queue) complete(key Key, result *Result, err error) {
	q.mu.Lock()
	q.active--

	entry, ok := q.entries[key]
	if !ok {
		// Cleared while in flight; the result is simply never read.
		q.mu.Unlock()
		q.dispatch()
		return
	}

	var status Status
	switch {
	case err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)):
		// Cancellation is not a failure: roll back so a later dispatch
		// can pick the entry up again.
		entry.Status = StatusPending
		entry.FetchStartedAt = time.Time{}
		status = StatusPending
	case err != nil:
		entry.Status = StatusError
		entry.Error = err.Error()
		entry.FetchCompletedAt = q.now()
		status = StatusError
		slog.Default().Warn("lookup fetch failed",
			"key", string(key),
			"subject", entry.Subject,
			"error", err)
	default:
		entry.Status = StatusReady
		entry.Result = result
		entry.Error = ""
		entry.FetchCompletedAt = q.now()
		status = StatusReady
	}
	q.mu.Unlock()

	q.notify(key, status)
	q.dispatch()
}

func (q *Queue) notify(key Key, status Status) {
	q.mu.Lock()
	callbacks := make([]func(Key, Status), len(q.callbacks))
	copy(callbacks, q.callbacks)
	q.mu.Unlock()

	for _, fn := range callbacks {
		fn(key, status)
	}
}
