package lookup

import (
	"time"

	"github.com/at-ishikawa/lexio/internal/book"
	"github.com/at-ishikawa/lexio/internal/enrichment"
)

// Status represents the lifecycle state of a queued lookup.
// Transitions: pending → fetching → {ready | error}; error → pending on
// re-enqueue. No transition skips fetching.
type Status string

const (
	StatusPending  Status = "pending"
	StatusFetching Status = "fetching"
	StatusReady    Status = "ready"
	StatusError    Status = "error"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusFetching, StatusReady, StatusError:
		return true
	}
	return false
}

// Result is the enrichment payload of a completed lookup. Fields beyond
// Definition are best-effort and may be absent.
type Result struct {
	Definition            string
	Translation           string
	WordType              string
	Article               string
	IsPhrasalVerb         bool
	IPA                   string
	Syllables             []string
	SimplifiedSentence    string
	SentenceTranslation   string
	SimplifiedTranslation string
	EquivalentWord        string
	Occurrences           []book.Occurrence
	Examples              []enrichment.Example
}

// QueuedEntry is one word-or-phrase lookup request and its lifecycle state.
// Exactly one entry exists per key at any time.
type QueuedEntry struct {
	Key      Key
	Subject  string // cleaned word or phrase text
	IsPhrase bool
	Sentence string // verbatim context sentence, part of the key
	BookID   int64
	Language string

	Status Status
	Result *Result // present only when Status is ready
	Error  string  // present only when Status is error

	QueuedAt         time.Time
	FetchStartedAt   time.Time
	FetchCompletedAt time.Time
}
