package book

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/jmoiron/sqlx"
)

//go:generate mockgen -source=repository.go -destination=../mocks/book/mock_repository.go -package=mock_book

// Occurrence is one place a word appears elsewhere in the same book.
type Occurrence struct {
	Page     int    `db:"page"`
	Sentence string `db:"sentence"`
}

// OccurrenceRepository finds other sentences in a book containing a word.
// The lookup worker consumes this best-effort; failures never fail a lookup.
type OccurrenceRepository interface {
	SearchOccurrences(ctx context.Context, bookID int64, word string) ([]Occurrence, error)
}

// maxOccurrences bounds the result set; the reading view shows a handful.
const maxOccurrences = 20

// DBOccurrenceRepository implements OccurrenceRepository using MySQL.
type DBOccurrenceRepository struct {
	db *sqlx.DB
}

var _ OccurrenceRepository = (*DBOccurrenceRepository)(nil)

// NewDBOccurrenceRepository creates a new DBOccurrenceRepository.
func NewDBOccurrenceRepository(db *sqlx.DB) *DBOccurrenceRepository {
	return &DBOccurrenceRepository{db: db}
}

// SearchOccurrences returns sentences in the book containing the word as a
// whole word. The LIKE query prefilters candidates; word-boundary matching
// happens here because MySQL collations disagree about what a word is.
func (r *DBOccurrenceRepository) SearchOccurrences(ctx context.Context, bookID int64, word string) ([]Occurrence, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return nil, nil
	}

	var candidates []Occurrence
	if err := r.db.SelectContext(ctx, &candidates,
		"SELECT page, sentence FROM book_sentences WHERE book_id = ? AND sentence LIKE ? ORDER BY page",
		bookID, "%"+word+"%",
	); err != nil {
		return nil, fmt.Errorf("db.SelectContext(book_sentences) > %w", err)
	}

	occurrences := make([]Occurrence, 0, len(candidates))
	for _, candidate := range candidates {
		if !containsWord(candidate.Sentence, word) {
			continue
		}
		occurrences = append(occurrences, candidate)
		if len(occurrences) >= maxOccurrences {
			break
		}
	}
	return occurrences, nil
}

// containsWord reports whether sentence contains word bounded by
// non-letter/non-digit runes, case-insensitively.
func containsWord(sentence, word string) bool {
	sentence = strings.ToLower(sentence)
	for start := 0; ; {
		i := strings.Index(sentence[start:], word)
		if i < 0 {
			return false
		}
		i += start

		before := ' '
		if i > 0 {
			runes := []rune(sentence[:i])
			before = runes[len(runes)-1]
		}
		after := ' '
		if rest := sentence[i+len(word):]; rest != "" {
			after = []rune(rest)[0]
		}
		if !isWordRune(before) && !isWordRune(after) {
			return true
		}
		start = i + len(word)
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}
