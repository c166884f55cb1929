package lookup

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Key is a content-addressed identifier for one lookup: book id, normalized
// subject text, and a fingerprint of the context sentence. The same word in a
// different sentence derives a different key, because definitions can
// legitimately differ by sense.
type Key string

const (
	markerWord   = "w"
	markerPhrase = "p"

	fingerprintLength = 16
)

// DeriveKey computes the queue key for a subject selected in a sentence.
// It is pure: producers (enqueue) and consumers (status/result accessors)
// derive keys independently without shared state.
func DeriveKey(bookID int64, subject, sentence string) Key {
	normalized, isPhrase := NormalizeSubject(subject)
	marker := markerWord
	if isPhrase {
		marker = markerPhrase
	}
	return Key("b" + strconv.FormatInt(bookID, 10) + ":" + marker + ":" + normalized + ":" + sentenceFingerprint(sentence))
}

// BookID parses the book scope back out of a key. Returns 0 for malformed keys.
func (k Key) BookID() int64 {
	s := string(k)
	if !strings.HasPrefix(s, "b") {
		return 0
	}
	end := strings.IndexByte(s, ':')
	if end < 0 {
		return 0
	}
	id, err := strconv.ParseInt(s[1:end], 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// NormalizeSubject cleans the selected text and reports whether it is a
// multi-word phrase. Phrases preserve internal spacing as single spaces.
func NormalizeSubject(subject string) (string, bool) {
	fields := strings.Fields(subject)
	if len(fields) <= 1 {
		return NormalizeWord(subject), false
	}

	normalized := make([]string, 0, len(fields))
	for _, field := range fields {
		if word := NormalizeWord(field); word != "" {
			normalized = append(normalized, word)
		}
	}
	if len(normalized) <= 1 {
		return strings.Join(normalized, ""), false
	}
	return strings.Join(normalized, " "), true
}

// NormalizeWord case-folds a word and strips non-letter boundary characters.
// Letters and numbers of any script are retained, so non-Latin-script
// languages behave identically to Latin-script ones. Internal apostrophes and
// hyphens survive ("doesn't", "well-known").
func NormalizeWord(word string) string {
	word = norm.NFC.String(strings.TrimSpace(word))
	word = strings.TrimFunc(word, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	var b strings.Builder
	b.Grow(len(word))
	for _, r := range word {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '\'' || r == '’' || r == '-' {
			b.WriteRune(r)
		}
	}
	return strings.ToLower(b.String())
}

// sentenceFingerprint hashes the NFC form of the sentence so byte-level
// normalization differences do not split the cache.
func sentenceFingerprint(sentence string) string {
	sum := sha256.Sum256([]byte(norm.NFC.String(sentence)))
	return hex.EncodeToString(sum[:])[:fingerprintLength]
}
