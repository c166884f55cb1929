// Package phonetics provides an offline phonetic-transcription capability
// backed by a YAML lexicon, used ahead of the AI fallback.
package phonetics

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/lexio/internal/enrichment"
)

// ErrWordNotFound is returned when the lexicon has no entry for a word.
// Callers fall back to the AI transcription capability on this error.
var ErrWordNotFound = errors.New("word not found in lexicon")

var _ enrichment.Transcriber = (*LexiconTranscriber)(nil)

// lexiconEntry is one word's record in the lexicon file.
type lexiconEntry struct {
	IPA       string   `yaml:"ipa"`
	Syllables []string `yaml:"syllables,omitempty"`
}

// LexiconTranscriber resolves IPA transcriptions from an on-disk lexicon.
// The file maps language code to word to entry:
//
//	en:
//	  morning:
//	    ipa: "ˈmɔːɹnɪŋ"
//	    syllables: [mor, ning]
type LexiconTranscriber struct {
	languages map[string]map[string]lexiconEntry
}

func NewLexiconTranscriber(lexiconFile string) (*LexiconTranscriber, error) {
	contents, err := os.ReadFile(lexiconFile)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile > %w", err)
	}

	var languages map[string]map[string]lexiconEntry
	if err := yaml.Unmarshal(contents, &languages); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal(%s) > %w", lexiconFile, err)
	}

	normalized := make(map[string]map[string]lexiconEntry, len(languages))
	for language, words := range languages {
		entries := make(map[string]lexiconEntry, len(words))
		for word, entry := range words {
			entries[strings.ToLower(word)] = entry
		}
		normalized[strings.ToLower(language)] = entries
	}

	return &LexiconTranscriber{languages: normalized}, nil
}

// GetIPA implements the enrichment.Transcriber interface. It never blocks on
// I/O; the context parameter exists to satisfy the capability signature.
func (t *LexiconTranscriber) GetIPA(_ context.Context, params enrichment.IPARequest) (enrichment.IPAResponse, error) {
	words, ok := t.languages[strings.ToLower(params.Language)]
	if !ok {
		return enrichment.IPAResponse{}, fmt.Errorf("language %q: %w", params.Language, ErrWordNotFound)
	}

	word := strings.ToLower(params.Word)
	entry, ok := words[word]
	if !ok {
		return enrichment.IPAResponse{}, fmt.Errorf("word %q: %w", params.Word, ErrWordNotFound)
	}

	syllables := entry.Syllables
	if len(syllables) == 0 {
		syllables = splitSyllables(word)
	}
	return enrichment.IPAResponse{
		IPA:       entry.IPA,
		Syllables: syllables,
	}, nil
}

// splitSyllables breaks a word on vowel-group boundaries. It is a display
// heuristic for lexicon entries without explicit syllables, not a linguistic
// analysis; single-vowel-group words come back whole.
func splitSyllables(word string) []string {
	runes := []rune(word)
	if len(runes) == 0 {
		return nil
	}

	var syllables []string
	start := 0
	lastVowel := -1
	for i := 0; i < len(runes); i++ {
		if !isVowel(runes[i]) {
			continue
		}
		if lastVowel >= start && i > lastVowel+1 {
			// Split before the consonant that precedes this vowel group.
			boundary := i - 1
			if boundary <= start {
				boundary = i
			}
			syllables = append(syllables, string(runes[start:boundary]))
			start = boundary
		}
		lastVowel = i
	}
	if lastVowel == -1 {
		return []string{word}
	}
	syllables = append(syllables, string(runes[start:]))
	return syllables
}

func isVowel(r rune) bool {
	switch unicode.ToLower(r) {
	case 'a', 'e', 'i', 'o', 'u', 'y', 'à', 'á', 'â', 'ä', 'è', 'é', 'ê', 'ë', 'ì', 'í', 'î', 'ï', 'ò', 'ó', 'ô', 'ö', 'ù', 'ú', 'û', 'ü':
		return true
	}
	return false
}
