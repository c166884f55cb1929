// Package testutil provides shared test helpers for creating config files and
// lexicon fixtures.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// SetupTestConfig creates a minimal config file and the cache directory for
// testing. Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "cache"), 0755))

	configContent := fmt.Sprintf(`lookup:
  concurrency: 1
  result_ttl: 1h
  sweep_schedule: "@every 10m"
audio_cache:
  path: %s
  fast_capacity: 50
  persistent_capacity: 500
  eviction_batch: 10
  ttl: 168h
simpler_cache:
  capacity: 150
  ttl: 30m
  sweep_interval: 5m
`,
		filepath.Join(tmpDir, "cache", "audio.db"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// SetupTestConfigWithAPIKey creates a config file with a fake OpenAI API key
// for tests that require API key validation to pass.
func SetupTestConfigWithAPIKey(t *testing.T, tmpDir string) string {
	t.Helper()
	cfgPath := SetupTestConfig(t, tmpDir)

	content, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	content = append(content, []byte("openai:\n  api_key: fake-key-for-testing\n  model: gpt-4o-mini\n")...)
	require.NoError(t, os.WriteFile(cfgPath, content, 0644))
	return cfgPath
}

// LexiconOption configures optional fields when creating a lexicon fixture.
type LexiconOption func(*lexiconConfig)

type lexiconConfig struct {
	language string
	words    map[string]LexiconWord
}

// LexiconWord is one pronunciation entry in a lexicon fixture.
type LexiconWord struct {
	IPA       string
	Syllables []string
}

// WithLexiconLanguage sets the language section the words go under. The
// default is "en".
func WithLexiconLanguage(language string) LexiconOption {
	return func(cfg *lexiconConfig) {
		cfg.language = language
	}
}

// WithLexiconWord adds a word to the fixture.
func WithLexiconWord(word string, entry LexiconWord) LexiconOption {
	return func(cfg *lexiconConfig) {
		cfg.words[word] = entry
	}
}

// CreateLexiconFile writes a pronunciation lexicon YAML file and returns its
// path. By default it contains a single entry for "morning" under "en".
func CreateLexiconFile(t *testing.T, dir string, opts ...LexiconOption) string {
	t.Helper()

	cfg := lexiconConfig{
		language: "en",
		words: map[string]LexiconWord{
			"morning": {IPA: "ˈmɔːrnɪŋ", Syllables: []string{"mor", "ning"}},
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	content := cfg.language + ":\n"
	for word, entry := range cfg.words {
		content += fmt.Sprintf("  %s:\n    ipa: %q\n", word, entry.IPA)
		if len(entry.Syllables) > 0 {
			content += "    syllables:\n"
			for _, syllable := range entry.Syllables {
				content += fmt.Sprintf("      - %q\n", syllable)
			}
		}
	}

	lexiconPath := filepath.Join(dir, "lexicon.yml")
	require.NoError(t, os.WriteFile(lexiconPath, []byte(content), 0644))
	return lexiconPath
}
