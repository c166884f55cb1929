package phonetics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/lexio/internal/enrichment"
	"github.com/at-ishikawa/lexio/internal/testutil"
)

func TestNewLexiconTranscriber(t *testing.T) {
	t.Run("loads a lexicon file", func(t *testing.T) {
		lexiconPath := testutil.CreateLexiconFile(t, t.TempDir())
		transcriber, err := NewLexiconTranscriber(lexiconPath)
		require.NoError(t, err)
		assert.NotNil(t, transcriber)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewLexiconTranscriber("/does/not/exist.yml")
		assert.Error(t, err)
	})
}

func TestLexiconTranscriber_GetIPA(t *testing.T) {
	lexiconPath := testutil.CreateLexiconFile(t, t.TempDir(),
		testutil.WithLexiconWord("morning", testutil.LexiconWord{
			IPA:       "ˈmɔːrnɪŋ",
			Syllables: []string{"mor", "ning"},
		}),
		testutil.WithLexiconWord("bank", testutil.LexiconWord{IPA: "bæŋk"}),
	)
	transcriber, err := NewLexiconTranscriber(lexiconPath)
	require.NoError(t, err)

	tests := []struct {
		name    string
		params  enrichment.IPARequest
		want    enrichment.IPAResponse
		wantErr error
	}{
		{
			name:   "word with explicit syllables",
			params: enrichment.IPARequest{Word: "morning", Language: "en"},
			want: enrichment.IPAResponse{
				IPA:       "ˈmɔːrnɪŋ",
				Syllables: []string{"mor", "ning"},
			},
		},
		{
			name:   "case-insensitive lookup",
			params: enrichment.IPARequest{Word: "Morning", Language: "EN"},
			want: enrichment.IPAResponse{
				IPA:       "ˈmɔːrnɪŋ",
				Syllables: []string{"mor", "ning"},
			},
		},
		{
			name:   "syllables derived when the lexicon has none",
			params: enrichment.IPARequest{Word: "bank", Language: "en"},
			want: enrichment.IPAResponse{
				IPA:       "bæŋk",
				Syllables: []string{"bank"},
			},
		},
		{
			name:    "unknown word",
			params:  enrichment.IPARequest{Word: "xylophone", Language: "en"},
			wantErr: ErrWordNotFound,
		},
		{
			name:    "unknown language",
			params:  enrichment.IPARequest{Word: "morning", Language: "de"},
			wantErr: ErrWordNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := transcriber.GetIPA(context.Background(), tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitSyllables(t *testing.T) {
	tests := []struct {
		word string
		want []string
	}{
		{word: "bank", want: []string{"bank"}},
		{word: "morning", want: []string{"mor", "ning"}},
		{word: "eager", want: []string{"ea", "ger"}},
		{word: "rhythm", want: []string{"rhythm"}},
		{word: "pssst", want: []string{"pssst"}},
		{word: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			assert.Equal(t, tt.want, splitSyllables(tt.word))
		})
	}
}

func TestIsVowel(t *testing.T) {
	assert.True(t, isVowel('a'))
	assert.True(t, isVowel('E'))
	assert.True(t, isVowel('ö'))
	assert.False(t, isVowel('b'))
	assert.False(t, isVowel('-'))
}
