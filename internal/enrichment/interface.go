package enrichment

import (
	"context"
)

//go:generate mockgen -source=interface.go -destination=../mocks/enrichment/mock_client.go -package=mock_enrichment

// Client interface defines the AI lookup operations the reading views rely on.
// Implementations talk to a local or cloud inference endpoint; callers treat
// every method as an opaque asynchronous capability.
type Client interface {
	GetDefinition(ctx context.Context, params DefinitionRequest) (DefinitionResponse, error)
	GetPhraseMeaning(ctx context.Context, params PhraseMeaningRequest) (PhraseMeaningResponse, error)
	SimplifySentence(ctx context.Context, params SimplifyRequest) (SimplifyResponse, error)
	GetWordEquivalent(ctx context.Context, params WordEquivalentRequest) (WordEquivalentResponse, error)
	ResimplifyWithWord(ctx context.Context, params ResimplifyRequest) (ResimplifyResponse, error)
	GetIPA(ctx context.Context, params IPARequest) (IPAResponse, error)
	SearchExamples(ctx context.Context, params ExamplesRequest) (ExamplesResponse, error)
}

// Transcriber is the phonetic-transcription subset of Client. An
// offline implementation is preferred at lookup time, with the AI
// client as a fallback.
type Transcriber interface {
	GetIPA(ctx context.Context, params IPARequest) (IPAResponse, error)
}

// DefinitionRequest holds parameters for a single word definition lookup.
// Sentence is the verbatim context the word was selected in; definitions
// may legitimately differ by sense, so it is never optional.
type DefinitionRequest struct {
	Word     string `json:"word"`
	Sentence string `json:"sentence"`
	Language string `json:"language"`
}

type DefinitionResponse struct {
	Definition      string `json:"definition"`
	WordTranslation string `json:"word_translation,omitempty"`
	WordType        string `json:"word_type,omitempty"` // noun, verb, adjective, ...
	Article         string `json:"article,omitempty"`   // for languages with grammatical gender
}

// PhraseMeaningRequest holds parameters for a multi-word phrase lookup.
type PhraseMeaningRequest struct {
	Phrase   string `json:"phrase"`
	Sentence string `json:"sentence"`
	Language string `json:"language"`
}

type PhraseMeaningResponse struct {
	Meaning           string `json:"meaning"`
	PhraseTranslation string `json:"phrase_translation,omitempty"`
	IsPhrasalVerb     bool   `json:"is_phrasal_verb,omitempty"`
}

// SimplifyRequest asks for an easier paraphrase of a full sentence.
type SimplifyRequest struct {
	Sentence string `json:"sentence"`
	Language string `json:"language"`
}

type SimplifyResponse struct {
	Simplified            string `json:"simplified"`
	SentenceTranslation   string `json:"sentence_translation,omitempty"`
	SimplifiedTranslation string `json:"simplified_translation,omitempty"`
}

// WordEquivalentRequest asks which word in the simplified sentence stands in
// for the originally selected word.
type WordEquivalentRequest struct {
	Word               string `json:"word"`
	Sentence           string `json:"sentence"`
	SimplifiedSentence string `json:"simplified_sentence"`
}

type WordEquivalentResponse struct {
	Equivalent string `json:"equivalent"`
	// NeedsRegeneration signals that the simplified sentence does not
	// actually contain the equivalent and must be regenerated with the
	// word pinned in.
	NeedsRegeneration bool `json:"needs_regeneration"`
}

// ResimplifyRequest regenerates a simplified sentence with a pinned word.
type ResimplifyRequest struct {
	Sentence   string `json:"sentence"`
	Word       string `json:"word"`
	Equivalent string `json:"equivalent"`
	Language   string `json:"language"`
}

type ResimplifyResponse struct {
	Simplified string `json:"simplified"`
}

// IPARequest asks for a phonetic transcription of a single word.
type IPARequest struct {
	Word     string `json:"word"`
	Language string `json:"language"`
}

type IPAResponse struct {
	IPA       string   `json:"ipa"`
	Syllables []string `json:"syllables,omitempty"`
}

// ExamplesRequest asks for supplementary example sentences using a word.
type ExamplesRequest struct {
	Word     string `json:"word"`
	Language string `json:"language"`
}

type Example struct {
	Sentence    string `json:"sentence"`
	Translation string `json:"translation,omitempty"`
}

type ExamplesResponse struct {
	Examples []Example `json:"examples"`
}

const (
	DefaultMaxRetryAttempts = 3
)
