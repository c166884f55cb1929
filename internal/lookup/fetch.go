package lookup

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/at-ishikawa/lexio/internal/book"
	"github.com/at-ishikawa/lexio/internal/enrichment"
	"github.com/at-ishikawa/lexio/internal/simplercache"
)

// Worker turns one claimed queue entry into an enrichment result. Only the
// defining request (definition for words, phrase meaning for phrases) can
// fail the entry; every other sub-request is best-effort and a failure just
// leaves its field absent.
type Worker struct {
	client          enrichment.Client
	transcriber     enrichment.Transcriber    // offline-preferred IPA source; may be nil
	occurrences     book.OccurrenceRepository // may be nil
	simpler         *simplercache.Cache       // populated opportunistically; may be nil
	examplesEnabled bool
}

var _ Fetcher = (*Worker)(nil)

type WorkerOption func(*Worker)

// WithTranscriber sets the offline transcription capability tried before the
// AI fallback.
func WithTranscriber(transcriber enrichment.Transcriber) WorkerOption {
	return func(w *Worker) { w.transcriber = transcriber }
}

// WithOccurrenceRepository enables best-effort same-book occurrence search.
func WithOccurrenceRepository(repository book.OccurrenceRepository) WorkerOption {
	return func(w *Worker) { w.occurrences = repository }
}

// WithSimplerCache lets completed word lookups seed the paraphrase cache.
func WithSimplerCache(cache *simplercache.Cache) WorkerOption {
	return func(w *Worker) { w.simpler = cache }
}

// WithExamples enables the supplementary example-sentence lookup.
func WithExamples(enabled bool) WorkerOption {
	return func(w *Worker) { w.examplesEnabled = enabled }
}

func NewWorker(client enrichment.Client, opts ...WorkerOption) *Worker {
	w := &Worker{client: client}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Fetch implements the Fetcher interface.
func (w *Worker) Fetch(ctx context.Context, entry QueuedEntry) (*Result, error) {
	if entry.IsPhrase {
		return w.fetchPhrase(ctx, entry)
	}
	return w.fetchWord(ctx, entry)
}

// fetchPhrase issues the single phrase-meaning request. Phrases get no
// phonetic transcription.
func (w *Worker) fetchPhrase(ctx context.Context, entry QueuedEntry) (*Result, error) {
	response, err := w.client.GetPhraseMeaning(ctx, enrichment.PhraseMeaningRequest{
		Phrase:   entry.Subject,
		Sentence: entry.Sentence,
		Language: entry.Language,
	})
	if err != nil {
		return nil, fmt.Errorf("client.GetPhraseMeaning > %w", err)
	}

	return &Result{
		Definition:    response.Meaning,
		Translation:   response.PhraseTranslation,
		IsPhrasalVerb: response.IsPhrasalVerb,
	}, nil
}

// fetchWord runs the word pipeline: definition and simplify in parallel,
// transcription independently, then the equivalent-term follow-ups once the
// simplified sentence exists. Occurrence and example lookups ride along
// best-effort.
func (w *Worker) fetchWord(ctx context.Context, entry QueuedEntry) (*Result, error) {
	var (
		definition    enrichment.DefinitionResponse
		definitionErr error

		simplified    enrichment.SimplifyResponse
		simplifiedErr error

		ipa    enrichment.IPAResponse
		ipaErr error

		occurrences []book.Occurrence
		examples    []enrichment.Example
	)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		definition, definitionErr = w.client.GetDefinition(ctx, enrichment.DefinitionRequest{
			Word:     entry.Subject,
			Sentence: entry.Sentence,
			Language: entry.Language,
		})
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		simplified, simplifiedErr = w.client.SimplifySentence(ctx, enrichment.SimplifyRequest{
			Sentence: entry.Sentence,
			Language: entry.Language,
		})
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		ipa, ipaErr = w.transcribe(ctx, entry)
	}()

	if w.occurrences != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			found, err := w.occurrences.SearchOccurrences(ctx, entry.BookID, entry.Subject)
			if err != nil {
				slog.Default().Debug("occurrence search failed",
					"subject", entry.Subject,
					"bookID", entry.BookID,
					"error", err)
				return
			}
			occurrences = found
		}()
	}

	if w.examplesEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			response, err := w.client.SearchExamples(ctx, enrichment.ExamplesRequest{
				Word:     entry.Subject,
				Language: entry.Language,
			})
			if err != nil {
				slog.Default().Debug("example search failed",
					"subject", entry.Subject,
					"error", err)
				return
			}
			examples = response.Examples
		}()
	}

	wg.Wait()

	// The definition request is the sole primary; its failure fails the
	// entry even when every sibling succeeded.
	if definitionErr != nil {
		return nil, fmt.Errorf("client.GetDefinition > %w", definitionErr)
	}

	result := &Result{
		Definition:  definition.Definition,
		Translation: definition.WordTranslation,
		WordType:    definition.WordType,
		Article:     definition.Article,
		Occurrences: occurrences,
		Examples:    examples,
	}

	if ipaErr == nil {
		result.IPA = ipa.IPA
		result.Syllables = ipa.Syllables
	} else {
		slog.Default().Debug("phonetic transcription unavailable",
			"subject", entry.Subject,
			"error", ipaErr)
	}

	if simplifiedErr != nil {
		slog.Default().Debug("sentence simplification failed",
			"subject", entry.Subject,
			"error", simplifiedErr)
		return result, nil
	}

	result.SimplifiedSentence = simplified.Simplified
	result.SentenceTranslation = simplified.SentenceTranslation
	result.SimplifiedTranslation = simplified.SimplifiedTranslation
	w.resolveEquivalent(ctx, entry, result)

	if w.simpler != nil {
		w.simpler.Set(entry.BookID, entry.Subject, entry.Sentence, simplercache.Analysis{
			SimplifiedSentence:    result.SimplifiedSentence,
			SentenceTranslation:   result.SentenceTranslation,
			SimplifiedTranslation: result.SimplifiedTranslation,
			EquivalentWord:        result.EquivalentWord,
		})
	}
	return result, nil
}

// resolveEquivalent finds the selected word's stand-in inside the simplified
// sentence, regenerating the sentence once when the response says the
// equivalent is missing from it. Strictly ordered after simplification;
// failures leave the fields absent.
func (w *Worker) resolveEquivalent(ctx context.Context, entry QueuedEntry, result *Result) {
	equivalent, err := w.client.GetWordEquivalent(ctx, enrichment.WordEquivalentRequest{
		Word:               entry.Subject,
		Sentence:           entry.Sentence,
		SimplifiedSentence: result.SimplifiedSentence,
	})
	if err != nil {
		slog.Default().Debug("equivalent-term lookup failed",
			"subject", entry.Subject,
			"error", err)
		return
	}
	result.EquivalentWord = equivalent.Equivalent

	if !equivalent.NeedsRegeneration {
		return
	}

	regenerated, err := w.client.ResimplifyWithWord(ctx, enrichment.ResimplifyRequest{
		Sentence:   entry.Sentence,
		Word:       entry.Subject,
		Equivalent: equivalent.Equivalent,
		Language:   entry.Language,
	})
	if err != nil {
		slog.Default().Debug("pinned re-simplification failed",
			"subject", entry.Subject,
			"error", err)
		return
	}
	result.SimplifiedSentence = regenerated.Simplified
}

// transcribe prefers the offline transcriber and falls back to the AI
// capability. When the first source succeeds without a syllable breakdown,
// the other source is asked for one best-effort.
func (w *Worker) transcribe(ctx context.Context, entry QueuedEntry) (enrichment.IPAResponse, error) {
	request := enrichment.IPARequest{
		Word:     entry.Subject,
		Language: entry.Language,
	}

	if w.transcriber == nil {
		return w.client.GetIPA(ctx, request)
	}

	response, err := w.transcriber.GetIPA(ctx, request)
	if err != nil {
		return w.client.GetIPA(ctx, request)
	}
	if len(response.Syllables) == 0 {
		if fallback, fallbackErr := w.client.GetIPA(ctx, request); fallbackErr == nil {
			response.Syllables = fallback.Syllables
		}
	}
	return response, nil
}
