package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/lexio/internal/book"
	"github.com/at-ishikawa/lexio/internal/enrichment/openai"
	"github.com/at-ishikawa/lexio/internal/lookup"
	"github.com/at-ishikawa/lexio/internal/phonetics"
	"github.com/at-ishikawa/lexio/internal/simplercache"
)

func newLookupCommand() *cobra.Command {
	var (
		sentence string
		bookID   int64
		language string
		timeout  time.Duration
	)

	command := &cobra.Command{
		Use:   "lookup <word or phrase>",
		Short: "Enqueue a word or phrase for AI enrichment and wait for the result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subject := strings.Join(args, " ")
			if sentence == "" {
				return fmt.Errorf("--sentence is required: lookups are always scoped to the sentence the subject appears in")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.OpenAI.APIKey == "" {
				return fmt.Errorf("OPENAI_API_KEY environment variable is required")
			}

			openaiClient := openai.NewClient(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.RetryAttempts)
			defer func() {
				_ = openaiClient.Close()
			}()

			simplerCache := simplercache.New(
				simplercache.WithCapacity(cfg.SimplerCache.Capacity),
				simplercache.WithTTL(cfg.SimplerCache.TTL),
			)
			if err := simplerCache.StartSweeper(cfg.SimplerCache.SweepInterval); err != nil {
				return fmt.Errorf("simplerCache.StartSweeper > %w", err)
			}
			defer simplerCache.StopSweeper()

			workerOptions := []lookup.WorkerOption{
				lookup.WithSimplerCache(simplerCache),
				lookup.WithExamples(cfg.Lookup.ExamplesEnabled),
			}

			if cfg.Phonetics.LexiconFile != "" {
				transcriber, err := phonetics.NewLexiconTranscriber(cfg.Phonetics.LexiconFile)
				if err != nil {
					return fmt.Errorf("phonetics.NewLexiconTranscriber > %w", err)
				}
				workerOptions = append(workerOptions, lookup.WithTranscriber(transcriber))
			}

			if cfg.Database.Enabled() {
				db, err := book.Open(cfg.Database)
				if err != nil {
					return fmt.Errorf("book.Open > %w", err)
				}
				defer func() {
					_ = db.Close()
				}()
				workerOptions = append(workerOptions, lookup.WithOccurrenceRepository(book.NewDBOccurrenceRepository(db)))
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			worker := lookup.NewWorker(openaiClient, workerOptions...)
			queue := lookup.NewQueue(ctx, worker, lookup.WithConcurrency(cfg.Lookup.Concurrency))

			sweeper := lookup.NewSweeper(queue, cfg.Lookup.ResultTTL, cfg.Lookup.SweepSchedule)
			if err := sweeper.Start(); err != nil {
				return fmt.Errorf("sweeper.Start > %w", err)
			}
			defer sweeper.Stop()

			targetKey := lookup.DeriveKey(bookID, subject, sentence)
			done := make(chan lookup.Status, 1)
			queue.Notify(func(key lookup.Key, status lookup.Status) {
				if key != targetKey {
					return
				}
				if status == lookup.StatusReady || status == lookup.StatusError {
					select {
					case done <- status:
					default:
					}
				}
			})

			queue.Enqueue(subject, sentence, bookID, language)

			select {
			case status := <-done:
				if status == lookup.StatusError {
					message, _ := queue.GetError(subject, sentence, bookID)
					return fmt.Errorf("lookup failed: %s", message)
				}
			case <-time.After(timeout):
				return fmt.Errorf("lookup timed out after %s", timeout)
			}

			result, ok := queue.GetResult(subject, sentence, bookID)
			if !ok {
				return fmt.Errorf("lookup completed but no result was stored")
			}
			printResult(subject, result)
			return nil
		},
	}

	command.Flags().StringVar(&sentence, "sentence", "", "The sentence the word or phrase was selected in")
	command.Flags().Int64Var(&bookID, "book", 0, "Book ID the sentence belongs to")
	command.Flags().StringVar(&language, "language", "en", "Language of the text")
	command.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "How long to wait for the enrichment to complete")

	return command
}

func printResult(subject string, result lookup.Result) {
	color.Cyan("%s", subject)
	if result.IPA != "" {
		fmt.Printf("  /%s/", result.IPA)
		if len(result.Syllables) > 0 {
			fmt.Printf("  %s", strings.Join(result.Syllables, "·"))
		}
		fmt.Println()
	}
	if result.WordType != "" {
		fmt.Printf("  (%s", result.WordType)
		if result.Article != "" {
			fmt.Printf(", %s", result.Article)
		}
		fmt.Println(")")
	}
	if result.IsPhrasalVerb {
		fmt.Println("  (phrasal verb)")
	}

	color.Green("%s", result.Definition)
	if result.Translation != "" {
		fmt.Printf("  translation: %s\n", result.Translation)
	}

	if result.SimplifiedSentence != "" {
		fmt.Println()
		fmt.Printf("simpler: %s\n", result.SimplifiedSentence)
		if result.EquivalentWord != "" {
			fmt.Printf("  stands in for: %s\n", result.EquivalentWord)
		}
		if result.SentenceTranslation != "" {
			fmt.Printf("  original translation: %s\n", result.SentenceTranslation)
		}
		if result.SimplifiedTranslation != "" {
			fmt.Printf("  simpler translation: %s\n", result.SimplifiedTranslation)
		}
	}

	if len(result.Occurrences) > 0 {
		fmt.Println()
		fmt.Println("also in this book:")
		for _, occurrence := range result.Occurrences {
			fmt.Printf("  p.%d  %s\n", occurrence.Page, occurrence.Sentence)
		}
	}

	if len(result.Examples) > 0 {
		fmt.Println()
		fmt.Println("examples:")
		for _, example := range result.Examples {
			fmt.Printf("  %s\n", example.Sentence)
			if example.Translation != "" {
				fmt.Printf("    %s\n", example.Translation)
			}
		}
	}
}
