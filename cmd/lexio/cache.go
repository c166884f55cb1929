package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/lexio/internal/audiocache"
)

type audioType audiocache.Type

func (a *audioType) Set(val string) error {
	for _, knownType := range allAudioTypes {
		if val == string(knownType) {
			*a = knownType
			return nil
		}
	}
	return fmt.Errorf("invalid audio type: %s", val)
}

func (a audioType) String() string {
	return string(a)
}

func (a *audioType) Type() string {
	return "audioType"
}

var (
	_             pflag.Value = (*audioType)(nil)
	allAudioTypes             = []audioType{
		audioType(audiocache.TypeWord),
		audioType(audiocache.TypeSentence),
	}
)

func newCacheCommand() *cobra.Command {
	cacheCommand := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the pronunciation audio cache",
	}

	cacheCommand.AddCommand(newCacheStatsCommand())
	cacheCommand.AddCommand(newCacheSweepCommand())
	cacheCommand.AddCommand(newCacheClearCommand())
	cacheCommand.AddCommand(newCacheKeyCommand())

	return cacheCommand
}

func withAudioCache(run func(cache *audiocache.Cache) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := audiocache.NewBoltStore(cfg.AudioCache.Path)
	if err != nil {
		return fmt.Errorf("audiocache.NewBoltStore > %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	cache := audiocache.New(store,
		audiocache.WithFastCapacity(cfg.AudioCache.FastCapacity),
		audiocache.WithPersistentCapacity(cfg.AudioCache.PersistentCapacity),
		audiocache.WithEvictionBatch(cfg.AudioCache.EvictionBatch),
		audiocache.WithTTL(cfg.AudioCache.TTL),
	)
	return run(cache)
}

func newCacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show audio cache entry counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAudioCache(func(cache *audiocache.Cache) error {
				stats := cache.Stats()
				fmt.Printf("persistent entries: %d\n", stats.PersistentEntries)
				fmt.Printf("fast entries: %d (%d bytes)\n", stats.FastEntries, stats.FastBytes)
				return nil
			})
		},
	}
}

func newCacheSweepCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Remove expired audio cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAudioCache(func(cache *audiocache.Cache) error {
				removed := cache.SweepExpired()
				fmt.Printf("removed %d expired entries\n", removed)
				return nil
			})
		},
	}
}

func newCacheKeyCommand() *cobra.Command {
	var language string
	clipType := audioType(audiocache.TypeWord)

	command := &cobra.Command{
		Use:   "key <text>",
		Short: "Print the cache key a text resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(audiocache.CacheKey(args[0], language, audiocache.Type(clipType)))
			return nil
		},
	}
	command.Flags().StringVar(&language, "language", "en", "Language of the text")
	command.Flags().Var(&clipType, "type", fmt.Sprintf("Audio type. Possible values are %v", allAudioTypes))

	return command
}

func newCacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every audio cache entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAudioCache(func(cache *audiocache.Cache) error {
				cache.Clear()
				fmt.Println("audio cache cleared")
				return nil
			})
		},
	}
}
