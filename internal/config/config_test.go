package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/lexio/internal/testutil"
)

func TestLoad(t *testing.T) {
	t.Run("reads values from a config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		cfgPath := testutil.SetupTestConfigWithAPIKey(t, tmpDir)

		cfg, err := Load(cfgPath)
		require.NoError(t, err)

		assert.Equal(t, 1, cfg.Lookup.Concurrency)
		assert.Equal(t, time.Hour, cfg.Lookup.ResultTTL)
		assert.Equal(t, "@every 10m", cfg.Lookup.SweepSchedule)
		assert.Equal(t, filepath.Join(tmpDir, "cache", "audio.db"), cfg.AudioCache.Path)
		assert.Equal(t, 50, cfg.AudioCache.FastCapacity)
		assert.Equal(t, 500, cfg.AudioCache.PersistentCapacity)
		assert.Equal(t, 10, cfg.AudioCache.EvictionBatch)
		assert.Equal(t, 168*time.Hour, cfg.AudioCache.TTL)
		assert.Equal(t, 150, cfg.SimplerCache.Capacity)
		assert.Equal(t, 30*time.Minute, cfg.SimplerCache.TTL)
		assert.Equal(t, "fake-key-for-testing", cfg.OpenAI.APIKey)
		assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	})

	t.Run("defaults fill omitted sections", func(t *testing.T) {
		cfgPath := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("lookup:\n  examples_enabled: true\n"), 0644))

		cfg, err := Load(cfgPath)
		require.NoError(t, err)

		assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
		assert.Equal(t, uint(3), cfg.OpenAI.RetryAttempts)
		assert.Equal(t, 1, cfg.Lookup.Concurrency)
		assert.True(t, cfg.Lookup.ExamplesEnabled)
		assert.Equal(t, 5*time.Minute, cfg.SimplerCache.SweepInterval)
	})

	t.Run("environment variables override the file", func(t *testing.T) {
		tmpDir := t.TempDir()
		cfgPath := testutil.SetupTestConfig(t, tmpDir)

		t.Setenv("OPENAI_API_KEY", "env-key")
		t.Setenv("OPENAI_MODEL", "gpt-4o")
		t.Setenv("LEXIO_LOOKUP_CONCURRENCY", "4")

		cfg, err := Load(cfgPath)
		require.NoError(t, err)

		assert.Equal(t, "env-key", cfg.OpenAI.APIKey)
		assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
		assert.Equal(t, 4, cfg.Lookup.Concurrency)
	})

	t.Run("invalid concurrency fails validation", func(t *testing.T) {
		cfgPath := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("lookup:\n  concurrency: 0\n"), 0644))

		_, err := Load(cfgPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})

	t.Run("missing lexicon file fails validation", func(t *testing.T) {
		cfgPath := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("phonetics:\n  lexicon_file: /does/not/exist.yml\n"), 0644))

		_, err := Load(cfgPath)
		require.Error(t, err)
	})

	t.Run("malformed config file", func(t *testing.T) {
		cfgPath := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("lookup: [not: valid"), 0644))

		_, err := Load(cfgPath)
		require.Error(t, err)
	})
}

func TestDatabaseConfig_Enabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  DatabaseConfig
		want bool
	}{
		{
			name: "host and database set",
			cfg:  DatabaseConfig{Host: "localhost", Database: "books"},
			want: true,
		},
		{
			name: "missing database",
			cfg:  DatabaseConfig{Host: "localhost"},
		},
		{
			name: "empty",
			cfg:  DatabaseConfig{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Enabled())
		})
	}
}
