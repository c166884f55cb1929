package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	OpenAI       OpenAIConfig       `mapstructure:"openai"`
	Lookup       LookupConfig       `mapstructure:"lookup"`
	AudioCache   AudioCacheConfig   `mapstructure:"audio_cache"`
	SimplerCache SimplerCacheConfig `mapstructure:"simpler_cache"`
	Phonetics    PhoneticsConfig    `mapstructure:"phonetics"`
	Database     DatabaseConfig     `mapstructure:"database"`
}

type OpenAIConfig struct {
	BaseURL       string `mapstructure:"base_url"`
	APIKey        string `mapstructure:"api_key"`
	Model         string `mapstructure:"model"`
	RetryAttempts uint   `mapstructure:"retry_attempts"`
}

type LookupConfig struct {
	// Concurrency caps in-flight fetches. 1 is deliberate for
	// resource-constrained local inference backends; raise it against a
	// remote service.
	Concurrency     int           `mapstructure:"concurrency" validate:"gte=1"`
	ResultTTL       time.Duration `mapstructure:"result_ttl" validate:"gt=0"`
	SweepSchedule   string        `mapstructure:"sweep_schedule"`
	ExamplesEnabled bool          `mapstructure:"examples_enabled"`
}

type AudioCacheConfig struct {
	Path               string        `mapstructure:"path"`
	FastCapacity       int           `mapstructure:"fast_capacity" validate:"gte=1"`
	PersistentCapacity int           `mapstructure:"persistent_capacity" validate:"gte=1"`
	EvictionBatch      int           `mapstructure:"eviction_batch" validate:"gte=1"`
	TTL                time.Duration `mapstructure:"ttl" validate:"gt=0"`
}

type SimplerCacheConfig struct {
	Capacity      int           `mapstructure:"capacity" validate:"gte=1"`
	TTL           time.Duration `mapstructure:"ttl" validate:"gt=0"`
	SweepInterval time.Duration `mapstructure:"sweep_interval" validate:"gt=0"`
}

type PhoneticsConfig struct {
	LexiconFile string `mapstructure:"lexicon_file" validate:"omitempty,file"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	Database        string            `mapstructure:"database"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime"`
}

// Enabled reports whether a database connection is configured. Occurrence
// search is skipped entirely without one.
func (c DatabaseConfig) Enabled() bool {
	return c.Host != "" && c.Database != ""
}

func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/lexio")
	}

	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.retry_attempts", 3)
	v.SetDefault("lookup.concurrency", 1)
	v.SetDefault("lookup.result_ttl", "1h")
	v.SetDefault("lookup.sweep_schedule", "@every 10m")
	v.SetDefault("lookup.examples_enabled", false)
	v.SetDefault("audio_cache.path", filepath.Join("cache", "audio.db"))
	v.SetDefault("audio_cache.fast_capacity", 50)
	v.SetDefault("audio_cache.persistent_capacity", 500)
	v.SetDefault("audio_cache.eviction_batch", 10)
	v.SetDefault("audio_cache.ttl", "168h")
	v.SetDefault("simpler_cache.capacity", 150)
	v.SetDefault("simpler_cache.ttl", "30m")
	v.SetDefault("simpler_cache.sweep_interval", "5m")

	// Bind OpenAI config to environment variables only (not from config file)
	if err := v.BindEnv("openai.api_key", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind OPENAI_API_KEY environment variable: %w", err)
	}
	if err := v.BindEnv("openai.model", "OPENAI_MODEL"); err != nil {
		return nil, fmt.Errorf("failed to bind OPENAI_MODEL environment variable: %w", err)
	}
	if err := v.BindEnv("openai.base_url", "OPENAI_BASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind OPENAI_BASE_URL environment variable: %w", err)
	}
	if err := v.BindEnv("lookup.concurrency", "LEXIO_LOOKUP_CONCURRENCY"); err != nil {
		return nil, fmt.Errorf("failed to bind LEXIO_LOOKUP_CONCURRENCY environment variable: %w", err)
	}
	if err := v.BindEnv("database.password", "LEXIO_DATABASE_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind LEXIO_DATABASE_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	validate, trans, err := newValidator()
	if err != nil {
		return fmt.Errorf("newValidator > %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		messages := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			messages = append(messages, fieldError.Translate(trans))
		}
		return fmt.Errorf("invalid configuration: %v", messages)
	}
	return nil
}
