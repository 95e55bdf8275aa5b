// Package config loads HackStack settings from an optional YAML file,
// HACKSTACK_* environment variables and a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/999aryaDharma/HackStack/internal/card"
	"github.com/999aryaDharma/HackStack/internal/deck"
	"github.com/999aryaDharma/HackStack/internal/llm"
)

// EnvPrefix prefixes every environment override, e.g. HACKSTACK_LLM_PROVIDER.
const EnvPrefix = "HACKSTACK"

type Config struct {
	DBPath  string        `mapstructure:"db_path"`
	LLM     llm.Config    `mapstructure:"llm"`
	Deck    DeckConfig    `mapstructure:"deck"`
	Session SessionConfig `mapstructure:"session"`
}

type DeckConfig struct {
	CacheTTL          time.Duration `mapstructure:"cache_ttl" validate:"gt=0"`
	EvictionAge       time.Duration `mapstructure:"eviction_age" validate:"gtfield=CacheTTL"`
	PrefetchCount     int           `mapstructure:"prefetch_count" validate:"gte=1,lte=10"`
	GeneratorTimeout  time.Duration `mapstructure:"generator_timeout" validate:"gt=0"`
	MaxPreviousTopics int           `mapstructure:"max_previous_topics" validate:"gte=0"`
}

// Pipeline converts the section into deck settings.
func (d DeckConfig) Pipeline() deck.Config {
	return deck.Config{
		CacheTTL:          d.CacheTTL,
		EvictionAge:       d.EvictionAge,
		PrefetchCount:     d.PrefetchCount,
		GeneratorTimeout:  d.GeneratorTimeout,
		MaxPreviousTopics: d.MaxPreviousTopics,
	}
}

type SessionConfig struct {
	Language   string   `mapstructure:"language" validate:"required"`
	Difficulty string   `mapstructure:"difficulty" validate:"oneof=easy medium hard god"`
	Length     int      `mapstructure:"length" validate:"gte=1,lte=100"`
	Topics     []string `mapstructure:"topics"`
}

// Loadout builds the default loadout, resolving language aliases.
func (s SessionConfig) Loadout() (card.Loadout, error) {
	lang, ok := card.ParseLanguage(s.Language)
	if !ok {
		return card.Loadout{}, fmt.Errorf("unsupported language %q (supported: %s)",
			s.Language, strings.Join(card.SupportedLanguages, ", "))
	}
	return card.Loadout{
		Language:      lang,
		Topics:        s.Topics,
		Difficulty:    card.Difficulty(s.Difficulty),
		SessionLength: s.Length,
	}, nil
}

// apiKeyEnv maps each provider key to the standard variable that may
// supply it. HACKSTACK_-prefixed variables take precedence.
var apiKeyEnv = map[string]string{
	"llm.anthropic.api_key":  "ANTHROPIC_API_KEY",
	"llm.openai.api_key":     "OPENAI_API_KEY",
	"llm.gemini.api_key":     "GEMINI_API_KEY",
	"llm.openrouter.api_key": "OPENROUTER_API_KEY",
}

// LoadDotEnv loads variables from path without overriding ones already
// set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads configuration. An empty configFile searches ./hackstack.yaml
// and $HOME/.config/hackstack/hackstack.yaml; a missing file is fine.
//
// When no provider is configured, the first standard API key found picks
// one. With no key at all the mock provider is selected, which makes
// every session fall back to the bundled deck.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("hackstack")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/hackstack")
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("llm.provider"); err != nil {
		return nil, fmt.Errorf("bind llm.provider: %w", err)
	}
	for key, env := range apiKeyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if cfg.LLM.Provider == "" {
		lookup := func(env string) string {
			for key, e := range apiKeyEnv {
				if e == env {
					return v.GetString(key)
				}
			}
			return ""
		}
		var found bool
		if cfg.LLM, found = llm.Discover(cfg.LLM, lookup); !found {
			cfg.LLM.Provider = llm.ProviderMock
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	l := llm.DefaultConfig()
	v.SetDefault("llm.anthropic.model", l.Anthropic.Model)
	v.SetDefault("llm.openai.model", l.OpenAI.Model)
	v.SetDefault("llm.gemini.model", l.Gemini.Model)
	v.SetDefault("llm.openrouter.model", l.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", l.OpenRouter.BaseURL)
	v.SetDefault("llm.retry.max_attempts", l.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", l.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", l.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", l.Retry.Multiplier)
	v.SetDefault("llm.requests_per_minute", l.RequestsPerMinute)
	v.SetDefault("llm.timeout", l.Timeout)

	d := deck.DefaultConfig()
	v.SetDefault("deck.cache_ttl", d.CacheTTL)
	v.SetDefault("deck.eviction_age", d.EvictionAge)
	v.SetDefault("deck.prefetch_count", d.PrefetchCount)
	v.SetDefault("deck.generator_timeout", d.GeneratorTimeout)
	v.SetDefault("deck.max_previous_topics", d.MaxPreviousTopics)

	v.SetDefault("session.language", "Go")
	v.SetDefault("session.difficulty", string(card.DifficultyEasy))
	v.SetDefault("session.length", 10)
}

// Validate checks field constraints and the selected provider's key.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config %s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Session.Loadout(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
