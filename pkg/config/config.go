// Package config loads bot configuration from a JSON file with environment
// variable overrides for secrets.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"taskdesk/pkg/llm"
	"taskdesk/pkg/pending"
)

// Environment variable names for secrets. Secrets never live in the config
// file; they are read from the environment at load time.
const (
	EnvTelegramToken = "TELEGRAM_BOT_TOKEN"
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvAnthropicKey  = "ANTHROPIC_API_KEY"
	EnvGeminiKey     = "GEMINI_API_KEY"
	EnvKaitenKey     = "KAITEN_API_KEY"
)

// Defaults applied by Load for fields left empty.
const (
	DefaultModel         = "gpt-4o-mini"
	DefaultTasksDir      = "tasks"
	DefaultJournalPath   = "taskdesk.db"
	DefaultKaitenBaseURL = "https://vash-1c.kaiten.ru/api/latest"
	DefaultLanguage      = "ru"
)

// KaitenConfig holds ticket-filing settings.
type KaitenConfig struct {
	BaseURL     string `json:"base_url"`
	RoutingFile string `json:"routing_file,omitempty"`

	// APIKey is populated from the environment, never from the file.
	APIKey string `json:"-"`
}

// PendingConfig bounds the confirmation store.
type PendingConfig struct {
	TTL        Duration `json:"ttl,omitempty"`
	MaxEntries int      `json:"max_entries,omitempty"`
}

// Config is the bot's full configuration.
type Config struct {
	Model       string        `json:"model"`
	TasksDir    string        `json:"tasks_dir"`
	JournalPath string        `json:"journal_path"`
	Language    string        `json:"language"`
	MetricsAddr string        `json:"metrics_addr,omitempty"`
	LLMTimeout  Duration      `json:"llm_timeout,omitempty"`
	Kaiten      KaitenConfig  `json:"kaiten"`
	Pending     PendingConfig `json:"pending"`

	// Secrets, environment-only.
	TelegramToken string `json:"-"`
	OpenAIKey     string `json:"-"`
	AnthropicKey  string `json:"-"`
	GeminiKey     string `json:"-"`
}

// Duration wraps time.Duration for JSON config fields like "30s" or "24h".
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"30s\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Load reads the config file at path, applies defaults, and pulls secrets
// from the environment. An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyDefaults(cfg)
	loadSecrets(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.TasksDir == "" {
		cfg.TasksDir = DefaultTasksDir
	}
	if cfg.JournalPath == "" {
		cfg.JournalPath = DefaultJournalPath
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if cfg.Kaiten.BaseURL == "" {
		cfg.Kaiten.BaseURL = DefaultKaitenBaseURL
	}
	if cfg.LLMTimeout <= 0 {
		cfg.LLMTimeout = Duration(llm.DefaultCallTimeout)
	}
	if cfg.Pending.TTL <= 0 {
		cfg.Pending.TTL = Duration(pending.DefaultTTL)
	}
	if cfg.Pending.MaxEntries <= 0 {
		cfg.Pending.MaxEntries = pending.DefaultMaxEntries
	}
}

func loadSecrets(cfg *Config) {
	cfg.TelegramToken = os.Getenv(EnvTelegramToken)
	cfg.OpenAIKey = os.Getenv(EnvOpenAIKey)
	cfg.AnthropicKey = os.Getenv(EnvAnthropicKey)
	cfg.GeminiKey = os.Getenv(EnvGeminiKey)
	cfg.Kaiten.APIKey = os.Getenv(EnvKaitenKey)
}

// Validate checks that the configuration can actually run the bot.
func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("%s is required", EnvTelegramToken)
	}
	provider, err := llm.ProviderForModel(c.Model)
	if err != nil {
		return fmt.Errorf("invalid model %q: %w", c.Model, err)
	}
	if c.APIKeys()[provider] == "" {
		return fmt.Errorf("model %q requires an API key for provider %s", c.Model, provider)
	}
	if c.Kaiten.APIKey == "" {
		return fmt.Errorf("%s is required", EnvKaitenKey)
	}
	return nil
}

// APIKeys returns the provider key map for the LLM client factory.
func (c *Config) APIKeys() map[llm.Provider]string {
	return map[llm.Provider]string{
		llm.ProviderOpenAI:    c.OpenAIKey,
		llm.ProviderAnthropic: c.AnthropicKey,
		llm.ProviderGemini:    c.GeminiKey,
	}
}
