package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config selects the vision provider used for OCR and carries the
// credentials of every supported backend. Provider is one of "anthropic",
// "openai", "gemini", "openrouter" or "mock".
type Config struct {
	Provider string `toml:"provider"`

	Anthropic  AnthropicConfig  `toml:"anthropic"`
	OpenAI     OpenAIConfig     `toml:"openai"`
	Gemini     GeminiConfig     `toml:"gemini"`
	OpenRouter OpenRouterConfig `toml:"openrouter"`
	Retry      RetryConfig      `toml:"-"`
}

type AnthropicConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// OpenAIConfig also serves self-hosted OpenAI-compatible servers through
// BaseURL.
type OpenAIConfig struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url"`
}

type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

type OpenRouterConfig struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url"`
}

// RetryConfig bounds the backoff applied by WithRetry.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// backend describes where a provider's key and model live, both in Config
// and in the environment.
type backend struct {
	name string
	// envKey is the conventional vendor variable probed by DiscoverConfig.
	envKey string
	key    func(*Config) *string
	model  func(*Config) *string
	url    func(*Config) *string
}

// backends is in discovery priority order.
var backends = []backend{
	{
		name:   "gemini",
		envKey: "GEMINI_API_KEY",
		key:    func(c *Config) *string { return &c.Gemini.APIKey },
		model:  func(c *Config) *string { return &c.Gemini.Model },
	},
	{
		name:   "openai",
		envKey: "OPENAI_API_KEY",
		key:    func(c *Config) *string { return &c.OpenAI.APIKey },
		model:  func(c *Config) *string { return &c.OpenAI.Model },
		url:    func(c *Config) *string { return &c.OpenAI.BaseURL },
	},
	{
		name:   "anthropic",
		envKey: "ANTHROPIC_API_KEY",
		key:    func(c *Config) *string { return &c.Anthropic.APIKey },
		model:  func(c *Config) *string { return &c.Anthropic.Model },
	},
	{
		name:   "openrouter",
		envKey: "OPENROUTER_API_KEY",
		key:    func(c *Config) *string { return &c.OpenRouter.APIKey },
		model:  func(c *Config) *string { return &c.OpenRouter.Model },
		url:    func(c *Config) *string { return &c.OpenRouter.BaseURL },
	},
}

// envVar names the MATHSOLVER_* override for one backend setting.
func (b backend) envVar(setting string) string {
	return fmt.Sprintf("MATHSOLVER_%s_%s", strings.ToUpper(b.name), setting)
}

func lookupBackend(name string) (backend, bool) {
	for _, b := range backends {
		if b.name == name {
			return b, true
		}
	}
	return backend{}, false
}

// DefaultConfig picks a fast vision-capable model for every backend.
func DefaultConfig() Config {
	return Config{
		Provider:   "anthropic",
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
	}
}

// ConfigFromEnv is DefaultConfig with the MATHSOLVER_* overrides applied.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.ApplyEnv()
	return cfg
}

// ApplyEnv overrides c with any MATHSOLVER_* variables that are set, such
// as MATHSOLVER_LLM_PROVIDER or MATHSOLVER_GEMINI_API_KEY.
func (c *Config) ApplyEnv() {
	setFromEnv(&c.Provider, "MATHSOLVER_LLM_PROVIDER")
	for _, b := range backends {
		setFromEnv(b.key(c), b.envVar("API_KEY"))
		setFromEnv(b.model(c), b.envVar("MODEL"))
		if b.url != nil {
			setFromEnv(b.url(c), b.envVar("BASE_URL"))
		}
	}
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// DiscoverConfig looks for the vendors' own API key variables and selects
// the first backend that has one, in the order gemini, openai, anthropic,
// openrouter.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	for _, b := range backends {
		if k := os.Getenv(b.envKey); k != "" {
			cfg.Provider = b.name
			*b.key(&cfg) = k
			return cfg, true
		}
	}
	return Config{}, false
}

// Validate reports a missing API key for the selected provider.
func (c Config) Validate() error {
	if c.Provider == "mock" {
		return nil
	}
	b, ok := lookupBackend(c.Provider)
	if !ok {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if *b.key(&c) == "" {
		return fmt.Errorf("%s is required for the %s provider", b.envVar("API_KEY"), b.name)
	}
	return nil
}

// HasKey reports whether NewProvider can build the selected provider.
func (c Config) HasKey() bool {
	return c.Validate() == nil
}

// resolveModel maps a friendly model name to a provider model ID. Unknown
// names are passed through as model IDs.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
