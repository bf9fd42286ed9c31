package llm

import (
	"fmt"
	"os"
	"time"
)

// Config selects a provider and carries the settings for each one.
type Config struct {
	// Provider is one of "openrouter", "anthropic", "openai", "gemini"
	// or "mock".
	Provider string

	OpenRouter OpenRouterConfig
	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig

	// Timeout bounds a single request. Zero means none.
	Timeout time.Duration
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string

	// Referer and Title identify the app in OpenRouter rankings.
	Referer string
	Title   string
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // for OpenAI-compatible servers
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

// DefaultConfig targets OpenRouter with no timeout.
func DefaultConfig() Config {
	return Config{
		Provider: "openrouter",
		OpenRouter: OpenRouterConfig{
			Model:   "anthropic/claude-3.5-sonnet",
			BaseURL: DefaultOpenRouterBaseURL,
			Title:   "GlyphWrAIte",
		},
		Anthropic: AnthropicConfig{Model: "claude-sonnet"},
		OpenAI:    OpenAIConfig{Model: "gpt-4-turbo"},
		Gemini:    GeminiConfig{Model: "gemini-flash"},
	}
}

// keyEnv names the environment variable holding each provider's API key.
var keyEnv = map[string]string{
	"openrouter": "GLYPHWRITE_OPENROUTER_API_KEY",
	"anthropic":  "GLYPHWRITE_ANTHROPIC_API_KEY",
	"openai":     "GLYPHWRITE_OPENAI_API_KEY",
	"gemini":     "GLYPHWRITE_GEMINI_API_KEY",
}

// keySlot returns where provider's API key lives in c, or nil for
// providers that take none.
func (c *Config) keySlot(provider string) *string {
	switch provider {
	case "openrouter":
		return &c.OpenRouter.APIKey
	case "anthropic":
		return &c.Anthropic.APIKey
	case "openai":
		return &c.OpenAI.APIKey
	case "gemini":
		return &c.Gemini.APIKey
	}
	return nil
}

// ConfigFromEnv overlays GLYPHWRITE_* environment variables on base.
func ConfigFromEnv(base Config) Config {
	cfg := base
	if p := os.Getenv("GLYPHWRITE_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	}
	if d, err := time.ParseDuration(os.Getenv("GLYPHWRITE_LLM_TIMEOUT")); err == nil {
		cfg.Timeout = d
	}
	if u := os.Getenv("GLYPHWRITE_OPENROUTER_BASE_URL"); u != "" {
		cfg.OpenRouter.BaseURL = u
	}
	for provider, env := range keyEnv {
		if k := os.Getenv(env); k != "" {
			*cfg.keySlot(provider) = k
		}
	}
	return cfg
}

// WithAPIKey returns a copy of c with key set for the selected provider.
func (c Config) WithAPIKey(key string) Config {
	if slot := c.keySlot(c.Provider); slot != nil {
		*slot = key
	}
	return c
}

// APIKey returns the key configured for the selected provider.
func (c Config) APIKey() string {
	if slot := c.keySlot(c.Provider); slot != nil {
		return *slot
	}
	return ""
}

// Validate checks that the selected provider is known and has a key.
func (c Config) Validate() error {
	if c.Provider == "mock" {
		return nil
	}
	env, ok := keyEnv[c.Provider]
	if !ok {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.APIKey() == "" {
		return fmt.Errorf("%s is required for the %s provider", env, c.Provider)
	}
	return nil
}
