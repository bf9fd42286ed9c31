package llm

import (
	"context"
	"fmt"

	"github.com/importJL/GlyphWrAIte/internal/store"
)

var constructors = map[string]func(context.Context, Config) (Provider, error){
	"openrouter": func(_ context.Context, c Config) (Provider, error) { return NewOpenRouterProvider(c.OpenRouter) },
	"anthropic":  func(_ context.Context, c Config) (Provider, error) { return NewAnthropicProvider(c.Anthropic) },
	"openai":     func(_ context.Context, c Config) (Provider, error) { return NewOpenAIProvider(c.OpenAI) },
	"gemini":     func(ctx context.Context, c Config) (Provider, error) { return NewGeminiProvider(ctx, c.Gemini) },
}

// NewProvider builds the configured provider and stacks the decorators
// around it, outermost first: timeout, event logging. Failed calls are
// returned as is. The mock provider is returned bare.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo) (Provider, error) {
	if cfg.Provider == "mock" {
		return NewMockProvider(), nil
	}
	build, ok := constructors[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	p, err := build(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	if eventRepo != nil {
		p = WithLogging(p, cfg.Provider, eventRepo)
	}
	if cfg.Timeout > 0 {
		p = WithTimeout(p, cfg.Timeout)
	}
	return p, nil
}

// resolveModel maps a friendly name through aliases and passes anything
// else through.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
