package llm

import (
	"errors"
	"net/http"
)

// DefaultOpenRouterBaseURL is the public OpenRouter API root.
const DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterProvider is an OpenAIProvider pointed at OpenRouter. Model ids
// such as "qwen/qwen2.5-vl-32b-instruct:free" pass through untouched.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, &ErrAuth{Err: errors.New("openrouter API key is required")}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultOpenRouterBaseURL
	}

	// HTTP-Referer and X-Title attribute traffic to the app on OpenRouter.
	var transport http.RoundTripper
	if cfg.Referer != "" || cfg.Title != "" {
		transport = &appHeaders{referer: cfg.Referer, title: cfg.Title, base: http.DefaultTransport}
	}

	inner, err := newChatProvider(cfg.APIKey, baseURL, cfg.Model, transport)
	if err != nil {
		return nil, err
	}
	return &OpenRouterProvider{OpenAIProvider: inner}, nil
}

type appHeaders struct {
	referer, title string
	base           http.RoundTripper
}

func (t *appHeaders) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	if t.referer != "" {
		r.Header.Set("HTTP-Referer", t.referer)
	}
	if t.title != "" {
		r.Header.Set("X-Title", t.title)
	}
	return t.base.RoundTrip(r)
}
