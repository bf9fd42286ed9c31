package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_ReplaysScript(t *testing.T) {
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`Keep the loop closed.`),
		Usage:   Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15},
	})
	require.NoError(t, mock.AddJSON(map[string]int{"score": 72}))
	mock.AddResponse(MockResponse{Err: &ErrRateLimit{Err: errors.New("429")}})

	first, err := mock.Generate(context.Background(), Request{System: "coach"})
	require.NoError(t, err)
	assert.Equal(t, "Keep the loop closed.", first.Text())
	assert.Equal(t, 15, first.Usage.TotalTokens)
	assert.Equal(t, "end", first.StopReason)
	assert.Equal(t, "mock", first.Model)

	second, err := mock.Generate(context.Background(), Request{Model: "qwen/qwen3-8b:free"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"score":72}`, string(second.Content))
	assert.Equal(t, "qwen/qwen3-8b:free", second.Model)

	_, err = mock.Generate(context.Background(), Request{})
	var rl *ErrRateLimit
	assert.ErrorAs(t, err, &rl)

	_, err = mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail, "exhausted script")

	reqs := mock.Requests()
	require.Len(t, reqs, 4)
	assert.Equal(t, "coach", reqs[0].System)
	assert.Equal(t, 4, mock.CallCount())
	last, ok := mock.LastCall()
	assert.True(t, ok)
	assert.Empty(t, last.Model)
}

func TestMockProvider_NoCalls(t *testing.T) {
	mock := NewMockProvider()
	_, ok := mock.LastCall()
	assert.False(t, ok)
	assert.Zero(t, mock.CallCount())
	assert.Equal(t, "mock", mock.ModelID())
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "unknown", PurposeFrom(ctx))
	assert.Equal(t, "unknown", PurposeFrom(WithPurpose(ctx, "")))
	assert.Equal(t, "vision-scoring", PurposeFrom(WithPurpose(ctx, PurposeVisionScoring)))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"anthropic without key", Config{Provider: "anthropic"}, "GLYPHWRITE_ANTHROPIC_API_KEY"},
		{"anthropic with key", Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}}, ""},
		{"openai without key", Config{Provider: "openai"}, "GLYPHWRITE_OPENAI_API_KEY"},
		{"gemini with key", Config{Provider: "gemini"}.WithAPIKey("g"), ""},
		{"openrouter without key", Config{Provider: "openrouter"}, "GLYPHWRITE_OPENROUTER_API_KEY"},
		{"openrouter with key", DefaultConfig().WithAPIKey("sk-or-test"), ""},
		{"mock needs no key", Config{Provider: "mock"}, ""},
		{"unknown provider", Config{Provider: "unknown"}, "unknown LLM provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestConfig_WithAPIKeyLeavesOriginal(t *testing.T) {
	base := DefaultConfig()
	keyed := base.WithAPIKey("sk-or-1")
	assert.Equal(t, "sk-or-1", keyed.APIKey())
	assert.Equal(t, "sk-or-1", keyed.OpenRouter.APIKey)
	assert.Empty(t, base.APIKey())

	mock := Config{Provider: "mock"}.WithAPIKey("ignored")
	assert.Empty(t, mock.APIKey())
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("GLYPHWRITE_LLM_PROVIDER", "gemini")
	t.Setenv("GLYPHWRITE_GEMINI_API_KEY", "g-key")
	t.Setenv("GLYPHWRITE_OPENROUTER_API_KEY", "or-key")
	t.Setenv("GLYPHWRITE_OPENROUTER_BASE_URL", "http://localhost:9999/v1")
	t.Setenv("GLYPHWRITE_LLM_TIMEOUT", "45s")

	cfg := ConfigFromEnv(DefaultConfig())
	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "g-key", cfg.APIKey())
	assert.Equal(t, "or-key", cfg.OpenRouter.APIKey)
	assert.Equal(t, "http://localhost:9999/v1", cfg.OpenRouter.BaseURL)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
}

func TestConfigFromEnv_BadTimeoutIgnored(t *testing.T) {
	t.Setenv("GLYPHWRITE_LLM_TIMEOUT", "soon")
	assert.Zero(t, ConfigFromEnv(DefaultConfig()).Timeout)
}

func TestDefaultConfig_NoTimeout(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "openrouter", cfg.Provider)
	assert.Zero(t, cfg.Timeout)
}

func TestNewProvider_Decorators(t *testing.T) {
	cfg := DefaultConfig().WithAPIKey("sk-or-test")
	cfg.Timeout = time.Second

	p, err := NewProvider(context.Background(), cfg, &recordingRepo{})
	require.NoError(t, err)

	d, ok := p.(*deadline)
	require.True(t, ok, "outermost is timeout, got %T", p)
	rec, ok := d.inner.(*recorder)
	require.True(t, ok, "then logging, got %T", d.inner)
	_, ok = rec.inner.(*OpenRouterProvider)
	assert.True(t, ok, "base is openrouter, got %T", rec.inner)
	assert.Equal(t, "anthropic/claude-3.5-sonnet", p.ModelID())
}

func TestNewProvider_BareAndErrors(t *testing.T) {
	p, err := NewProvider(context.Background(), DefaultConfig().WithAPIKey("k"), nil)
	require.NoError(t, err)
	assert.IsType(t, &OpenRouterProvider{}, p)

	p, err = NewProvider(context.Background(), Config{Provider: "mock"}, &recordingRepo{})
	require.NoError(t, err)
	assert.IsType(t, &MockProvider{}, p)

	_, err = NewProvider(context.Background(), Config{Provider: "carrier-pigeon"}, nil)
	assert.ErrorContains(t, err, "unknown LLM provider")

	_, err = NewProvider(context.Background(), DefaultConfig(), nil)
	var authErr *ErrAuth
	assert.ErrorAs(t, err, &authErr)
}

func TestFromStatus(t *testing.T) {
	base := errors.New("boom")
	tests := []struct {
		code   int
		target any
	}{
		{401, new(*ErrAuth)},
		{403, new(*ErrAuth)},
		{429, new(*ErrRateLimit)},
		{408, new(*ErrProviderUnavailable)},
		{422, new(*ErrInvalidResponse)},
		{502, new(*ErrProviderUnavailable)},
		{0, new(*ErrProviderUnavailable)},
	}
	for _, tt := range tests {
		err := fromStatus(tt.code, base)
		assert.ErrorAs(t, err, tt.target, "status %d", tt.code)
		assert.ErrorIs(t, err, base)
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "no usable credential: missing", (&ErrAuth{Err: errors.New("missing")}).Error())
	assert.Equal(t, "credential rejected (HTTP 401): nope", (&ErrAuth{StatusCode: 401, Err: errors.New("nope")}).Error())
	assert.Equal(t, "rate limited by provider (retry in 2s)", (&ErrRateLimit{RetryAfter: 2 * time.Second}).Error())
	assert.Equal(t, "model reply cut off at 64 tokens", (&ErrMaxTokensExceeded{Limit: 64}).Error())
	assert.Equal(t, "provider unavailable", (&ErrProviderUnavailable{}).Error())
}
