package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenRouterProvider(t *testing.T) {
	tests := []struct {
		name      string
		cfg       OpenRouterConfig
		wantModel string
		wantErr   bool
	}{
		{"vision model", OpenRouterConfig{APIKey: "sk-or-test", Model: "qwen/qwen2.5-vl-32b-instruct:free"}, "qwen/qwen2.5-vl-32b-instruct:free", false},
		{"vendor id kept as is", OpenRouterConfig{APIKey: "sk-or-test", Model: "anthropic/claude-3-haiku"}, "anthropic/claude-3-haiku", false},
		{"friendly name not mapped", OpenRouterConfig{APIKey: "sk-or-test", Model: "gpt-4o"}, "gpt-4o", false},
		{"custom base URL", OpenRouterConfig{APIKey: "sk-or-test", Model: "m", BaseURL: "https://custom.example/v1"}, "m", false},
		{"missing key", OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewOpenRouterProvider(tt.cfg)
			if tt.wantErr {
				var authErr *ErrAuth
				assert.ErrorAs(t, err, &authErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantModel, p.ModelID())
		})
	}
}

func TestOpenRouterProvider_AppHeaders(t *testing.T) {
	tests := []struct {
		name            string
		referer, title  string
		wantRef, wantTi string
	}{
		{"both", "https://glyphwrite.local", "GlyphWrAIte", "https://glyphwrite.local", "GlyphWrAIte"},
		{"title only", "", "GlyphWrAIte", "", "GlyphWrAIte"},
		{"none", "", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got http.Header
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Clone()
				writeJSON(w, http.StatusOK, chatCompletion("qwen/qwen3-8b:free", "ok"))
			}))
			t.Cleanup(server.Close)

			p, err := NewOpenRouterProvider(OpenRouterConfig{
				APIKey:  "sk-or-test",
				Model:   "qwen/qwen3-8b:free",
				BaseURL: server.URL + "/",
				Referer: tt.referer,
				Title:   tt.title,
			})
			require.NoError(t, err)

			resp, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
			require.NoError(t, err)
			assert.Equal(t, "ok", resp.Text())
			assert.Equal(t, tt.wantRef, got.Get("HTTP-Referer"))
			assert.Equal(t, tt.wantTi, got.Get("X-Title"))
			assert.Equal(t, "Bearer sk-or-test", got.Get("Authorization"))
		})
	}
}
