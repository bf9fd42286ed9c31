package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/importJL/GlyphWrAIte/internal/gateway"
)

type apiModel struct {
	id         string
	prompt     string
	completion string
}

func modelsServer(t *testing.T, status int, models []apiModel) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-or-test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		data := make([]map[string]any, 0, len(models))
		for _, m := range models {
			data = append(data, map[string]any{
				"id":             m.id,
				"name":           m.id,
				"context_length": 8192,
				"pricing":        map[string]any{"prompt": m.prompt, "completion": m.completion},
			})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"data": data})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func ids(models []ModelDescriptor) []string {
	out := make([]string, len(models))
	for i, m := range models {
		out[i] = m.ID
	}
	return out
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		id   string
		want Capability
	}{
		{"openai/gpt-4-vision-preview", Vision},
		{"anthropic/claude-3-opus", Vision},
		{"anthropic/claude-3.5-sonnet", Vision},
		{"qwen/qwen2.5-vl-32b-instruct:free", Text},
		{"mistral/mistral-small-3.2-24b:free", Text},
		{"openai/whisper-1", Audio},
		{"openai/gpt-4o-audio-preview", Audio},
		{"meta-llama/llama-3.1-8b-instruct", Text},
		{"anthropic/claude-2", Text},
		{"openai/GPT-4-VISION", Text},
	}
	for _, tt := range tests {
		if got := categorize(tt.id); got != tt.want {
			t.Errorf("categorize(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestNew_ServesFallback(t *testing.T) {
	c := New()
	assert.Equal(t, ids(Fallback(Text)), ids(c.List(Text)))
	assert.Equal(t, VisionAllowList, ids(c.List(Vision)))
	assert.Equal(t, []string{"openai/whisper-1"}, ids(c.List(Audio)))
	assert.True(t, c.FetchedAt().IsZero())
}

func TestRefresh_NoCredential(t *testing.T) {
	c := New()
	err := c.Refresh(context.Background(), "")
	kind, ok := gateway.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, gateway.KindAuth, kind)
	assert.Equal(t, ids(Fallback(Text)), ids(c.List(Text)))
}

var rankingModels = []apiModel{
	{"openai/gpt-4-turbo", "0.00001", "0.00003"},
	{"meta-llama/llama-3.1-8b-instruct", "0.00000005", "0.00000005"},
	{"openai/gpt-3.5-turbo", "0.0000005", "0.0000015"},
	{"google/gemini-pro", "0.0000005", "0.0000015"},
	{"cohere/command-r", "0.0000005", "0.0000015"},
	{"mistral/mistral-small-3.2-24b:free", "0", "0"},
	{"openai/gpt-4-vision-preview", "0.00001", "0.00003"},
	{"qwen/qwen2.5-vl-32b-instruct:free", "0", "0"},
	{"openai/whisper-1", "0.000006", "0"},
	{"openrouter/auto", "-1", "-1"},
}

func TestRefresh_CategorizesFiltersAndRanks(t *testing.T) {
	srv := modelsServer(t, http.StatusOK, rankingModels)

	c := New(WithBaseURL(srv.URL))
	require.NoError(t, c.Refresh(context.Background(), "sk-or-test"))

	assert.Equal(t, []string{
		"mistral/mistral-small-3.2-24b:free",
		"meta-llama/llama-3.1-8b-instruct",
		"openai/gpt-3.5-turbo",
		"google/gemini-pro",
		"openai/gpt-4-turbo",
	}, ids(c.List(Text)), "cohere has no keyword; equal prices keep provider order")

	vision := c.List(Vision)
	assert.Equal(t, []string{
		"mistral/mistral-small-3.2-24b:free",
		"qwen/qwen2.5-vl-32b-instruct:free",
	}, ids(vision))
	for _, m := range vision {
		assert.Equal(t, Vision, m.Capability)
	}
	assert.Equal(t, Text, c.List(Text)[0].Capability)

	audio := c.List(Audio)
	require.Len(t, audio, 1)
	assert.InDelta(t, 6.0, audio[0].Cost.Input, 1e-9)
	assert.Equal(t, Audio, audio[0].Capability)
	assert.False(t, c.FetchedAt().IsZero())
}

func TestRefresh_ReversedInputRanksTheSame(t *testing.T) {
	reversed := slices.Clone(rankingModels)
	slices.Reverse(reversed)

	c := New(WithBaseURL(modelsServer(t, http.StatusOK, reversed).URL))
	require.NoError(t, c.Refresh(context.Background(), "sk-or-test"))

	// Only ties change places; every list stays cheapest first.
	assert.Equal(t, []string{
		"mistral/mistral-small-3.2-24b:free",
		"meta-llama/llama-3.1-8b-instruct",
		"google/gemini-pro",
		"openai/gpt-3.5-turbo",
		"openai/gpt-4-turbo",
	}, ids(c.List(Text)))
	assert.Equal(t, []string{
		"qwen/qwen2.5-vl-32b-instruct:free",
		"mistral/mistral-small-3.2-24b:free",
	}, ids(c.List(Vision)))
	assert.Equal(t, []string{"openai/whisper-1"}, ids(c.List(Audio)))
}

func TestRefresh_CapsAtEight(t *testing.T) {
	var models []apiModel
	for i := 12; i > 0; i-- {
		models = append(models, apiModel{fmt.Sprintf("meta-llama/llama-%d", i), fmt.Sprintf("0.%07d", i), "0"})
	}
	c := New(WithBaseURL(modelsServer(t, http.StatusOK, models).URL))
	require.NoError(t, c.Refresh(context.Background(), "sk-or-test"))

	text := c.List(Text)
	require.Len(t, text, 8)
	assert.Equal(t, "meta-llama/llama-1", text[0].ID)
	for i := 1; i < len(text); i++ {
		assert.LessOrEqual(t, text[i-1].Cost.Combined(), text[i].Cost.Combined())
	}
}

func TestRefresh_FailureKeepsPreviousSet(t *testing.T) {
	good := modelsServer(t, http.StatusOK, []apiModel{{"meta-llama/llama-3", "0.000001", "0.000001"}})
	c := New(WithBaseURL(good.URL), WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, c.Refresh(context.Background(), "sk-or-test"))
	before := ids(c.List(Text))

	tests := []struct {
		name   string
		status int
		key    string
		want   gateway.Kind
	}{
		{"unauthorized", http.StatusOK, "sk-wrong", gateway.KindAuth},
		{"server error", http.StatusBadGateway, "sk-or-test", gateway.KindProviderResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := modelsServer(t, tt.status, nil)
			c.fetcher.baseURL = bad.URL

			err := c.Refresh(context.Background(), tt.key)
			kind, ok := gateway.KindOf(err)
			require.True(t, ok, "err = %v", err)
			assert.Equal(t, tt.want, kind)
			assert.Equal(t, before, ids(c.List(Text)))
		})
	}

	t.Run("unreachable", func(t *testing.T) {
		c.fetcher.baseURL = "http://127.0.0.1:1"
		err := c.Refresh(context.Background(), "sk-or-test")
		kind, _ := gateway.KindOf(err)
		assert.Equal(t, gateway.KindNetwork, kind)
		assert.Equal(t, before, ids(c.List(Text)))
	})
}

func TestRefresh_EmptyListIsProviderError(t *testing.T) {
	c := New(WithBaseURL(modelsServer(t, http.StatusOK, nil).URL))
	err := c.Refresh(context.Background(), "sk-or-test")
	kind, _ := gateway.KindOf(err)
	assert.Equal(t, gateway.KindProviderResponse, kind)
}

func TestList_EmptyCapabilityFallsBack(t *testing.T) {
	c := New(WithBaseURL(modelsServer(t, http.StatusOK, []apiModel{{"meta-llama/llama-3", "0", "0"}}).URL))
	require.NoError(t, c.Refresh(context.Background(), "sk-or-test"))

	assert.Equal(t, []string{"meta-llama/llama-3"}, ids(c.List(Text)))
	assert.Equal(t, VisionAllowList, ids(c.List(Vision)))
}

func TestReset(t *testing.T) {
	c := New(WithBaseURL(modelsServer(t, http.StatusOK, []apiModel{{"meta-llama/llama-3", "0", "0"}}).URL))
	require.NoError(t, c.Refresh(context.Background(), "sk-or-test"))
	c.Reset()

	assert.Equal(t, ids(Fallback(Text)), ids(c.List(Text)))
	_, ok := c.Lookup("meta-llama/llama-3")
	assert.False(t, ok)
	m, ok := c.Lookup("openai/whisper-1")
	assert.True(t, ok)
	assert.Equal(t, Audio, m.Capability)
}

func TestList_ReturnsCopy(t *testing.T) {
	c := New()
	l := c.List(Vision)
	l[0].ID = "mutated"
	assert.Equal(t, VisionAllowList[0], c.List(Vision)[0].ID)
}

func TestParseCapability(t *testing.T) {
	c, ok := ParseCapability("vision")
	assert.True(t, ok)
	assert.Equal(t, Vision, c)
	_, ok = ParseCapability("video")
	assert.False(t, ok)
}
