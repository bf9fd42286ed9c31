package llm

import "strings"

// ModelCost holds per-million-token pricing for a model in USD.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost calculates the total USD cost for the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*c.InputPerMTok/1_000_000 +
		float64(outputTokens)*c.OutputPerMTok/1_000_000
}

// Combined is the ranking key used by the model catalog.
func (c ModelCost) Combined() float64 {
	return c.InputPerMTok + c.OutputPerMTok
}

// LookupCost returns the pricing for a model ID, or nil if unknown.
// OpenRouter ids ("vendor/model") fall back to the bare model name, and
// ":free" variants cost nothing.
func LookupCost(modelID string) *ModelCost {
	if c, ok := modelCosts[modelID]; ok {
		return &c
	}
	if strings.HasSuffix(modelID, ":free") {
		return &ModelCost{}
	}
	if _, bare, ok := strings.Cut(modelID, "/"); ok {
		if c, ok := modelCosts[bare]; ok {
			return &c
		}
	}
	return nil
}

// modelCosts is the embedded pricing table. Catalog pricing fetched from
// OpenRouter takes precedence where available.
var modelCosts = map[string]ModelCost{
	// OpenRouter ids offered by the static catalog
	"anthropic/claude-3.5-sonnet":        {3, 15},
	"anthropic/claude-3-opus":            {15, 75},
	"openai/gpt-4-turbo":                 {10, 30},
	"openai/gpt-4-vision-preview":        {10, 30},
	"openai/gpt-3.5-turbo":               {0.5, 1.5},
	"openai/whisper-1":                   {6, 0},
	"google/gemini-pro":                  {0.5, 1.5},
	"qwen/qwen3-8b:free":                 {0, 0},
	"qwen/qwen2.5-vl-32b-instruct:free":  {0, 0},
	"mistral/mistral-small-3.2-24b:free": {0, 0},

	// Anthropic
	"claude-3-5-haiku-latest":   {0.8, 4},
	"claude-3-5-sonnet-latest":  {3, 15},
	"claude-3-haiku-20240307":   {0.25, 1.25},
	"claude-3-opus-20240229":    {15, 75},
	"claude-haiku-4-5-20251001": {1, 5},
	"claude-sonnet-4-20250514":  {3, 15},

	// OpenAI
	"gpt-3.5-turbo": {0.5, 1.5},
	"gpt-4":         {30, 60},
	"gpt-4-turbo":   {10, 30},
	"gpt-4o":        {2.5, 10},
	"gpt-4o-mini":   {0.15, 0.6},
	"whisper-1":     {6, 0},

	// Google
	"gemini-pro":       {0.5, 1.5},
	"gemini-2.0-flash": {0.1, 0.4},
	"gemini-2.5-flash": {0.3, 2.5},
	"gemini-2.5-pro":   {1.25, 10},
}
