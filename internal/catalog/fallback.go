package catalog

// fallback is offered when the live list is unavailable.
var fallback = map[Capability][]ModelDescriptor{
	Text: {
		{ID: "qwen/qwen3-8b:free", DisplayName: "Qwen3 8B (free)", Description: "Free general-purpose model, good for quick tips", Cost: Cost{0, 0}},
		{ID: "openai/gpt-3.5-turbo", DisplayName: "GPT-3.5 Turbo", Description: "Fast and cost-effective for general tasks", Cost: Cost{0.5, 1.5}},
		{ID: "google/gemini-pro", DisplayName: "Gemini Pro", Description: "Google's advanced language model", Cost: Cost{0.5, 1.5}},
		{ID: "anthropic/claude-3.5-sonnet", DisplayName: "Claude 3.5 Sonnet", Description: "Most intelligent model, excellent for detailed language analysis", Cost: Cost{3, 15}},
		{ID: "openai/gpt-4-turbo", DisplayName: "GPT-4 Turbo", Description: "Advanced reasoning with large context window", Cost: Cost{10, 30}},
	},
	Vision: {
		{ID: "qwen/qwen2.5-vl-32b-instruct:free", DisplayName: "Qwen2.5 VL 32B Instruct (free)", Description: "Qwen2.5 VL 32B Instruct, open/free vision-language model for image analysis", Cost: Cost{0, 0}, ContextLength: 128000},
		{ID: "mistral/mistral-small-3.2-24b:free", DisplayName: "Mistral Small 3.2 24B (free)", Description: "Mistral Small 3.2 24B, open/free vision model for image analysis", Cost: Cost{0, 0}, ContextLength: 128000},
	},
	Audio: {
		{ID: "openai/whisper-1", DisplayName: "Whisper", Description: "Speech recognition and transcription", Cost: Cost{6, 0}},
	},
}

func init() {
	for c, models := range fallback {
		for i := range models {
			models[i].Capability = c
		}
	}
}

// Fallback returns a copy of the static list for one capability.
func Fallback(c Capability) []ModelDescriptor {
	return append([]ModelDescriptor(nil), fallback[c]...)
}
