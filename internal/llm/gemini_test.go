package llm

import (
	"testing"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.0-flash"},
		{"google/gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"}, // Pass-through
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"model_guess": map[string]any{"type": "string"},
			"score":       map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
			"grade":       map[string]any{"type": "string", "enum": []any{"A", "B", "C"}},
			"suggestions": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []any{"model_guess", "score"},
	}

	schema := geminiSchema(def)

	if schema.Type != "OBJECT" {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Properties) != 4 {
		t.Fatalf("expected 4 properties, got %d", len(schema.Properties))
	}
	if schema.Properties["model_guess"].Type != "STRING" {
		t.Fatalf("expected STRING for model_guess, got %s", schema.Properties["model_guess"].Type)
	}
	if schema.Properties["score"].Type != "INTEGER" {
		t.Fatalf("expected INTEGER for score, got %s", schema.Properties["score"].Type)
	}
	if score := schema.Properties["score"]; score.Minimum == nil || *score.Minimum != 0 || score.Maximum == nil || *score.Maximum != 100 {
		t.Fatalf("score bounds = %v..%v", score.Minimum, score.Maximum)
	}
	if len(schema.Properties["grade"].Enum) != 3 {
		t.Fatalf("expected 3 enum values, got %d", len(schema.Properties["grade"].Enum))
	}
	if schema.Properties["suggestions"].Type != "ARRAY" {
		t.Fatalf("expected ARRAY for suggestions, got %s", schema.Properties["suggestions"].Type)
	}
	if schema.Properties["suggestions"].Items.Type != "STRING" {
		t.Fatalf("expected STRING for suggestions items, got %s", schema.Properties["suggestions"].Items.Type)
	}
	if len(schema.Required) != 2 {
		t.Fatalf("expected 2 required fields, got %d", len(schema.Required))
	}
}

func TestGeminiContents_ImageFirst(t *testing.T) {
	contents := geminiContents([]Message{{
		Role:    RoleUser,
		Content: "Score this",
		Images:  []Image{{MIMEType: "image/png", Data: []byte("png")}},
	}})
	if len(contents) != 1 || contents[0].Role != "user" {
		t.Fatalf("unexpected contents: %+v", contents)
	}
	parts := contents[0].Parts
	if len(parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(parts))
	}
	if parts[0].InlineData == nil || parts[0].InlineData.MIMEType != "image/png" || string(parts[0].InlineData.Data) != "png" {
		t.Errorf("image part = %+v", parts[0].InlineData)
	}
	if parts[1].Text != "Score this" {
		t.Errorf("text part = %q", parts[1].Text)
	}
}
