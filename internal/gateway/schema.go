package gateway

import "github.com/importJL/GlyphWrAIte/internal/llm"

// Grades a vision evaluation may assign.
var Grades = []any{"A", "B", "C", "D", "F"}

// EvaluationSchema defines the structured reply for handwriting scoring.
var EvaluationSchema = &llm.Schema{
	Name:        "handwriting-evaluation",
	Description: "An assessment of one handwritten character against its target",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"model_guess": map[string]any{
				"type":        "string",
				"description": "The character the drawing most resembles, as read by the model",
			},
			"score": map[string]any{
				"type":        "integer",
				"minimum":     0,
				"maximum":     100,
				"description": "Accuracy of the drawing against the target character, 0-100",
			},
			"grade": map[string]any{
				"type":        "string",
				"enum":        Grades,
				"description": "Overall letter grade",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "One or two sentences of feedback in the requested persona",
			},
			"suggestions": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Up to three concrete things to practice next",
			},
		},
		"required":             []any{"model_guess", "score", "grade", "feedback", "suggestions"},
		"additionalProperties": false,
	},
}

type evaluationOutput struct {
	ModelGuess  string   `json:"model_guess"`
	Score       int      `json:"score"`
	Grade       string   `json:"grade"`
	Feedback    string   `json:"feedback"`
	Suggestions []string `json:"suggestions"`
}
