package session

import (
	"errors"
	"strings"

	"github.com/importJL/GlyphWrAIte/internal/gateway"
	"github.com/importJL/GlyphWrAIte/internal/store"
)

// Capability tags an EvaluationResult.
type Capability string

const (
	CapabilityText   Capability = "text"
	CapabilityVision Capability = "vision"
	CapabilityQA     Capability = "qa"
)

// EvaluationResult is the outcome of one capability call. Score, ModelGuess,
// Grade and Suggestions are only set by successful vision results.
type EvaluationResult struct {
	Capability  Capability   `json:"capability"`
	Succeeded   bool         `json:"succeeded"`
	Score       *int         `json:"score,omitempty"`
	ModelGuess  string       `json:"modelGuess,omitempty"`
	Grade       string       `json:"grade,omitempty"`
	Suggestions []string     `json:"suggestions,omitempty"`
	Narrative   string       `json:"narrative,omitempty"`
	Model       string       `json:"model,omitempty"`
	ErrorKind   gateway.Kind `json:"errorKind,omitempty"`
	ErrorReason string       `json:"errorReason,omitempty"`
}

func failedResult(c Capability, err error) EvaluationResult {
	res := EvaluationResult{Capability: c}
	f := gateway.Classify(err)
	if f == nil {
		f = gateway.NewFailure(gateway.KindProviderResponse, "unknown error", errors.New("nil error"))
	}
	res.ErrorKind = f.Kind
	res.ErrorReason = f.Reason
	return res
}

func textResult(fb gateway.TextFeedback) EvaluationResult {
	return EvaluationResult{
		Capability: CapabilityText,
		Succeeded:  true,
		Narrative:  fb.Text,
		Model:      fb.Model,
	}
}

func visionResult(a gateway.HandwritingAnalysis) EvaluationResult {
	score := clampScore(a.Score)
	var suggestions []string
	for _, s := range a.Suggestions {
		if s = strings.TrimSpace(s); s != "" {
			suggestions = append(suggestions, s)
		}
	}
	return EvaluationResult{
		Capability:  CapabilityVision,
		Succeeded:   true,
		Score:       &score,
		ModelGuess:  a.ModelGuess,
		Grade:       a.Grade,
		Suggestions: suggestions,
		Narrative:   a.Feedback,
		Model:       a.Model,
	}
}

// Verdict is the score decision for one attempt.
type Verdict struct {
	Score      int
	Source     string
	Model      string
	ModelGuess string
	Grade      string
}

// Merge picks the authoritative score. A successful vision result wins;
// anything else falls back to the pseudo-score. The result is always
// within 0-100.
func Merge(results []EvaluationResult, fallback int) Verdict {
	for _, r := range results {
		if r.Capability == CapabilityVision && r.Succeeded && r.Score != nil {
			return Verdict{
				Score:      clampScore(*r.Score),
				Source:     store.ScoreSourceVision,
				Model:      r.Model,
				ModelGuess: r.ModelGuess,
				Grade:      r.Grade,
			}
		}
	}
	return Verdict{Score: clampScore(fallback), Source: store.ScoreSourceFallback}
}

func findResult(results []EvaluationResult, c Capability) (EvaluationResult, bool) {
	for _, r := range results {
		if r.Capability == c {
			return r, true
		}
	}
	return EvaluationResult{}, false
}
