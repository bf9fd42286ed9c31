package session

import (
	"fmt"
	"math/rand/v2"

	"github.com/importJL/GlyphWrAIte/internal/characters"
	"github.com/importJL/GlyphWrAIte/internal/store"
)

const (
	defaultFeedback   = "Good effort! Keep practicing to improve your technique."
	visionFailedEntry = "AI analysis failed - using basic scoring"
	answerFailedEntry = "❌ Sorry, I couldn't process your question. Please check your AI settings."
)

// cannedTips are shown on selection when no credential is configured.
func cannedTips(t Target) []string {
	tips := []string{fmt.Sprintf("Practice writing %q with smooth, confident strokes", t.Character)}
	if t.Info != nil {
		tips = append(tips, "Definition: "+t.Info.Definition, "Usage: "+t.Info.Usage)
	} else {
		tips = append(tips,
			"Focus on proper stroke order for better muscle memory",
			"Try to maintain consistent character size and spacing",
		)
	}
	return append(tips, "Configure AI settings to get personalized feedback")
}

// tipsUnavailable replaces the tips when the text feedback call fails.
func tipsUnavailable(t Target) []string {
	tips := []string{fmt.Sprintf("Practice writing %q with smooth, confident strokes", t.Character)}
	if t.Info != nil {
		return append(tips, "Tip: "+t.Info.Usage)
	}
	return append(tips, "AI tips unavailable - check your API key in settings")
}

// cannedAnswers are the offline replies to a question about the target.
func cannedAnswers(t Target) []string {
	info := t.Info
	out := make([]string, 0, 4)
	if info != nil {
		out = append(out, fmt.Sprintf("For %q: %s", t.Character, info.Usage))
	} else {
		out = append(out, fmt.Sprintf("For %q, try breaking it down into smaller strokes.", t.Character))
	}
	if info != nil && len(info.Examples) > 0 {
		out = append(out, "Example usage: "+info.Examples[0])
	} else {
		out = append(out, "Remember to maintain consistent pressure throughout the stroke.")
	}
	switch {
	case info == nil:
		out = append(out, "Practice the basic shape first, then add details.")
	case info.CulturalNotes != "":
		out = append(out, "Cultural note: "+info.CulturalNotes)
	default:
		out = append(out, "Cultural note: Practice the basic shape first, then add details.")
	}
	return append(out, "Consider the cultural context and traditional writing methods.")
}

func cannedAnswer(t Target, rng *rand.Rand) string {
	answers := cannedAnswers(t)
	return answers[rng.IntN(len(answers))]
}

// submissionEntries returns the lines a submission puts in front of the
// narrative log and how many of the previous lines survive. A negative
// keep means all of them.
func submissionEntries(results []EvaluationResult) (entries []string, keep int) {
	keep = -1
	if v, ok := findResult(results, CapabilityVision); ok {
		if v.Succeeded {
			entries = append(entries,
				"AI Analysis: "+v.Narrative,
				"Model Guess: "+v.ModelGuess,
				fmt.Sprintf("Accuracy Score: %d%%", *v.Score),
				"Grade: "+v.Grade,
			)
			for _, tip := range v.Suggestions {
				entries = append(entries, "Suggestion: "+tip)
			}
			keep = 2
		} else {
			entries = append(entries, visionFailedEntry, failureEntry(v))
		}
	}
	if t, ok := findResult(results, CapabilityText); ok {
		if t.Succeeded {
			entries = append(entries, "AI Feedback: "+t.Narrative)
		} else {
			entries = append(entries, "AI feedback unavailable", failureEntry(t))
		}
	}
	return entries, keep
}

func failureEntry(r EvaluationResult) string {
	return fmt.Sprintf("%s: %s", r.ErrorKind, r.ErrorReason)
}

// summaryText is the short message shown once the attempt is finalized.
func summaryText(v Verdict, results []EvaluationResult) string {
	if v.Source == store.ScoreSourceVision {
		return fmt.Sprintf("AI Analysis Complete!\n\nOverall assessment: %s\nEvaluated character: %s\nAccuracy score: %d",
			v.Grade, v.ModelGuess, v.Score)
	}
	feedback := defaultFeedback
	if t, ok := findResult(results, CapabilityText); ok && t.Succeeded {
		feedback = t.Narrative
	}
	return fmt.Sprintf("Practice Submitted!\n\nScore: %d%%\n%s", v.Score, feedback)
}

func lookupTarget(language, character string, level characters.Difficulty) Target {
	t := Target{Language: language, Character: character, Level: level}
	if info, ok := characters.Lookup(language, character); ok {
		t.Info = &info
	}
	return t
}
