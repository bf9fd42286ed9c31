package gateway

import (
	"fmt"
	"strings"
)

const feedbackSystemPrompt = "You are an expert language learning assistant. Give concise, actionable feedback for handwriting practice."

const answerSystemPrompt = "You are an expert language learning assistant. Give concise, actionable tips."

const visionSystemPrompt = `You are an expert handwriting evaluator for language learners.

Rules:
- You receive one image of a single handwritten character or word drawn on a blank canvas.
- Identify what the drawing most resembles and report it as model_guess.
- Score how accurately it reproduces the target from 0 to 100. Judge shape, proportion and stroke placement, not neatness of the canvas.
- An empty or unrecognizable drawing scores below 20.
- Keep feedback to one or two sentences in the requested tone.
- Give at most three short suggestions.`

func buildFeedbackMessage(r Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Give feedback for practicing the character %q in %s at %s level.\n", r.Character, r.Language, r.Level)
	fmt.Fprintf(&b, "Persona: %s (%s).\n", r.Persona, r.Persona.Description())
	b.WriteString("Focus on stroke order, proportions and common mistakes. Keep it under 120 words.")
	return b.String()
}

func buildVisionMessage(r Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Target: %q\n", r.Character)
	fmt.Fprintf(&b, "Language: %s\n", r.Language)
	fmt.Fprintf(&b, "Learner level: %s\n", r.Level)
	fmt.Fprintf(&b, "Tone: %s (%s)\n", r.Persona, r.Persona.Description())
	b.WriteString("\nEvaluate the attached drawing.")
	return b.String()
}

func buildAnswerMessage(r Request, question string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I am practicing %q in %s at %s level.\n\n", r.Character, r.Language, r.Level)
	b.WriteString(question)
	return b.String()
}
