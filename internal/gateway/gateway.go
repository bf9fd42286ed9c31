// Package gateway exposes the three AI capabilities used during practice:
// text feedback, handwriting scoring and question answering. Each call is
// a single provider round trip that yields a typed result or a *Failure.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/importJL/GlyphWrAIte/internal/llm"
	"github.com/importJL/GlyphWrAIte/internal/store"
)

// Request carries the per-call parameters shared by every capability.
type Request struct {
	Character string
	Language  string
	Level     string
	Persona   Persona
	Model     string
	Image     *llm.Image
}

// TextFeedback is the reply of GenerateTextFeedback.
type TextFeedback struct {
	Text  string
	Model string
}

// HandwritingAnalysis is the reply of AnalyzeHandwriting.
type HandwritingAnalysis struct {
	Score       int
	ModelGuess  string
	Grade       string
	Feedback    string
	Suggestions []string
	Model       string
}

// Answer is the reply of AnswerQuestion.
type Answer struct {
	Text  string
	Model string
}

// ProviderFactory builds a provider for a config carrying the credential.
type ProviderFactory func(ctx context.Context, cfg llm.Config, events store.EventRepo) (llm.Provider, error)

// Limits tunes generation per capability.
type Limits struct {
	FeedbackMaxTokens int
	VisionMaxTokens   int
	AnswerMaxTokens   int
	Temperature       float64
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{
		FeedbackMaxTokens: 400,
		VisionMaxTokens:   600,
		AnswerMaxTokens:   400,
		Temperature:       0.4,
	}
}

// Validate rejects non-positive token caps and a temperature outside 0-2.
func (l Limits) Validate() error {
	caps := []struct {
		name string
		n    int
	}{
		{"feedback_max_tokens", l.FeedbackMaxTokens},
		{"vision_max_tokens", l.VisionMaxTokens},
		{"answer_max_tokens", l.AnswerMaxTokens},
	}
	for _, c := range caps {
		if c.n <= 0 {
			return fmt.Errorf("%s must be positive, got %d", c.name, c.n)
		}
	}
	if l.Temperature < 0 || l.Temperature > 2 {
		return fmt.Errorf("temperature must be within 0-2, got %g", l.Temperature)
	}
	return nil
}

// Gateway owns one provider per credential. It is safe for concurrent use.
type Gateway struct {
	base    llm.Config
	events  store.EventRepo
	factory ProviderFactory
	limits  Limits

	mu        sync.Mutex
	providers map[string]llm.Provider
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithProviderFactory replaces llm.NewProvider, e.g. with a mock in tests.
func WithProviderFactory(f ProviderFactory) Option {
	return func(g *Gateway) { g.factory = f }
}

// WithLimits overrides DefaultLimits.
func WithLimits(l Limits) Option {
	return func(g *Gateway) { g.limits = l }
}

// New creates a Gateway. base selects the provider and its defaults; the
// credential passed to each call is applied on top. events may be nil.
func New(base llm.Config, events store.EventRepo, opts ...Option) *Gateway {
	g := &Gateway{
		base:      base,
		events:    events,
		factory:   llm.NewProvider,
		limits:    DefaultLimits(),
		providers: make(map[string]llm.Provider),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gateway) provider(ctx context.Context, credential string) (llm.Provider, error) {
	if credential == "" && g.base.Provider != "mock" {
		return nil, noCredential()
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if p, ok := g.providers[credential]; ok {
		return p, nil
	}
	p, err := g.factory(ctx, g.base.WithAPIKey(credential), g.events)
	if err != nil {
		return nil, Classify(err)
	}
	g.providers[credential] = p
	return p, nil
}

// Forget drops cached providers, e.g. after the credential changes.
func (g *Gateway) Forget() {
	g.mu.Lock()
	clear(g.providers)
	g.mu.Unlock()
}

// GenerateTextFeedback asks for practice feedback on the character.
func (g *Gateway) GenerateTextFeedback(ctx context.Context, credential string, r Request) (TextFeedback, error) {
	p, err := g.provider(ctx, credential)
	if err != nil {
		return TextFeedback{}, err
	}

	resp, err := p.Generate(llm.WithPurpose(ctx, llm.PurposeTextFeedback), llm.Request{
		System:      feedbackSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildFeedbackMessage(r)}},
		Model:       r.Model,
		MaxTokens:   g.limits.FeedbackMaxTokens,
		Temperature: g.limits.Temperature,
	})
	if err != nil {
		return TextFeedback{}, Classify(err)
	}
	text := resp.Text()
	if text == "" {
		return TextFeedback{}, NewFailure(KindProviderResponse, "No valid response from AI.", nil)
	}
	return TextFeedback{Text: text, Model: resp.Model}, nil
}

// AnalyzeHandwriting scores the captured drawing against the target
// character. The score and model guess are authoritative on success.
func (g *Gateway) AnalyzeHandwriting(ctx context.Context, credential string, r Request) (HandwritingAnalysis, error) {
	p, err := g.provider(ctx, credential)
	if err != nil {
		return HandwritingAnalysis{}, err
	}
	if r.Image == nil || len(r.Image.Data) == 0 {
		return HandwritingAnalysis{}, NewFailure(KindProviderResponse, "no drawing to analyze", errors.New("empty capture"))
	}

	resp, err := p.Generate(llm.WithPurpose(ctx, llm.PurposeVisionScoring), llm.Request{
		System: visionSystemPrompt,
		Messages: []llm.Message{{
			Role:    llm.RoleUser,
			Content: buildVisionMessage(r),
			Images:  []llm.Image{*r.Image},
		}},
		Model:       r.Model,
		Schema:      EvaluationSchema,
		MaxTokens:   g.limits.VisionMaxTokens,
		Temperature: g.limits.Temperature,
	})
	if err != nil {
		return HandwritingAnalysis{}, Classify(err)
	}

	out, err := llm.Decode[evaluationOutput](EvaluationSchema, resp)
	if err != nil {
		return HandwritingAnalysis{}, Classify(err)
	}
	return HandwritingAnalysis{
		Score:       out.Score,
		ModelGuess:  strings.TrimSpace(out.ModelGuess),
		Grade:       out.Grade,
		Feedback:    strings.TrimSpace(out.Feedback),
		Suggestions: out.Suggestions,
		Model:       resp.Model,
	}, nil
}

// AnswerQuestion answers a free-form learner question in the context of
// the current character.
func (g *Gateway) AnswerQuestion(ctx context.Context, credential string, r Request, question string) (Answer, error) {
	p, err := g.provider(ctx, credential)
	if err != nil {
		return Answer{}, err
	}

	resp, err := p.Generate(llm.WithPurpose(ctx, llm.PurposeQuestionAnswer), llm.Request{
		System:      answerSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildAnswerMessage(r, question)}},
		Model:       r.Model,
		MaxTokens:   g.limits.AnswerMaxTokens,
		Temperature: g.limits.Temperature,
	})
	if err != nil {
		return Answer{}, Classify(err)
	}
	text := resp.Text()
	if text == "" {
		return Answer{}, NewFailure(KindProviderResponse, "No response from AI.", nil)
	}
	return Answer{Text: text, Model: resp.Model}, nil
}
