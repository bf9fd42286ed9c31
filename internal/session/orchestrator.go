// Package session runs one learner's practice flow: select a character,
// draw it, submit it for evaluation and persist exactly one record per
// submitted attempt. AI failures are turned into narrative entries and
// never escape the orchestrator.
package session

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/importJL/GlyphWrAIte/internal/characters"
	"github.com/importJL/GlyphWrAIte/internal/gateway"
	"github.com/importJL/GlyphWrAIte/internal/llm"
	"github.com/importJL/GlyphWrAIte/internal/settings"
	"github.com/importJL/GlyphWrAIte/internal/store"
)

// Capabilities is the subset of the AI gateway used during practice.
type Capabilities interface {
	GenerateTextFeedback(ctx context.Context, credential string, r gateway.Request) (gateway.TextFeedback, error)
	AnalyzeHandwriting(ctx context.Context, credential string, r gateway.Request) (gateway.HandwritingAnalysis, error)
	AnswerQuestion(ctx context.Context, credential string, r gateway.Request, question string) (gateway.Answer, error)
}

// CredentialSource reports the configured provider credential.
type CredentialSource interface {
	Get(ctx context.Context) (string, bool, error)
}

// Outcome is what a finalized submission hands back to the caller.
type Outcome struct {
	Record      store.SessionRecord `json:"record"`
	Evaluations []EvaluationResult  `json:"evaluations"`
	Narrative   []string            `json:"narrative"`
	Summary     string              `json:"summary"`

	// FeedbackDelay is how long the caller should wait before showing
	// the summary, from the settings snapshot.
	FeedbackDelay time.Duration `json:"feedbackDelay"`
}

// State is a copy of the orchestrator state for display.
type State struct {
	User       string   `json:"user"`
	Phase      Phase    `json:"phase"`
	Target     *Target  `json:"target,omitempty"`
	Attempt    *Attempt `json:"attempt,omitempty"`
	HasCapture bool     `json:"hasCapture"`
	Narrative  []string `json:"narrative"`
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithScorer sets the pseudo-score range.
func WithScorer(s PseudoScorer) Option {
	return func(o *Orchestrator) { o.scorer = s }
}

// WithRand sets the source used to pick offline answers.
func WithRand(r *rand.Rand) Option {
	return func(o *Orchestrator) { o.rng = r }
}

// OnFinalize registers a callback that receives every stored record.
func OnFinalize(fn func(store.SessionRecord)) Option {
	return func(o *Orchestrator) { o.listeners = append(o.listeners, fn) }
}

// Orchestrator owns the practice state of one user. It is safe for
// concurrent use; Submit and Ask release the lock while AI calls run.
type Orchestrator struct {
	user      string
	caps      Capabilities
	creds     CredentialSource
	sessions  store.SessionRepo
	logger    *zap.Logger
	now       func() time.Time
	scorer    PseudoScorer
	listeners []func(store.SessionRecord)

	mu        sync.Mutex
	rng       *rand.Rand
	phase     Phase
	target    *Target
	selection uint64
	attempt   *Attempt
	attempts  int
	since     time.Time
	log       []string
}

// New creates an orchestrator for user. An empty user may practice and
// ask questions but cannot submit.
func New(user string, caps Capabilities, creds CredentialSource, sessions store.SessionRepo, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		user:     user,
		caps:     caps,
		creds:    creds,
		sessions: sessions,
		logger:   zap.NewNop(),
		now:      time.Now,
		scorer:   DefaultScorer(),
		rng:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.With(zap.String("user", user))
	return o
}

// User returns the user this orchestrator records sessions for.
func (o *Orchestrator) User() string { return o.user }

// Select makes character the practice target. Any attempt in progress is
// discarded and the narrative log starts over.
func (o *Orchestrator) Select(language, character string, level characters.Difficulty) (Target, error) {
	character = strings.TrimSpace(character)
	if character == "" {
		return Target{}, ErrNoCharacter
	}
	if level == "" {
		level = characters.Beginner
	}
	t := lookupTarget(language, character, level)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.target = &t
	o.selection++
	o.resetAttempt()
	o.log = nil
	return t, nil
}

// LoadTips seeds the narrative log with tips for the selected character.
// Without a credential the tips come from the reference data.
func (o *Orchestrator) LoadTips(ctx context.Context, ai settings.AI) ([]string, error) {
	o.mu.Lock()
	if o.target == nil {
		o.mu.Unlock()
		return nil, ErrNoCharacter
	}
	t, sel := *o.target, o.selection
	o.mu.Unlock()

	var tips []string
	if key, ok := o.credential(ctx); !ok {
		tips = cannedTips(t)
	} else {
		fb, err := o.caps.GenerateTextFeedback(ctx, key, o.request(t, ai.Persona, ai.ModelType))
		if err != nil {
			o.logger.Warn("load AI tips", zap.String("character", t.Character), zap.Error(err))
			tips = tipsUnavailable(t)
		} else {
			tips = []string{fb.Text}
		}
	}

	o.mu.Lock()
	if o.selection == sel {
		o.log = append([]string(nil), tips...)
	}
	o.mu.Unlock()
	return tips, nil
}

// Begin starts a new attempt, or returns the attempt already being drawn.
// Beginning while a submission is evaluating replaces that attempt.
func (o *Orchestrator) Begin() (Attempt, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.target == nil {
		return Attempt{}, ErrNoCharacter
	}
	if o.phase == PhaseDrawing && o.attempt != nil {
		return *o.attempt.clone(), nil
	}

	now := o.now()
	if o.attempts == 0 {
		o.since = now
	}
	o.attempts++
	o.attempt = &Attempt{ID: uuid.NewString(), Target: *o.target, StartedAt: now}
	o.phase = PhaseDrawing
	return *o.attempt.clone(), nil
}

// Capture stores the current drawing. Later captures replace earlier ones.
func (o *Orchestrator) Capture(img llm.Image) error {
	if img.MIMEType == "" {
		img.MIMEType = "image/png"
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.phase != PhaseDrawing || o.attempt == nil {
		return fmt.Errorf("capture while %s: %w", o.phase, ErrInvalidTransition)
	}
	o.attempt.Capture = &llm.Image{MIMEType: img.MIMEType, Data: append([]byte(nil), img.Data...)}
	return nil
}

// Clear discards the current attempt without writing a record. Results of
// a submission still in flight are dropped when they arrive.
func (o *Orchestrator) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.attempt = nil
	o.phase = PhaseIdle
}

// Submit evaluates the current attempt with the settings snapshot ai and
// stores exactly one record for it. AI failures are reported through the
// outcome, not as errors.
func (o *Orchestrator) Submit(ctx context.Context, ai settings.AI) (*Outcome, error) {
	if o.user == "" {
		return nil, ErrNoUser
	}

	o.mu.Lock()
	if o.phase != PhaseDrawing || o.attempt == nil {
		phase := o.phase
		o.mu.Unlock()
		return nil, fmt.Errorf("submit while %s: %w", phase, ErrInvalidTransition)
	}
	o.phase = PhaseSubmitted
	attempt := o.attempt.clone()
	attempts, since := o.attempts, o.since
	o.mu.Unlock()

	key, hasKey := o.credential(ctx)
	plan := PlanFor(hasKey, ai)

	o.mu.Lock()
	if !o.current(attempt.ID) {
		o.mu.Unlock()
		return nil, o.stale(attempt)
	}
	o.phase = PhaseEvaluating
	o.mu.Unlock()

	results := o.evaluate(ctx, key, plan, attempt, ai)
	verdict := Merge(results, o.scorer.Score(attempt.ID))

	o.mu.Lock()
	if !o.current(attempt.ID) {
		o.mu.Unlock()
		return nil, o.stale(attempt)
	}

	now := o.now()
	rec := store.SessionRecord{
		ID:              uuid.NewString(),
		UserID:          o.user,
		Language:        attempt.Target.Language,
		Character:       attempt.Target.Character,
		Level:           string(attempt.Target.Level),
		Score:           verdict.Score,
		ScoreSource:     verdict.Source,
		Model:           verdict.Model,
		CreatedAt:       now,
		DurationSeconds: max(int(now.Sub(since)/time.Second), 0),
		Attempts:        max(attempts, 1),
	}
	if err := o.sessions.Append(context.WithoutCancel(ctx), &rec); err != nil {
		o.phase = PhaseDrawing
		o.mu.Unlock()
		return nil, fmt.Errorf("save practice session: %w", err)
	}

	entries, keep := submissionEntries(results)
	prev := o.log
	if keep >= 0 && len(prev) > keep {
		prev = prev[:keep]
	}
	o.log = append(entries, prev...)
	narrative := append([]string(nil), o.log...)
	o.resetAttempt()
	o.phase = PhaseFinalized
	o.mu.Unlock()

	finalizedTotal.WithLabelValues(rec.ScoreSource).Inc()
	o.logger.Info("practice session finalized",
		zap.String("session_id", rec.ID),
		zap.String("character", rec.Character),
		zap.Int("score", rec.Score),
		zap.String("score_source", rec.ScoreSource),
		zap.Int("ai_calls", len(results)),
	)
	for _, fn := range o.listeners {
		fn(rec)
	}

	return &Outcome{
		Record:        rec,
		Evaluations:   results,
		Narrative:     narrative,
		Summary:       summaryText(verdict, results),
		FeedbackDelay: ai.FeedbackDelay(),
	}, nil
}

// Ask answers a question about the selected character and appends the
// exchange to the narrative log. It never touches the current attempt.
func (o *Orchestrator) Ask(ctx context.Context, question string, ai settings.AI) ([]string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	o.mu.Lock()
	var t Target
	if o.target != nil {
		t = *o.target
	}
	sel := o.selection
	o.mu.Unlock()

	entries := []string{"Q: " + question}
	if key, ok := o.credential(ctx); !ok {
		o.mu.Lock()
		entries = append(entries, "A: "+cannedAnswer(t, o.rng))
		o.mu.Unlock()
	} else {
		ans, err := o.caps.AnswerQuestion(ctx, key, o.request(t, ai.Persona, ai.ModelType), question)
		if err != nil {
			res := failedResult(CapabilityQA, err)
			observeEvaluation(res)
			o.logger.Warn("answer question", zap.Error(err))
			entries = append(entries, answerFailedEntry, failureEntry(res))
		} else {
			observeEvaluation(EvaluationResult{Capability: CapabilityQA, Succeeded: true})
			entries = append(entries, "🤖 "+ans.Text)
		}
	}

	o.mu.Lock()
	if o.selection == sel {
		o.log = append(o.log, entries...)
	}
	o.mu.Unlock()
	return entries, nil
}

// Narrative returns a copy of the running narrative log.
func (o *Orchestrator) Narrative() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.log...)
}

// State returns a snapshot of the orchestrator.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	s := State{
		User:      o.user,
		Phase:     o.phase,
		Narrative: append([]string(nil), o.log...),
	}
	if o.target != nil {
		t := *o.target
		s.Target = &t
	}
	if o.attempt != nil {
		s.Attempt = o.attempt.clone()
		s.HasCapture = o.attempt.HasCapture()
	}
	return s
}

func (o *Orchestrator) evaluate(ctx context.Context, key string, plan Plan, a *Attempt, ai settings.AI) []EvaluationResult {
	if plan.Empty() {
		return nil
	}

	var (
		g      errgroup.Group
		text   *EvaluationResult
		vision *EvaluationResult
	)
	if plan.Text {
		g.Go(func() error {
			r := o.request(a.Target, ai.Persona, ai.ModelType)
			fb, err := o.caps.GenerateTextFeedback(ctx, key, r)
			res := textResult(fb)
			if err != nil {
				res = failedResult(CapabilityText, err)
			}
			text = &res
			return nil
		})
	}
	if plan.Vision {
		g.Go(func() error {
			r := o.request(a.Target, ai.Persona, ai.VisionModel)
			r.Image = a.Capture
			analysis, err := o.caps.AnalyzeHandwriting(ctx, key, r)
			res := visionResult(analysis)
			if err != nil {
				res = failedResult(CapabilityVision, err)
			}
			vision = &res
			return nil
		})
	}
	_ = g.Wait()

	var out []EvaluationResult
	for _, r := range []*EvaluationResult{vision, text} {
		if r == nil {
			continue
		}
		observeEvaluation(*r)
		if !r.Succeeded {
			o.logger.Warn("evaluation failed",
				zap.String("capability", string(r.Capability)),
				zap.String("kind", string(r.ErrorKind)),
				zap.String("reason", r.ErrorReason),
			)
		}
		out = append(out, *r)
	}
	return out
}

func (o *Orchestrator) request(t Target, persona gateway.Persona, model string) gateway.Request {
	return gateway.Request{
		Character: t.Character,
		Language:  t.Language,
		Level:     string(t.Level),
		Persona:   persona,
		Model:     model,
	}
}

func (o *Orchestrator) credential(ctx context.Context) (string, bool) {
	if o.creds == nil {
		return "", false
	}
	key, ok, err := o.creds.Get(ctx)
	if err != nil {
		o.logger.Warn("read credential", zap.Error(err))
		return "", false
	}
	return key, ok && key != ""
}

// current reports whether id is still the live attempt. Callers hold mu.
func (o *Orchestrator) current(id string) bool {
	return o.attempt != nil && o.attempt.ID == id
}

func (o *Orchestrator) stale(a *Attempt) error {
	staleTotal.Inc()
	o.logger.Info("discarding results of replaced attempt", zap.String("attempt_id", a.ID))
	return ErrStale
}

// resetAttempt drops the attempt and its counters. Callers hold mu.
func (o *Orchestrator) resetAttempt() {
	o.attempt = nil
	o.attempts = 0
	o.since = time.Time{}
	o.phase = PhaseIdle
}
