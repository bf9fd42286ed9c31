package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/importJL/GlyphWrAIte/internal/llm"
	"github.com/importJL/GlyphWrAIte/internal/store"
)

func mockGateway(t *testing.T, responses ...llm.MockResponse) (*Gateway, *llm.MockProvider) {
	t.Helper()
	mock := llm.NewMockProvider(responses...)
	g := New(llm.DefaultConfig(), nil, WithProviderFactory(
		func(context.Context, llm.Config, store.EventRepo) (llm.Provider, error) { return mock, nil },
	))
	return g, mock
}

func practiceRequest() Request {
	return Request{
		Character: "A",
		Language:  "english",
		Level:     "beginner",
		Persona:   PersonaStrict,
		Model:     "anthropic/claude-3.5-sonnet",
	}
}

func TestNoCredentialIsAuthError(t *testing.T) {
	g, mock := mockGateway(t)
	ctx := context.Background()

	_, err := g.GenerateTextFeedback(ctx, "", practiceRequest())
	kind, _ := KindOf(err)
	assert.Equal(t, KindAuth, kind)
	assert.ErrorIs(t, err, ErrNoCredential)

	_, err = g.AnalyzeHandwriting(ctx, "", practiceRequest())
	kind, _ = KindOf(err)
	assert.Equal(t, KindAuth, kind)

	_, err = g.AnswerQuestion(ctx, "", practiceRequest(), "how?")
	kind, _ = KindOf(err)
	assert.Equal(t, KindAuth, kind)

	assert.Zero(t, mock.CallCount(), "no provider call without a credential")
}

func TestGenerateTextFeedback(t *testing.T) {
	g, mock := mockGateway(t, llm.MockResponse{Content: json.RawMessage("  Keep the apex sharp.  ")})

	fb, err := g.GenerateTextFeedback(context.Background(), "sk-or-test", practiceRequest())
	require.NoError(t, err)
	assert.Equal(t, "Keep the apex sharp.", fb.Text)
	assert.Equal(t, "anthropic/claude-3.5-sonnet", fb.Model)

	req, _ := mock.LastCall()
	assert.Equal(t, feedbackSystemPrompt, req.System)
	assert.Equal(t, "anthropic/claude-3.5-sonnet", req.Model)
	require.Len(t, req.Messages, 1)
	msg := req.Messages[0].Content
	assert.Contains(t, msg, `"A" in english at beginner level`)
	assert.Contains(t, msg, "Direct feedback, high standards, corrects mistakes immediately")
	assert.Nil(t, req.Schema)
}

func TestGenerateTextFeedback_EmptyReply(t *testing.T) {
	g, _ := mockGateway(t, llm.MockResponse{Content: json.RawMessage("   ")})
	_, err := g.GenerateTextFeedback(context.Background(), "sk-or-test", practiceRequest())
	kind, _ := KindOf(err)
	assert.Equal(t, KindProviderResponse, kind)
}

func TestAnalyzeHandwriting(t *testing.T) {
	g, mock := mockGateway(t, llm.MockResponse{Content: json.RawMessage(
		`{"model_guess":" A ","score":87,"grade":"B","feedback":"Good apex.","suggestions":["Level the crossbar"]}`,
	)})

	r := practiceRequest()
	r.Model = "qwen/qwen2.5-vl-32b-instruct:free"
	r.Image = &llm.Image{MIMEType: "image/png", Data: []byte("png-bytes")}

	a, err := g.AnalyzeHandwriting(context.Background(), "sk-or-test", r)
	require.NoError(t, err)
	assert.Equal(t, HandwritingAnalysis{
		Score:       87,
		ModelGuess:  "A",
		Grade:       "B",
		Feedback:    "Good apex.",
		Suggestions: []string{"Level the crossbar"},
		Model:       "qwen/qwen2.5-vl-32b-instruct:free",
	}, a)

	req, _ := mock.LastCall()
	assert.Equal(t, EvaluationSchema, req.Schema)
	require.Len(t, req.Messages[0].Images, 1)
	assert.Equal(t, "image/png", req.Messages[0].Images[0].MIMEType)
}

func TestAnalyzeHandwriting_Failures(t *testing.T) {
	img := &llm.Image{MIMEType: "image/png", Data: []byte("png")}
	tests := []struct {
		name  string
		resp  llm.MockResponse
		image *llm.Image
		want  Kind
	}{
		{"score out of range", llm.MockResponse{Content: json.RawMessage(`{"model_guess":"A","score":140,"grade":"A","feedback":"","suggestions":[]}`)}, img, KindProviderResponse},
		{"not json", llm.MockResponse{Content: json.RawMessage(`looks like an A`)}, img, KindProviderResponse},
		{"rejected key", llm.MockResponse{Err: &llm.ErrAuth{StatusCode: 401, Err: errors.New("unauthorized")}}, img, KindAuth},
		{"rate limited", llm.MockResponse{Err: &llm.ErrRateLimit{Err: errors.New("429")}}, img, KindNetwork},
		{"unreachable", llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("dial tcp")}}, img, KindNetwork},
		{"no capture", llm.MockResponse{}, nil, KindProviderResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := mockGateway(t, tt.resp)
			r := practiceRequest()
			r.Image = tt.image

			_, err := g.AnalyzeHandwriting(context.Background(), "sk-or-test", r)
			var f *Failure
			require.ErrorAs(t, err, &f)
			assert.Equal(t, tt.want, f.Kind)
			assert.NotEmpty(t, f.Reason)
		})
	}
}

func TestAnswerQuestion(t *testing.T) {
	g, mock := mockGateway(t, llm.MockResponse{Content: json.RawMessage("Start with the left diagonal.")})

	ans, err := g.AnswerQuestion(context.Background(), "sk-or-test", practiceRequest(), "Which stroke first?")
	require.NoError(t, err)
	assert.Equal(t, "Start with the left diagonal.", ans.Text)

	req, _ := mock.LastCall()
	assert.Equal(t, answerSystemPrompt, req.System)
	assert.True(t, strings.HasSuffix(req.Messages[0].Content, "Which stroke first?"))
}

func TestCallsRunInParallel(t *testing.T) {
	g, _ := mockGateway(t,
		llm.MockResponse{Content: json.RawMessage("one")},
		llm.MockResponse{Content: json.RawMessage("two")},
		llm.MockResponse{Content: json.RawMessage("three")},
	)

	var wg sync.WaitGroup
	errs := make(chan error, 3)
	for range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := g.GenerateTextFeedback(context.Background(), "sk-or-test", practiceRequest())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestOpenRouterUnauthorizedEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "No auth credentials found", "code": 401}})
	}))
	t.Cleanup(srv.Close)

	cfg := llm.DefaultConfig()
	cfg.OpenRouter.BaseURL = srv.URL
	g := New(cfg, nil)

	r := practiceRequest()
	r.Image = &llm.Image{MIMEType: "image/png", Data: []byte("png")}
	_, err := g.AnalyzeHandwriting(context.Background(), "sk-or-bad", r)

	var f *Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, KindAuth, f.Kind)
	assert.Contains(t, f.Reason, "API key")
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{&llm.ErrAuth{Err: errors.New("missing")}, KindAuth},
		{&llm.ErrMaxTokensExceeded{}, KindProviderResponse},
		{&llm.ErrInvalidResponse{Err: errors.New("bad")}, KindProviderResponse},
		{context.DeadlineExceeded, KindNetwork},
		{errors.New("connection reset"), KindNetwork},
		{NewFailure(KindAuth, "x", nil), KindAuth},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.err).Kind, "%v", tt.err)
	}
	assert.Nil(t, Classify(nil))
}

func TestPersona(t *testing.T) {
	assert.True(t, PersonaEncouraging.Valid())
	assert.False(t, Persona("sarcastic").Valid())
	assert.Equal(t, "Balanced approach, objective feedback, factual guidance", Persona("sarcastic").Description())
}

func TestWithLimits(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddText("Smooth strokes.")
	mock.AddText("Start at the top.")
	limits := Limits{FeedbackMaxTokens: 120, VisionMaxTokens: 300, AnswerMaxTokens: 80, Temperature: 0.1}
	require.NoError(t, limits.Validate())
	g := New(llm.DefaultConfig(), nil,
		WithLimits(limits),
		WithProviderFactory(func(context.Context, llm.Config, store.EventRepo) (llm.Provider, error) { return mock, nil }),
	)
	ctx := context.Background()

	_, err := g.GenerateTextFeedback(ctx, "sk-or-test", practiceRequest())
	require.NoError(t, err)
	_, err = g.AnswerQuestion(ctx, "sk-or-test", practiceRequest(), "where do I start?")
	require.NoError(t, err)

	reqs := mock.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, 120, reqs[0].MaxTokens)
	assert.Equal(t, 80, reqs[1].MaxTokens)
	assert.InDelta(t, 0.1, reqs[1].Temperature, 1e-9)

	assert.NoError(t, DefaultLimits().Validate())
	assert.Error(t, Limits{FeedbackMaxTokens: 1, VisionMaxTokens: 1, AnswerMaxTokens: 0}.Validate())
	assert.Error(t, Limits{FeedbackMaxTokens: 1, VisionMaxTokens: 1, AnswerMaxTokens: 1, Temperature: -1}.Validate())
}
