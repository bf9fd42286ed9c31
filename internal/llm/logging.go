package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/importJL/GlyphWrAIte/internal/store"
)

// WithLogging wraps p so every request is appended to repo as an LLM
// request event labelled with providerName and the context's purpose.
func WithLogging(p Provider, providerName string, repo store.EventRepo) Provider {
	return &recorder{inner: p, provider: providerName, repo: repo}
}

type recorder struct {
	inner    Provider
	provider string
	repo     store.EventRepo
}

func (l *recorder) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	ev := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       modelFor(req, l.inner.ModelID()),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	if resp != nil {
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
		if resp.Model != "" {
			ev.Model = resp.Model
		}
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}

	zap.L().Debug("llm request",
		zap.String("purpose", ev.Purpose),
		zap.String("model", ev.Model),
		zap.Int64("latency_ms", ev.LatencyMs),
		zap.Bool("success", ev.Success))

	// The caller gets its reply even if the event cannot be stored.
	if logErr := l.repo.AppendLLMRequest(context.WithoutCancel(ctx), ev); logErr != nil {
		zap.L().Warn("record LLM request event",
			zap.String("purpose", ev.Purpose),
			zap.String("model", ev.Model),
			zap.Error(logErr))
	}
	return resp, err
}

func (l *recorder) ModelID() string {
	return l.inner.ModelID()
}

// transcript renders req for the event log. Images appear as a size
// summary, never as bytes.
func transcript(req Request) string {
	var b strings.Builder
	section := func(label, body string) {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", label, body)
	}

	if req.Model != "" {
		fmt.Fprintf(&b, "[model: %s]\n\n", req.Model)
	}
	if req.System != "" {
		section("system", req.System)
	}
	for _, m := range req.Messages {
		body := m.Content
		for _, img := range m.Images {
			body = fmt.Sprintf("[image: %s, %d bytes]\n", img.MIMEType, len(img.Data)) + body
		}
		section(string(m.Role), body)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			section("schema: "+req.Schema.Name, string(def))
		}
	}
	return b.String()
}
