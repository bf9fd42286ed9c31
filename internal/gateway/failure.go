package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/importJL/GlyphWrAIte/internal/llm"
)

// Kind classifies why a capability call failed.
type Kind string

const (
	KindAuth             Kind = "AuthError"
	KindNetwork          Kind = "NetworkError"
	KindProviderResponse Kind = "ProviderResponseError"
)

// Failure is the typed error every gateway operation returns. Reason is
// short and human readable; it is shown to the learner verbatim.
type Failure struct {
	Kind   Kind
	Reason string
	Err    error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Reason, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Reason)
}

func (f *Failure) Unwrap() error { return f.Err }

// NewFailure builds a Failure of the given kind.
func NewFailure(kind Kind, reason string, err error) *Failure {
	return &Failure{Kind: kind, Reason: reason, Err: err}
}

// ErrNoCredential is wrapped by the AuthError returned when no API key is
// configured.
var ErrNoCredential = errors.New("no API key configured")

func noCredential() *Failure {
	return NewFailure(KindAuth, "OpenRouter API key not configured", ErrNoCredential)
}

// Classify maps an error from the llm layer onto a Failure.
func Classify(err error) *Failure {
	if err == nil {
		return nil
	}

	var f *Failure
	if errors.As(err, &f) {
		return f
	}

	var authErr *llm.ErrAuth
	if errors.As(err, &authErr) {
		reason := "API key rejected - check your API key in settings"
		if authErr.StatusCode == 0 {
			reason = "OpenRouter API key not configured"
		}
		return NewFailure(KindAuth, reason, err)
	}

	var invalid *llm.ErrInvalidResponse
	var maxTok *llm.ErrMaxTokensExceeded
	if errors.As(err, &invalid) || errors.As(err, &maxTok) {
		return NewFailure(KindProviderResponse, "unexpected response from the AI provider", err)
	}

	var rl *llm.ErrRateLimit
	if errors.As(err, &rl) {
		return NewFailure(KindNetwork, "rate limited by the AI provider - try again shortly", err)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return NewFailure(KindNetwork, "request cancelled or timed out", err)
	}

	return NewFailure(KindNetwork, "could not reach the AI provider", err)
}

// KindOf reports the Kind of err when it is, or wraps, a Failure.
func KindOf(err error) (Kind, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind, true
	}
	return "", false
}
