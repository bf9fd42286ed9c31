package llm

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ErrAuth means the provider refused the credential, or there was none to
// send. Retrying with the same key cannot help.
type ErrAuth struct {
	StatusCode int // zero when no key was configured
	Err        error
}

func (e *ErrAuth) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("no usable credential: %v", e.Err)
	}
	return fmt.Sprintf("credential rejected (HTTP %d): %v", e.StatusCode, e.Err)
}

func (e *ErrAuth) Unwrap() error { return e.Err }

// ErrRateLimit means the provider answered 429.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	msg := "rate limited by provider"
	if e.RetryAfter > 0 {
		msg += fmt.Sprintf(" (retry in %s)", e.RetryAfter)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse covers replies that cannot be used: empty text, JSON
// that breaks the requested schema, or a request the provider refused as
// malformed.
type ErrInvalidResponse struct {
	StatusCode int
	Content    json.RawMessage
	Err        error
}

func (e *ErrInvalidResponse) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request refused (HTTP %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("unusable model reply: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded means a structured reply stopped at the token limit
// and its JSON is incomplete.
type ErrMaxTokensExceeded struct {
	Limit   int
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	if e.Limit > 0 {
		return fmt.Sprintf("model reply cut off at %d tokens", e.Limit)
	}
	return "model reply cut off at the token limit"
}

// ErrProviderUnavailable means the provider could not be reached or failed
// on its side.
type ErrProviderUnavailable struct {
	StatusCode int
	Err        error
}

func (e *ErrProviderUnavailable) Error() string {
	switch {
	case e.Err == nil:
		return "provider unavailable"
	case e.StatusCode != 0:
		return fmt.Sprintf("provider unavailable (HTTP %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("provider unavailable: %v", e.Err)
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// fromStatus classifies the HTTP status an SDK error carries. A zero code
// means the request never got an answer.
func fromStatus(code int, err error) error {
	switch {
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return &ErrAuth{StatusCode: code, Err: err}
	case code == http.StatusTooManyRequests:
		return &ErrRateLimit{Err: err}
	case code == http.StatusRequestTimeout:
		return &ErrProviderUnavailable{StatusCode: code, Err: err}
	case code >= 400 && code < 500:
		return &ErrInvalidResponse{StatusCode: code, Err: err}
	}
	return &ErrProviderUnavailable{StatusCode: code, Err: err}
}
