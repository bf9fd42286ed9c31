package llm

import (
	"context"
	"time"
)

// WithTimeout wraps p so every request is cancelled after d.
func WithTimeout(p Provider, d time.Duration) Provider {
	return &deadline{inner: p, d: d}
}

type deadline struct {
	inner Provider
	d     time.Duration
}

func (t *deadline) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

func (t *deadline) ModelID() string {
	return t.inner.ModelID()
}
