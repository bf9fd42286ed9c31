package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/importJL/GlyphWrAIte/internal/catalog"
	"github.com/importJL/GlyphWrAIte/internal/gateway"
	"github.com/importJL/GlyphWrAIte/internal/session"
)

// refresher keeps the model catalog current in the background.
type refresher struct {
	catalog *catalog.Catalog
	creds   session.CredentialSource
	logger  *zap.Logger
	timeout time.Duration
}

func newRefresher(c *catalog.Catalog, creds session.CredentialSource, l *zap.Logger) *refresher {
	return &refresher{catalog: c, creds: creds, logger: l, timeout: 30 * time.Second}
}

// schedule starts a cron runner for spec and returns its stop function.
func (r *refresher) schedule(spec string) (func(), error) {
	c := cron.New()
	if _, err := c.AddJob(spec, r); err != nil {
		return nil, fmt.Errorf("catalog refresh schedule %q: %w", spec, err)
	}
	c.Start()
	return func() { <-c.Stop().Done() }, nil
}

// run does one refresh right away so the first request sees live models.
func (r *refresher) run(ctx context.Context) {
	r.refresh(ctx)
}

// Run implements cron.Job.
func (r *refresher) Run() {
	r.refresh(context.Background())
}

func (r *refresher) refresh(ctx context.Context) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	key, ok, err := r.creds.Get(ctx)
	if err != nil {
		r.logger.Error("catalog refresh: read credential", zap.Error(err))
		return
	}
	if !ok {
		if !r.catalog.FetchedAt().IsZero() {
			r.logger.Info("credential gone, serving fallback models")
			r.catalog.Reset()
		}
		return
	}
	if err := r.catalog.Refresh(ctx, key); err != nil {
		var f *gateway.Failure
		if errors.As(err, &f) && f.Kind == gateway.KindAuth {
			r.logger.Warn("catalog refresh rejected", zap.String("reason", f.Reason))
			return
		}
		r.logger.Error("catalog refresh failed", zap.Error(err))
		return
	}
	r.logger.Debug("catalog refresh done", zap.Duration("took", time.Since(start)))
}
