package catalog

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/importJL/GlyphWrAIte/internal/gateway"
	"github.com/importJL/GlyphWrAIte/internal/llm"
)

// Catalog holds the most recently fetched model list. Readers always see
// either the previous set or the new one, never a mix.
type Catalog struct {
	fetcher *fetcher
	logger  *zap.Logger

	mu        sync.RWMutex
	models    map[Capability][]ModelDescriptor
	fetchedAt time.Time
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithBaseURL points the catalog at an OpenRouter-compatible API root.
func WithBaseURL(url string) Option {
	return func(c *Catalog) { c.fetcher.baseURL = url }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *zap.Logger) Option {
	return func(c *Catalog) { c.logger = l }
}

// New creates a catalog that serves the static fallback until the first
// successful Refresh.
func New(opts ...Option) *Catalog {
	c := &Catalog{
		fetcher: newFetcher(llm.DefaultOpenRouterBaseURL),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Refresh fetches the live model list with the given credential. On
// success the whole held set is replaced; on failure it is kept. An empty
// credential is an AuthError and changes nothing.
func (c *Catalog) Refresh(ctx context.Context, credential string) error {
	if credential == "" {
		refreshTotal.WithLabelValues(string(gateway.KindAuth)).Inc()
		return gateway.NewFailure(gateway.KindAuth, "OpenRouter API key not configured", gateway.ErrNoCredential)
	}

	raw, err := c.fetcher.fetch(ctx, credential)
	if err != nil {
		kind, _ := gateway.KindOf(err)
		refreshTotal.WithLabelValues(string(kind)).Inc()
		c.logger.Warn("model catalog refresh failed, keeping previous list", zap.Error(err))
		return err
	}

	grouped := partition(raw)
	c.mu.Lock()
	c.models = grouped
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	refreshTotal.WithLabelValues("ok").Inc()
	for _, capability := range Capabilities {
		modelsOffered.WithLabelValues(string(capability)).Set(float64(len(grouped[capability])))
	}
	c.logger.Info("model catalog refreshed",
		zap.Int("fetched", len(raw)),
		zap.Int("text", len(grouped[Text])),
		zap.Int("vision", len(grouped[Vision])),
		zap.Int("audio", len(grouped[Audio])))
	return nil
}

// List returns the offered models of one capability, cheapest first.
// A capability with no live entries falls back to the static list.
func (c *Catalog) List(capability Capability) []ModelDescriptor {
	c.mu.RLock()
	live := c.models[capability]
	c.mu.RUnlock()

	if len(live) == 0 {
		return Fallback(capability)
	}
	return append([]ModelDescriptor(nil), live...)
}

// Lookup finds a model by id among the offered models of any capability.
func (c *Catalog) Lookup(id string) (ModelDescriptor, bool) {
	for _, capability := range Capabilities {
		for _, m := range c.List(capability) {
			if m.ID == id {
				return m, true
			}
		}
	}
	return ModelDescriptor{}, false
}

// Reset drops the live list, e.g. after the credential is cleared.
func (c *Catalog) Reset() {
	c.mu.Lock()
	c.models = nil
	c.fetchedAt = time.Time{}
	c.mu.Unlock()
}

// FetchedAt reports when the live list was last replaced. Zero means the
// catalog is serving the fallback.
func (c *Catalog) FetchedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetchedAt
}
