package settings

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/importJL/GlyphWrAIte/internal/store"
)

// Service persists settings per user in the key-value table. A user with
// nothing stored sees the configured defaults.
type Service struct {
	kv       store.KVRepo
	defaults AI
}

// NewService creates a Service. defaults is usually DefaultAI overlaid
// with the [ai] section of the config file.
func NewService(kv store.KVRepo, defaults AI) *Service {
	return &Service{kv: kv, defaults: defaults}
}

func aiKey(user string) string    { return "ai_settings/" + user }
func prefsKey(user string) string { return "practice_prefs/" + user }

// AI returns the user's AI settings.
func (s *Service) AI(ctx context.Context, user string) (AI, error) {
	out := s.defaults
	if err := s.load(ctx, aiKey(user), &out); err != nil {
		return s.defaults, err
	}
	return out, nil
}

// UpdateAI applies u and stores the result. Invalid updates change nothing.
func (s *Service) UpdateAI(ctx context.Context, user string, u AIUpdate) (AI, error) {
	cur, err := s.AI(ctx, user)
	if err != nil {
		return cur, err
	}
	next, err := cur.Apply(u)
	if err != nil {
		return cur, err
	}
	if err := s.save(ctx, aiKey(user), next); err != nil {
		return cur, err
	}
	return next, nil
}

// ResetAI restores the defaults for the user.
func (s *Service) ResetAI(ctx context.Context, user string) (AI, error) {
	if err := s.kv.Delete(ctx, aiKey(user)); err != nil {
		return s.defaults, fmt.Errorf("reset AI settings: %w", err)
	}
	return s.defaults, nil
}

// Preferences returns the user's practice preferences.
func (s *Service) Preferences(ctx context.Context, user string) (Preferences, error) {
	out := DefaultPreferences()
	if err := s.load(ctx, prefsKey(user), &out); err != nil {
		return DefaultPreferences(), err
	}
	return out, nil
}

// SetPreferences validates and stores p.
func (s *Service) SetPreferences(ctx context.Context, user string, p Preferences) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return s.save(ctx, prefsKey(user), p)
}

// Clear removes everything stored for the user.
func (s *Service) Clear(ctx context.Context, user string) error {
	for _, k := range []string{aiKey(user), prefsKey(user)} {
		if err := s.kv.Delete(ctx, k); err != nil {
			return fmt.Errorf("clear settings: %w", err)
		}
	}
	return nil
}

func (s *Service) load(ctx context.Context, key string, into any) error {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), into); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (s *Service) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
