// Package credential stores the OpenRouter API key.
package credential

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/importJL/GlyphWrAIte/internal/store"
)

// EnvVar overrides the stored key when set.
const EnvVar = "GLYPHWRITE_OPENROUTER_API_KEY"

const kvKey = "credential/openrouter_api_key"

// ErrEmptyKey is returned by Set for a blank key.
var ErrEmptyKey = errors.New("API key is empty")

// Source says where the active key came from.
type Source string

const (
	SourceNone   Source = ""
	SourceEnv    Source = "environment"
	SourceStored Source = "stored"
)

// Status summarizes the credential without revealing it.
type Status struct {
	HasKey bool   `json:"hasKey"`
	Source Source `json:"source,omitempty"`
	Masked string `json:"masked,omitempty"`
}

// Store reads and writes the key in the key-value table. The environment
// variable, when set, takes precedence and cannot be cleared from here.
type Store struct {
	kv     store.KVRepo
	getenv func(string) string
}

// NewStore creates a Store over kv.
func NewStore(kv store.KVRepo) *Store {
	return &Store{kv: kv, getenv: os.Getenv}
}

// Get returns the active key and whether one is configured.
func (s *Store) Get(ctx context.Context) (string, bool, error) {
	key, src, err := s.lookup(ctx)
	return key, src != SourceNone, err
}

func (s *Store) lookup(ctx context.Context) (string, Source, error) {
	if k := strings.TrimSpace(s.getenv(EnvVar)); k != "" {
		return k, SourceEnv, nil
	}
	k, ok, err := s.kv.Get(ctx, kvKey)
	if err != nil {
		return "", SourceNone, fmt.Errorf("read credential: %w", err)
	}
	if !ok || k == "" {
		return "", SourceNone, nil
	}
	return k, SourceStored, nil
}

// Set stores key, replacing any stored key.
func (s *Store) Set(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyKey
	}
	if err := s.kv.Set(ctx, kvKey, key); err != nil {
		return fmt.Errorf("store credential: %w", err)
	}
	return nil
}

// Clear removes the stored key.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, kvKey); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

// Status reports whether a key is configured and where it came from.
func (s *Store) Status(ctx context.Context) (Status, error) {
	key, src, err := s.lookup(ctx)
	if err != nil {
		return Status{}, err
	}
	if src == SourceNone {
		return Status{}, nil
	}
	return Status{HasKey: true, Source: src, Masked: Mask(key)}, nil
}

// Mask keeps the first and last four characters of a key.
func Mask(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
