package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/importJL/GlyphWrAIte/internal/gateway"
	"github.com/importJL/GlyphWrAIte/internal/llm"
	"github.com/importJL/GlyphWrAIte/internal/session"
	"github.com/importJL/GlyphWrAIte/internal/settings"
)

// Defaults for the sections that have no other home.
const (
	DefaultRefreshSpec = "@every 6h"
	DefaultServerAddr  = "127.0.0.1:8080"
)

// Config is the resolved configuration.
type Config struct {
	AI       settings.AI
	LLM      llm.Config
	Limits   gateway.Limits
	Catalog  Catalog
	Server   Server
	Practice Practice
}

// Catalog configures the model catalog.
type Catalog struct {
	BaseURL string
	Refresh string
}

// Server configures the HTTP API.
type Server struct {
	Addr           string
	AllowedOrigins []string
}

// Practice holds the pseudo-score range.
type Practice struct {
	Scorer session.PseudoScorer
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		AI:  settings.DefaultAI(),
		LLM:    llm.DefaultConfig(),
		Limits: gateway.DefaultLimits(),
		Catalog: Catalog{
			BaseURL: llm.DefaultOpenRouterBaseURL,
			Refresh: DefaultRefreshSpec,
		},
		Server: Server{
			Addr:           DefaultServerAddr,
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Practice: Practice{Scorer: session.DefaultScorer()},
	}
}

// Load reads the config file at path and resolves it over the defaults,
// then applies the GLYPHWRITE_* environment.
func Load(path string) (Config, error) {
	file, err := LoadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Resolve(file)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.LLM = llm.ConfigFromEnv(cfg.LLM)
	if file.Catalog.BaseURL == nil {
		cfg.Catalog.BaseURL = cfg.LLM.OpenRouter.BaseURL
	}
	return cfg, nil
}

// Resolve layers file over Default and validates the result.
func Resolve(file FileConfig) (Config, error) {
	cfg := Default()

	ai := file.AI
	set(&cfg.AI.ModelType, ai.ModelType)
	set(&cfg.AI.VisionModel, ai.VisionModel)
	set(&cfg.AI.AudioModel, ai.AudioModel)
	if ai.Persona != nil {
		cfg.AI.Persona = gateway.Persona(*ai.Persona)
	}
	set(&cfg.AI.AudioAssisted, ai.AudioAssisted)
	set(&cfg.AI.VideoAssisted, ai.VideoAssisted)
	set(&cfg.AI.RealTimeCorrection, ai.RealTimeCorrection)
	set(&cfg.AI.FeedbackDelayMs, ai.FeedbackDelayMs)
	if err := cfg.AI.Validate(); err != nil {
		return Config{}, fmt.Errorf("[ai]: %w", err)
	}

	l := file.LLM
	if l.Provider != nil {
		cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(*l.Provider))
	}
	if l.Model != nil {
		cfg.LLM.OpenRouter.Model = *l.Model
	}
	if l.BaseURL != nil {
		cfg.LLM.OpenRouter.BaseURL = *l.BaseURL
	}
	set(&cfg.LLM.OpenRouter.Referer, l.Referer)
	if l.Timeout != nil {
		d, err := time.ParseDuration(*l.Timeout)
		if err != nil || d < 0 {
			return Config{}, fmt.Errorf("[llm] timeout %q: must be a non-negative duration", *l.Timeout)
		}
		cfg.LLM.Timeout = d
	}
	set(&cfg.Limits.FeedbackMaxTokens, l.FeedbackMaxTokens)
	set(&cfg.Limits.VisionMaxTokens, l.VisionMaxTokens)
	set(&cfg.Limits.AnswerMaxTokens, l.AnswerMaxTokens)
	set(&cfg.Limits.Temperature, l.Temperature)
	if err := cfg.Limits.Validate(); err != nil {
		return Config{}, fmt.Errorf("[llm]: %w", err)
	}

	cfg.Catalog.BaseURL = cfg.LLM.OpenRouter.BaseURL
	set(&cfg.Catalog.BaseURL, file.Catalog.BaseURL)
	set(&cfg.Catalog.Refresh, file.Catalog.Refresh)

	set(&cfg.Server.Addr, file.Server.Addr)
	if file.Server.AllowedOrigins != nil {
		cfg.Server.AllowedOrigins = file.Server.AllowedOrigins
	}

	p := file.Practice
	set(&cfg.Practice.Scorer.Min, p.MinScore)
	set(&cfg.Practice.Scorer.Max, p.MaxScore)
	if s := cfg.Practice.Scorer; s.Min < 0 || s.Max > 100 || s.Min > s.Max {
		return Config{}, fmt.Errorf("[practice] score range %d-%d must satisfy 0 <= min <= max <= 100", s.Min, s.Max)
	}

	return cfg, nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
