// Package config loads the optional TOML config file and layers it over
// the built-in defaults and under the environment.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file. Unset keys are nil
// and keep their defaults.
type FileConfig struct {
	AI       AISection       `toml:"ai"`
	LLM      LLMSection      `toml:"llm"`
	Catalog  CatalogSection  `toml:"catalog"`
	Server   ServerSection   `toml:"server"`
	Practice PracticeSection `toml:"practice"`
}

// AISection holds the default AI settings for users without saved ones.
type AISection struct {
	ModelType          *string `toml:"model_type"`
	VisionModel        *string `toml:"vision_model"`
	AudioModel         *string `toml:"audio_model"`
	Persona            *string `toml:"persona"`
	AudioAssisted      *bool   `toml:"audio_assisted"`
	VideoAssisted      *bool   `toml:"video_assisted"`
	RealTimeCorrection *bool   `toml:"real_time_correction"`
	FeedbackDelayMs    *int    `toml:"feedback_delay_ms"`
}

// LLMSection selects the provider and bounds each generation.
type LLMSection struct {
	Provider *string `toml:"provider"`
	Model    *string `toml:"model"`
	BaseURL  *string `toml:"base_url"`
	Timeout  *string `toml:"timeout"`
	Referer  *string `toml:"referer"`

	FeedbackMaxTokens *int     `toml:"feedback_max_tokens"`
	VisionMaxTokens   *int     `toml:"vision_max_tokens"`
	AnswerMaxTokens   *int     `toml:"answer_max_tokens"`
	Temperature       *float64 `toml:"temperature"`
}

// CatalogSection configures the model catalog.
type CatalogSection struct {
	BaseURL *string `toml:"base_url"`
	Refresh *string `toml:"refresh"`
}

// ServerSection configures `glyphwrite serve`.
type ServerSection struct {
	Addr           *string  `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// PracticeSection tunes scoring.
type PracticeSection struct {
	MinScore *int `toml:"min_score"`
	MaxScore *int `toml:"max_score"`
}

// LoadFile reads a TOML config from path. A missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, errors.New("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("decode config: %w", err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return FileConfig{}, fmt.Errorf("decode config: unknown key %q", undec[0].String())
	}
	return cfg, nil
}
