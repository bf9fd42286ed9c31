// Package settings holds the user-editable AI settings and practice
// preferences. Values only change through explicit update actions and are
// handed out as copies.
package settings

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/importJL/GlyphWrAIte/internal/catalog"
	"github.com/importJL/GlyphWrAIte/internal/characters"
	"github.com/importJL/GlyphWrAIte/internal/gateway"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid settings")

// AI is the AI settings snapshot read at the start of each evaluation.
type AI struct {
	ModelType          string          `json:"modelType" toml:"model_type"`
	VisionModel        string          `json:"visionModel" toml:"vision_model"`
	AudioModel         string          `json:"audioModel" toml:"audio_model"`
	Persona            gateway.Persona `json:"persona" toml:"persona"`
	AudioAssisted      bool            `json:"audioAssisted" toml:"audio_assisted"`
	VideoAssisted      bool            `json:"videoAssisted" toml:"video_assisted"`
	RealTimeCorrection bool            `json:"realTimeCorrection" toml:"real_time_correction"`
	FeedbackDelayMs    int             `json:"feedbackDelay" toml:"feedback_delay_ms"`
}

// DefaultAI returns the built-in defaults.
func DefaultAI() AI {
	return AI{
		ModelType:          "anthropic/claude-3.5-sonnet",
		VisionModel:        catalog.VisionAllowList[0],
		AudioModel:         "openai/whisper-1",
		Persona:            gateway.PersonaEncouraging,
		RealTimeCorrection: true,
		FeedbackDelayMs:    1000,
	}
}

// FeedbackDelay returns the configured delay as a duration.
func (a AI) FeedbackDelay() time.Duration {
	return time.Duration(a.FeedbackDelayMs) * time.Millisecond
}

// VisionEnabled reports whether submissions go through vision scoring.
func (a AI) VisionEnabled() bool { return a.VideoAssisted }

// Validate checks every field that an update may set.
func (a AI) Validate() error {
	var errs []error
	if a.ModelType == "" {
		errs = append(errs, errors.New("model type is required"))
	}
	if !a.Persona.Valid() {
		errs = append(errs, fmt.Errorf("unknown persona %q", a.Persona))
	}
	if !catalog.IsVisionAllowed(a.VisionModel) {
		errs = append(errs, fmt.Errorf("vision model %q is not supported", a.VisionModel))
	}
	if a.FeedbackDelayMs < 0 {
		errs = append(errs, errors.New("feedback delay must not be negative"))
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalid}, errs...)...)
	}
	return nil
}

// AIUpdate is a partial update; nil fields are left unchanged.
type AIUpdate struct {
	ModelType          *string          `json:"modelType,omitempty"`
	VisionModel        *string          `json:"visionModel,omitempty"`
	AudioModel         *string          `json:"audioModel,omitempty"`
	Persona            *gateway.Persona `json:"persona,omitempty"`
	AudioAssisted      *bool            `json:"audioAssisted,omitempty"`
	VideoAssisted      *bool            `json:"videoAssisted,omitempty"`
	RealTimeCorrection *bool            `json:"realTimeCorrection,omitempty"`
	FeedbackDelayMs    *int             `json:"feedbackDelay,omitempty"`
}

// Apply returns a copy of a with u applied, or an error if the result is
// invalid. a itself is never modified.
func (a AI) Apply(u AIUpdate) (AI, error) {
	next := a
	set(&next.ModelType, u.ModelType)
	set(&next.VisionModel, u.VisionModel)
	set(&next.AudioModel, u.AudioModel)
	set(&next.Persona, u.Persona)
	set(&next.AudioAssisted, u.AudioAssisted)
	set(&next.VideoAssisted, u.VideoAssisted)
	set(&next.RealTimeCorrection, u.RealTimeCorrection)
	set(&next.FeedbackDelayMs, u.FeedbackDelayMs)
	if err := next.Validate(); err != nil {
		return a, err
	}
	return next, nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Preferences are the general practice preferences of a user.
type Preferences struct {
	Language string                `json:"language"`
	Level    characters.Difficulty `json:"level"`
}

// DefaultPreferences starts new users on beginner English.
func DefaultPreferences() Preferences {
	return Preferences{Language: "english", Level: characters.Beginner}
}

// Validate checks the language exists in the reference data and the
// level is known.
func (p Preferences) Validate() error {
	switch {
	case !slices.Contains(characters.Languages(), p.Language):
		return fmt.Errorf("%w: unknown language %q", ErrInvalid, p.Language)
	case !p.Level.Valid():
		return fmt.Errorf("%w: unknown level %q", ErrInvalid, p.Level)
	}
	return nil
}
