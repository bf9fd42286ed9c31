package session

import (
	"time"

	"github.com/importJL/GlyphWrAIte/internal/characters"
	"github.com/importJL/GlyphWrAIte/internal/llm"
)

// Target is the character currently selected for practice.
type Target struct {
	Language  string                `json:"language"`
	Character string                `json:"character"`
	Level     characters.Difficulty `json:"level"`

	// Info is absent for characters outside the reference data.
	Info *characters.Info `json:"info,omitempty"`
}

// Attempt is one in-memory drawing of the target. Its ID guards against
// merging results that arrive after the attempt was replaced.
type Attempt struct {
	ID        string     `json:"id"`
	Target    Target     `json:"target"`
	Capture   *llm.Image `json:"-"`
	StartedAt time.Time  `json:"startedAt"`
}

// HasCapture reports whether a drawing was captured.
func (a *Attempt) HasCapture() bool {
	return a.Capture != nil && len(a.Capture.Data) > 0
}

func (a *Attempt) clone() *Attempt {
	cp := *a
	if a.Capture != nil {
		img := *a.Capture
		cp.Capture = &img
	}
	return &cp
}
