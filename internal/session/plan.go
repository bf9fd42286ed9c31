package session

import "github.com/importJL/GlyphWrAIte/internal/settings"

// Plan lists the capability calls made for one submission.
type Plan struct {
	Text   bool
	Vision bool
}

// PlanFor decides which capabilities to call. Without a credential no AI
// call is made. Vision scoring replaces text feedback when enabled.
func PlanFor(hasCredential bool, ai settings.AI) Plan {
	switch {
	case !hasCredential:
		return Plan{}
	case ai.VisionEnabled():
		return Plan{Vision: true}
	default:
		return Plan{Text: true}
	}
}

// Empty reports whether the plan makes no AI calls.
func (p Plan) Empty() bool { return !p.Text && !p.Vision }
