package llm

import "context"

// Purpose labels attached to request events.
const (
	PurposeTextFeedback   = "text-feedback"
	PurposeVisionScoring  = "vision-scoring"
	PurposeQuestionAnswer = "question-answer"

	purposeUnknown = "unknown"
)

type purposeKey struct{}

// WithPurpose tags ctx with the capability a request serves.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the purpose set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return purposeUnknown
}
