package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// LLMRequestEvent records every provider call for cost tracking and
// debugging.
type LLMRequestEvent struct {
	ent.Schema
}

func (LLMRequestEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{SequenceMixin{}}
}

func (LLMRequestEvent) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("timestamp").
			DefaultFunc(func() int64 { return time.Now().UnixMilli() }).
			Immutable().
			Comment("Unix milliseconds when the call finished"),
		field.String("provider").
			Comment("Provider name: openrouter, anthropic, openai, gemini, mock"),
		field.String("model").
			Comment("Model ID used"),
		field.String("purpose").
			Comment("text-feedback, vision-scoring or question-answer"),
		field.Int("input_tokens").
			Default(0),
		field.Int("output_tokens").
			Default(0),
		field.Int64("latency_ms").
			Default(0).
			Comment("Wall-clock time for the request"),
		field.Bool("success"),
		field.String("error_message").
			Default(""),
		field.String("request_body").
			Default("").
			Comment("Serialized request, images elided"),
		field.String("response_body").
			Default(""),
	}
}

func (LLMRequestEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("purpose"),
	}
}
