package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// PracticeSession is one finalized practice attempt. Rows are only ever
// appended or removed per user.
type PracticeSession struct {
	ent.Schema
}

func (PracticeSession) Mixin() []ent.Mixin {
	return []ent.Mixin{SequenceMixin{}}
}

func (PracticeSession) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			NotEmpty().
			Immutable().
			Comment("UUID assigned at finalization"),
		field.String("user_id").
			NotEmpty(),
		field.String("language"),
		field.String("character"),
		field.String("level"),
		field.Int("score").
			Range(0, 100),
		field.String("score_source").
			Default("").
			Comment("vision or fallback"),
		field.String("model").
			Default(""),
		field.Int64("created_at").
			Comment("Unix milliseconds"),
		field.Int("duration_seconds").
			Default(0),
		field.Int("attempts").
			Default(1).
			Positive(),
	}
}

func (PracticeSession) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id", "sequence"),
	}
}
