package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// KVEntry holds small settings blobs: the credential, AI settings and
// practice preferences.
type KVEntry struct {
	ent.Schema
}

func (KVEntry) Fields() []ent.Field {
	return []ent.Field{
		field.String("name").
			Unique().
			NotEmpty(),
		field.String("value"),
		field.Int64("updated_at"),
	}
}
