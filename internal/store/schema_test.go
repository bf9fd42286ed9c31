package store

import (
	"slices"
	"testing"

	"entgo.io/ent"
	entschema "entgo.io/ent/dialect/sql/schema"

	"github.com/importJL/GlyphWrAIte/ent/schema"
)

func fieldNames(fields ...[]ent.Field) []string {
	var names []string
	for _, fs := range fields {
		for _, f := range fs {
			names = append(names, f.Descriptor().Name)
		}
	}
	return names
}

func columnNames(t *entschema.Table) []string {
	names := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		names = append(names, c.Name)
	}
	return names
}

func TestTablesMatchEntSchema(t *testing.T) {
	tests := []struct {
		table *entschema.Table
		want  []string
	}{
		{sessionsTable, fieldNames(schema.SequenceMixin{}.Fields(), schema.PracticeSession{}.Fields())},
		{kvTable, fieldNames(schema.KVEntry{}.Fields())},
		// ent adds the integer id of LLMRequestEvent implicitly.
		{llmEventsTable, append([]string{"id"},
			fieldNames(schema.SequenceMixin{}.Fields(), schema.LLMRequestEvent{}.Fields())...)},
	}
	for _, tt := range tests {
		t.Run(tt.table.Name, func(t *testing.T) {
			got := columnNames(tt.table)
			want := slices.Clone(tt.want)
			slices.Sort(got)
			slices.Sort(want)
			if !slices.Equal(got, want) {
				t.Errorf("columns = %v, want %v", got, want)
			}
		})
	}
}
