package store

import (
	"context"
	"database/sql"
	"fmt"
)

const (
	tableSequences = "sequences"

	// appendSequence orders every appended row, LLM events and practice
	// sessions alike, so listings keep append order within a millisecond.
	appendSequence = "append"
)

// sequenceCounter is a named counter persisted in the sequences table.
// Each call to Next is a single upsert, so concurrent callers never see the
// same value.
type sequenceCounter struct {
	db   *sql.DB
	name string
}

func newSequenceCounter(db *sql.DB, name string) (*sequenceCounter, error) {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS ` + tableSequences + ` (
		name TEXT PRIMARY KEY,
		value INTEGER NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create sequences table: %w", err)
	}
	return &sequenceCounter{db: db, name: name}, nil
}

// Next returns the next value, starting at 1 for a fresh counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	var v int64
	err := sc.db.QueryRowContext(ctx,
		`INSERT INTO `+tableSequences+` (name, value) VALUES (?, 1)
		ON CONFLICT(name) DO UPDATE SET value = value + 1
		RETURNING value`, sc.name,
	).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("next %s sequence: %w", sc.name, err)
	}
	return v, nil
}
