package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// sessionRepo implements SessionRepo. Rows are only ever inserted or
// bulk-deleted per user; there is no update path.
type sessionRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

var sessionSelect = []string{
	"id", "sequence", "user_id", "language", "character", "level",
	"score", "score_source", "model", "created_at", "duration_seconds", "attempts",
}

func (r *sessionRepo) Append(ctx context.Context, rec *SessionRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(tableSessions).
		Columns(sessionSelect...).
		Values(
			rec.ID,
			seqNum,
			rec.UserID,
			rec.Language,
			rec.Character,
			rec.Level,
			rec.Score,
			rec.ScoreSource,
			rec.Model,
			rec.CreatedAt.UnixMilli(),
			rec.DurationSeconds,
			rec.Attempts,
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save practice session: %w", err)
	}

	rec.Sequence = seqNum
	return nil
}

func (r *sessionRepo) List(ctx context.Context, userID string) ([]SessionRecord, error) {
	query, args := builder().Select(sessionSelect...).
		From(entsql.Table(tableSessions)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy("sequence").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query practice sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		var created int64
		if err := rows.Scan(
			&rec.ID, &rec.Sequence, &rec.UserID, &rec.Language, &rec.Character, &rec.Level,
			&rec.Score, &rec.ScoreSource, &rec.Model, &created, &rec.DurationSeconds, &rec.Attempts,
		); err != nil {
			return nil, fmt.Errorf("scan practice session: %w", err)
		}
		rec.CreatedAt = time.UnixMilli(created)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *sessionRepo) ClearUser(ctx context.Context, userID string) (int64, error) {
	query, args := builder().Delete(tableSessions).
		Where(entsql.EQ("user_id", userID)).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("clear practice sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
