package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// kvRepo implements KVRepo with last-write-wins upserts.
type kvRepo struct {
	db *sql.DB
}

func (r *kvRepo) Get(ctx context.Context, name string) (string, bool, error) {
	query, args := builder().Select("value").
		From(entsql.Table(tableKV)).
		Where(entsql.EQ("name", name)).
		Query()

	var value string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", name, err)
	}
	return value, true, nil
}

func (r *kvRepo) Set(ctx context.Context, name, value string) error {
	query, args := builder().Insert(tableKV).
		Columns("name", "value", "updated_at").
		Values(name, value, time.Now().UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("name"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set %q: %w", name, err)
	}
	return nil
}

func (r *kvRepo) Delete(ctx context.Context, name string) error {
	query, args := builder().Delete(tableKV).
		Where(entsql.EQ("name", name)).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete %q: %w", name, err)
	}
	return nil
}
