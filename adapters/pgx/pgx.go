package pgx

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lborres/whatif/core"
)

// Adapter stores the key/value namespace in the kv table of a PostgreSQL
// database. Run Migrate once before use.
type Adapter struct {
	pool *pgxpool.Pool
}

var _ core.KeyValueStore = (*Adapter)(nil)

func New(pool *pgxpool.Pool) *Adapter {
	return &Adapter{
		pool: pool,
	}
}

func (a *Adapter) Get(ctx context.Context, key string) (string, error) {
	query := `SELECT value FROM public.kv WHERE key = $1`

	var value string
	err := a.pool.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", core.ErrKeyNotFound
		}
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}

	return value, nil
}

func (a *Adapter) Set(ctx context.Context, key, value string) error {
	query := `INSERT INTO public.kv (key, value) VALUES ($1, $2)
	          ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`

	if _, err := a.pool.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// SetIfAbsent relies on the primary key: of two concurrent inserts exactly
// one affects a row.
func (a *Adapter) SetIfAbsent(ctx context.Context, key, value string) (bool, error) {
	query := `INSERT INTO public.kv (key, value) VALUES ($1, $2)
	          ON CONFLICT (key) DO NOTHING`

	tag, err := a.pool.Exec(ctx, query, key, value)
	if err != nil {
		return false, fmt.Errorf("failed to insert %s: %w", key, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (a *Adapter) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM public.kv WHERE key = $1`

	if _, err := a.pool.Exec(ctx, query, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (a *Adapter) Keys(ctx context.Context, prefix string) ([]string, error) {
	query := `SELECT key FROM public.kv WHERE starts_with(key, $1)`

	rows, err := a.pool.Query(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan keys: %w", err)
	}
	return keys, nil
}

// Ping reports whether the database is reachable
func (a *Adapter) Ping(ctx context.Context) error {
	if err := a.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", core.ErrStoreNotReady, err)
	}
	return nil
}
