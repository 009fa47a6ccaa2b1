package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lborres/whatif/adapters/memory"
	pgxadapter "github.com/lborres/whatif/adapters/pgx"
	redisadapter "github.com/lborres/whatif/adapters/redis"
	"github.com/lborres/whatif/adapters/sqlite"
	"github.com/lborres/whatif/core"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type closerFunc func()

func (f closerFunc) Close() error {
	f()
	return nil
}

// openStore builds the configured backend. The returned closer releases its
// connections.
func openStore(ctx context.Context, cfg Config) (core.KeyValueStore, io.Closer, error) {
	switch cfg.Store {
	case "memory":
		return memory.New(), nopCloser{}, nil

	case "sqlite":
		s, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite %s: %w", cfg.SQLitePath, err)
		}
		return s, s, nil

	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("pgxpool.New: %w", err)
		}
		adapter := pgxadapter.New(pool)
		if err := adapter.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		if err := adapter.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return adapter, closerFunc(pool.Close), nil

	case "redis":
		s, err := redisadapter.Connect(ctx, redisadapter.Options{
			Addr:       cfg.RedisAddr,
			Password:   cfg.RedisPassword,
			DB:         cfg.RedisDB,
			Namespace:  cfg.RedisNamespace,
			MaxRetries: 5,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", core.ErrUnknownBackend, cfg.Store)
	}
}
