package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ConnectPostgres opens a small pool and verifies connectivity before
// returning it.
func ConnectPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	cfg.MaxConns = 10
	cfg.MinConns = 1
	cfg.HealthCheckPeriod = 30 * time.Second
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 15 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return pool, nil
}

// Open connects and applies the schema. The pool is closed again when the
// schema step fails, so callers only defer Close on success.
func Open(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	return open(ctx, func(ctx context.Context) (*pgxpool.Pool, error) {
		return ConnectPostgres(ctx, dsn)
	}, EnsureSchema)
}

func open[P interface{ Close() }](
	ctx context.Context,
	connect func(context.Context) (P, error),
	ensure func(context.Context, P) error,
) (P, error) {
	var zero P

	pool, err := connect(ctx)
	if err != nil {
		return zero, err
	}

	if err := ensure(ctx, pool); err != nil {
		pool.Close()
		return zero, err
	}

	return pool, nil
}
