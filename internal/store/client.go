package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Client wraps the shared Postgres connection pool for workspace,
// data source, document, and template access.
type Client struct {
	pool     *pgxpool.Pool
	ownsPool bool
}

// NewClient connects a new pool. The pool is kept small and on the
// simple protocol so the client works behind transaction-mode poolers
// (PgBouncer and friends) that cannot handle prepared statements.
func NewClient(ctx context.Context, connString string) (*Client, error) {
	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Client{pool: pool, ownsPool: true}, nil
}

// NewClientFromPool wraps an existing pool without taking ownership.
func NewClientFromPool(pool *pgxpool.Pool) *Client {
	return &Client{pool: pool}
}

// Pool exposes the underlying pool for components sharing the connection.
func (c *Client) Pool() *pgxpool.Pool {
	return c.pool
}

// Close releases the pool if this client created it.
func (c *Client) Close() {
	if c.ownsPool {
		c.pool.Close()
	}
}
