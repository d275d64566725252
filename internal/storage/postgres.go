package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgPool is the subset of *pgxpool.Pool the backend uses.
type PgPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresBackend stores each collection as one JSONB row of the
// task_collections table.
type PostgresBackend struct {
	pgPool PgPool
	name   string
}

func NewPostgresBackend(pgPool PgPool, name string) *PostgresBackend {
	return &PostgresBackend{
		pgPool: pgPool,
		name:   name,
	}
}

func (b *PostgresBackend) Migrate(ctx context.Context) error {
	const createTableQuery = `
CREATE TABLE IF NOT EXISTS task_collections (
    name       TEXT PRIMARY KEY,
    data       JSONB       NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
)
`
	_, err := b.pgPool.Exec(ctx, createTableQuery)
	if err != nil {
		return fmt.Errorf("failed to create task_collections table: %w", err)
	}
	return nil
}

func (b *PostgresBackend) Load(ctx context.Context) ([]byte, error) {
	const selectCollectionQuery = `
SELECT data
FROM task_collections
WHERE name = $1
`
	var data []byte
	err := b.pgPool.QueryRow(
		ctx,
		selectCollectionQuery,
		b.name,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoData
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable {
			return nil, ErrNoData
		}
		return nil, fmt.Errorf("failed to select task collection: %w", err)
	}
	return data, nil
}

func (b *PostgresBackend) Save(ctx context.Context, data []byte) error {
	const upsertCollectionQuery = `
INSERT INTO task_collections (name, data, updated_at)
VALUES ($1, $2::jsonb, $3)
ON CONFLICT (name) DO UPDATE
SET data = EXCLUDED.data,
    updated_at = EXCLUDED.updated_at
`
	_, err := b.pgPool.Exec(
		ctx,
		upsertCollectionQuery,
		b.name,
		string(data),
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert task collection: %w", err)
	}
	return nil
}

func (b *PostgresBackend) Close() error {
	b.pgPool.Close()
	return nil
}
