package db

import (
	"context"
	"database/sql"
)

// DBTX is what repositories query through: a *sql.DB for standalone reads
// and writes, or the *sql.Tx of a unit of work when a schedule replacement
// has to land atomically.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
