package db

import (
	"context"
	"database/sql"
)

// DBTX is what the snapshot repository reads and writes through: the plain
// *sql.DB for loads, the *sql.Tx handed out by UnitOfWork for saves.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
