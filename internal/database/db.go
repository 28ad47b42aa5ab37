package database

import (
	"context"
	"database/sql"
)

// DB is the narrow surface the repositories and health check use. SQLDB exposes the
// same pool to the migration runner.
type DB interface {
	Ping(ctx context.Context) error
	Close() error

	Exec(ctx context.Context, query string, args ...any) (int64, error)
	QueryRow(ctx context.Context, query string, args ...any) Row

	SQLDB() *sql.DB
}

type Row interface {
	Scan(dest ...any) error
}
