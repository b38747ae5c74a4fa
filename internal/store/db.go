package store

import (
	"context"
	"database/sql"
)

// Stores accept these narrow interfaces instead of *sqlx.DB / *sqlx.Tx so
// the same query code runs inside or outside a transaction.

type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type Getter interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}

type Selecter interface {
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

type DB interface {
	Execer
	Getter
	Selecter
}
