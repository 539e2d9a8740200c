package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
)

// scannable abstracts pgx.Row and pgx.Rows for shared scan helpers.
type scannable interface {
	Scan(dest ...any) error
}

// querier abstracts pgxpool.Pool and pgx.Tx for writes that run either
// standalone or inside an enclosing transaction.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}
