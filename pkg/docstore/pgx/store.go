package pgx

import (
	"context"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
	Begin(ctx context.Context) (pgxv5.Tx, error)
}

// Store implements docstore.Store on PostgreSQL. Graphs, extracted content
// and chat messages are stored as jsonb; everything queried by the API is a
// proper column.
type Store struct {
	conn pgxIConn
}

// NewStoreWithConnection creates a Store over an existing connection or
// pool. The caller owns the connection lifecycle.
func NewStoreWithConnection(conn pgxIConn) *Store {
	return &Store{conn: conn}
}
