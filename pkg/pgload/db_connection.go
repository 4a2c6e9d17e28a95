package pgload

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBConnection abstracts the session operations the connector and loader need.
// It decouples them from *pgxpool.Pool so they can be exercised with fakes.
//
// Thread-Safety: Implementations follow their underlying connection's
// thread-safety guarantees. pgload itself uses a session from one goroutine.
type DBConnection interface {
	// Exec executes a statement without returning any rows, in auto-commit mode.
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)

	// Query executes a query that returns rows.
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)

	// QueryRow executes a query that is expected to return at most one row.
	// Errors are deferred until Row's Scan method is called.
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row

	// Begin starts a transaction. The caller must Commit or Rollback it.
	Begin(ctx context.Context) (pgx.Tx, error)

	// Acquire obtains a dedicated connection for statements that cannot run
	// inside a transaction block (CREATE DATABASE).
	// Caller must call Release() on the returned PooledConnection when done.
	Acquire(ctx context.Context) (PooledConnection, error)
}

// PooledConnection represents a connection acquired from a pool.
// The caller must call Release() when done to return it to the pool.
type PooledConnection interface {
	// Exec executes a statement on this specific connection.
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)

	// Release returns the connection to the pool.
	// After calling Release, the connection should not be used.
	Release()
}
