package loader

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgload/pgload/pkg/pgload"
)

type execCall struct {
	batch int // 1-based transaction number
	sql   string
	args  []any
}

// fakeConn records the statements the loader sends. Methods the loader
// never calls panic through the embedded nil interface.
type fakeConn struct {
	pgload.DBConnection

	beginErr  error
	commitErr error
	// failExec returns the error for the n-th statement (1-based) of a transaction, or nil.
	failExec func(batch, n int, sql string) error

	tables   []string
	queryErr error
	rowsErr  error
	exists   bool

	execs     []execCall
	begins    int
	commits   int
	rollbacks int
}

func (c *fakeConn) Begin(ctx context.Context) (pgx.Tx, error) {
	if c.beginErr != nil {
		return nil, c.beginErr
	}
	c.begins++
	return &fakeTx{conn: c, batch: c.begins}, nil
}

func (c *fakeConn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if c.queryErr != nil {
		return nil, c.queryErr
	}
	return &fakeRows{values: c.tables, err: c.rowsErr}, nil
}

func (c *fakeConn) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return fakeRow{exists: c.exists, err: c.queryErr}
}

// statementsIn returns the statements sent inside transaction batch.
func (c *fakeConn) statementsIn(batch int) []execCall {
	var out []execCall
	for _, e := range c.execs {
		if e.batch == batch {
			out = append(out, e)
		}
	}
	return out
}

type fakeTx struct {
	pgx.Tx
	conn  *fakeConn
	batch int
	n     int
	done  bool
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	t.n++
	t.conn.execs = append(t.conn.execs, execCall{batch: t.batch, sql: sql, args: args})
	if t.conn.failExec != nil {
		if err := t.conn.failExec(t.batch, t.n, sql); err != nil {
			return pgconn.CommandTag{}, err
		}
	}
	return pgconn.NewCommandTag(fmt.Sprintf("INSERT 0 %d", len(args))), nil
}

func (t *fakeTx) Commit(ctx context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	if t.conn.commitErr != nil {
		return t.conn.commitErr
	}
	t.conn.commits++
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.conn.rollbacks++
	return nil
}

type fakeRows struct {
	pgx.Rows
	values []string
	i      int
	err    error
	closed bool
}

func (r *fakeRows) Next() bool {
	if r.i < len(r.values) {
		r.i++
		return true
	}
	return false
}

func (r *fakeRows) Scan(dest ...any) error {
	*dest[0].(*string) = r.values[r.i-1]
	return nil
}

func (r *fakeRows) Close()     { r.closed = true }
func (r *fakeRows) Err() error { return r.err }

type fakeRow struct {
	exists bool
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*bool) = r.exists
	return nil
}

// rowsOf builds n single-column rows "1".."n".
func rowsOf(n int) [][]any {
	rows := make([][]any, n)
	for i := range rows {
		rows[i] = []any{fmt.Sprint(i + 1)}
	}
	return rows
}
