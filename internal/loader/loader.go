package loader

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgload/pgload/internal/db"
	"github.com/pgload/pgload/internal/logging"
	"github.com/pgload/pgload/internal/schema"
	"github.com/pgload/pgload/pkg/pgload"
)

const (
	queryListTables  = `SELECT table_name FROM information_schema.tables WHERE table_schema = $1 ORDER BY table_schema, table_name`
	queryTableExists = `SELECT EXISTS(SELECT 1 FROM information_schema.tables WHERE table_schema = $1 AND table_name = $2)`
)

// Loader runs the table and insert operations over one session.
// Not safe for concurrent use.
type Loader struct {
	conn     pgload.DBConnection
	logger   pgload.Logger
	newRunID func() uuid.UUID
}

// New creates a Loader. A nil logger discards output.
func New(conn pgload.DBConnection, logger pgload.Logger) *Loader {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Loader{conn: conn, logger: logger, newRunID: uuid.New}
}

// CreateTable creates table with the given columns in its own transaction.
func (l *Loader) CreateTable(ctx context.Context, table pgload.TableName, columns []pgload.Column) error {
	query, err := schema.BuildCreateTable(table, columns)
	if err != nil {
		return err
	}
	if err := l.execInTx(ctx, query); err != nil {
		return err
	}
	l.logger.Info("Created table %s with %d columns", table, len(columns))
	return nil
}

// DropTable drops table in its own transaction.
func (l *Loader) DropTable(ctx context.Context, table pgload.TableName) error {
	if err := l.execInTx(ctx, schema.BuildDropTable(table)); err != nil {
		return err
	}
	l.logger.Info("Dropped table %s", table)
	return nil
}

// execInTx runs a single statement in a transaction: commit on success,
// rollback on failure.
func (l *Loader) execInTx(ctx context.Context, query string) error {
	tx, err := l.conn.Begin(ctx)
	if err != nil {
		return db.NewStatementError("BEGIN", err)
	}
	defer l.rollback(ctx, &tx)

	l.logger.Verbose("Executing: %s", query)
	if _, err := tx.Exec(ctx, query); err != nil {
		return db.NewStatementError(query, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return db.NewStatementError("COMMIT", err)
	}
	tx = nil
	return nil
}

// rollback aborts *tx unless it was committed and cleared.
func (l *Loader) rollback(ctx context.Context, tx *pgx.Tx) {
	if *tx == nil {
		return
	}
	// Rollback must reach the server even after ctx is cancelled.
	if err := (*tx).Rollback(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		l.logger.Error("Error rolling back transaction: %v", err)
	}
}

// ListTables returns the names of the tables in schemaName, alphabetically.
// On failure it returns nil and the error; an empty result is never a
// stand-in for a failed query.
func (l *Loader) ListTables(ctx context.Context, schemaName string) ([]string, error) {
	rows, err := l.conn.Query(ctx, queryListTables, schemaName)
	if err != nil {
		return nil, db.NewStatementError(queryListTables, err)
	}

	tables, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, db.NewStatementError(queryListTables, err)
	}
	if tables == nil {
		tables = []string{}
	}
	return tables, nil
}

// TableExists reports whether table exists.
func (l *Loader) TableExists(ctx context.Context, table pgload.TableName) (bool, error) {
	var exists bool
	if err := l.conn.QueryRow(ctx, queryTableExists, table.Schema, table.Name).Scan(&exists); err != nil {
		return false, db.NewStatementError(queryTableExists, err)
	}
	return exists, nil
}

// InsertBatch inserts rows using template (INSERT INTO t(cols) VALUES %s),
// one multi-row statement per pageSize rows, all inside one transaction.
// The first failing statement rolls the transaction back and no further
// statements are sent.
//
// Values are interpolated client-side (simple protocol), so text cells are
// coerced by the server to the destination column types.
func (l *Loader) InsertBatch(ctx context.Context, template string, rows [][]any, pageSize int) error {
	if len(rows) == 0 {
		return nil
	}
	if pageSize <= 0 {
		pageSize = len(rows)
	}

	tx, err := l.conn.Begin(ctx)
	if err != nil {
		return db.NewStatementError("BEGIN", err)
	}
	defer l.rollback(ctx, &tx)

	for _, page := range pages(rows, pageSize) {
		query, args, err := schema.ExpandValues(template, page)
		if err != nil {
			return err
		}

		execArgs := make([]any, 0, len(args)+1)
		execArgs = append(execArgs, pgx.QueryExecModeSimpleProtocol)
		execArgs = append(execArgs, args...)

		if _, err := tx.Exec(ctx, query, execArgs...); err != nil {
			return db.NewStatementError(query, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return db.NewStatementError("COMMIT", err)
	}
	tx = nil
	return nil
}

// Load inserts every row of ds into table in batches of opts.BatchSize,
// committing each batch independently. The returned result records every
// batch; the error is result.Err() joined with the context error when the
// load was cancelled.
func (l *Loader) Load(ctx context.Context, table pgload.TableName, ds *pgload.Dataset, opts pgload.LoadOptions) (*pgload.LoadResult, error) {
	if len(ds.Columns) == 0 {
		return nil, fmt.Errorf("dataset has no columns: %w", pgload.ErrInvalidConfig)
	}

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = pgload.DefaultBatchSize
	}
	pageSize := opts.PageSize
	if pageSize <= 0 || pageSize > batchSize {
		pageSize = batchSize
	}

	result := &pgload.LoadResult{
		RunID:     l.newRunID(),
		Table:     table,
		TotalRows: ds.Len(),
	}
	template := schema.BuildInsertTemplate(table, ds.Columns)
	spans := SplitBatches(ds.Len(), batchSize)

	l.logger.Verbose("Load %s: %d rows into %s in %d batches (policy %s)",
		result.RunID, ds.Len(), table, len(spans), opts.Policy)

	stopped := false
	for i, span := range spans {
		batch := pgload.BatchResult{Index: i, Offset: span.Offset, Rows: span.Rows}

		if stopped || ctx.Err() != nil {
			batch.Skipped = true
			result.Batches = append(result.Batches, batch)
			continue
		}

		batch.Err = l.InsertBatch(ctx, template, ds.Rows[span.Offset:span.Offset+span.Rows], pageSize)
		if batch.Err != nil {
			l.logger.Error("Batch %d/%d (rows %d-%d) failed: %v",
				i+1, len(spans), span.Offset+1, span.Offset+span.Rows, batch.Err)
			stopped = opts.Policy == pgload.StopOnError
		} else {
			l.logger.Verbose("Batch %d/%d committed (%d rows)", i+1, len(spans), span.Rows)
		}
		result.Batches = append(result.Batches, batch)
	}

	l.logger.Info("Inserted %d of %d rows into %s", result.InsertedRows(), result.TotalRows, table)
	if skipped := result.SkippedBatches(); skipped > 0 {
		l.logger.Info("Skipped %d batches", skipped)
	}

	return result, errors.Join(result.Err(), ctx.Err())
}

var _ pgload.TableStore = (*Loader)(nil)
