package pgload

import "context"

// TableStore is the set of table operations the load procedures run against
// the destination database.
type TableStore interface {
	CreateTable(ctx context.Context, table TableName, columns []Column) error
	DropTable(ctx context.Context, table TableName) error
	ListTables(ctx context.Context, schema string) ([]string, error)
	TableExists(ctx context.Context, table TableName) (bool, error)
	Load(ctx context.Context, table TableName, ds *Dataset, opts LoadOptions) (*LoadResult, error)
}

// DatabaseManager creates databases on an administrative session.
type DatabaseManager interface {
	Exists(ctx context.Context, conn DBConnection, name string) (bool, error)
	Create(ctx context.Context, conn DBConnection, name string) error
}
