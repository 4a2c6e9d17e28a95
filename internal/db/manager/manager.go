package manager

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pgload/pgload/internal/db"
	"github.com/pgload/pgload/pkg/pgload"
)

const queryDatabaseExists = "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)"

// Manager implements database lifecycle operations using the DBConnection abstraction.
// Stateless and safe for concurrent use; thread safety depends on the injected DBConnection.
type Manager struct{}

// New creates a new Manager instance.
func New() *Manager {
	return &Manager{}
}

// Exists checks if a database exists.
func (m *Manager) Exists(ctx context.Context, conn pgload.DBConnection, dbName string) (bool, error) {
	var exists bool
	if err := conn.QueryRow(ctx, queryDatabaseExists, dbName).Scan(&exists); err != nil {
		return false, db.NewStatementError(queryDatabaseExists, err)
	}
	return exists, nil
}

// Create issues CREATE DATABASE on a dedicated auto-commit connection.
func (m *Manager) Create(ctx context.Context, conn pgload.DBConnection, dbName string) error {
	if dbName == "" {
		return fmt.Errorf("database name is empty: %w", pgload.ErrInvalidConfig)
	}

	pooledConn, err := conn.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w: %w", pgload.ErrConnectionFailed, err)
	}
	defer pooledConn.Release()

	query := fmt.Sprintf("CREATE DATABASE %s", pgx.Identifier{dbName}.Sanitize())
	if _, err := pooledConn.Exec(ctx, query); err != nil {
		return db.NewStatementError(query, err)
	}
	return nil
}

var _ pgload.DatabaseManager = (*Manager)(nil)
