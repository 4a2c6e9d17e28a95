package services

import (
	"context"
	"fmt"

	"github.com/pgload/pgload/pkg/pgload"
)

// CreateDatabase issues CREATE DATABASE for name on an administrative
// session. With ifNotExists an existing database is left alone and
// created is false.
func CreateDatabase(ctx context.Context, conn pgload.DBConnection, mgr pgload.DatabaseManager, logger pgload.Logger, name string, ifNotExists bool) (created bool, err error) {
	if ifNotExists {
		exists, err := mgr.Exists(ctx, conn, name)
		if err != nil {
			return false, fmt.Errorf("failed to check database %q: %w", name, err)
		}
		if exists {
			logger.Info("Database %q already exists", name)
			return false, nil
		}
	}

	if err := mgr.Create(ctx, conn, name); err != nil {
		return false, err
	}
	logger.Info("✓ Database %q created", name)
	return true, nil
}
