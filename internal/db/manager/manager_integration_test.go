package manager_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgload/pgload/internal/db"
	"github.com/pgload/pgload/internal/db/manager"
	testhelpers "github.com/pgload/pgload/internal/testing"
	"github.com/pgload/pgload/pkg/pgload"
)

func TestManager_CreateAndExists_Integration(t *testing.T) {
	connString := testhelpers.RequireDatabase(t)
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	conn := db.NewPoolAdapter(pool)
	mgr := manager.New()
	dbName := testhelpers.UniqueDBName("Pgload Manager")
	t.Cleanup(func() { testhelpers.CleanupTestDB(t, connString, dbName) })

	exists, err := mgr.Exists(ctx, conn, dbName)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Fatalf("Database %q should not exist yet", dbName)
	}

	if err := mgr.Create(ctx, conn, dbName); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	exists, err = mgr.Exists(ctx, conn, dbName)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Fatalf("Database %q should exist after Create", dbName)
	}

	err = mgr.Create(ctx, conn, dbName)
	var stmtErr *pgload.StatementError
	if !errors.As(err, &stmtErr) {
		t.Fatalf("Expected *pgload.StatementError for a duplicate database, got %v", err)
	}
	if !errors.Is(err, pgload.ErrStatementFailed) {
		t.Errorf("Expected ErrStatementFailed, got %v", stmtErr.Kind)
	}
}
