// Package testing holds the helpers integration tests share: locating a
// PostgreSQL server, creating and dropping scratch databases, and opening
// pools against them.
package testing

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgload/pgload/internal/db"
	"github.com/pgload/pgload/internal/testinfra"
	"github.com/pgload/pgload/pkg/pgload"
)

// ConnEnvVar names a management database URI to use instead of a container.
const ConnEnvVar = "PGLOAD_TEST_CONN"

var (
	testContainerOnce sync.Once
	testContainerConn string
	testContainerErr  error
)

func getOrStartTestContainer() (string, error) {
	testContainerOnce.Do(func() {
		container, err := testinfra.StartPostgres(context.Background())
		if err != nil {
			testContainerErr = err
			return
		}
		testContainerConn = container.ConnString
	})
	return testContainerConn, testContainerErr
}

// GetTestConnectionString returns the test database connection string.
// Priority: PGLOAD_TEST_CONN env var > auto-started testcontainer > skip test.
func GetTestConnectionString(t *testing.T) string {
	t.Helper()

	if connString := os.Getenv(ConnEnvVar); connString != "" {
		return connString
	}

	connString, err := getOrStartTestContainer()
	if err != nil {
		t.Skipf("%s not set and Docker unavailable: %v", ConnEnvVar, err)
	}
	return connString
}

// SkipIfShort skips the test if running in short mode (-short flag).
func SkipIfShort(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
}

// RequireDatabase combines SkipIfShort and GetTestConnectionString for convenience.
// Returns the test connection string if available, otherwise skips the test.
func RequireDatabase(t *testing.T) string {
	t.Helper()

	SkipIfShort(t)
	return GetTestConnectionString(t)
}

// UniqueDBName returns a fresh lowercase database name with the given prefix.
func UniqueDBName(prefix string) string {
	return prefix + "_" + uuid.NewString()[:8]
}

// CreateTestDB creates a test database with the given name and registers its
// removal with t.Cleanup.
func CreateTestDB(t *testing.T, connString, dbName string) {
	t.Helper()

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		t.Fatalf("Failed to connect for test DB creation: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, fmt.Sprintf("CREATE DATABASE %s", pgx.Identifier{dbName}.Sanitize())); err != nil {
		t.Fatalf("Failed to create test database %s: %v", dbName, err)
	}
	t.Logf("Created test database %s", dbName)

	t.Cleanup(func() {
		CleanupTestDB(t, connString, dbName)
	})
}

// CleanupTestDB drops the test database.
// Safe to call multiple times (uses DROP DATABASE IF EXISTS).
func CleanupTestDB(t *testing.T, connString, dbName string) {
	t.Helper()

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		t.Logf("Warning: Failed to connect for cleanup: %v", err)
		return
	}
	defer pool.Close()

	terminateQuery := `
		SELECT pg_terminate_backend(pid)
		FROM pg_stat_activity
		WHERE datname = $1 AND pid <> pg_backend_pid()
	`
	if _, err := pool.Exec(ctx, terminateQuery, dbName); err != nil {
		t.Logf("Warning: Failed to terminate connections to %s: %v", dbName, err)
	}

	if _, err := pool.Exec(ctx, fmt.Sprintf("DROP DATABASE IF EXISTS %s", pgx.Identifier{dbName}.Sanitize())); err != nil {
		t.Logf("Warning: Failed to drop database %s: %v", dbName, err)
	}
}

// TestParams returns connString's parameters pointed at dbName.
func TestParams(t *testing.T, connString, dbName string) pgload.ConnectionParams {
	t.Helper()

	params, err := db.ParseConnectionString(connString)
	if err != nil {
		t.Fatalf("Failed to parse connection string: %v", err)
	}
	params.Database = dbName
	return params
}

// GetTestPool creates a connection pool to the specified database for testing.
// The pool is automatically closed when the test completes.
func GetTestPool(t *testing.T, connString, dbName string) *pgxpool.Pool {
	t.Helper()

	pool, err := pgxpool.New(context.Background(), db.BuildConnectionString(TestParams(t, connString, dbName)))
	if err != nil {
		t.Fatalf("Failed to create connection pool: %v", err)
	}
	t.Cleanup(pool.Close)

	return pool
}

// NewTestDatabase creates a scratch database and returns a pool to it.
func NewTestDatabase(t *testing.T, prefix string) (string, *pgxpool.Pool) {
	t.Helper()

	connString := RequireDatabase(t)
	dbName := UniqueDBName(prefix)
	CreateTestDB(t, connString, dbName)
	return dbName, GetTestPool(t, connString, dbName)
}

// ForceApprover is a test approver that always approves.
type ForceApprover struct{}

// RequestApproval always returns true (auto-approves).
func (a *ForceApprover) RequestApproval(ctx context.Context, target string) (bool, error) {
	return true, nil
}
