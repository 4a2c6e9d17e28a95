package manager_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgload/pgload/internal/db/manager"
	"github.com/pgload/pgload/pkg/pgload"
)

// mockDBConnection is a test double for pgload.DBConnection. Methods the
// manager never calls panic through the embedded nil interface.
type mockDBConnection struct {
	pgload.DBConnection
	queryRowFunc func(ctx context.Context, sql string, args ...any) pgx.Row
	acquireFunc  func(ctx context.Context) (pgload.PooledConnection, error)
}

func (m *mockDBConnection) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if m.queryRowFunc != nil {
		return m.queryRowFunc(ctx, sql, args...)
	}
	return &mockRow{}
}

func (m *mockDBConnection) Acquire(ctx context.Context) (pgload.PooledConnection, error) {
	if m.acquireFunc != nil {
		return m.acquireFunc(ctx)
	}
	return &mockPooledConnection{}, nil
}

// mockRow is a test double for pgx.Row
type mockRow struct {
	scanFunc func(dest ...any) error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.scanFunc != nil {
		return m.scanFunc(dest...)
	}
	return nil
}

// mockPooledConnection is a test double for pgload.PooledConnection
type mockPooledConnection struct {
	execFunc    func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	releaseFunc func()
}

func (m *mockPooledConnection) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if m.execFunc != nil {
		return m.execFunc(ctx, sql, args...)
	}
	return pgconn.CommandTag{}, nil
}

func (m *mockPooledConnection) Release() {
	if m.releaseFunc != nil {
		m.releaseFunc()
	}
}

func TestManager_Create_QuotesName(t *testing.T) {
	testCases := []struct {
		name     string
		dbName   string
		expected string
	}{
		{"Simple name", "sales", `CREATE DATABASE "sales"`},
		{"Name with spaces", "my database", `CREATE DATABASE "my database"`},
		{"Name with quotes", `my"database`, `CREATE DATABASE "my""database"`},
		{"Name with semicolon", "my;database", `CREATE DATABASE "my;database"`},
		{"Mixed case", "SalesDB", `CREATE DATABASE "SalesDB"`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var executedSQL string
			released := false
			mockConn := &mockDBConnection{
				acquireFunc: func(ctx context.Context) (pgload.PooledConnection, error) {
					return &mockPooledConnection{
						execFunc: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
							executedSQL = sql
							return pgconn.NewCommandTag("CREATE DATABASE"), nil
						},
						releaseFunc: func() { released = true },
					}, nil
				},
			}

			if err := manager.New().Create(context.Background(), mockConn, tc.dbName); err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			if executedSQL != tc.expected {
				t.Errorf("Expected SQL %q, got %q", tc.expected, executedSQL)
			}
			if !released {
				t.Error("Expected connection to be released")
			}
		})
	}
}

func TestManager_Create_ReleasesOnFailure(t *testing.T) {
	released := false
	serverErr := &pgconn.PgError{Code: "42P04", Message: `database "sales" already exists`}
	mockConn := &mockDBConnection{
		acquireFunc: func(ctx context.Context) (pgload.PooledConnection, error) {
			return &mockPooledConnection{
				execFunc: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
					return pgconn.CommandTag{}, serverErr
				},
				releaseFunc: func() { released = true },
			}, nil
		},
	}

	err := manager.New().Create(context.Background(), mockConn, "sales")
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !released {
		t.Error("Expected connection to be released after a failed statement")
	}

	var stmtErr *pgload.StatementError
	if !errors.As(err, &stmtErr) {
		t.Fatalf("Expected *pgload.StatementError, got %T", err)
	}
	if !errors.Is(err, pgload.ErrStatementFailed) {
		t.Errorf("Expected ErrStatementFailed kind, got %v", stmtErr.Kind)
	}
	if stmtErr.Query != `CREATE DATABASE "sales"` {
		t.Errorf("Expected query text in error, got %q", stmtErr.Query)
	}
	if !errors.Is(err, serverErr) {
		t.Error("Expected server error in chain")
	}
}

func TestManager_Create_AcquireFailure(t *testing.T) {
	mockConn := &mockDBConnection{
		acquireFunc: func(ctx context.Context) (pgload.PooledConnection, error) {
			return nil, errors.New("pool closed")
		},
	}

	err := manager.New().Create(context.Background(), mockConn, "sales")
	if !errors.Is(err, pgload.ErrConnectionFailed) {
		t.Fatalf("Expected ErrConnectionFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "pool closed") {
		t.Errorf("Expected cause in message, got %v", err)
	}
}

func TestManager_Create_EmptyName(t *testing.T) {
	acquired := false
	mockConn := &mockDBConnection{
		acquireFunc: func(ctx context.Context) (pgload.PooledConnection, error) {
			acquired = true
			return &mockPooledConnection{}, nil
		},
	}

	err := manager.New().Create(context.Background(), mockConn, "")
	if !errors.Is(err, pgload.ErrInvalidConfig) {
		t.Fatalf("Expected ErrInvalidConfig, got %v", err)
	}
	if acquired {
		t.Error("Expected no connection to be acquired for an empty name")
	}
}

func TestManager_Exists(t *testing.T) {
	for _, want := range []bool{true, false} {
		var gotArgs []any
		mockConn := &mockDBConnection{
			queryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
				gotArgs = args
				return &mockRow{scanFunc: func(dest ...any) error {
					*dest[0].(*bool) = want
					return nil
				}}
			},
		}

		exists, err := manager.New().Exists(context.Background(), mockConn, "sales")
		if err != nil {
			t.Fatalf("Exists failed: %v", err)
		}
		if exists != want {
			t.Errorf("Expected exists=%v, got %v", want, exists)
		}
		if len(gotArgs) != 1 || gotArgs[0] != "sales" {
			t.Errorf("Expected name passed as parameter, got %v", gotArgs)
		}
	}
}

func TestManager_Exists_QueryError(t *testing.T) {
	mockConn := &mockDBConnection{
		queryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &mockRow{scanFunc: func(dest ...any) error {
				return &pgconn.PgError{Code: "08006", Message: "connection lost"}
			}}
		},
	}

	exists, err := manager.New().Exists(context.Background(), mockConn, "sales")
	if exists {
		t.Error("Expected exists=false on error")
	}
	if !errors.Is(err, pgload.ErrConnectionFailed) {
		t.Errorf("Expected ErrConnectionFailed, got %v", err)
	}
}
