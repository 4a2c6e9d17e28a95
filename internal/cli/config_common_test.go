package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgload/pgload/internal/logging"
	"github.com/pgload/pgload/pkg/pgload"
)

func TestResolveConnectionParams_INI(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PGPASSWORD", "")
	path := writeTestFile(t, ".", "db.ini", `[postgresql]
host = db.internal
port = 6432
database = sales
user = loader
password = secret
`)

	params, err := resolveConnectionParams(connectionFlags{configPath: path})

	require.NoError(t, err)
	assert.Equal(t, "db.internal", params.Host)
	assert.Equal(t, 6432, params.Port)
	assert.Equal(t, "sales", params.Database)
	assert.Equal(t, "loader", params.User)
	assert.Equal(t, "secret", params.Password)
}

func TestResolveConnectionParams_MissingINI(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := resolveConnectionParams(connectionFlags{configPath: "db.ini"})

	require.Error(t, err)
	assert.ErrorIs(t, err, pgload.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "--connection")
	assert.Equal(t, pgload.ExitConfigError, pgload.ExitCodeForError(err))
}

func TestResolveConnectionParams_URIWithPGPASSWORD(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PGPASSWORD", "from-env")

	params, err := resolveConnectionParams(connectionFlags{
		configPath: "does-not-matter.ini",
		connection: "postgresql://loader@localhost:5432/sales?sslmode=disable",
	})

	require.NoError(t, err)
	assert.Equal(t, "sales", params.Database)
	assert.Equal(t, "disable", params.SSLMode)
	assert.Equal(t, "from-env", params.Password)
}

func TestResolveConnectionParams_DotEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PGPASSWORD", "")
	os.Unsetenv("PGPASSWORD") // godotenv only fills unset variables
	writeTestFile(t, ".", ".env", "PGPASSWORD=dotenv-secret\n")

	params, err := resolveConnectionParams(connectionFlags{connection: "postgresql://loader@localhost/sales"})

	require.NoError(t, err)
	assert.Equal(t, "dotenv-secret", params.Password)
}

func TestResolveConnectionParams_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := resolveConnectionParams(connectionFlags{connection: "postgresql://localhost/sales"})

	require.Error(t, err)
	assert.ErrorIs(t, err, pgload.ErrInvalidConfig, "user is required")
}

type stubConnector struct {
	err    error
	closed bool
}

func (c *stubConnector) Connect(context.Context) (*pgxpool.Pool, error) { return nil, c.err }
func (c *stubConnector) Close() error                                  { c.closed = true; return nil }

func TestConnect_FailureClosesConnector(t *testing.T) {
	stub := &stubConnector{err: pgload.ErrConnectionFailed}
	orig := newConnector
	t.Cleanup(func() { newConnector = orig })
	newConnector = func(pgload.ConnectionParams, pgload.Logger) (pgload.Connector, error) { return stub, nil }

	_, _, err := connect(context.Background(), pgload.ConnectionParams{Host: "h", Port: 1}, logging.NewNullLogger())

	assert.ErrorIs(t, err, pgload.ErrConnectionFailed)
	assert.True(t, stub.closed)
}

func TestConnect_FactoryError(t *testing.T) {
	orig := newConnector
	t.Cleanup(func() { newConnector = orig })
	newConnector = func(pgload.ConnectionParams, pgload.Logger) (pgload.Connector, error) {
		return nil, pgload.ErrInvalidConfig
	}

	_, _, err := connect(context.Background(), pgload.ConnectionParams{}, logging.NewNullLogger())

	assert.ErrorIs(t, err, pgload.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "failed to create connector")
}

func TestLogConnectionVerbose(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWriterLogger(&buf, true)

	logConnectionVerbose(logger, pgload.ConnectionParams{Host: "db", Port: 5432, User: "u", Database: "d", SSLMode: "require"})

	out := buf.String()
	assert.Contains(t, out, "[VERBOSE]   Host: db")
	assert.Contains(t, out, "SSL Mode: require")
	assert.Contains(t, out, "Auth Method: Standard")
	assert.NotContains(t, out, "Password")
}

func TestParseKeyValuePairs(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		want    map[string]string
		wantErr string
	}{
		{name: "single pair", input: []string{"id=BIGINT"}, want: map[string]string{"id": "BIGINT"}},
		{
			name:  "type with comma and parens",
			input: []string{"amount=NUMERIC(10,2)", "note=TEXT"},
			want:  map[string]string{"amount": "NUMERIC(10,2)", "note": "TEXT"},
		},
		{name: "nil input", input: nil, want: map[string]string{}},
		{name: "value with equals", input: []string{"expr=a=b"}, want: map[string]string{"expr": "a=b"}},
		{name: "missing equals", input: []string{"BIGINT"}, wantErr: "not in key=value format"},
		{name: "empty key", input: []string{"=TEXT"}, wantErr: "empty key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseKeyValuePairs("type", tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.ErrorIs(t, err, pgload.ErrUsage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadFlags_Options(t *testing.T) {
	f := loadFlags{batchSize: 50, pageSize: 10, onError: "stop"}

	opts, err := f.options()

	require.NoError(t, err)
	assert.Equal(t, pgload.LoadOptions{BatchSize: 50, PageSize: 10, Policy: pgload.StopOnError}, opts)
}

func TestLoadFlags_OptionsInvalid(t *testing.T) {
	f := loadFlags{batchSize: 0, pageSize: -1, onError: "retry"}

	_, err := f.options()

	require.Error(t, err)
	msg := err.Error()
	assert.True(t, strings.Contains(msg, "--batch-size") && strings.Contains(msg, "--page-size"), msg)
	assert.True(t, errors.Is(err, pgload.ErrInvalidConfig), "unknown policy")
	assert.True(t, errors.Is(err, pgload.ErrUsage))
}

func TestPrintLoadResult(t *testing.T) {
	var buf bytes.Buffer

	printLoadResult(&buf, nil)
	assert.Empty(t, buf.String())

	printLoadResult(&buf, &pgload.LoadResult{
		Table:     pgload.TableName{Schema: "public", Name: "t"},
		TotalRows: 3,
		Batches:   []pgload.BatchResult{{Rows: 3}},
	})
	assert.Contains(t, buf.String(), "3 of 3 rows inserted into public.t")
}
