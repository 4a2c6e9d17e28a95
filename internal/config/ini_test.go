package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pgload/pgload/pkg/pgload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConnectionParams_AllFields(t *testing.T) {
	t.Setenv("PGPASSWORD", "from-env")
	t.Setenv("AZURE_CLIENT_SECRET", "")
	path := writeFile(t, "db.ini", `[postgresql]
host=db.example.com
port=5433
database=sales
user=loader
password=secret
sslmode=require
management_database=template1
application_name=nightly
connect_timeout=15
`)

	params, err := LoadConnectionParams(path)
	require.NoError(t, err)

	assert.Equal(t, "db.example.com", params.Host)
	assert.Equal(t, 5433, params.Port)
	assert.Equal(t, "sales", params.Database)
	assert.Equal(t, "loader", params.User)
	assert.Equal(t, "secret", params.Password, "file password wins over PGPASSWORD")
	assert.Equal(t, "require", params.SSLMode)
	assert.Equal(t, "template1", params.ManagementDatabase)
	assert.Equal(t, "nightly", params.AppName)
	assert.Equal(t, 15*time.Second, params.ConnectTimeout)
	assert.Equal(t, pgload.AuthMethodStandard, params.AuthMethod)
}

func TestLoadConnectionParams_Defaults(t *testing.T) {
	t.Setenv("PGPASSWORD", "from-env")
	path := writeFile(t, "db.ini", `[postgresql]
host=localhost
database=sales
user=loader
`)

	params, err := LoadConnectionParams(path)
	require.NoError(t, err)

	assert.Equal(t, pgload.DefaultPort, params.Port)
	assert.Equal(t, "from-env", params.Password)
	assert.NoError(t, params.Validate())
}

func TestLoadConnectionParams_CloudAuth(t *testing.T) {
	t.Setenv("AZURE_CLIENT_SECRET", "shh")
	path := writeFile(t, "db.ini", `[postgresql]
host=myserver.postgres.database.azure.com
database=sales
user=loader@contoso
auth_method=azure
azure_tenant_id=tenant
azure_client_id=client
`)

	params, err := LoadConnectionParams(path)
	require.NoError(t, err)

	assert.Equal(t, pgload.AuthMethodAzureEntraID, params.AuthMethod)
	assert.Equal(t, "tenant", params.AzureTenantID)
	assert.Equal(t, "client", params.AzureClientID)
	assert.Equal(t, "shh", params.AzureClientSecret)
}

func TestLoadConnectionParams_MissingSection(t *testing.T) {
	path := writeFile(t, "db.ini", "[mysql]\nhost=localhost\n")

	_, err := LoadConnectionParams(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, pgload.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "section postgresql not found")
}

func TestLoadConnectionParams_FileNotFound(t *testing.T) {
	_, err := LoadConnectionParams(filepath.Join(t.TempDir(), "missing.ini"))
	assert.True(t, errors.Is(err, ErrConfigNotFound), "expected ErrConfigNotFound, got: %v", err)
	assert.ErrorIs(t, err, pgload.ErrInvalidConfig)
}

func TestLoadConnectionParams_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"bad port", "[postgresql]\nport=abc\n", "port"},
		{"bad timeout", "[postgresql]\nconnect_timeout=soon\n", "connect_timeout"},
		{"bad auth", "[postgresql]\nauth_method=kerberos\n", "auth method"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConnectionParams(writeFile(t, "db.ini", tt.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, pgload.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
