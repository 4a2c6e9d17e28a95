package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgload/pgload/internal/logging"
	"github.com/pgload/pgload/internal/retry"
	"github.com/pgload/pgload/pkg/pgload"
)

// Connection pool configuration constants
const (
	// DefaultMaxConns bounds the pool; loads run on a single session.
	DefaultMaxConns = 2

	// DefaultMinConns maintains at least one connection in the pool.
	DefaultMinConns = 1

	// DefaultMaxConnIdleTime keeps the session alive between interactive prompts.
	DefaultMaxConnIdleTime = 30 * time.Minute
)

func configurePool(poolConfig *pgxpool.Config, logger pgload.Logger) {
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = DefaultMinConns
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
	poolConfig.ConnConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		logger.Verbose("%s: %s", notice.Severity, notice.Message)
	}
}

func newRetryExecutor(logger pgload.Logger) *retry.Executor {
	strategy := retry.NewExponentialBackoff(pgload.DefaultRetryMaxAttempts,
		retry.WithInitialDelay(pgload.DefaultRetryInitialDelay),
		retry.WithMaxDelay(pgload.DefaultRetryMaxDelay),
	)
	return retry.NewExecutor(retry.NewPostgreSQLErrorClassifier(), strategy).
		WithOnRetry(func(attempt int, err error, delay time.Duration) {
			logger.Verbose("Connection attempt %d failed (%v), retrying in %v", attempt+1, err, delay.Round(time.Millisecond))
		})
}

// StandardConnector implements the Connector interface for standard
// username/password authentication with automatic retry on transient failures.
type StandardConnector struct {
	params        pgload.ConnectionParams
	logger        pgload.Logger
	retryExecutor *retry.Executor
}

// NewStandardConnector creates a new StandardConnector with the given parameters.
// Retry behavior uses pgload defaults: DefaultRetryMaxAttempts attempts,
// exponential backoff starting at DefaultRetryInitialDelay, max DefaultRetryMaxDelay.
func NewStandardConnector(params pgload.ConnectionParams, logger pgload.Logger) *StandardConnector {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &StandardConnector{
		params:        params,
		logger:        logger,
		retryExecutor: newRetryExecutor(logger),
	}
}

// Connect establishes a connection pool using standard authentication with automatic retry.
func (c *StandardConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	return connectWithRetry(ctx, c.retryExecutor, c.params, c.logger)
}

// connectWithRetry opens and pings a pool for params, retrying transient failures.
func connectWithRetry(ctx context.Context, executor *retry.Executor, params pgload.ConnectionParams, logger pgload.Logger) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	connStr := BuildConnectionString(params)

	err := executor.Execute(ctx, func(ctx context.Context) error {
		poolConfig, err := pgxpool.ParseConfig(connStr)
		if err != nil {
			return fmt.Errorf("failed to parse connection config: %w: %w", err, pgload.ErrInvalidConfig)
		}

		configurePool(poolConfig, logger)

		pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return wrapConnectionError(err, params.Host, params.Port, params.Database)
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return wrapConnectionError(err, params.Host, params.Port, params.Database)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	logger.Verbose("Connected to %s:%d/%s as %s", params.Host, params.Port, params.Database, params.User)
	return pool, nil
}

// NewConnector is a factory function that creates the appropriate Connector
// based on the params' AuthMethod.
func NewConnector(params pgload.ConnectionParams, logger pgload.Logger) (pgload.Connector, error) {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	switch params.AuthMethod {
	case pgload.AuthMethodStandard:
		return NewStandardConnector(params, logger), nil
	case pgload.AuthMethodAWSIAM:
		return newAWSConnector(params, logger)
	case pgload.AuthMethodGoogleIAM:
		return newGoogleConnector(params, logger)
	case pgload.AuthMethodAzureEntraID:
		return newAzureConnector(params, logger)
	default:
		return nil, fmt.Errorf("unsupported auth method %v: %w", params.AuthMethod, pgload.ErrInvalidConfig)
	}
}

// wrapConnectionError wraps raw pgx connection errors with actionable guidance.
// The result always matches pgload.ErrConnectionFailed.
func wrapConnectionError(err error, host string, port int, database string) error {
	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", host, port)

	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		return fmt.Errorf(`%w: connection refused to %s

Possible causes:
  - PostgreSQL is not running (check: pg_isready -h %s -p %d)
  - Wrong host or port in the [postgresql] section

Original error: %w`, pgload.ErrConnectionFailed, addr, host, port, err)

	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "no host"):
		return fmt.Errorf(`%w: cannot resolve host "%s"

Possible causes:
  - Hostname is misspelled
  - DNS is not configured or reachable

Original error: %w`, pgload.ErrConnectionFailed, host, err)

	case strings.Contains(errStr, "password authentication failed"):
		return fmt.Errorf(`%w: password authentication failed for database "%s"

Possible causes:
  - Wrong password (check the config file or $PGPASSWORD)
  - Wrong user
  - User does not have access to the database

Original error: %w`, pgload.ErrConnectionFailed, database, err)

	case strings.Contains(errStr, "does not exist"):
		return fmt.Errorf(`%w: database "%s" does not exist

To create it:
  pgload createdb

Original error: %w`, pgload.ErrConnectionFailed, database, err)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		return fmt.Errorf(`%w: connection timed out to %s

Possible causes:
  - Server is overloaded or unresponsive
  - Firewall silently dropping packets

Original error: %w`, pgload.ErrConnectionFailed, addr, err)

	case strings.Contains(errStr, "ssl") || strings.Contains(errStr, "tls"):
		return fmt.Errorf(`%w: SSL/TLS connection error

Possible causes:
  - Server requires SSL but sslmode is wrong
  - Certificate verification failed (try sslmode=require)

Original error: %w`, pgload.ErrConnectionFailed, err)

	case strings.Contains(errStr, "too many connections"):
		return fmt.Errorf(`%w: too many connections to database "%s"

Possible causes:
  - max_connections limit reached in postgresql.conf
  - Stale connections from previous loads

Original error: %w`, pgload.ErrConnectionFailed, database, err)

	default:
		return fmt.Errorf("%w: failed to connect to database: %w", pgload.ErrConnectionFailed, err)
	}
}

// newAWSConnector creates a token-based connector with the AWS IAM token provider.
func newAWSConnector(params pgload.ConnectionParams, logger pgload.Logger) (pgload.Connector, error) {
	endpoint := fmt.Sprintf("%s:%d", params.Host, params.Port)

	tokenProvider, err := NewAWSIAMTokenProvider(endpoint, params.AWSRegion, params.User)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS IAM token provider: %w", err)
	}

	return NewTokenBasedConnector(params, tokenProvider, "AWS IAM", logger), nil
}

// newGoogleConnector creates a GoogleCloudSQLConnector for Google Cloud SQL IAM authentication.
func newGoogleConnector(params pgload.ConnectionParams, logger pgload.Logger) (pgload.Connector, error) {
	if params.GoogleInstance == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires google_instance (project:region:instance): %w", pgload.ErrInvalidConfig)
	}
	if params.User == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires user: %w", pgload.ErrInvalidConfig)
	}

	return NewGoogleCloudSQLConnector(params, params.GoogleInstance, logger), nil
}

// newAzureConnector creates a token-based connector with the Azure Entra ID token provider.
// If explicit credentials (tenant, client, secret) are provided, uses Service Principal auth.
// Otherwise, falls back to DefaultAzureCredential chain.
func newAzureConnector(params pgload.ConnectionParams, logger pgload.Logger) (pgload.Connector, error) {
	var tokenProvider TokenProvider
	var err error

	if params.AzureTenantID != "" && params.AzureClientID != "" && params.AzureClientSecret != "" {
		tokenProvider, err = NewAzureServicePrincipalProvider(
			params.AzureTenantID,
			params.AzureClientID,
			params.AzureClientSecret,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure Service Principal provider: %w", err)
		}
	} else {
		tokenProvider, err = NewAzureDefaultCredentialProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure Default Credential provider: %w", err)
		}
	}

	return NewTokenBasedConnector(params, tokenProvider, "Azure", logger), nil
}
