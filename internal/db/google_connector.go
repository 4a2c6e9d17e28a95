package db

import (
	"context"
	"fmt"
	"net"

	"cloud.google.com/go/cloudsqlconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgload/pgload/internal/logging"
	"github.com/pgload/pgload/pkg/pgload"
)

// GoogleCloudSQLConnector connects to Cloud SQL for PostgreSQL with IAM
// database authentication through the Cloud SQL Go Connector.
//
// Implements io.Closer: call Close() after the pool is closed to release
// the dialer.
type GoogleCloudSQLConnector struct {
	params   pgload.ConnectionParams
	instance string
	logger   pgload.Logger
	dialer   *cloudsqlconn.Dialer
}

// NewGoogleCloudSQLConnector creates a connector for instance, given as
// project:region:instance.
func NewGoogleCloudSQLConnector(params pgload.ConnectionParams, instance string, logger pgload.Logger) *GoogleCloudSQLConnector {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &GoogleCloudSQLConnector{
		params:   params,
		instance: instance,
		logger:   logger,
	}
}

// googleDSN is the keyword/value DSN handed to pgx. The dialer owns TLS,
// so sslmode is disabled at the libpq level.
func googleDSN(instance, user, database string) string {
	return fmt.Sprintf("host=%s user=%s dbname=%s sslmode=disable", instance, user, database)
}

func (c *GoogleCloudSQLConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	dialer, err := cloudsqlconn.NewDialer(ctx, cloudsqlconn.WithIAMAuthN())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Cloud SQL dialer: %w", pgload.ErrConnectionFailed, err)
	}

	poolConfig, err := pgxpool.ParseConfig(googleDSN(c.instance, c.params.User, c.params.Database))
	if err != nil {
		dialer.Close()
		return nil, fmt.Errorf("failed to parse connection config: %w: %w", err, pgload.ErrInvalidConfig)
	}

	poolConfig.ConnConfig.DialFunc = func(ctx context.Context, _, _ string) (net.Conn, error) {
		return dialer.Dial(ctx, c.instance)
	}

	configurePool(poolConfig, c.logger)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		dialer.Close()
		return nil, wrapConnectionError(err, c.instance, 0, c.params.Database)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		dialer.Close()
		return nil, wrapConnectionError(err, c.instance, 0, c.params.Database)
	}

	c.dialer = dialer
	c.logger.Verbose("Connected to Cloud SQL instance %s/%s as %s", c.instance, c.params.Database, c.params.User)
	return pool, nil
}

// Close releases the Cloud SQL dialer resources.
func (c *GoogleCloudSQLConnector) Close() error {
	if c.dialer != nil {
		err := c.dialer.Close()
		c.dialer = nil
		return err
	}
	return nil
}
