package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgload/pgload/internal/logging"
	"github.com/pgload/pgload/internal/retry"
	"github.com/pgload/pgload/pkg/pgload"
)

// tokenExpiryWarning is how close to expiry a freshly acquired token triggers a warning.
const tokenExpiryWarning = 5 * time.Minute

// TokenBasedConnector implements the Connector interface for cloud providers
// that authenticate via short-lived tokens (AWS IAM, Azure Entra ID).
// The token is acquired from a TokenProvider and used as the PostgreSQL password.
type TokenBasedConnector struct {
	params        pgload.ConnectionParams
	tokenProvider TokenProvider
	retryExecutor *retry.Executor
	providerName  string
	logger        pgload.Logger
}

// NewTokenBasedConnector creates a connector that uses a TokenProvider for authentication.
// providerName is used in error/warning messages (e.g., "AWS IAM", "Azure").
func NewTokenBasedConnector(params pgload.ConnectionParams, tokenProvider TokenProvider, providerName string, logger pgload.Logger) *TokenBasedConnector {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &TokenBasedConnector{
		params:        params,
		tokenProvider: tokenProvider,
		retryExecutor: newRetryExecutor(logger),
		providerName:  providerName,
		logger:        logger,
	}
}

func (c *TokenBasedConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	token, expiresOn, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to acquire %s token: %w", pgload.ErrConnectionFailed, c.providerName, err)
	}

	if remaining := time.Until(expiresOn); remaining < tokenExpiryWarning {
		c.logger.Info("Warning: %s token expires in %v", c.providerName, remaining.Round(time.Second))
	}
	c.logger.Verbose("Acquired token from %s", c.tokenProvider)

	withToken := c.params
	withToken.Password = token

	return connectWithRetry(ctx, c.retryExecutor, withToken, c.logger)
}
