package db

import (
	"context"
	"time"
)

// TokenProvider fetches the short-lived IAM token that TokenBasedConnector
// uses in place of a password. A load fetches it once per Connect.
type TokenProvider interface {
	GetToken(ctx context.Context) (token string, expiresOn time.Time, err error)

	// String names the provider and its identity for verbose logs, e.g.
	// "AWSIAMTokenProvider(endpoint=db:5432, region=eu-west-1, user=loader)".
	// It must never include the token.
	String() string
}

// AzurePostgreSQLScope is the OAuth scope Entra ID tokens are requested for.
const AzurePostgreSQLScope = "https://ossrdbms-aad.database.windows.net/.default"
