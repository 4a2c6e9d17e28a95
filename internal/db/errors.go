package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgload/pgload/internal/retry"
	"github.com/pgload/pgload/pkg/pgload"
)

// ClassifyError maps a driver error to one of the statement failure kinds:
// SQLSTATE class 23 is a constraint violation, a lost or refused session is
// a connection failure, and everything else is a failed statement.
func ClassifyError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) >= 2 && pgErr.Code[:2] == "23" {
		return pgload.ErrConstraintViolation
	}
	if retry.IsConnectionError(err) {
		return pgload.ErrConnectionFailed
	}
	return pgload.ErrStatementFailed
}

// NewStatementError classifies err and attaches the attempted query.
func NewStatementError(query string, err error) *pgload.StatementError {
	return &pgload.StatementError{Kind: ClassifyError(err), Query: query, Err: err}
}
