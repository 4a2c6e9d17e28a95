package pgload

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure kinds pgload distinguishes.
// Callers tell them apart with errors.Is().
//
// Example usage:
//
//	result, err := loader.Load(ctx, table, data, opts)
//	if errors.Is(err, pgload.ErrConstraintViolation) {
//	    // a batch was rejected by a unique/foreign key/check constraint
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConnectionFailed indicates the database session could not be
	// established or was lost mid-operation.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrStatementFailed indicates the server rejected a statement.
	ErrStatementFailed = errors.New("statement failed")

	// ErrConstraintViolation indicates a statement violated an integrity
	// constraint (SQLSTATE class 23).
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrSourceRead indicates the input file could not be read or parsed.
	ErrSourceRead = errors.New("source read failed")

	// ErrTableExists indicates the destination table already exists and the
	// if-exists policy forbids touching it.
	ErrTableExists = errors.New("table already exists")

	// ErrApprovalDenied indicates the user declined a destructive operation.
	ErrApprovalDenied = errors.New("approval denied")

	// ErrPartialLoad indicates some batches were committed and others failed.
	ErrPartialLoad = errors.New("partial load")

	// ErrUsage indicates the command line was malformed.
	ErrUsage = errors.New("usage error")
)

// StatementError reports a failed database statement together with its kind
// and the query text that was attempted.
type StatementError struct {
	// Kind is one of ErrConnectionFailed, ErrStatementFailed or ErrConstraintViolation.
	Kind error
	// Query is the statement text as sent to the server.
	Query string
	// Err is the underlying driver error.
	Err error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("%v: %v\nQuery: %s", e.Kind, e.Err, previewQuery(e.Query))
}

// Unwrap exposes both the kind and the driver error to errors.Is/As.
func (e *StatementError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// previewQuery keeps the first MaxErrorPreviewLength characters of query.
func previewQuery(query string) string {
	query = strings.TrimSpace(query)
	n := 0
	for i := range query {
		if n == MaxErrorPreviewLength {
			return query[:i] + "..."
		}
		n++
	}
	return query
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Partial loads wrap the batch errors, so they are checked first.
	switch {
	case errors.Is(err, ErrUsage):
		return ExitUsageError
	case errors.Is(err, ErrPartialLoad):
		return ExitPartialLoad
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrConstraintViolation):
		return ExitConstraintViolation
	case errors.Is(err, ErrStatementFailed):
		return ExitStatementFailed
	case errors.Is(err, ErrSourceRead):
		return ExitSourceError
	case errors.Is(err, ErrTableExists):
		return ExitStatementFailed
	case errors.Is(err, ErrApprovalDenied):
		return ExitApprovalDenied
	}

	errStr := err.Error()
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
