package pgload

// Logger receives progress and diagnostics from loads. Library code reports
// through it and never prints; the CLI decides where lines go.
// Implementations must tolerate calls from more than one goroutine.
type Logger interface {
	// Verbose carries per-column inference details, row counts and
	// connection attempts. Dropped unless --verbose is set.
	Verbose(format string, args ...interface{})

	// Info reports table changes and load totals.
	Info(format string, args ...interface{})

	// Error reports failures that do not stop the command, such as a
	// rollback that could not reach the server.
	Error(format string, args ...interface{})
}
