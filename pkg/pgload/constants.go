package pgload

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess             = 0  // Load completed successfully
	ExitGeneralError        = 1  // Unknown or unclassified error
	ExitUsageError          = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic               = 3  // Internal panic (unexpected crash)
	ExitConfigError         = 10 // Invalid configuration
	ExitConnectionError     = 11 // Failed to connect to database
	ExitApprovalDenied      = 12 // User denied dropping the destination table
	ExitStatementFailed     = 13 // SQL statement rejected by the server
	ExitConstraintViolation = 14 // SQL statement violated a constraint
	ExitSourceError         = 15 // Input file could not be read
	ExitPartialLoad         = 16 // Some batches committed, some failed
)

const (
	// DefaultBatchSize is the number of rows inserted and committed together.
	DefaultBatchSize = 100

	// DefaultVarcharHeadroom is added to the longest value of a text column
	// when proposing its VARCHAR width.
	DefaultVarcharHeadroom = 10

	// DefaultSchema is the schema tables are created in and listed from.
	DefaultSchema = "public"

	// DefaultConfigFile is the INI file read when --config is not given.
	DefaultConfigFile = "db.ini"

	// ConfigSection is the INI section holding the connection parameters.
	ConfigSection = "postgresql"

	// DefaultManagementDB is the database administrative sessions connect to.
	DefaultManagementDB = "postgres"

	// DefaultPort is the PostgreSQL port used when the config omits one.
	DefaultPort = 5432

	// DefaultForceApprovalCountdown is the countdown before a forced table drop proceeds.
	DefaultForceApprovalCountdown = 5 * time.Second

	// DefaultRetryInitialDelay is the default initial delay before the first retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between retry attempts.
	DefaultRetryMaxDelay = 1 * time.Minute

	// DefaultRetryMaxAttempts is the default maximum number of connection retry attempts.
	DefaultRetryMaxAttempts = 3

	// MaxErrorPreviewLength is the maximum number of characters of a failed
	// statement shown in error messages. Multi-row inserts get long quickly.
	MaxErrorPreviewLength = 200

	// ValuesPlaceholder marks where the row list goes in an INSERT template.
	ValuesPlaceholder = "%s"
)
