package pgload

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ConnectionParams represents the parsed connection parameters.
// Loaded once at startup and never mutated; derive variants with the copy helpers.
type ConnectionParams struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string

	// ManagementDatabase is the database administrative sessions connect to
	// (CREATE DATABASE cannot target the database being created).
	ManagementDatabase string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// Additional connection parameters
	AppName        string
	ConnectTimeout time.Duration

	// Cloud authentication parameters, read only by the matching AuthMethod.
	AWSRegion         string
	GoogleInstance    string
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string
}

// AdminParams returns a copy of the params pointed at the management database,
// for sessions that create databases.
func (p ConnectionParams) AdminParams() ConnectionParams {
	admin := p
	admin.Database = p.ManagementDatabase
	if admin.Database == "" {
		admin.Database = DefaultManagementDB
	}
	return admin
}

// Validate checks that the fields needed to open a session are present.
// It returns a multi-error if multiple validation failures occur.
func (p ConnectionParams) Validate() error {
	var errs []error

	if p.Host == "" && p.AuthMethod != AuthMethodGoogleIAM {
		errs = append(errs, fmt.Errorf("host is required: %w", ErrInvalidConfig))
	}
	if p.Port <= 0 || p.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d is out of range: %w", p.Port, ErrInvalidConfig))
	}
	if p.Database == "" {
		errs = append(errs, fmt.Errorf("database is required: %w", ErrInvalidConfig))
	}
	if p.User == "" {
		errs = append(errs, fmt.Errorf("user is required: %w", ErrInvalidConfig))
	}
	if !p.AuthMethod.IsValid() {
		errs = append(errs, fmt.Errorf("auth method %s: %w", p.AuthMethod, ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                         // AWS IAM Database Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}

// ParseAuthMethod maps the auth_method config value to an AuthMethod.
// An empty value selects standard password authentication.
func ParseAuthMethod(s string) (AuthMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "password":
		return AuthMethodStandard, nil
	case "aws", "aws-iam":
		return AuthMethodAWSIAM, nil
	case "google", "google-iam":
		return AuthMethodGoogleIAM, nil
	case "azure", "azure-entra-id":
		return AuthMethodAzureEntraID, nil
	default:
		return AuthMethodStandard, fmt.Errorf("unknown auth method %q: %w", s, ErrInvalidConfig)
	}
}

// TableName identifies a table by schema and name.
type TableName struct {
	Schema string
	Name   string
}

// ParseTableName splits "schema.table" into its parts. A bare name is placed
// in defaultSchema.
func ParseTableName(s, defaultSchema string) (TableName, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TableName{}, fmt.Errorf("table name is empty: %w", ErrInvalidConfig)
	}

	schema, name, ok := strings.Cut(s, ".")
	if !ok {
		return TableName{Schema: defaultSchema, Name: s}, nil
	}
	if schema == "" || name == "" {
		return TableName{}, fmt.Errorf("table name %q is malformed: %w", s, ErrInvalidConfig)
	}
	return TableName{Schema: schema, Name: name}, nil
}

// Sanitize returns the table as a quoted SQL identifier.
func (t TableName) Sanitize() string {
	if t.Schema == "" {
		return pgx.Identifier{t.Name}.Sanitize()
	}
	return pgx.Identifier{t.Schema, t.Name}.Sanitize()
}

func (t TableName) String() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// Column is a column name paired with its SQL type string.
// The type string is trusted as-is and appended verbatim to DDL.
type Column struct {
	Name string
	Type string
}

// Dataset is a tabular file held in memory: ordered column names and rows.
// Every row has exactly len(Columns) cells; a nil cell is SQL NULL.
type Dataset struct {
	Columns []string
	Rows    [][]any

	// TextColumns names the columns the source itself stores as text.
	// Inference keeps them text however their values look.
	TextColumns map[string]bool
}

// MarkText records that the named column holds source text.
func (d *Dataset) MarkText(name string) {
	if d.TextColumns == nil {
		d.TextColumns = make(map[string]bool)
	}
	d.TextColumns[name] = true
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// ColumnIndex returns the position of the named column, or -1.
func (d *Dataset) ColumnIndex(name string) int {
	for i, c := range d.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// FailurePolicy decides what happens to the remaining batches once one fails.
type FailurePolicy int

const (
	// ContinueOnError attempts every batch regardless of earlier failures.
	ContinueOnError FailurePolicy = iota
	// StopOnError skips all batches after the first failed one.
	StopOnError
)

func (p FailurePolicy) String() string {
	switch p {
	case ContinueOnError:
		return "continue"
	case StopOnError:
		return "stop"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// ParseFailurePolicy maps "continue"/"stop" to a FailurePolicy.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "continue":
		return ContinueOnError, nil
	case "stop":
		return StopOnError, nil
	default:
		return ContinueOnError, fmt.Errorf("unknown failure policy %q (want continue or stop): %w", s, ErrInvalidConfig)
	}
}

// IfExists decides what the Excel load does when the destination table exists.
type IfExists string

const (
	IfExistsFail    IfExists = "fail"
	IfExistsReplace IfExists = "replace"
	IfExistsAppend  IfExists = "append"
)

// ParseIfExists validates an if-exists policy value. Empty selects IfExistsFail.
func ParseIfExists(s string) (IfExists, error) {
	switch v := IfExists(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return IfExistsFail, nil
	case IfExistsFail, IfExistsReplace, IfExistsAppend:
		return v, nil
	default:
		return IfExistsFail, fmt.Errorf("unknown if-exists policy %q (want fail, replace or append): %w", s, ErrInvalidConfig)
	}
}

// LoadOptions controls how a dataset is split and inserted.
type LoadOptions struct {
	// BatchSize is the number of rows per committed batch (DefaultBatchSize if <= 0).
	BatchSize int
	// PageSize is the number of rows per INSERT statement inside a batch
	// (BatchSize if <= 0).
	PageSize int
	// Policy decides whether later batches run after a failure.
	Policy FailurePolicy
}

// BatchResult is the outcome of inserting one batch.
type BatchResult struct {
	Index  int // zero-based batch number
	Offset int // dataset row index of the first row in the batch
	Rows   int
	// Skipped is set when StopOnError prevented the batch from being attempted.
	Skipped bool
	Err     error
}

// LoadResult summarizes a Load call batch by batch.
type LoadResult struct {
	RunID     uuid.UUID
	Table     TableName
	TotalRows int
	Batches   []BatchResult
}

// InsertedRows returns the number of rows in committed batches.
func (r *LoadResult) InsertedRows() int {
	n := 0
	for _, b := range r.Batches {
		if !b.Skipped && b.Err == nil {
			n += b.Rows
		}
	}
	return n
}

// FailedBatches returns the batches whose insert failed.
func (r *LoadResult) FailedBatches() []BatchResult {
	var failed []BatchResult
	for _, b := range r.Batches {
		if b.Err != nil {
			failed = append(failed, b)
		}
	}
	return failed
}

// SkippedBatches returns the number of batches never attempted.
func (r *LoadResult) SkippedBatches() int {
	n := 0
	for _, b := range r.Batches {
		if b.Skipped {
			n++
		}
	}
	return n
}

// Err joins the batch failures. When at least one batch committed the
// result also matches ErrPartialLoad.
func (r *LoadResult) Err() error {
	failed := r.FailedBatches()
	if len(failed) == 0 {
		return nil
	}

	errs := make([]error, 0, len(failed)+1)
	if r.InsertedRows() > 0 {
		errs = append(errs, fmt.Errorf("%w: %d of %d rows committed into %s",
			ErrPartialLoad, r.InsertedRows(), r.TotalRows, r.Table))
	}
	for _, b := range failed {
		errs = append(errs, fmt.Errorf("batch %d (rows %d-%d): %w", b.Index+1, b.Offset+1, b.Offset+b.Rows, b.Err))
	}
	return errors.Join(errs...)
}

// LoadJob is the explicit configuration of one Excel load.
type LoadJob struct {
	// SourceDir holds the .xlsx files to combine.
	SourceDir string
	Table     TableName
	IfExists  IfExists
	Options   LoadOptions
	// VarcharHeadroom is added to the longest value of each text column.
	VarcharHeadroom int
}
