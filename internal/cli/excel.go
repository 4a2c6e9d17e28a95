package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pgload/pgload/internal/config"
	"github.com/pgload/pgload/internal/db"
	"github.com/pgload/pgload/internal/loader"
	"github.com/pgload/pgload/internal/logging"
	"github.com/pgload/pgload/internal/services"
	"github.com/pgload/pgload/internal/ui"
	"github.com/pgload/pgload/pkg/pgload"
)

var excelCmd = &cobra.Command{
	Use:   "excel",
	Short: "Combine a directory of .xlsx files into one table",
	Long: `Excel reads the first sheet of every .xlsx file in a directory, stacks the
rows under the union of their header rows and loads them into one table.

Column types are inferred from the cells: BIGINT, DOUBLE PRECISION, BOOLEAN
or TIMESTAMP when every value fits, VARCHAR otherwise. A VARCHAR column is
sized to its longest value plus --varchar-headroom characters.

When the destination table exists, --if-exists decides:
  fail     stop without touching it (default)
  append   insert into the existing table
  replace  drop and recreate it; asks you to type the table name unless --force

A YAML job file (--job) can hold the same settings; flags override it:

  connection_file: db.ini
  source_dir: ./reports
  table: staging.reports
  if_exists: replace
  batch_size: 100
  varchar_headroom: 10

Examples:
  pgload excel --dir ./reports --table reports
  pgload excel --job monthly.yaml --if-exists replace --force`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runExcel,
}

var excelFlags struct {
	job      string
	dir      string
	table    string
	schema   string
	ifExists string
	force    bool
	headroom int
	load     loadFlags
}

func init() {
	rootCmd.AddCommand(excelCmd)

	excelCmd.Flags().StringVar(&excelFlags.job, "job", "", "YAML job file")
	excelCmd.Flags().StringVar(&excelFlags.dir, "dir", "", "Directory holding the .xlsx files")
	excelCmd.Flags().StringVar(&excelFlags.table, "table", "", "Destination table, optionally schema-qualified")
	excelCmd.Flags().StringVar(&excelFlags.schema, "schema", pgload.DefaultSchema, "Schema for an unqualified table name")
	excelCmd.Flags().StringVar(&excelFlags.ifExists, "if-exists", string(pgload.IfExistsFail),
		"What to do when the table exists: fail|append|replace")
	excelCmd.Flags().BoolVar(&excelFlags.force, "force", false,
		"Replace without typing the table name (countdown instead)")
	excelCmd.Flags().IntVar(&excelFlags.headroom, "varchar-headroom", pgload.DefaultVarcharHeadroom,
		"Characters added to the longest value of a VARCHAR column")
	excelFlags.load.register(excelCmd)
}

// buildLoadJob merges the job file with the flags that were set. It also
// returns the connection file the job names. Relative paths in the job file
// are resolved against the job file's directory.
func buildLoadJob(cmd *cobra.Command) (pgload.LoadJob, string, error) {
	if _, err := excelFlags.load.options(); err != nil {
		return pgload.LoadJob{}, "", err
	}

	jc := &config.JobConfig{}
	if excelFlags.job != "" {
		var err error
		if jc, err = config.LoadJob(excelFlags.job); err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				err = fmt.Errorf("%w: %w", err, pgload.ErrInvalidConfig)
			}
			return pgload.LoadJob{}, "", err
		}
		base := filepath.Dir(excelFlags.job)
		jc.SourceDir = relativeTo(base, jc.SourceDir)
		jc.ConnectionFile = relativeTo(base, jc.ConnectionFile)
	}

	flags := cmd.Flags()
	if flags.Changed("dir") || jc.SourceDir == "" {
		jc.SourceDir = excelFlags.dir
	}
	if flags.Changed("table") || jc.Table == "" {
		jc.Table = excelFlags.table
	}
	if flags.Changed("schema") || jc.Schema == "" {
		jc.Schema = excelFlags.schema
	}
	if flags.Changed("if-exists") || jc.IfExists == "" {
		jc.IfExists = excelFlags.ifExists
	}
	if flags.Changed("batch-size") || jc.BatchSize == 0 {
		jc.BatchSize = excelFlags.load.batchSize
	}
	if flags.Changed("page-size") || jc.PageSize == 0 {
		jc.PageSize = excelFlags.load.pageSize
	}
	if flags.Changed("on-error") || jc.OnError == "" {
		jc.OnError = excelFlags.load.onError
	}
	if flags.Changed("varchar-headroom") || jc.VarcharHeadroom == nil {
		headroom := excelFlags.headroom
		jc.VarcharHeadroom = &headroom
	}

	job, err := jc.Resolve()
	if err != nil {
		return pgload.LoadJob{}, "", err
	}

	return job, jc.ConnectionFile, nil
}

func relativeTo(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

func newApprover(force, verbose bool) pgload.Approver {
	if force {
		return ui.NewForcedApprover(verbose)
	}
	return ui.NewInteractiveApprover(verbose)
}

func runExcel(cmd *cobra.Command, _ []string) error {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLogger(verbose)

	job, connectionFile, err := buildLoadJob(cmd)
	if err != nil {
		return err
	}

	connFlags := globalConn
	if connectionFile != "" && !cmd.Flags().Changed("config") {
		connFlags.configPath = connectionFile
	}
	params, err := resolveConnectionParams(connFlags)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(logger)
	defer stop()

	pool, cleanup, err := connect(ctx, params, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	store := loader.New(db.NewPoolAdapter(pool), logger)
	svc := services.NewExcelService(store, newApprover(excelFlags.force, verbose), logger)

	result, err := svc.Run(ctx, job)
	printLoadResult(cmd.OutOrStdout(), result)
	return err
}
