package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgload/pgload/internal/db"
	"github.com/pgload/pgload/internal/loader"
	"github.com/pgload/pgload/internal/logging"
	"github.com/pgload/pgload/pkg/pgload"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the tables of a schema",
	Long: `Tables prints the tables of a schema, one per line, in name order.

Examples:
  pgload tables
  pgload tables --schema staging`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runTables,
}

var tablesFlags struct {
	schema string
}

func init() {
	rootCmd.AddCommand(tablesCmd)

	tablesCmd.Flags().StringVar(&tablesFlags.schema, "schema", pgload.DefaultSchema, "Schema to list")
}

func runTables(cmd *cobra.Command, _ []string) error {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLogger(verbose)

	params, err := resolveConnectionParams(globalConn)
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

	tables, err := loader.New(db.NewPoolAdapter(pool), logger).ListTables(ctx, tablesFlags.schema)
	if err != nil {
		return fmt.Errorf("failed to list tables in schema %q: %w", tablesFlags.schema, err)
	}

	if len(tables) == 0 {
		logger.Info("No tables in schema %q", tablesFlags.schema)
		return nil
	}
	for _, table := range tables {
		fmt.Fprintln(cmd.OutOrStdout(), table)
	}
	return nil
}
