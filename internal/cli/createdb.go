package cli

import (
	"github.com/spf13/cobra"

	"github.com/pgload/pgload/internal/db"
	"github.com/pgload/pgload/internal/db/manager"
	"github.com/pgload/pgload/internal/logging"
	"github.com/pgload/pgload/internal/services"
)

var createdbCmd = &cobra.Command{
	Use:   "createdb [name]",
	Short: "Create the configured database",
	Long: `Createdb issues CREATE DATABASE for the database named in the configuration,
or for [name] when given.

The statement runs outside any transaction on a session connected to the
management database (postgres, or management_database in the INI file),
because PostgreSQL cannot create the database a session is connected to.

Examples:
  # Create the database from db.ini
  pgload createdb

  # Create a differently named database, skipping it if present
  pgload createdb sales_archive --if-not-exists`,
	Args: usageArgs(cobra.MaximumNArgs(1)),
	RunE: runCreatedb,
}

var createdbFlags struct {
	ifNotExists bool
}

func init() {
	rootCmd.AddCommand(createdbCmd)

	createdbCmd.Flags().BoolVar(&createdbFlags.ifNotExists, "if-not-exists", false,
		"Succeed without changes when the database already exists")
}

func runCreatedb(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLogger(verbose)

	params, err := resolveConnectionParams(globalConn)
	if err != nil {
		return err
	}

	name := params.Database
	if len(args) == 1 {
		name = args[0]
	}

	ctx, stop := signalContext(logger)
	defer stop()

	pool, cleanup, err := connect(ctx, params.AdminParams(), logger)
	if err != nil {
		return err
	}
	defer cleanup()

	_, err = services.CreateDatabase(ctx, db.NewPoolAdapter(pool), manager.New(), logger, name, createdbFlags.ifNotExists)
	return err
}
