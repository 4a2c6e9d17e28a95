package cli

import (
	"fmt"
	"os"

	"github.com/pgload/pgload/pkg/pgload"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pgload",
	Short: "Load CSV and Excel files into PostgreSQL",
	Long: `pgload loads tabular files into PostgreSQL tables.

CSV files are loaded interactively: pgload asks for the file, a SQL type for
every column and whether to create the destination table. Excel workbooks are
combined from a directory and the table definition is inferred from the data.
Rows are inserted in batches of 100 that commit independently, so one bad
batch never undoes the others.

Connection parameters come from the [postgresql] section of an INI file
(db.ini by default) or from a URI passed with --connection.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Database connection failed
  12 - User denied replacing a table
  13 - SQL statement failed
  14 - Constraint violation
  15 - Source file could not be read
  16 - Partial load (some batches failed)`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(os.Stdout)
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("help", false, "Help for pgload")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
	rootCmd.PersistentFlags().StringVarP(&globalConn.configPath, "config", "c", pgload.DefaultConfigFile,
		"INI file with a [postgresql] section (host, port, database, user, password)")
	rootCmd.PersistentFlags().StringVar(&globalConn.connection, "connection", "",
		"PostgreSQL URI used instead of the INI file\n"+
			"Example: postgresql://user@localhost:5432/sales?sslmode=disable")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", pgload.ErrUsage, err)
	})
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}

// usageArgs marks argument validation failures as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return fmt.Errorf("%w: %w\n\nUsage: %s", pgload.ErrUsage, err, cmd.UseLine())
		}
		return nil
	}
}
