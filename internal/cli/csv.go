package cli

import (
	"github.com/spf13/cobra"

	"github.com/pgload/pgload/internal/db"
	"github.com/pgload/pgload/internal/loader"
	"github.com/pgload/pgload/internal/logging"
	"github.com/pgload/pgload/internal/services"
	"github.com/pgload/pgload/pkg/pgload"
)

var csvCmd = &cobra.Command{
	Use:   "csv",
	Short: "Load a CSV file into a table",
	Long: `Csv loads a CSV file whose first row holds the column names.

pgload asks for the file path, a SQL type for every column and whether to
create the table ("Y" creates it). A new table gets the typed columns; an
existing one is picked from the tables of the schema. Rows are inserted in
batches that commit independently; the summary lists every failed batch.

Flags answer the questions up front, so a fully specified run needs no input.
Types are used verbatim in CREATE TABLE.

Examples:
  # Fully interactive
  pgload csv

  # Create the table without prompting
  pgload csv --path sales.csv --create --table sales \
    --type id=BIGINT --type amount='NUMERIC(10,2)' --type region=TEXT

  # Append into an existing table, stop at the first failed batch
  pgload csv --path sales.csv --create=false --table sales --on-error stop`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runCSV,
}

var csvFlags struct {
	path   string
	table  string
	create bool
	types  []string
	schema string
	load   loadFlags
}

func init() {
	rootCmd.AddCommand(csvCmd)

	csvCmd.Flags().StringVar(&csvFlags.path, "path", "", "CSV file to load (asked when empty)")
	csvCmd.Flags().StringVar(&csvFlags.table, "table", "",
		"Destination table, optionally schema-qualified (asked when empty)")
	csvCmd.Flags().BoolVar(&csvFlags.create, "create", false,
		"Create the destination table (asked when not given)")
	csvCmd.Flags().StringArrayVar(&csvFlags.types, "type", nil,
		"Column type as name=TYPE (can be specified multiple times)")
	csvCmd.Flags().StringVar(&csvFlags.schema, "schema", pgload.DefaultSchema,
		"Schema for unqualified table names and for the table listing")
	csvFlags.load.register(csvCmd)
}

func buildCSVRequest(cmd *cobra.Command) (services.CSVRequest, error) {
	types, err := parseKeyValuePairs("type", csvFlags.types)
	if err != nil {
		return services.CSVRequest{}, err
	}
	opts, err := csvFlags.load.options()
	if err != nil {
		return services.CSVRequest{}, err
	}

	req := services.CSVRequest{
		Path:    csvFlags.path,
		Table:   csvFlags.table,
		Types:   types,
		Schema:  csvFlags.schema,
		Options: opts,
	}
	if cmd.Flags().Changed("create") {
		create := csvFlags.create
		req.Create = &create
	}
	return req, nil
}

func runCSV(cmd *cobra.Command, _ []string) error {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLogger(verbose)

	req, err := buildCSVRequest(cmd)
	if err != nil {
		return err
	}

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

	store := loader.New(db.NewPoolAdapter(pool), logger)
	svc := services.NewCSVService(store, newPrompter(cmd), logger)

	result, err := svc.Run(ctx, req)
	printLoadResult(cmd.OutOrStdout(), result)
	return err
}
