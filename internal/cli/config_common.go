package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pgload/pgload/internal/config"
	"github.com/pgload/pgload/internal/db"
	"github.com/pgload/pgload/internal/prompt"
	"github.com/pgload/pgload/internal/tui"
	"github.com/pgload/pgload/pkg/pgload"
)

// connectionFlags holds the persistent connection flag values.
type connectionFlags struct {
	configPath string
	connection string
}

var globalConn = connectionFlags{configPath: pgload.DefaultConfigFile}

// newConnector is replaced in tests.
var newConnector = db.NewConnector

// resolveConnectionParams loads .env, then reads the connection from the
// URI if one was given and from the INI file otherwise.
func resolveConnectionParams(flags connectionFlags) (pgload.ConnectionParams, error) {
	_ = godotenv.Load()

	var (
		params pgload.ConnectionParams
		err    error
	)
	if flags.connection != "" {
		params, err = db.ParseConnectionString(flags.connection)
	} else {
		params, err = config.LoadConnectionParams(flags.configPath)
		if errors.Is(err, config.ErrConfigNotFound) {
			err = fmt.Errorf("%w\n\nTip: create %s with a [%s] section or pass --connection postgresql://user@host/db",
				err, flags.configPath, pgload.ConfigSection)
		}
	}
	if err != nil {
		return pgload.ConnectionParams{}, err
	}

	if params.Password == "" {
		params.Password = os.Getenv("PGPASSWORD")
	}
	if err := params.Validate(); err != nil {
		return pgload.ConnectionParams{}, err
	}
	return params, nil
}

// logConnectionVerbose logs connection details when verbose mode is enabled.
func logConnectionVerbose(logger pgload.Logger, params pgload.ConnectionParams) {
	logger.Verbose("Connection resolved:")
	logger.Verbose("  Host: %s", params.Host)
	logger.Verbose("  Port: %d", params.Port)
	logger.Verbose("  User: %s", params.User)
	logger.Verbose("  Database: %s", params.Database)
	if params.SSLMode != "" {
		logger.Verbose("  SSL Mode: %s", params.SSLMode)
	}
	logger.Verbose("  Auth Method: %s", params.AuthMethod)
}

// connect opens a pool for params. The returned cleanup closes the pool and
// releases anything the connector holds.
func connect(ctx context.Context, params pgload.ConnectionParams, logger pgload.Logger) (*pgxpool.Pool, func(), error) {
	logConnectionVerbose(logger, params)

	connector, err := newConnector(params, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create connector: %w", err)
	}

	pool, err := connector.Connect(ctx)
	if err != nil {
		closeConnector(connector)
		return nil, nil, err
	}

	cleanup := func() {
		pool.Close()
		closeConnector(connector)
	}
	return pool, cleanup, nil
}

func closeConnector(connector pgload.Connector) {
	if closer, ok := connector.(io.Closer); ok {
		_ = closer.Close()
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(logger pgload.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			logger.Info("\n[INTERRUPT] Received interrupt signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}

// newPrompter builds the console prompter on the command's streams. The
// table choice uses the arrow-key selector when a human is at the terminal.
func newPrompter(cmd *cobra.Command) pgload.Prompter {
	in, out := cmd.InOrStdin(), cmd.OutOrStdout()
	var opts []prompt.ConsoleOption
	if tui.IsInteractive() {
		opts = append(opts, prompt.WithSelector(in, out))
	}
	return prompt.NewConsole(in, out, opts...)
}

// loadFlags holds the batching flag values shared by the load commands.
type loadFlags struct {
	batchSize int
	pageSize  int
	onError   string
}

func (f *loadFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.batchSize, "batch-size", pgload.DefaultBatchSize,
		"Rows inserted and committed together")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0,
		"Rows per INSERT statement inside a batch (default: the batch size)")
	cmd.Flags().StringVar(&f.onError, "on-error", pgload.ContinueOnError.String(),
		"What to do after a failed batch: continue|stop")
}

func (f *loadFlags) options() (pgload.LoadOptions, error) {
	var errs []error
	if f.batchSize <= 0 {
		errs = append(errs, fmt.Errorf("--batch-size %d must be positive: %w", f.batchSize, pgload.ErrUsage))
	}
	if f.pageSize < 0 {
		errs = append(errs, fmt.Errorf("--page-size %d must not be negative: %w", f.pageSize, pgload.ErrUsage))
	}
	policy, err := pgload.ParseFailurePolicy(f.onError)
	if err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return pgload.LoadOptions{}, err
	}
	return pgload.LoadOptions{BatchSize: f.batchSize, PageSize: f.pageSize, Policy: policy}, nil
}

// parseKeyValuePairs converts a slice of "key=value" strings into a map.
// The first "=" splits, so values may contain "=".
func parseKeyValuePairs(flag string, pairs []string) (map[string]string, error) {
	result := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("--%s %q is not in key=value format (example: --%s amount=NUMERIC(10,2)): %w",
				flag, pair, flag, pgload.ErrUsage)
		}
		if key == "" {
			return nil, fmt.Errorf("--%s %q has an empty key: %w", flag, pair, pgload.ErrUsage)
		}
		result[key] = value
	}

	return result, nil
}

// printLoadResult writes the per-batch summary. A nil result prints nothing.
func printLoadResult(w io.Writer, result *pgload.LoadResult) {
	if result == nil {
		return
	}
	fmt.Fprint(w, "\n"+tui.RenderLoadResult(result))
}
