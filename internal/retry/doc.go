// Package retry re-attempts connection establishment when the failure looks
// transient (server starting up, network blip, connection slots exhausted).
//
// Statements are never retried: a failed batch is reported, not replayed.
//
//	executor := retry.NewExecutor(retry.NewPostgreSQLErrorClassifier(), retry.NewExponentialBackoff(3))
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return pool.Ping(ctx)
//	})
package retry
