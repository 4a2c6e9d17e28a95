// Package manager provides the database-level operations of the connector:
// checking whether a database exists and creating it.
//
// CREATE DATABASE cannot run inside a transaction block, so Create issues it
// on a dedicated connection in auto-commit mode. The connection is released
// on every exit path.
//
// Database names are quoted with pgx.Identifier.Sanitize(), so names with
// spaces, quotes or mixed case are created verbatim.
//
// # Example Usage
//
//	mgr := manager.New()
//	exists, err := mgr.Exists(ctx, conn, "sales")
//	if err == nil && !exists {
//	    err = mgr.Create(ctx, conn, "sales")
//	}
package manager
