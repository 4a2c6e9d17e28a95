// Package services runs the load procedures end to end: it reads the source,
// asks for or resolves the table definition, prepares the destination table
// and hands the rows to a pgload.TableStore.
//
// Services hold no database state of their own. The CLI connects, wraps the
// pool in a loader.Loader and passes it in, so the services are tested with
// in-memory fakes.
package services
