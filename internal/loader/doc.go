// Package loader creates destination tables and inserts datasets into them.
//
// A dataset is split into contiguous batches (DefaultBatchSize rows, the
// last one possibly shorter). Each batch is inserted with multi-row INSERT
// statements inside its own transaction and committed on its own, so a
// failing batch never touches rows committed by earlier ones. Whether the
// remaining batches run after a failure is decided by the FailurePolicy.
//
// Statements are never retried. Every failure is returned as a
// *pgload.StatementError carrying its kind and query text.
package loader
