// Package schema builds the DDL and DML statements of a load and infers
// column types for datasets that arrive without a declared schema.
//
// Every identifier is double-quoted with embedded quotes doubled, so column
// names keep their case, spaces and punctuation. Column type strings are
// appended verbatim.
package schema
