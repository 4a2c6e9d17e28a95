// Package source reads tabular input files into an in-memory pgload.Dataset.
//
// Two formats are supported: a single CSV file with a header row, and a
// directory of Excel workbooks whose first sheets are combined into one
// dataset. Cells are kept as strings; empty cells become nil (SQL NULL).
// Typing the cells is left to the schema package.
package source
