package tui

import (
	"fmt"
	"strings"

	"github.com/pgload/pgload/pkg/pgload"
)

// RenderLoadResult formats a load outcome one batch per line, followed by
// a totals line.
func RenderLoadResult(result *pgload.LoadResult) string {
	var b strings.Builder

	for _, batch := range result.Batches {
		rows := fmt.Sprintf("batch %d (rows %d-%d)", batch.Index+1, batch.Offset+1, batch.Offset+batch.Rows)
		switch {
		case batch.Skipped:
			b.WriteString(WarningStyle.Render(SymbolSkipped + " " + rows + " skipped"))
		case batch.Err != nil:
			b.WriteString(ErrorStyle.Render(SymbolCross + " " + rows + ": " + firstLine(batch.Err.Error())))
		default:
			b.WriteString(SuccessStyle.Render(SymbolCheck + " " + rows))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "%d of %d rows inserted into %s (%d failed, %d skipped batches)\n",
		result.InsertedRows(), result.TotalRows, result.Table,
		len(result.FailedBatches()), result.SkippedBatches())
	return b.String()
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
