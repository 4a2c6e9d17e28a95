package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/pgload/pgload/pkg/pgload"
	"github.com/stretchr/testify/assert"
)

func TestRenderLoadResult(t *testing.T) {
	result := &pgload.LoadResult{
		Table:     pgload.TableName{Schema: "public", Name: "sales"},
		TotalRows: 250,
		Batches: []pgload.BatchResult{
			{Index: 0, Offset: 0, Rows: 100},
			{Index: 1, Offset: 100, Rows: 100, Err: errors.New("duplicate key\nQuery: INSERT ...")},
			{Index: 2, Offset: 200, Rows: 50, Skipped: true},
		},
	}

	out := RenderLoadResult(result)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	assert.Len(t, lines, 4)
	assert.Contains(t, lines[0], "batch 1 (rows 1-100)")
	assert.Contains(t, lines[1], "batch 2 (rows 101-200): duplicate key")
	assert.NotContains(t, out, "Query:", "only the first line of an error is shown")
	assert.Contains(t, lines[2], "batch 3 (rows 201-250) skipped")
	assert.Equal(t, "100 of 250 rows inserted into public.sales (1 failed, 1 skipped batches)", lines[3])
}

func TestRenderLoadResult_Empty(t *testing.T) {
	result := &pgload.LoadResult{Table: pgload.TableName{Name: "t"}}

	assert.Equal(t, "0 of 0 rows inserted into t (0 failed, 0 skipped batches)\n", RenderLoadResult(result))
}
