package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitBatches_CountAndLastSize(t *testing.T) {
	tests := []struct {
		n, size  int
		count    int
		lastSize int
	}{
		{n: 1, size: 100, count: 1, lastSize: 1},
		{n: 99, size: 100, count: 1, lastSize: 99},
		{n: 100, size: 100, count: 1, lastSize: 100},
		{n: 101, size: 100, count: 2, lastSize: 1},
		{n: 250, size: 100, count: 3, lastSize: 50},
		{n: 300, size: 100, count: 3, lastSize: 100},
		{n: 7, size: 3, count: 3, lastSize: 1},
		{n: 5, size: 1, count: 5, lastSize: 1},
	}

	for _, tt := range tests {
		spans := SplitBatches(tt.n, tt.size)

		assert.Len(t, spans, tt.count, "n=%d size=%d", tt.n, tt.size)
		assert.Equal(t, tt.lastSize, spans[len(spans)-1].Rows, "n=%d size=%d", tt.n, tt.size)

		next := 0
		for _, s := range spans[:len(spans)-1] {
			assert.Equal(t, tt.size, s.Rows)
		}
		for _, s := range spans {
			assert.Equal(t, next, s.Offset, "spans must be contiguous")
			next += s.Rows
		}
		assert.Equal(t, tt.n, next, "spans must cover every row")
	}
}

func TestSplitBatches_Empty(t *testing.T) {
	assert.Empty(t, SplitBatches(0, 100))
	assert.Empty(t, SplitBatches(10, 0))
}

func TestPages(t *testing.T) {
	got := pages(rowsOf(5), 2)

	assert.Len(t, got, 3)
	assert.Equal(t, [][]any{{"1"}, {"2"}}, got[0])
	assert.Equal(t, [][]any{{"5"}}, got[2])
}
