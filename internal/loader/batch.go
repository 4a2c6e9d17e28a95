package loader

// Span is the half-open row range [Offset, Offset+Rows) of one batch.
type Span struct {
	Offset int
	Rows   int
}

// SplitBatches partitions n rows into ceil(n/size) contiguous spans. Every
// span has size rows except the last, which has n mod size (or size).
func SplitBatches(n, size int) []Span {
	if n <= 0 || size <= 0 {
		return nil
	}

	spans := make([]Span, 0, (n+size-1)/size)
	for offset := 0; offset < n; offset += size {
		spans = append(spans, Span{Offset: offset, Rows: min(size, n-offset)})
	}
	return spans
}

// pages slices rows into groups of at most size.
func pages(rows [][]any, size int) [][][]any {
	spans := SplitBatches(len(rows), size)
	out := make([][][]any, len(spans))
	for i, s := range spans {
		out[i] = rows[s.Offset : s.Offset+s.Rows]
	}
	return out
}
