package source

import (
	"fmt"
	"strings"
)

// normalizeHeader trims header cells, names blank ones column_N (1-based)
// and suffixes repeated names with .1, .2, ... in order of appearance.
func normalizeHeader(raw []string) []string {
	headers := make([]string, len(raw))
	used := make(map[string]bool, len(raw))

	for i, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}

		name := h
		for n := 1; used[name]; n++ {
			name = fmt.Sprintf("%s.%d", h, n)
		}
		used[name] = true
		headers[i] = name
	}
	return headers
}

// cellValue maps an empty cell to nil.
func cellValue(s string) any {
	if s == "" {
		return nil
	}
	return s
}
