package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pgload/pgload/pkg/pgload"
)

// Kind is the inferred type class of a column.
type Kind int

const (
	KindText Kind = iota
	KindInteger
	KindFloat
	KindBoolean
	KindTimestamp
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBoolean:
		return "boolean"
	case KindTimestamp:
		return "timestamp"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// SQLType is the default column type for non-text kinds. Text columns get
// VARCHAR(n) from the width pass instead.
func (k Kind) SQLType() string {
	switch k {
	case KindInteger:
		return "BIGINT"
	case KindFloat:
		return "DOUBLE PRECISION"
	case KindBoolean:
		return "BOOLEAN"
	case KindTimestamp:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

// timestampLayouts are tried in order. The US-style layouts cover the
// formatted dates excelize returns for the built-in date number formats.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"01-02-06",
	"1/2/06 15:04",
	"1/2/06",
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

// parseFloat rejects the spelled-out NaN and Inf forms strconv accepts.
func parseFloat(s string) (float64, bool) {
	if !strings.ContainsAny(s, "0123456789") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

// plainNumber reports whether s is spelled the way its number prints back:
// no leading '+' or '.', and no leading zero on a multi-digit integer part.
func plainNumber(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" || s[0] < '0' || s[0] > '9' {
		return false
	}
	if s[0] == '0' && len(s) > 1 {
		return s[1] == '.' || s[1] == 'e' || s[1] == 'E'
	}
	return true
}

// classify returns the narrowest kind that can hold s without changing how
// it reads. Integers beyond int64 stay text rather than losing digits.
func classify(s string) Kind {
	s = strings.TrimSpace(s)
	if plainNumber(s) {
		_, err := strconv.ParseInt(s, 10, 64)
		if err == nil {
			return KindInteger
		}
		if errors.Is(err, strconv.ErrRange) {
			return KindText
		}
		if _, ok := parseFloat(s); ok {
			return KindFloat
		}
	}
	if _, ok := parseBool(s); ok {
		return KindBoolean
	}
	if _, ok := parseTimestamp(s); ok {
		return KindTimestamp
	}
	return KindText
}

// merge widens two observed kinds. Integers widen to floats; any other
// disagreement makes the column text.
func merge(a, b Kind) Kind {
	switch {
	case a == b:
		return a
	case a == KindInteger && b == KindFloat, a == KindFloat && b == KindInteger:
		return KindFloat
	default:
		return KindText
	}
}

// textOf converts a cell to the text the length pass measures.
func textOf(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// InferKinds classifies every column of ds. Columns the source marks as
// text stay text. NULL cells carry no evidence; a column with no evidence
// at all is text.
func InferKinds(ds *pgload.Dataset) []Kind {
	kinds := make([]Kind, len(ds.Columns))
	for c, name := range ds.Columns {
		if ds.TextColumns[name] {
			kinds[c] = KindText
			continue
		}
		seen := false
		for _, row := range ds.Rows {
			if row[c] == nil {
				continue
			}
			s := textOf(row[c])
			if strings.TrimSpace(s) == "" {
				kinds[c] = KindText
				seen = true
				break
			}
			k := classify(s)
			if !seen {
				kinds[c], seen = k, true
			} else {
				kinds[c] = merge(kinds[c], k)
			}
			if kinds[c] == KindText {
				break
			}
		}
		if !seen {
			kinds[c] = KindText
		}
	}
	return kinds
}

// InferVarcharWidths returns, for every text column of ds, the longest
// value's length in characters plus headroom. NULL cells are ignored.
func InferVarcharWidths(ds *pgload.Dataset, headroom int) map[string]int {
	kinds := InferKinds(ds)
	widths := make(map[string]int)
	for c, name := range ds.Columns {
		if kinds[c] != KindText {
			continue
		}
		widths[name] = maxLength(ds, c) + headroom
	}
	return widths
}

func maxLength(ds *pgload.Dataset, col int) int {
	longest := 0
	for _, row := range ds.Rows {
		if row[col] == nil {
			continue
		}
		if n := utf8.RuneCountInString(textOf(row[col])); n > longest {
			longest = n
		}
	}
	return longest
}

// InferColumns proposes a column list for CREATE TABLE: VARCHAR(n) for text
// columns with the inferred width, the default mapping for everything else.
// It also returns the kinds for ConvertCells.
func InferColumns(ds *pgload.Dataset, headroom int) ([]pgload.Column, []Kind) {
	kinds := InferKinds(ds)
	widths := InferVarcharWidths(ds, headroom)

	columns := make([]pgload.Column, len(ds.Columns))
	for c, name := range ds.Columns {
		typ := kinds[c].SQLType()
		if kinds[c] == KindText {
			typ = fmt.Sprintf("VARCHAR(%d)", max(widths[name], 1))
		}
		columns[c] = pgload.Column{Name: name, Type: typ}
	}
	return columns, kinds
}

// ConvertCells replaces the string cells of non-text columns with typed
// values (int64, float64, bool, time.Time) in place.
func ConvertCells(ds *pgload.Dataset, kinds []Kind) error {
	if len(kinds) != len(ds.Columns) {
		return fmt.Errorf("got %d kinds for %d columns: %w", len(kinds), len(ds.Columns), pgload.ErrInvalidConfig)
	}

	for r, row := range ds.Rows {
		for c, kind := range kinds {
			s, ok := row[c].(string)
			if !ok || kind == KindText {
				continue
			}
			v, err := convert(strings.TrimSpace(s), kind)
			if err != nil {
				return fmt.Errorf("%w: row %d column %q: %w", pgload.ErrSourceRead, r+1, ds.Columns[c], err)
			}
			row[c] = v
		}
	}
	return nil
}

func convert(s string, kind Kind) (any, error) {
	switch kind {
	case KindInteger:
		return strconv.ParseInt(s, 10, 64)
	case KindFloat:
		if f, ok := parseFloat(s); ok {
			return f, nil
		}
	case KindBoolean:
		if b, ok := parseBool(s); ok {
			return b, nil
		}
	case KindTimestamp:
		if t, ok := parseTimestamp(s); ok {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%q is not a valid %s", s, kind)
}
