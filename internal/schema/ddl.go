package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/pgload/pgload/pkg/pgload"
)

// QuoteIdent returns name as a double-quoted SQL identifier.
func QuoteIdent(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// QuoteColumns quotes each name and joins them with ", ".
func QuoteColumns(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = QuoteIdent(n)
	}
	return strings.Join(quoted, ", ")
}

// BuildCreateTable returns CREATE TABLE <table> ("col" TYPE, ...).
func BuildCreateTable(table pgload.TableName, columns []pgload.Column) (string, error) {
	if len(columns) == 0 {
		return "", fmt.Errorf("table %s needs at least one column: %w", table, pgload.ErrInvalidConfig)
	}

	defs := make([]string, len(columns))
	for i, c := range columns {
		typ := strings.TrimSpace(c.Type)
		if typ == "" {
			return "", fmt.Errorf("column %q has no type: %w", c.Name, pgload.ErrInvalidConfig)
		}
		defs[i] = QuoteIdent(c.Name) + " " + typ
	}

	return fmt.Sprintf("CREATE TABLE %s (%s)", table.Sanitize(), strings.Join(defs, ", ")), nil
}

// BuildDropTable returns DROP TABLE <table>.
func BuildDropTable(table pgload.TableName) string {
	return "DROP TABLE " + table.Sanitize()
}

// BuildInsertTemplate returns INSERT INTO <table>("a", "b") VALUES %s.
// The trailing placeholder is filled in by ExpandValues.
func BuildInsertTemplate(table pgload.TableName, columns []string) string {
	return fmt.Sprintf("INSERT INTO %s(%s) VALUES %s", table.Sanitize(), QuoteColumns(columns), pgload.ValuesPlaceholder)
}

// ExpandValues replaces the last placeholder in template with one
// parenthesized $n group per row and returns the flattened arguments.
// Rows must all have the same width.
func ExpandValues(template string, rows [][]any) (string, []any, error) {
	at := strings.LastIndex(template, pgload.ValuesPlaceholder)
	if at < 0 {
		return "", nil, fmt.Errorf("insert template has no %s placeholder: %w", pgload.ValuesPlaceholder, pgload.ErrInvalidConfig)
	}
	if len(rows) == 0 {
		return "", nil, fmt.Errorf("no rows to insert: %w", pgload.ErrInvalidConfig)
	}

	width := len(rows[0])
	if width == 0 {
		return "", nil, fmt.Errorf("rows have no cells: %w", pgload.ErrInvalidConfig)
	}

	var sb strings.Builder
	sb.Grow(len(template) + len(rows)*width*5)
	sb.WriteString(template[:at])

	args := make([]any, 0, len(rows)*width)
	n := 1
	for r, row := range rows {
		if len(row) != width {
			return "", nil, fmt.Errorf("row %d has %d cells, expected %d: %w", r, len(row), width, pgload.ErrInvalidConfig)
		}
		if r > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for c := range row {
			if c > 0 {
				sb.WriteString(", ")
			}
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			n++
		}
		sb.WriteByte(')')
		args = append(args, row...)
	}

	sb.WriteString(template[at+len(pgload.ValuesPlaceholder):])
	return sb.String(), args, nil
}
