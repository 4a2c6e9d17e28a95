package source

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pgload/pgload/pkg/pgload"
	"github.com/xuri/excelize/v2"
)

// ExcelFiles lists the .xlsx workbooks in dir sorted by name, skipping
// Office lock files (~$name.xlsx).
func ExcelFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pgload.ErrSourceRead, err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "~$") {
			continue
		}
		if strings.EqualFold(filepath.Ext(name), ".xlsx") {
			files = append(files, filepath.Join(dir, name))
		}
	}
	slices.Sort(files)
	return files, nil
}

// ReadExcelDir combines the first sheet of every workbook in dir into one
// dataset. Columns are the union of all header rows in order of first
// appearance; a row lacking a column gets NULL there.
func ReadExcelDir(dir string) (*pgload.Dataset, error) {
	files, err := ExcelFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no .xlsx files in %s", pgload.ErrSourceRead, dir)
	}

	combined := &pgload.Dataset{}
	index := make(map[string]int)
	for _, path := range files {
		part, err := ReadExcelFile(path)
		if err != nil {
			return nil, err
		}
		appendDataset(combined, index, part)
	}
	return combined, nil
}

// appendDataset adds part's rows to combined, widening earlier rows when
// part introduces new columns.
func appendDataset(combined *pgload.Dataset, index map[string]int, part *pgload.Dataset) {
	positions := make([]int, len(part.Columns))
	for i, col := range part.Columns {
		pos, ok := index[col]
		if !ok {
			pos = len(combined.Columns)
			index[col] = pos
			combined.Columns = append(combined.Columns, col)
		}
		positions[i] = pos
		if part.TextColumns[col] {
			combined.MarkText(col)
		}
	}

	width := len(combined.Columns)
	for i, row := range combined.Rows {
		if len(row) < width {
			combined.Rows[i] = append(row, make([]any, width-len(row))...)
		}
	}

	for _, src := range part.Rows {
		row := make([]any, width)
		for i, cell := range src {
			row[positions[i]] = cell
		}
		combined.Rows = append(combined.Rows, row)
	}
}

// ReadExcelFile reads the first sheet of a workbook. Fully blank rows are
// skipped; short rows are padded with NULL. A column holding any string
// cell is marked as text on the dataset.
func ReadExcelFile(path string) (*pgload.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", pgload.ErrSourceRead, path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("%w: %s has no sheets", pgload.ErrSourceRead, path)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: sheet %q: %w", pgload.ErrSourceRead, path, sheet, err)
	}

	header := slices.IndexFunc(rows, func(cells []string) bool { return !isBlankRow(cells) })
	if header < 0 {
		return nil, fmt.Errorf("%w: %s: sheet %q has no header row", pgload.ErrSourceRead, path, sheet)
	}

	ds := &pgload.Dataset{Columns: normalizeHeader(rows[header])}
	width := len(ds.Columns)
	for r := header + 1; r < len(rows); r++ {
		cells := rows[r]
		if isBlankRow(cells) {
			continue
		}
		if len(cells) > width {
			return nil, fmt.Errorf("%w: %s: sheet row %d has %d cells, header has %d",
				pgload.ErrSourceRead, path, r+1, len(cells), width)
		}

		row := make([]any, width)
		for i, cell := range cells {
			row[i] = cellValue(cell)
			if row[i] == nil || ds.TextColumns[ds.Columns[i]] {
				continue
			}
			text, err := isStringCell(f, sheet, i+1, r+1)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %w", pgload.ErrSourceRead, path, err)
			}
			if text {
				ds.MarkText(ds.Columns[i])
			}
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

// isStringCell reports whether the cell at the 1-based col and row is
// stored as a shared or inline string.
func isStringCell(f *excelize.File, sheet string, col, row int) (bool, error) {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return false, err
	}
	typ, err := f.GetCellType(sheet, name)
	if err != nil {
		return false, err
	}
	return typ == excelize.CellTypeSharedString || typ == excelize.CellTypeInlineString, nil
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
