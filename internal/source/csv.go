package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pgload/pgload/pkg/pgload"
)

const utf8BOM = "\ufeff"

// CSVOption configures ReadCSV.
type CSVOption func(*csvOptions)

type csvOptions struct {
	delimiter rune
}

// WithDelimiter sets the field delimiter (default ',').
func WithDelimiter(r rune) CSVOption {
	return func(o *csvOptions) {
		o.delimiter = r
	}
}

// ReadCSV reads a CSV file whose first record is the header.
// Every record must have the header's width.
func ReadCSV(path string, opts ...CSVOption) (*pgload.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pgload.ErrSourceRead, err)
	}
	defer file.Close()

	ds, err := DecodeCSV(file, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// DecodeCSV reads CSV records from r; see ReadCSV.
func DecodeCSV(r io.Reader, opts ...CSVOption) (*pgload.Dataset, error) {
	o := csvOptions{delimiter: ','}
	for _, opt := range opts {
		opt(&o)
	}

	reader := csv.NewReader(r)
	reader.Comma = o.delimiter

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: no header row", pgload.ErrSourceRead)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %w", pgload.ErrSourceRead, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	ds := &pgload.Dataset{Columns: normalizeHeader(header)}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", pgload.ErrSourceRead, err)
		}

		row := make([]any, len(record))
		for i, cell := range record {
			row[i] = cellValue(cell)
		}
		ds.Rows = append(ds.Rows, row)
	}

	return ds, nil
}
