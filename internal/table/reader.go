// Package table reads delimited location tables with a header row.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrInvalidUTF8 is returned for tables that are not valid UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// Row is a single data row keyed by header name.
type Row struct {
	Line   int               // Line is the 1-based source line where the row starts.
	values map[string]string // values maps header names to cell values.
}

// Get returns the value of the named column, or an empty string.
func (r Row) Get(name string) string {
	return r.values[name]
}

// Lookup returns the value of the first named column that is present and non-empty.
func (r Row) Lookup(names ...string) string {
	for _, name := range names {
		if v := r.values[name]; v != "" {
			return v
		}
	}

	return ""
}

// Reader produces rows from a CSV stream one at a time.
// It is single pass and cannot be rewound.
type Reader struct {
	csv    *csv.Reader
	header []string
	closer io.Closer
}

// Open opens the CSV file at path and reads its header.
func Open(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table: %w", err)
	}

	reader, err := NewReader(file)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	reader.closer = file

	return reader, nil
}

// NewReader wraps src, dropping a leading byte order mark, and consumes the header row.
// Cells are passed through unchanged; bytes that are not UTF-8 fail the read.
func NewReader(src io.Reader) (*Reader, error) {
	decoded := transform.NewReader(src, unicode.BOMOverride(transform.Nop))

	parser := csv.NewReader(decoded)
	parser.FieldsPerRecord = -1 // ragged rows are tolerated

	header, err := parser.Read()
	if errors.Is(err, io.EOF) {
		return &Reader{csv: parser}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if err = validate(header, 1); err != nil {
		return nil, err
	}

	return &Reader{csv: parser, header: header}, nil
}

// Header returns the column names of the table.
func (r *Reader) Header() []string {
	return r.header
}

// Next returns the next row. It returns io.EOF when the table is exhausted.
// Missing trailing cells read as empty strings and surplus cells are ignored.
func (r *Reader) Next() (Row, error) {
	if r.header == nil {
		return Row{}, io.EOF
	}

	record, err := r.csv.Read()
	if errors.Is(err, io.EOF) {
		return Row{}, io.EOF
	}
	if err != nil {
		return Row{}, fmt.Errorf("failed to read row: %w", err)
	}

	line, _ := r.csv.FieldPos(0)
	if err = validate(record, line); err != nil {
		return Row{}, err
	}

	values := make(map[string]string, len(r.header))
	for idx, name := range r.header {
		if idx < len(record) {
			values[name] = record[idx]
		} else {
			values[name] = ""
		}
	}

	return Row{Line: line, values: values}, nil
}

// validate rejects cells that are not valid UTF-8.
func validate(cells []string, line int) error {
	for _, cell := range cells {
		if !utf8.ValidString(cell) {
			return fmt.Errorf("%w at line %d", ErrInvalidUTF8, line)
		}
	}

	return nil
}

// Close releases the underlying file, if any.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}

	return r.closer.Close()
}
