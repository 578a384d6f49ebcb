// Package tabular reads and writes delimited text files as column-named
// records. It knows nothing about budgets: column presence and value checks
// belong to the caller.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// ErrNotFound is returned by Read when the source file does not exist.
var ErrNotFound = errors.New("file not found")

var (
	errNoHeader        = errors.New("missing header row")
	errDuplicateColumn = errors.New("duplicate column")
)

// ParseError reports content that cannot be read as a delimited table.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Record maps a column name to the raw cell text of one row.
type Record map[string]string

// Table is the parsed content of a file: header columns in file order and
// one record per data row, also in file order.
type Table struct {
	Columns []string
	Records []Record
}

// Has reports whether the header contains column.
func (t *Table) Has(column string) bool {
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// Codec reads and writes delimited files with a fixed field separator.
// The zero value uses a comma.
type Codec struct {
	Comma rune
}

func (c Codec) comma() rune {
	if c.Comma == 0 {
		return ','
	}
	return c.Comma
}

// Read parses the file at path. The first row is the header.
func (c Codec) Read(path string) (*Table, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	t, err := c.decode(f)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return t, nil
}

func (c Codec) decode(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = c.comma()

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errNoHeader
	}

	header := make([]string, len(records[0]))
	seen := make(map[string]bool, len(header))
	for i, col := range records[0] {
		if i == 0 {
			col = strings.TrimPrefix(col, "\ufeff")
		}
		col = strings.TrimSpace(col)
		if seen[col] {
			return nil, fmt.Errorf("%w %q", errDuplicateColumn, col)
		}
		seen[col] = true
		header[i] = col
	}

	t := &Table{Columns: header, Records: make([]Record, 0, len(records)-1)}
	for _, row := range records[1:] {
		rec := make(Record, len(header))
		for i, col := range header {
			rec[col] = row[i]
		}
		t.Records = append(t.Records, rec)
	}
	return t, nil
}

// Write serializes records to path with a header row matching columns,
// replacing any existing file. Columns missing from a record are written
// as empty cells; keys not listed in columns are ignored.
func (c Codec) Write(path string, records []Record, columns []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if err := c.encode(f, records, columns); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

func (c Codec) encode(w io.Writer, records []Record, columns []string) error {
	cw := csv.NewWriter(w)
	cw.Comma = c.comma()

	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	row := make([]string, len(columns))
	for i, rec := range records {
		for j, col := range columns {
			row[j] = rec[col]
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
