// Package table reads CSV extracts into rows and provides the small set of
// relational operations the cube builders need: projection, dropping
// incomplete rows, deduplication and filtering.
//
// An empty cell is treated as missing. A column that does not exist in the
// header reads as missing for every row, so asking for an absent column
// shrinks the row set instead of failing.
package table

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrNoHeader is returned when the input has no header record.
var ErrNoHeader = errors.New("csv input has no header row")

// Row maps column names to cell values.
type Row map[string]string

// Get returns the cell value and whether it is present and non-empty.
func (r Row) Get(column string) (string, bool) {
	v, ok := r[column]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Complete reports whether every listed column is present and non-empty.
func (r Row) Complete(columns ...string) bool {
	for _, c := range columns {
		if _, ok := r.Get(c); !ok {
			return false
		}
	}
	return true
}

// key joins the listed values with a unit separator for use as a map key.
func (r Row) key(columns []string) string {
	var b strings.Builder
	for i, c := range columns {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		b.WriteString(r[c])
	}
	return b.String()
}

// Table is an ordered list of rows sharing a header.
type Table struct {
	Columns []string
	Rows    []Row
}

// Options controls CSV parsing.
type Options struct {
	// Comma is the field delimiter. Zero means ','.
	Comma rune
}

// Read parses CSV from r using default options.
func Read(r io.Reader) (*Table, error) {
	return ReadWith(r, Options{})
}

// ReadWith parses CSV from r. The first record is the header. A UTF-8 byte
// order mark on the header is stripped. Records with a different field
// count than the header are padded or truncated rather than rejected.
func ReadWith(r io.Reader, opts Options) (*Table, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = false

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	t := &Table{Columns: header}
	line := 1
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read record %d: %w", line, err)
		}
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// ReadFile opens and parses a CSV file.
func ReadFile(path string, opts Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	t, err := ReadWith(f, opts)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return t, nil
}

// New builds a table from rows. The header is taken from columns.
func New(columns []string, rows ...Row) *Table {
	return &Table{Columns: columns, Rows: rows}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the header contains column.
func (t *Table) HasColumn(column string) bool {
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// Select keeps only the listed columns, in the listed order.
func (t *Table) Select(columns ...string) *Table {
	out := &Table{Columns: append([]string(nil), columns...)}
	for _, r := range t.Rows {
		row := make(Row, len(columns))
		for _, c := range columns {
			if v, ok := r[c]; ok {
				row[c] = v
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// DropIncomplete removes rows missing any of the listed columns. With no
// columns, every header column is required.
func (t *Table) DropIncomplete(columns ...string) *Table {
	if len(columns) == 0 {
		columns = t.Columns
	}
	return t.Filter(func(r Row) bool { return r.Complete(columns...) })
}

// Distinct removes rows whose header-column values repeat an earlier row.
// First occurrences are kept in order.
func (t *Table) Distinct() *Table {
	out := &Table{Columns: t.Columns}
	seen := make(map[string]struct{}, len(t.Rows))
	for _, r := range t.Rows {
		k := r.key(t.Columns)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out.Rows = append(out.Rows, r)
	}
	return out
}

// Project is Select followed by Distinct and DropIncomplete: the distinct,
// complete combinations of the listed columns in first-occurrence order.
func (t *Table) Project(columns ...string) *Table {
	return t.Select(columns...).Distinct().DropIncomplete()
}

// Filter keeps the rows for which keep returns true.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := &Table{Columns: t.Columns}
	for _, r := range t.Rows {
		if keep(r) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}
