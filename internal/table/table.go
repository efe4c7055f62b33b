package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Table is an in-memory CSV table: a header plus string rows.
// Cell access is by column name; unknown columns read as empty.
type Table struct {
	Columns []string
	index   map[string]int
	rows    [][]string
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load reads a comma-delimited UTF-8 file. Files written with a UTF-8
// signature (BOM) are accepted by stripping the marker before parsing.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parsing %s: file has no header row", path)
	}

	t := New(records[0])
	for _, record := range records[1:] {
		if blankRecord(record) {
			continue
		}
		t.rows = append(t.rows, record)
	}
	return t, nil
}

// New creates an empty table with the given header.
func New(columns []string) *Table {
	cols := make([]string, len(columns))
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		cols[i] = strings.TrimSpace(c)
		index[cols[i]] = i
	}
	return &Table{Columns: cols, index: index}
}

func blankRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// HasColumn reports whether the header contains the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Cell returns the trimmed value at (row, column). Rows shorter than the
// header and unknown columns read as the empty string.
func (t *Table) Cell(row int, column string) string {
	idx, ok := t.index[column]
	if !ok || row < 0 || row >= len(t.rows) {
		return ""
	}
	record := t.rows[row]
	if idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// AppendRow adds a data row. The record must be ordered like the header.
func (t *Table) AppendRow(record []string) {
	row := make([]string, len(record))
	copy(row, record)
	t.rows = append(t.rows, row)
}

// PrefixColumns returns the columns whose name starts with prefix, minus any
// excluded names, in sorted lexical order.
func (t *Table) PrefixColumns(prefix string, exclude ...string) []string {
	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[name] = true
	}
	var cols []string
	for _, c := range t.Columns {
		if strings.HasPrefix(c, prefix) && !skip[c] {
			cols = append(cols, c)
		}
	}
	sort.Strings(cols)
	return cols
}

// Filter returns a new table containing only the rows for which keep is true.
// The header is shared structure; rows are not copied.
func (t *Table) Filter(keep func(row int) bool) *Table {
	out := &Table{Columns: t.Columns, index: t.index}
	for i := range t.rows {
		if keep(i) {
			out.rows = append(out.rows, t.rows[i])
		}
	}
	return out
}

// Index builds a row lookup for the given column: first occurrence wins,
// empty values are skipped.
func (t *Table) Index(column string) map[string]int {
	index := make(map[string]int)
	for i := range t.rows {
		key := t.Cell(i, column)
		if key == "" {
			continue
		}
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}
	return index
}

// WriteFile writes the table as a comma-delimited UTF-8 file.
func (t *Table) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range t.rows {
		record := row
		if len(record) < len(t.Columns) {
			record = make([]string, len(t.Columns))
			copy(record, row)
		}
		if err := w.Write(record[:len(t.Columns)]); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	w.Flush()
	return w.Error()
}
