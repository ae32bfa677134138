package data

import "fmt"

// Table is an ordered set of equal-length numeric rows. Header holds the
// column names read from the source and is informational only.
type Table struct {
	Header []string
	Rows   [][]float64
}

// NewTable wraps rows without copying them.
func NewTable(header []string, rows [][]float64) *Table {
	return &Table{Header: header, Rows: rows}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Cols returns the column count established by the first row.
func (t *Table) Cols() int {
	if t.Len() == 0 {
		return 0
	}
	return len(t.Rows[0])
}

// Validate checks that every row has the same length as the first one.
func (t *Table) Validate() error {
	if t == nil {
		return nil
	}
	cols := t.Cols()
	for i, row := range t.Rows {
		if len(row) != cols {
			return &Error{
				Kind: ShapeMismatch,
				Op:   "validate",
				Row:  i,
				Col:  -1,
				Err:  fmt.Errorf("row has %d values, want %d", len(row), cols),
			}
		}
	}
	return nil
}

// Column copies column j out of the table.
func (t *Table) Column(j int) []float64 {
	col := make([]float64, t.Len())
	for i, row := range t.Rows {
		col[i] = row[j]
	}
	return col
}

// Clone deep copies the table.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	out := &Table{Rows: make([][]float64, len(t.Rows))}
	if t.Header != nil {
		out.Header = append([]string(nil), t.Header...)
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]float64(nil), row...)
	}
	return out
}

// Name returns the header name of column j, or a positional name when the
// header is short.
func (t *Table) Name(j int) string {
	if j < len(t.Header) && t.Header[j] != "" {
		return t.Header[j]
	}
	return fmt.Sprintf("col%d", j)
}
