package dataprep

import "gonum.org/v1/gonum/floats"

// MissingToken marks a missing cell in source text.
const MissingToken = "NA"

// IsMissing reports whether a cell is the missing-value marker.
func IsMissing(cell string) bool { return cell == MissingToken }

// Imputer supplies values for missing cells while a table is being loaded.
// Observe is called once per completed row; missing lists the column
// indexes of that row that were missing in the source.
type Imputer interface {
	Impute(col int) (float64, bool)
	Observe(row []float64, missing []int)
	// Deferred imputers are only asked for values after every row has been
	// observed.
	Deferred() bool
}

// ---------- Running (online) mean ----------

// RunningMean imputes with the mean of the rows completed so far. A missing
// cell in row N sees only rows 0..N-1, so the result depends on row order.
// Imputed values are accumulated like observed ones.
type RunningMean struct {
	sums []float64
	rows int
}

func NewRunningMean() *RunningMean { return &RunningMean{} }

func (m *RunningMean) Impute(col int) (float64, bool) {
	if col < 0 || col >= len(m.sums) || m.rows == 0 {
		return 0, false
	}
	return m.sums[col] / float64(m.rows), true
}

func (m *RunningMean) Observe(row []float64, _ []int) {
	if len(m.sums) < len(row) {
		m.sums = append(m.sums, make([]float64, len(row)-len(m.sums))...)
	}
	floats.Add(m.sums[:len(row)], row)
	m.rows++
}

func (m *RunningMean) Deferred() bool { return false }

// ---------- Two-pass column mean ----------

// ColumnMean imputes with the mean of every observed (non-missing) value in
// the column, independent of row order.
type ColumnMean struct {
	sums   []float64
	counts []int
}

func NewColumnMean() *ColumnMean { return &ColumnMean{} }

func (m *ColumnMean) Impute(col int) (float64, bool) {
	if col < 0 || col >= len(m.counts) || m.counts[col] == 0 {
		return 0, false
	}
	return m.sums[col] / float64(m.counts[col]), true
}

func (m *ColumnMean) Observe(row []float64, missing []int) {
	if n := len(row) - len(m.sums); n > 0 {
		m.sums = append(m.sums, make([]float64, n)...)
		m.counts = append(m.counts, make([]int, n)...)
	}
	skip := 0
	for j, v := range row {
		if skip < len(missing) && missing[skip] == j {
			skip++
			continue
		}
		m.sums[j] += v
		m.counts[j]++
	}
}

func (m *ColumnMean) Deferred() bool { return true }

// New returns the imputer registered under name: "running" or "column".
func New(name string) (Imputer, bool) {
	switch name {
	case "", "running":
		return NewRunningMean(), true
	case "column", "two-pass":
		return NewColumnMean(), true
	}
	return nil, false
}
