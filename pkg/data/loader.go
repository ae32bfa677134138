package data

import (
	"bufio"
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/aidanmacnichol/linear-regression/pkg/dataprep"
)

type options struct {
	imputer dataprep.Imputer
	logger  *zap.Logger
}

// Option configures a load.
type Option func(*options)

// WithImputer selects how "NA" cells are filled. The default is a running
// mean over previously completed rows.
func WithImputer(imp dataprep.Imputer) Option {
	return func(o *options) { o.imputer = imp }
}

// WithLogger attaches a logger for load diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

func newOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.imputer == nil {
		o.imputer = dataprep.NewRunningMean()
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o
}

// Load reads a comma separated file. The first line is a header and is
// kept as column names only. On failure the returned table is nil and the
// *Error carries the rows parsed before the failing one in Partial.
func Load(path string, opts ...Option) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &Error{
			Kind: FileUnreadable, Op: "load", Path: path, Row: -1, Col: -1,
			Err: errors.Wrap(err, "open"),
		}
	}
	defer file.Close()

	t, err := loadCSV(bufio.NewReader(file), path, opts)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// LoadReader is Load for an already open stream.
func LoadReader(r io.Reader, opts ...Option) (*Table, error) {
	return loadCSV(r, "", opts)
}

func loadCSV(r io.Reader, path string, opts []Option) (*Table, error) {
	b := newBuilder("load", path, newOptions(opts))

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	first := true
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, b.readError(err)
		}
		if blank(rec) {
			continue
		}
		line, _ := reader.FieldPos(0)
		if first {
			first = false
			b.header(rec)
			continue
		}
		if err := b.row(rec, line); err != nil {
			return nil, err
		}
	}
	return b.finish()
}

// builder turns text records into a Table, one row at a time.
type builder struct {
	op, path string
	opts     options
	tbl      *Table
	cols     int
	// pending holds (row, col) pairs waiting on a deferred imputer.
	pending [][2]int
	imputed int
}

func newBuilder(op, path string, opts options) *builder {
	return &builder{op: op, path: path, opts: opts, tbl: &Table{}, cols: -1}
}

func (b *builder) header(cells []string) {
	h := make([]string, len(cells))
	for i, c := range cells {
		h[i] = strings.TrimSpace(c)
	}
	b.tbl.Header = h
}

func (b *builder) row(cells []string, line int) error {
	rowIdx := len(b.tbl.Rows)
	cells = dropTerminator(cells, b.width())
	if b.cols >= 0 && len(cells) != b.cols {
		return b.fail(&Error{
			Kind: ShapeMismatch, Row: rowIdx, Col: -1, Line: line,
			Err: errors.Errorf("row has %d values, want %d", len(cells), b.cols),
		})
	}

	imp := b.opts.imputer
	row := make([]float64, len(cells))
	var missing []int
	for j, raw := range cells {
		cell := strings.TrimSpace(raw)
		if dataprep.IsMissing(cell) {
			missing = append(missing, j)
			if imp.Deferred() {
				row[j] = math.NaN()
				continue
			}
			v, ok := imp.Impute(j)
			if !ok {
				return b.fail(&Error{
					Kind: MissingImputationContext, Row: rowIdx, Col: j, Line: line, Value: cell,
					Err: errors.New("no completed rows to impute from"),
				})
			}
			row[j] = v
			b.imputed++
			continue
		}

		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			kind := MalformedNumber
			if errors.Is(err, strconv.ErrRange) {
				kind = NumberOutOfRange
			}
			return b.fail(&Error{Kind: kind, Row: rowIdx, Col: j, Line: line, Value: cell, Err: err})
		}
		row[j] = v
	}

	imp.Observe(row, missing)
	if imp.Deferred() {
		for _, j := range missing {
			b.pending = append(b.pending, [2]int{rowIdx, j})
		}
	}
	if b.cols < 0 {
		b.cols = len(row)
	}
	b.tbl.Rows = append(b.tbl.Rows, row)
	return nil
}

// width is the expected cell count: the first row's length once known,
// the header's before that.
func (b *builder) width() int {
	if b.cols >= 0 {
		return b.cols
	}
	return len(b.tbl.Header)
}

// dropTerminator removes one empty trailing cell left by a line ending in
// a comma ("1,2,"), but only when the row is wider than expected so a real
// empty last value still fails to parse.
func dropTerminator(cells []string, width int) []string {
	n := len(cells)
	if width > 0 && n == width+1 && strings.TrimSpace(cells[n-1]) == "" {
		return cells[:n-1]
	}
	return cells
}

// fillPending resolves cells left for a deferred imputer. With strict set,
// the first unresolvable cell is an error; otherwise it stays NaN.
func (b *builder) fillPending(strict bool) error {
	for _, p := range b.pending {
		v, ok := b.opts.imputer.Impute(p[1])
		if !ok {
			if strict {
				return &Error{
					Kind: MissingImputationContext, Op: b.op, Path: b.path, Row: p[0], Col: p[1],
					Value: dataprep.MissingToken,
					Err:   errors.New("column has no observed values"),
				}
			}
			continue
		}
		b.tbl.Rows[p[0]][p[1]] = v
		b.imputed++
	}
	b.pending = nil
	return nil
}

func (b *builder) fail(e *Error) error {
	_ = b.fillPending(false)
	e.Op, e.Path = b.op, b.path
	e.Partial = b.tbl
	b.opts.logger.Debug("load aborted",
		zap.String("path", b.path),
		zap.Stringer("kind", e.Kind),
		zap.Int("rows", b.tbl.Len()))
	return e
}

func (b *builder) readError(err error) error {
	kind := FileUnreadable
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		kind = MalformedNumber
	}
	e := &Error{Kind: kind, Row: b.tbl.Len(), Col: -1, Err: err}
	if perr != nil {
		e.Line = perr.Line
	}
	return b.fail(e)
}

func (b *builder) finish() (*Table, error) {
	if err := b.fillPending(true); err != nil {
		var e *Error
		if errors.As(err, &e) {
			e.Partial = b.tbl
		}
		return nil, err
	}
	b.opts.logger.Debug("table loaded",
		zap.String("path", b.path),
		zap.Int("rows", b.tbl.Len()),
		zap.Int("cols", b.tbl.Cols()),
		zap.Int("imputed", b.imputed))
	return b.tbl, nil
}
