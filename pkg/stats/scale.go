package stats

import (
	"github.com/pkg/errors"

	"github.com/aidanmacnichol/linear-regression/pkg/data"
)

// ZeroVariance selects what standardization does with a constant column.
type ZeroVariance int

const (
	// ZeroVarianceError fails with DivisionByZeroVariance.
	ZeroVarianceError ZeroVariance = iota
	// ZeroVariancePropagate divides anyway, leaving NaN or Inf in the column.
	ZeroVariancePropagate
	// ZeroVarianceCenter maps every value of the column to 0.
	ZeroVarianceCenter
)

// ParseZeroVariance maps "error", "propagate" or "center" to a policy.
func ParseZeroVariance(s string) (ZeroVariance, bool) {
	switch s {
	case "", "error":
		return ZeroVarianceError, true
	case "propagate", "nan":
		return ZeroVariancePropagate, true
	case "center", "zero":
		return ZeroVarianceCenter, true
	}
	return 0, false
}

func (z ZeroVariance) String() string {
	switch z {
	case ZeroVariancePropagate:
		return "propagate"
	case ZeroVarianceCenter:
		return "center"
	default:
		return "error"
	}
}

type StandardScaler struct {
	Mean   []float64
	Std    []float64
	Policy ZeroVariance
	// constant marks columns whose values were all identical at Fit time.
	constant []bool
	fit      bool
}

func NewStandardScaler(policy ZeroVariance) *StandardScaler {
	return &StandardScaler{Policy: policy}
}

// Fit computes per-column mean and population std.
func (s *StandardScaler) Fit(X [][]float64) error {
	if err := checkShape("fit", X); err != nil {
		return err
	}
	rows := len(X)
	cols := 0
	if rows > 0 {
		cols = len(X[0])
	}
	s.Mean = make([]float64, cols)
	s.Std = make([]float64, cols)
	s.constant = make([]bool, cols)
	col := make([]float64, rows)
	for j := range cols {
		for i := range rows {
			col[i] = X[i][j]
		}
		s.Mean[j], s.Std[j] = MeanStd(col)
		if Constant(col) {
			s.Std[j] = 0
			s.constant[j] = true
			if s.Policy == ZeroVarianceError {
				return &data.Error{
					Kind: data.DivisionByZeroVariance, Op: "fit", Row: -1, Col: j,
					Err: errors.New("column is constant"),
				}
			}
		}
	}
	s.fit = true
	return nil
}

// Transform rescales X with the fitted statistics into a new matrix.
func (s *StandardScaler) Transform(X [][]float64) ([][]float64, error) {
	if !s.fit {
		return nil, data.NewError("transform", data.InvalidArgument, errors.New("scaler is not fitted"))
	}
	if err := checkShape("transform", X); err != nil {
		return nil, err
	}
	out := make([][]float64, len(X))
	for i, in := range X {
		if len(in) != len(s.Mean) {
			return nil, &data.Error{
				Kind: data.ShapeMismatch, Op: "transform", Row: i, Col: -1,
				Err: errors.Errorf("row has %d values, scaler fitted on %d", len(in), len(s.Mean)),
			}
		}
		row := make([]float64, len(in))
		for j, v := range in {
			if s.constant[j] && s.Policy == ZeroVarianceCenter {
				row[j] = 0
				continue
			}
			row[j] = (v - s.Mean[j]) / s.Std[j]
		}
		out[i] = row
	}
	return out, nil
}

func (s *StandardScaler) FitTransform(X [][]float64) ([][]float64, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// StandardizeColumns rescales every column of t to zero mean and unit
// population standard deviation. The input is left untouched.
func StandardizeColumns(t *data.Table, policy ZeroVariance) (*data.Table, error) {
	if t.Len() == 0 {
		return t.Clone(), nil
	}
	rows, err := NewStandardScaler(policy).FitTransform(t.Rows)
	if err != nil {
		return nil, err
	}
	out := data.NewTable(append([]string(nil), t.Header...), rows)
	return out, nil
}

func checkShape(op string, X [][]float64) error {
	if len(X) == 0 {
		return nil
	}
	cols := len(X[0])
	for i, row := range X {
		if len(row) != cols {
			return &data.Error{
				Kind: data.ShapeMismatch, Op: op, Row: i, Col: -1,
				Err: errors.Errorf("row has %d values, want %d", len(row), cols),
			}
		}
	}
	return nil
}
