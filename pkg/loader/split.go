package loader

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/aidanmacnichol/linear-regression/pkg/data"
)

// Split partitions the rows of t into training and testing tables. The first
// floor(fraction*N) rows of a random permutation go to train, the rest to
// test, both in permuted order. Rows are copied.
func Split(t *data.Table, fraction float64, rng *rand.Rand) (train, test *data.Table, err error) {
	if math.IsNaN(fraction) || fraction < 0 || fraction > 1 {
		return nil, nil, data.NewError("split", data.InvalidArgument,
			errors.Errorf("fraction %v outside [0, 1]", fraction))
	}
	if rng == nil {
		return nil, nil, data.NewError("split", data.InvalidArgument, errors.New("nil random source"))
	}
	if err := t.Validate(); err != nil {
		return nil, nil, err
	}

	n := t.Len()
	indices := rng.Perm(n)
	nTrain := int(math.Floor(fraction * float64(n)))

	train = &data.Table{Header: header(t), Rows: make([][]float64, 0, nTrain)}
	test = &data.Table{Header: header(t), Rows: make([][]float64, 0, n-nTrain)}
	for i, idx := range indices {
		row := append([]float64(nil), t.Rows[idx]...)
		if i < nTrain {
			train.Rows = append(train.Rows, row)
		} else {
			test.Rows = append(test.Rows, row)
		}
	}
	return train, test, nil
}

// Shuffle returns a copy of t with its rows in random order.
func Shuffle(t *data.Table, rng *rand.Rand) (*data.Table, error) {
	if rng == nil {
		return nil, data.NewError("shuffle", data.InvalidArgument, errors.New("nil random source"))
	}
	out := &data.Table{Header: header(t), Rows: make([][]float64, t.Len())}
	for i, idx := range rng.Perm(t.Len()) {
		out.Rows[i] = append([]float64(nil), t.Rows[idx]...)
	}
	return out, nil
}

// KFold assigns a random permutation of 0..n-1 round-robin to k folds.
func KFold(n, k int, rng *rand.Rand) ([][]int, error) {
	if k <= 0 || n < 0 {
		return nil, data.NewError("kfold", data.InvalidArgument, errors.Errorf("invalid n=%d k=%d", n, k))
	}
	if rng == nil {
		return nil, data.NewError("kfold", data.InvalidArgument, errors.New("nil random source"))
	}
	indices := rng.Perm(n)
	folds := make([][]int, k)
	for i := range n {
		folds[i%k] = append(folds[i%k], indices[i])
	}
	return folds, nil
}

func header(t *data.Table) []string {
	if t == nil || t.Header == nil {
		return nil
	}
	return append([]string(nil), t.Header...)
}
