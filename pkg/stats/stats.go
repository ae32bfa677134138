package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Mean computes the average of a slice.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return floats.Sum(x) / float64(len(x))
}

// PopVariance computes the population variance (divides by N, not N-1).
func PopVariance(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	_, v := stat.PopMeanVariance(x, nil)
	return v
}

// Std computes the population standard deviation.
func Std(x []float64) float64 {
	return math.Sqrt(PopVariance(x))
}

// MeanStd returns the mean and population standard deviation in one call.
func MeanStd(x []float64) (mean, std float64) {
	if len(x) == 0 {
		return 0, 0
	}
	return stat.PopMeanStdDev(x, nil)
}

// Constant reports whether every value in x is identical. Constant columns
// have zero variance even when rounding makes the computed std non-zero.
func Constant(x []float64) bool {
	if len(x) == 0 {
		return true
	}
	return floats.Min(x) == floats.Max(x)
}
