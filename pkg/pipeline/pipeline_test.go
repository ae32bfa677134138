package pipeline

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/aidanmacnichol/linear-regression/pkg/data"
	"github.com/aidanmacnichol/linear-regression/pkg/dataprep"
	"github.com/aidanmacnichol/linear-regression/pkg/stats"
)

const housingCSV = `crim,rm,medv
0.00632,6.575,24
0.02731,6.421,21.6
0.02729,7.185,34.7
0.03237,NA,33.4
0.06905,7.147,36.2
0.02985,6.43,28.7
0.08829,6.012,22.9
0.14455,6.172,27.1
0.21124,5.631,16.5
0.17004,6.004,18.9
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunStandardizesThenSplits(t *testing.T) {
	path := writeFile(t, "housing.csv", housingCSV)
	core, logs := observer.New(zapcore.InfoLevel)

	res, err := Run(path, Options{
		Fraction: 0.8,
		Rand:     rand.New(rand.NewSource(1)),
		Logger:   zap.New(core),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, []string{"crim", "rm", "medv"}, res.Schema.FeatureNames)
	assert.Equal(t, 10, res.Raw.Len())
	assert.Equal(t, 8, res.Train.Len())
	assert.Equal(t, 2, res.Test.Len())
	for j := range res.Standardized.Cols() {
		col := res.Standardized.Column(j)
		assert.InDelta(t, 0, stats.Mean(col), 1e-9)
		assert.InDelta(t, 1, stats.Std(col), 1e-9)
	}

	// Running mean of rm over the first three rows.
	assert.InDelta(t, (6.575+6.421+7.185)/3, res.Raw.Rows[3][1], 1e-12)

	split := logs.FilterMessage("split").All()
	require.Len(t, split, 1)
	assert.Equal(t, res.RunID, split[0].ContextMap()["run_id"])
}

func TestRunFitOnTrain(t *testing.T) {
	path := writeFile(t, "housing.csv", housingCSV)

	res, err := Run(path, Options{
		Imputer:    dataprep.NewColumnMean(),
		Fraction:   0.6,
		Rand:       rand.New(rand.NewSource(2)),
		FitOnTrain: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, res.Train.Len())
	assert.Equal(t, 4, res.Test.Len())

	// Train is standardized with its own statistics.
	for j := range res.Train.Cols() {
		col := res.Train.Column(j)
		assert.InDelta(t, 0, stats.Mean(col), 1e-9)
		assert.InDelta(t, 1, stats.Std(col), 1e-9)
	}
	assert.Equal(t, res.Raw.Len(), res.Standardized.Len())
}

func TestRunFitOnTrainNeedsTrainingRows(t *testing.T) {
	path := writeFile(t, "housing.csv", housingCSV)
	_, err := Run(path, Options{Fraction: 0, Rand: rand.New(rand.NewSource(2)), FitOnTrain: true})
	assert.True(t, data.IsKind(err, data.InvalidArgument))
}

func TestRunReportsLoadErrors(t *testing.T) {
	path := writeFile(t, "bad.csv", "a,b\n1,2\n3,x\n")

	res, err := Run(path, Options{Fraction: 0.5, Rand: rand.New(rand.NewSource(1))})
	assert.Nil(t, res)
	require.Error(t, err)

	var e *data.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, data.MalformedNumber, e.Kind)
	assert.Equal(t, 1, e.Partial.Len())
}

func TestRunConstantColumn(t *testing.T) {
	path := writeFile(t, "flat.csv", "a,b\n1,7\n2,7\n3,7\n")

	_, err := Run(path, Options{Fraction: 0.5, Rand: rand.New(rand.NewSource(1))})
	assert.True(t, data.IsKind(err, data.DivisionByZeroVariance))

	res, err := Run(path, Options{
		Fraction:     0.5,
		Rand:         rand.New(rand.NewSource(1)),
		ZeroVariance: stats.ZeroVarianceCenter,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Standardized.Rows[0][1])
}

func TestRunRequiresRand(t *testing.T) {
	path := writeFile(t, "housing.csv", housingCSV)
	_, err := Run(path, Options{Fraction: 0.5})
	assert.True(t, data.IsKind(err, data.InvalidArgument))
}

func TestPipelineChainsTransformers(t *testing.T) {
	p := NewPipeline(
		stats.NewStandardScaler(stats.ZeroVarianceError),
		stats.NewStandardScaler(stats.ZeroVarianceError),
	)
	X := [][]float64{{0}, {2}, {4}}
	require.NoError(t, p.Fit(X))

	out, err := p.TransformTable(data.NewTable([]string{"x"}, X))
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, out.Header)
	assert.InDelta(t, 0, out.Rows[1][0], 1e-12)
	assert.InDelta(t, 1, stats.Std(out.Column(0)), 1e-12)
}

func TestSchemaOf(t *testing.T) {
	assert.Equal(t, Schema{}, SchemaOf(nil))
	s := SchemaOf(data.NewTable([]string{"a"}, [][]float64{{1, 2}}))
	assert.Equal(t, []string{"a", "col1"}, s.FeatureNames)
}
