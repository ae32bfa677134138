package pipeline

import (
	"math/rand"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/aidanmacnichol/linear-regression/pkg/data"
	"github.com/aidanmacnichol/linear-regression/pkg/dataprep"
	"github.com/aidanmacnichol/linear-regression/pkg/loader"
	"github.com/aidanmacnichol/linear-regression/pkg/stats"
)

// Options controls one preprocessing run.
type Options struct {
	// Imputer fills "NA" cells; nil means a running mean.
	Imputer dataprep.Imputer
	// Sheet selects an XLSX sheet when the input is a workbook.
	Sheet        string
	ZeroVariance stats.ZeroVariance
	// Fraction of rows that go to the training table.
	Fraction float64
	Rand     *rand.Rand
	// FitOnTrain splits first and fits the scaler on training rows only.
	// Otherwise the whole table is standardized before splitting.
	FitOnTrain bool
	Logger     *zap.Logger
}

// Result holds every intermediate table of a run.
type Result struct {
	RunID        string
	Schema       Schema
	Raw          *data.Table
	Standardized *data.Table
	Train        *data.Table
	Test         *data.Table
}

// Run loads path, standardizes and splits it.
func Run(path string, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	res := &Result{RunID: uuid.NewString()}
	log = log.With(zap.String("run_id", res.RunID), zap.String("input", path))

	loadOpts := []data.Option{data.WithLogger(log)}
	if opts.Imputer != nil {
		loadOpts = append(loadOpts, data.WithImputer(opts.Imputer))
	}
	raw, err := load(path, opts.Sheet, loadOpts)
	if err != nil {
		log.Error("load failed", zap.Error(err))
		return nil, errors.Wrap(err, "load")
	}
	res.Raw = raw
	res.Schema = SchemaOf(raw)
	log.Info("loaded", zap.Int("rows", raw.Len()), zap.Int("cols", raw.Cols()))

	if opts.FitOnTrain {
		err = res.splitThenScale(opts)
	} else {
		err = res.scaleThenSplit(opts)
	}
	if err != nil {
		log.Error("preprocess failed", zap.Error(err))
		return nil, err
	}

	log.Info("split",
		zap.Float64("fraction", opts.Fraction),
		zap.Bool("fit_on_train", opts.FitOnTrain),
		zap.Int("train", res.Train.Len()),
		zap.Int("test", res.Test.Len()))
	return res, nil
}

func (r *Result) scaleThenSplit(opts Options) error {
	std, err := stats.StandardizeColumns(r.Raw, opts.ZeroVariance)
	if err != nil {
		return errors.Wrap(err, "standardize")
	}
	r.Standardized = std
	r.Train, r.Test, err = loader.Split(std, opts.Fraction, opts.Rand)
	return errors.Wrap(err, "split")
}

func (r *Result) splitThenScale(opts Options) error {
	train, test, err := loader.Split(r.Raw, opts.Fraction, opts.Rand)
	if err != nil {
		return errors.Wrap(err, "split")
	}
	if train.Len() == 0 {
		return data.NewError("fit scaler on train", data.InvalidArgument, errors.New("no training rows"))
	}
	p := NewPipeline(stats.NewStandardScaler(opts.ZeroVariance))
	if err := p.Fit(train.Rows); err != nil {
		return errors.Wrap(err, "fit scaler on train")
	}
	if r.Train, err = p.TransformTable(train); err != nil {
		return errors.Wrap(err, "standardize train")
	}
	if r.Test, err = p.TransformTable(test); err != nil {
		return errors.Wrap(err, "standardize test")
	}
	if r.Standardized, err = p.TransformTable(r.Raw); err != nil {
		return errors.Wrap(err, "standardize")
	}
	return nil
}

func load(path, sheet string, opts []data.Option) (*data.Table, error) {
	if isWorkbook(path) {
		return data.LoadXLSX(path, sheet, opts...)
	}
	return data.Load(path, opts...)
}

func isWorkbook(path string) bool {
	ext := filepath.Ext(path)
	return strings.EqualFold(ext, ".xlsx") || strings.EqualFold(ext, ".xlsm")
}
