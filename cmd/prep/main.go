// Command prep imputes, standardizes and splits a CSV dataset.
//
// Example:
//
//	go run ./cmd/prep HousingData.csv --fraction 0.8 --seed 42 --format table --preview 10
//
// Every flag can also come from a YAML file (--config) or PREP_* variables,
// e.g. PREP_SPLIT_FRACTION=0.7 PREP_PREP_IMPUTE=column.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aidanmacnichol/linear-regression/internal/config"
	"github.com/aidanmacnichol/linear-regression/internal/logging"
	"github.com/aidanmacnichol/linear-regression/pkg/data"
	"github.com/aidanmacnichol/linear-regression/pkg/dataprep"
	"github.com/aidanmacnichol/linear-regression/pkg/pipeline"
	"github.com/aidanmacnichol/linear-regression/pkg/report"
	"github.com/aidanmacnichol/linear-regression/pkg/stats"
)

type flags struct {
	configPath   string
	sheet        string
	impute       string
	zeroVariance string
	fraction     float64
	seed         int64
	fitOnTrain   bool
	format       string
	preview      int
	plotDir      string
	logLevel     string
	show         string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "prep [input]",
		Short: "Impute, standardize and split a CSV dataset",
		Long: "Loads a CSV (or XLSX) file whose first line is a header, fills NA cells with column means, " +
			"z-score standardizes every column and splits the rows into training and testing sets.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(f.configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd, f, cfg, args)
			if err := checkShow(f.show); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return errors.Wrap(err, "invalid flags")
			}
			if cfg.Input.Path == "" {
				return errors.New("no input file: pass one as argument or set input.path")
			}
			return run(cmd, cfg, f.show)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "YAML config file")
	fl.StringVar(&f.sheet, "sheet", "", "sheet name for XLSX input (default first sheet)")
	fl.StringVar(&f.impute, "impute", "running", "NA imputation: running or column")
	fl.StringVar(&f.zeroVariance, "zero-variance", "error", "constant column policy: error, propagate or center")
	fl.Float64VarP(&f.fraction, "fraction", "f", config.DefaultFraction, "share of rows used for training")
	fl.Int64Var(&f.seed, "seed", 0, "random seed for the split (0 = time based)")
	fl.BoolVar(&f.fitOnTrain, "fit-on-train", false, "fit the scaler on training rows only")
	fl.StringVar(&f.format, "format", "plain", "output format: plain or table")
	fl.IntVar(&f.preview, "preview", 0, "rows to print per table (0 = all)")
	fl.StringVar(&f.plotDir, "plot-dir", "", "write per-column histograms of the standardized table here")
	fl.StringVar(&f.logLevel, "log-level", "info", "debug, info, warn or error")
	fl.StringVar(&f.show, "show", "standardized", "table to print: raw, standardized, train, test or none")
	return cmd
}

// applyFlags lets explicitly set flags win over file and environment.
func applyFlags(cmd *cobra.Command, f *flags, cfg *config.Config, args []string) {
	if len(args) == 1 {
		cfg.Input.Path = args[0]
	}
	changed := cmd.Flags().Changed
	if changed("sheet") {
		cfg.Input.Sheet = f.sheet
	}
	if changed("impute") {
		cfg.Prep.Impute = f.impute
	}
	if changed("zero-variance") {
		cfg.Prep.ZeroVariance = f.zeroVariance
	}
	if changed("fraction") {
		cfg.Split.Fraction = &f.fraction
	}
	if changed("seed") {
		cfg.Split.Seed = f.seed
	}
	if changed("fit-on-train") {
		cfg.Split.FitOnTrain = f.fitOnTrain
	}
	if changed("format") {
		cfg.Output.Format = f.format
	}
	if changed("preview") {
		cfg.Output.Preview = f.preview
	}
	if changed("plot-dir") {
		cfg.Output.PlotDir = f.plotDir
	}
	if changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
}

func checkShow(show string) error {
	switch show {
	case "raw", "standardized", "train", "test", "none":
		return nil
	}
	return errors.Errorf("unknown table %q: want raw, standardized, train, test or none", show)
}

func run(cmd *cobra.Command, cfg *config.Config, show string) error {
	log, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	imp, ok := dataprep.New(cfg.Prep.Impute)
	if !ok {
		return errors.Errorf("unknown imputation %q", cfg.Prep.Impute)
	}
	zv, ok := stats.ParseZeroVariance(cfg.Prep.ZeroVariance)
	if !ok {
		return errors.Errorf("unknown zero variance policy %q", cfg.Prep.ZeroVariance)
	}

	// The only place a time based seed is allowed.
	seed := cfg.Split.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Debug("random seed", zap.Int64("seed", seed))

	res, err := pipeline.Run(cfg.Input.Path, pipeline.Options{
		Imputer:      imp,
		Sheet:        cfg.Input.Sheet,
		ZeroVariance: zv,
		Fraction:     cfg.TrainFraction(),
		Rand:         rand.New(rand.NewSource(seed)),
		FitOnTrain:   cfg.Split.FitOnTrain,
		Logger:       log,
	})
	if err != nil {
		var e *data.Error
		if errors.As(err, &e) && e.Partial != nil {
			log.Warn("partial data discarded", zap.Int("rows", e.Partial.Len()))
		}
		return err
	}

	out := cmd.OutOrStdout()
	var tbl *data.Table
	switch show {
	case "raw":
		tbl = res.Raw
	case "standardized":
		tbl = res.Standardized
	case "train":
		tbl = res.Train
	case "test":
		tbl = res.Test
	case "none":
	default:
		return errors.Errorf("unknown table %q", show)
	}
	if tbl != nil {
		if cfg.Output.Format == "table" {
			report.Preview(out, tbl, cfg.Output.Preview)
		} else {
			limited := tbl
			if n := cfg.Output.Preview; n > 0 && n < tbl.Len() {
				limited = data.NewTable(tbl.Header, tbl.Rows[:n])
			}
			if err := report.Write(out, limited); err != nil {
				return errors.Wrap(err, "write table")
			}
		}
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "rows=%d train=%d test=%d\n", res.Raw.Len(), res.Train.Len(), res.Test.Len())

	if cfg.Output.PlotDir != "" {
		paths, err := report.Histograms(res.Standardized, cfg.Output.PlotDir)
		if err != nil {
			return err
		}
		log.Info("histograms written", zap.Int("count", len(paths)), zap.String("dir", cfg.Output.PlotDir))
	}
	return nil
}
