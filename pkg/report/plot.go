package report

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"regexp"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// DefaultBins is the histogram bin count used by Histograms.
const DefaultBins = 20

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// Histograms saves one PNG histogram per column of t into dir and returns
// the written paths. Non-finite values are left out of the plots.
func Histograms(t tableLike, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create plot dir")
	}
	var paths []string
	for j := range t.Cols() {
		vals := finite(t.Column(j))
		if len(vals) == 0 {
			continue
		}
		p := plot.New()
		p.Title.Text = fmt.Sprintf("Distribution of %s", t.Name(j))
		p.X.Label.Text = t.Name(j)
		p.Y.Label.Text = "Count"

		h, err := plotter.NewHist(vals, DefaultBins)
		if err != nil {
			return paths, errors.Wrapf(err, "histogram for column %d", j)
		}
		h.FillColor = color.RGBA{R: 50, G: 50, B: 255, A: 255}
		p.Add(h)

		name := fmt.Sprintf("%02d_%s.png", j, unsafeName.ReplaceAllString(t.Name(j), "_"))
		path := filepath.Join(dir, name)
		if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
			return paths, errors.Wrapf(err, "save %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// tableLike is the part of *data.Table the plots need.
type tableLike interface {
	Cols() int
	Column(j int) []float64
	Name(j int) string
}

func finite(x []float64) plotter.Values {
	out := make(plotter.Values, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}
