package pipeline

import (
	"github.com/aidanmacnichol/linear-regression/pkg/data"
)

// Transformer interface for fit/transform pattern.
type Transformer interface {
	Fit(X [][]float64) error
	Transform(X [][]float64) ([][]float64, error)
}

// Pipeline chains multiple transformers.
type Pipeline struct {
	steps []Transformer
}

func NewPipeline(steps ...Transformer) *Pipeline {
	return &Pipeline{steps: steps}
}

// Fit fits each step on the output of the previous one.
func (p *Pipeline) Fit(X [][]float64) error {
	for _, step := range p.steps {
		if err := step.Fit(X); err != nil {
			return err
		}
		var err error
		if X, err = step.Transform(X); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) Transform(X [][]float64) ([][]float64, error) {
	for _, step := range p.steps {
		var err error
		if X, err = step.Transform(X); err != nil {
			return nil, err
		}
	}
	return X, nil
}

// TransformTable applies the fitted steps to the rows of t.
func (p *Pipeline) TransformTable(t *data.Table) (*data.Table, error) {
	rows, err := p.Transform(t.Rows)
	if err != nil {
		return nil, err
	}
	return data.NewTable(append([]string(nil), t.Header...), rows), nil
}
