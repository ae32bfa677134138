package pipeline

import "github.com/aidanmacnichol/linear-regression/pkg/data"

// Schema describes the structure of a dataset.
type Schema struct {
	FeatureNames []string
}

// SchemaOf names every column of t, falling back to positional names.
func SchemaOf(t *data.Table) Schema {
	if t == nil {
		return Schema{}
	}
	names := make([]string, t.Cols())
	for j := range names {
		names[j] = t.Name(j)
	}
	if len(names) == 0 && t.Header != nil {
		names = append(names, t.Header...)
	}
	return Schema{FeatureNames: names}
}
