package analysis

import (
	"errors"
	"fmt"

	"github.com/ZanzyTHEbar/job-fraud-detector/internal/model"
)

// ErrSchemaMismatch reports disagreement between extracted features and the
// trained feature column schema.
var ErrSchemaMismatch = errors.New("feature schema mismatch")

// ValidateSchema checks that schema names every extracted feature exactly once.
func ValidateSchema(schema []string) error {
	known := make(map[string]bool, len(FeatureNames))
	for _, name := range FeatureNames {
		known[name] = false
	}
	for _, col := range schema {
		seen, ok := known[col]
		if !ok {
			return fmt.Errorf("%w: unknown column %q", ErrSchemaMismatch, col)
		}
		if seen {
			return fmt.Errorf("%w: duplicate column %q", ErrSchemaMismatch, col)
		}
		known[col] = true
	}
	for _, name := range FeatureNames {
		if !known[name] {
			return fmt.Errorf("%w: feature %q has no column", ErrSchemaMismatch, name)
		}
	}
	return nil
}

// Assemble concatenates the text vector with the feature values in schema
// order. Values are not scaled. Zero entries stay implicit, as they are in a
// horizontally stacked sparse matrix.
func Assemble(fs FeatureSet, schema []string, text model.SparseVector) (model.SparseVector, error) {
	out := model.SparseVector{
		Dim:     text.Dim + len(schema),
		Indices: make([]int, 0, text.NNZ()+len(schema)),
		Values:  make([]float64, 0, text.NNZ()+len(schema)),
	}
	out.Indices = append(out.Indices, text.Indices...)
	out.Values = append(out.Values, text.Values...)

	for i, col := range schema {
		val, ok := fs[col]
		if !ok {
			return model.SparseVector{}, fmt.Errorf("%w: column %q not in feature set", ErrSchemaMismatch, col)
		}
		if val != 0 {
			out.Indices = append(out.Indices, text.Dim+i)
			out.Values = append(out.Values, val)
		}
	}
	return out, nil
}
