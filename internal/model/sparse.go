package model

import (
	"fmt"
	"sort"
)

// SparseVector is a fixed-dimension vector that stores only non-zero entries.
// Indices are strictly increasing.
type SparseVector struct {
	Dim     int
	Indices []int
	Values  []float64
}

// NewSparseVector builds a vector from an index->value map, dropping zeros.
func NewSparseVector(dim int, entries map[int]float64) (SparseVector, error) {
	v := SparseVector{
		Dim:     dim,
		Indices: make([]int, 0, len(entries)),
		Values:  make([]float64, 0, len(entries)),
	}
	for idx, val := range entries {
		if idx < 0 || idx >= dim {
			return SparseVector{}, fmt.Errorf("index %d out of range for dimension %d", idx, dim)
		}
		if val != 0 {
			v.Indices = append(v.Indices, idx)
		}
	}
	sort.Ints(v.Indices)
	for _, idx := range v.Indices {
		v.Values = append(v.Values, entries[idx])
	}
	return v, nil
}

// NNZ returns the number of stored entries.
func (v SparseVector) NNZ() int {
	return len(v.Indices)
}

// Lookup returns the value at idx and whether it is stored.
func (v SparseVector) Lookup(idx int) (float64, bool) {
	i := sort.SearchInts(v.Indices, idx)
	if i < len(v.Indices) && v.Indices[i] == idx {
		return v.Values[i], true
	}
	return 0, false
}

// Dense expands the vector. Intended for tests and small dimensions.
func (v SparseVector) Dense() []float64 {
	out := make([]float64, v.Dim)
	for i, idx := range v.Indices {
		out[idx] = v.Values[i]
	}
	return out
}
