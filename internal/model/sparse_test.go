package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSparseVector(t *testing.T) {
	v, err := NewSparseVector(5, map[int]float64{4: 1.5, 1: 2, 2: 0})
	require.NoError(t, err)

	assert.Equal(t, 5, v.Dim)
	assert.Equal(t, []int{1, 4}, v.Indices)
	assert.Equal(t, []float64{2, 1.5}, v.Values)
	assert.Equal(t, 2, v.NNZ())
	assert.Equal(t, []float64{0, 2, 0, 0, 1.5}, v.Dense())

	val, ok := v.Lookup(4)
	assert.True(t, ok)
	assert.Equal(t, 1.5, val)

	_, ok = v.Lookup(2)
	assert.False(t, ok, "zero entries are not stored")

	_, err = NewSparseVector(3, map[int]float64{3: 1})
	assert.Error(t, err)
}
