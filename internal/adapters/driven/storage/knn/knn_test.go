package knn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSquaredL2(t *testing.T) {
	d, err := SquaredL2([]float32{0, 0}, []float32{3, 4})
	require.NoError(t, err)
	assert.InDelta(t, 25.0, d, 1e-9)

	_, err = SquaredL2([]float32{1}, []float32{1, 2})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestTopK(t *testing.T) {
	items := []Item{
		{ID: 0, Embedding: []float32{1}},
		{ID: 1, Embedding: []float32{0.5}},
		{ID: 2, Embedding: []float32{-0.5}},
		{ID: 3, Embedding: []float32{0.1}},
	}

	res, err := TopK(items, []float32{0}, 3)
	require.NoError(t, err)
	require.Len(t, res, 3)
	assert.Equal(t, int64(3), res[0].ID)
	// 0.5 and -0.5 tie; lower ID wins.
	assert.Equal(t, int64(1), res[1].ID)
	assert.Equal(t, int64(2), res[2].ID)
	assert.Equal(t, 2, res[2].Index)
}

func TestTopK_Empty(t *testing.T) {
	res, err := TopK(nil, []float32{0}, 3)
	require.NoError(t, err)
	assert.Empty(t, res)

	res, err = TopK([]Item{{ID: 0, Embedding: []float32{1}}}, []float32{0}, 0)
	require.NoError(t, err)
	assert.Empty(t, res)
}
