package hier

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExpandHier(t *testing.T) *XformHier[float64] {
	t.Helper()
	lb, ub := unitBox()
	h, err := NewXformHierNside(lb, ub, [3]uint64{2, 2, 2}, 2)
	require.NoError(t, err)
	return h
}

func TestExpandTopNNullHandling(t *testing.T) {
	h := newExpandHier(t)

	scores := make([]float64, 10)
	indices := make([]uint64, 10)
	for i := range indices {
		indices[i] = uint64(i)
	}

	children, xs, err := h.ExpandTopNSeparate(3, 0, scores, indices)
	require.NoError(t, err)
	assert.Empty(t, children)
	assert.Empty(t, xs)

	scores[7] = 1
	children, xs, err = h.ExpandTopNSeparate(3, 0, scores, indices)
	require.NoError(t, err)
	require.Len(t, children, 64)
	require.Len(t, xs, 64)
	for i, c := range children {
		assert.Equal(t, uint64(7), c>>6)
		assert.Equal(t, uint64(i), c&63)
	}

	_, want := h.Xforms(1, children)
	assert.Equal(t, want, xs)
}

func TestExpandTopNCustomNull(t *testing.T) {
	h := newExpandHier(t)

	records := []ScoreIndex{
		{Score: 0, Index: 1},
		{Score: -1, Index: 2},
		{Score: math.NaN(), Index: 3},
	}

	children, _, err := h.ExpandTopN(10, 0, records, WithNullScore(-1))
	require.NoError(t, err)
	require.Len(t, children, 64)
	assert.Equal(t, uint64(1), children[0]>>6)
}

func TestExpandTopNOrdering(t *testing.T) {
	h := newExpandHier(t)

	records := []ScoreIndex{
		{Score: 2, Index: 40},
		{Score: 5, Index: 11},
		{Score: 2, Index: 12},
		{Score: 9, Index: 30},
		{Score: 1, Index: 50},
	}

	children, _, err := h.ExpandTopN(4, 0, records)
	require.NoError(t, err)
	require.Len(t, children, 4*64)

	var parents []uint64
	for i := 0; i < len(children); i += 64 {
		parents = append(parents, h.Parent(children[i]))
	}
	// Ties on score resolve to the lower index.
	assert.Equal(t, []uint64{30, 11, 12, 40}, parents)

	all, _, err := h.ExpandTopN(100, 0, records)
	require.NoError(t, err)
	assert.Len(t, all, 5*64)
}

func TestExpandTopNSkipsInvalidParents(t *testing.T) {
	h := newExpandHier(t)

	records := []ScoreIndex{
		{Score: 10, Index: h.Size(1)},
		{Score: 3, Index: 5},
	}
	children, xs, err := h.ExpandTopN(2, 1, records)
	require.NoError(t, err)
	require.Len(t, children, 64)
	assert.Equal(t, uint64(5), h.Parent(children[0]))
	assert.Len(t, xs, 64)
}

func TestExpandTopNErrors(t *testing.T) {
	h := newExpandHier(t)

	_, _, err := h.ExpandTopNSeparate(1, 0, []float64{1, 2}, []uint64{1})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, _, err = h.ExpandTopN(1, -1, []ScoreIndex{{Score: 1}})
	assert.ErrorIs(t, err, ErrDepthOutOfRange)

	_, _, err = h.ExpandTopN(1, h.MaxDepth(), []ScoreIndex{{Score: 1}})
	assert.ErrorIs(t, err, ErrDepthOutOfRange)

	children, xs, err := h.ExpandTopN(0, 0, []ScoreIndex{{Score: 1}})
	require.NoError(t, err)
	assert.Empty(t, children)
	assert.Empty(t, xs)
}

func TestExpandTopNFloat32(t *testing.T) {
	lb, ub := unitBox()
	h, err := NewXformHierNside(lb32(lb), lb32(ub), [3]uint64{1, 1, 1}, 1)
	require.NoError(t, err)

	children, xs, err := h.ExpandTopN(1, 0, []ScoreIndex{{Score: 0.5, Index: 23}})
	require.NoError(t, err)
	require.Len(t, children, 64)
	for _, x := range xs {
		assert.InDelta(t, 1, x.R.Det(), 1e-5)
		for k := 0; k < 3; k++ {
			assert.Greater(t, x.T[k], float32(0))
			assert.Less(t, x.T[k], float32(1))
		}
	}
}
