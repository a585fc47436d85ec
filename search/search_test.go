package search

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/posehash/geom"
	"github.com/hupe1980/posehash/hier"
	"github.com/hupe1980/posehash/internal/resource"
	"github.com/hupe1980/posehash/testutil"
)

func newHier(t *testing.T) *hier.XformHier[float64] {
	t.Helper()
	h, err := hier.NewXformHier[float64](
		geom.Vec3[float64]{0, 0, 0},
		geom.Vec3[float64]{8, 8, 8},
		[3]uint64{2, 2, 2},
		30,
	)
	require.NoError(t, err)
	return h
}

// towards scores transforms by closeness to target, with lever units of
// length per radian of rotation.
func towards(target geom.Xform[float64], lever float64) ScoreFunc[float64] {
	return func(_ context.Context, _ int, xs []geom.Xform[float64], scores []float64) error {
		for i, x := range xs {
			scores[i] = -(x.T.Dist(target.T) + lever*geom.AngleBetween(x.R, target.R))
		}
		return nil
	}
}

func TestRunConverges(t *testing.T) {
	h := newHier(t)
	rng := testutil.NewRNG(5)
	target := geom.NewXform(testutil.RandRotations[float64](rng, 1)[0], geom.Vec3[float64]{3.1, 5.3, 2.6})

	res, err := Run(t.Context(), h, towards(target, 10), WithBeam(200), WithMaxDepth(3))
	require.NoError(t, err)

	assert.Equal(t, 3, res.Depth)
	require.Len(t, res.Visited, 4)
	assert.Equal(t, h.Size(0), res.Visited[0].GetCardinality())
	for d := 1; d <= 3; d++ {
		assert.Equal(t, uint64(200*64), res.Visited[d].GetCardinality(), "depth %d", d)
	}
	assert.Equal(t, int(h.Size(0))+3*200*64, res.Evaluated)
	require.Len(t, res.Hits, 200*64)

	best := res.Hits[0]
	assert.Less(t, best.Xform.T.Dist(target.T), 1.5)
	assert.Less(t, geom.Degrees(geom.AngleBetween(best.Xform.R, target.R)), 10.0)

	x, ok := h.At(3, best.Index)
	require.True(t, ok)
	assert.Equal(t, x, best.Xform)

	for i := 1; i < len(res.Hits); i++ {
		assert.GreaterOrEqual(t, res.Hits[i-1].Score, res.Hits[i].Score)
	}
}

func TestRunMaxDepthClamped(t *testing.T) {
	h := newHier(t)
	res, err := Run(t.Context(), h, towards(geom.IdentityXform[float64](), 1),
		WithBeam(1), WithMaxDepth(100))
	require.NoError(t, err)
	assert.Equal(t, h.MaxDepth(), res.Depth)
	assert.Len(t, res.Hits, 64)
}

func TestRunDepthZero(t *testing.T) {
	h := newHier(t)
	res, err := Run(t.Context(), h, towards(geom.IdentityXform[float64](), 1), WithMaxDepth(0))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Depth)
	assert.Len(t, res.Hits, int(h.Size(0)))
}

func TestRunNullScores(t *testing.T) {
	h := newHier(t)
	zero := func(context.Context, int, []geom.Xform[float64], []float64) error { return nil }

	res, err := Run(t.Context(), h, zero)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Depth)
	assert.Empty(t, res.Hits)
	assert.Len(t, res.Visited, 1)

	// Only cell 7 scores at depth 0; with a custom null everything else is
	// rejected.
	one := func(_ context.Context, depth int, xs []geom.Xform[float64], scores []float64) error {
		for i := range scores {
			scores[i] = -1
		}
		if depth == 0 && len(xs) > 7 {
			scores[7] = 1
		}
		return nil
	}
	res, err = Run(t.Context(), h, one, WithNullScore(-1), WithMaxDepth(1), WithBatchSize(1<<20))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Depth)
	assert.Empty(t, res.Hits)
	assert.Equal(t, uint64(64), res.Visited[1].GetCardinality())
	assert.Equal(t, uint64(7), res.Visited[1].Minimum()>>6)
}

func TestRunExclude(t *testing.T) {
	h := newHier(t)

	allowed := []uint64{3, 100, 4000}
	ex := roaring64.New()
	ex.AddRange(0, h.Size(0))
	for _, a := range allowed {
		ex.Remove(a)
	}

	var calls atomic.Int64
	score := func(ctx context.Context, depth int, xs []geom.Xform[float64], scores []float64) error {
		calls.Add(int64(len(xs)))
		return towards(geom.IdentityXform[float64](), 1)(ctx, depth, xs, scores)
	}

	res, err := Run(t.Context(), h, score, WithExclude(0, ex), WithMaxDepth(1), WithBeam(2))
	require.NoError(t, err)
	assert.Equal(t, allowed, res.Visited[0].ToArray())
	assert.Equal(t, uint64(128), res.Visited[1].GetCardinality())
	assert.Equal(t, int64(3+128), calls.Load())
	assert.Equal(t, 3+128, res.Evaluated)

	// A second run excluding the first run's cells at depth 1.
	again, err := Run(t.Context(), h, score,
		WithExclude(0, ex), WithExclude(1, res.Visited[1]), WithMaxDepth(1), WithBeam(2))
	require.NoError(t, err)
	assert.Equal(t, 1, again.Depth)
	assert.Empty(t, again.Hits)
}

func TestRunCluster(t *testing.T) {
	h := newHier(t)
	target := geom.IdentityXform[float64]()
	target.T = geom.Vec3[float64]{4, 4, 4}

	const radius = 2.0
	res, err := Run(t.Context(), h, towards(target, 1),
		WithBeam(20), WithMaxDepth(1), WithClusterRadius(radius, 0))
	require.NoError(t, err)
	require.NotEmpty(t, res.Hits)

	for i, a := range res.Hits {
		for _, b := range res.Hits[i+1:] {
			assert.Greater(t, a.Xform.T.Dist(b.Xform.T), radius)
		}
	}
}

func TestRunErrors(t *testing.T) {
	h := newHier(t)

	_, err := Run[float64](t.Context(), h, nil)
	assert.ErrorIs(t, err, ErrNilScorer)

	boom := errors.New("boom")
	fail := func(context.Context, int, []geom.Xform[float64], []float64) error { return boom }
	_, err = Run(t.Context(), h, fail)
	assert.ErrorIs(t, err, boom)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err = Run(ctx, h, towards(geom.IdentityXform[float64](), 1))
	assert.ErrorIs(t, err, context.Canceled)

	ctrl := resource.NewController(resource.Config{MemoryLimitBytes: 1024})
	_, err = Run(t.Context(), h, towards(geom.IdentityXform[float64](), 1), WithController(ctrl))
	assert.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)
	assert.Zero(t, ctrl.MemoryUsage())
}

func TestRunConcurrency(t *testing.T) {
	h := newHier(t)

	var inflight, peak atomic.Int64
	score := func(ctx context.Context, depth int, xs []geom.Xform[float64], scores []float64) error {
		n := inflight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		defer inflight.Add(-1)
		return towards(geom.IdentityXform[float64](), 1)(ctx, depth, xs, scores)
	}

	_, err := Run(t.Context(), h, score, WithConcurrency(2), WithBatchSize(512), WithMaxDepth(1))
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int64(2))
}
