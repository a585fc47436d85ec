package search

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/posehash/cluster"
	"github.com/hupe1980/posehash/geom"
	"github.com/hupe1980/posehash/hier"
	"github.com/hupe1980/posehash/internal/conv"
	"github.com/hupe1980/posehash/internal/parallel"
)

// ErrNilScorer is returned when Run is called without a scoring function.
var ErrNilScorer = errors.New("search: nil score function")

// ScoreFunc writes one score per transform into scores. Larger is better.
// It is called concurrently on disjoint batches.
type ScoreFunc[F geom.Float] func(ctx context.Context, depth int, xs []geom.Xform[F], scores []float64) error

// Hit is a scored cell of the final depth.
type Hit[F geom.Float] struct {
	Index uint64
	Score float64
	Xform geom.Xform[F]
}

// Result is the outcome of Run.
type Result[F geom.Float] struct {
	// Depth is the deepest level that was scored.
	Depth int

	// Hits are the non-null cells of Depth, best first. Equal scores are
	// ordered by ascending index.
	Hits []Hit[F]

	// Visited holds the scored cells of every depth up to Depth.
	Visited []*roaring64.Bitmap

	// Evaluated is the total number of scored transforms.
	Evaluated int
}

type level[F geom.Float] struct {
	indices []uint64
	xs      []geom.Xform[F]
	scores  []float64
}

// Run scores all base cells of h and refines the best of each depth until
// the maximum depth is scored or no cell survives.
func Run[F geom.Float](ctx context.Context, h *hier.XformHier[F], score ScoreFunc[F], opts ...Option) (*Result[F], error) {
	if score == nil {
		return nil, ErrNilScorer
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.finish()
	maxDepth := min(o.maxDepth, h.MaxDepth())

	n0, err := conv.Uint64ToInt(h.Size(0))
	if err != nil {
		return nil, fmt.Errorf("search: base cells: %w", err)
	}
	if err := o.ctrl.AcquireMemory(footprint[F](n0)); err != nil {
		return nil, fmt.Errorf("search: %d base cells: %w", n0, err)
	}
	o.ctrl.ReleaseMemory(footprint[F](n0))

	indices := make([]uint64, n0)
	for i := range indices {
		indices[i] = uint64(i)
	}
	_, xs := h.Xforms(0, indices)

	res := &Result[F]{}
	var cur level[F]
	for depth := 0; ; depth++ {
		start := time.Now()
		indices, xs = exclude(indices, xs, o.exclude[depth])

		bytes := footprint[F](len(indices))
		if err := o.ctrl.AcquireMemory(bytes); err != nil {
			return nil, fmt.Errorf("search: depth %d with %d cells: %w", depth, len(indices), err)
		}
		scores, err := scoreAll(ctx, &o, score, depth, xs)
		o.ctrl.ReleaseMemory(bytes)
		if err != nil {
			return nil, err
		}

		res.Depth = depth
		res.Evaluated += len(xs)
		res.Visited = append(res.Visited, visited(indices))
		cur = level[F]{indices: indices, xs: xs, scores: scores}

		o.logger.DebugContext(ctx, "search depth scored",
			"depth", depth,
			"cells", len(indices),
			"duration", time.Since(start),
		)

		if depth >= maxDepth {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		indices, xs, err = h.ExpandTopNSeparate(o.beam, depth, scores, indices, hier.WithNullScore(o.null))
		if err != nil {
			return nil, err
		}
		if len(indices) == 0 {
			break
		}
	}

	hits, err := finalHits(cur, &o)
	if err != nil {
		return nil, err
	}
	res.Hits = hits

	o.logger.DebugContext(ctx, "search completed",
		"depth", res.Depth,
		"evaluated", res.Evaluated,
		"hits", len(res.Hits),
	)
	return res, nil
}

func scoreAll[F geom.Float](ctx context.Context, o *options, score ScoreFunc[F], depth int, xs []geom.Xform[F]) ([]float64, error) {
	scores := make([]float64, len(xs))
	err := parallel.ForContext(ctx, len(xs), o.batchSize, int(o.ctrl.MaxWorkers()), func(ctx context.Context, lo, hi int) error {
		if err := o.ctrl.AcquireWorker(ctx); err != nil {
			return err
		}
		defer o.ctrl.ReleaseWorker()
		return score(ctx, depth, xs[lo:hi], scores[lo:hi])
	})
	if err != nil {
		return nil, err
	}
	return scores, nil
}

func exclude[F geom.Float](indices []uint64, xs []geom.Xform[F], bm *roaring64.Bitmap) ([]uint64, []geom.Xform[F]) {
	if bm == nil || bm.IsEmpty() {
		return indices, xs
	}
	n := 0
	for i, idx := range indices {
		if bm.Contains(idx) {
			continue
		}
		indices[n] = idx
		xs[n] = xs[i]
		n++
	}
	return indices[:n], xs[:n]
}

func visited(indices []uint64) *roaring64.Bitmap {
	bm := roaring64.New()
	bm.AddMany(indices)
	return bm
}

func finalHits[F geom.Float](l level[F], o *options) ([]Hit[F], error) {
	hits := make([]Hit[F], 0, len(l.indices))
	for i, idx := range l.indices {
		s := l.scores[i]
		if s == o.null || math.IsNaN(s) {
			continue
		}
		hits = append(hits, Hit[F]{Index: idx, Score: s, Xform: l.xs[i]})
	}
	slices.SortFunc(hits, func(a, b Hit[F]) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})

	if o.radius <= 0 || len(hits) == 0 {
		return hits, nil
	}

	xs := make([]geom.Xform[F], len(hits))
	for i := range hits {
		xs[i] = hits[i].Xform
	}
	keep, err := cluster.CookieCutterXforms(xs, F(o.radius), F(o.lever))
	if err != nil {
		return nil, err
	}
	out := make([]Hit[F], len(keep))
	for i, k := range keep {
		out[i] = hits[k]
	}
	return out, nil
}

// footprint estimates the bytes held for n candidates of one depth.
func footprint[F geom.Float](n int) int64 {
	var x geom.Xform[F]
	return int64(n) * int64(unsafe.Sizeof(x)+16)
}
