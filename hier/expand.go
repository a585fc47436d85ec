package hier

import (
	"cmp"
	"math"
	"slices"

	"github.com/hupe1980/posehash/geom"
)

// ScoreIndex pairs a score with a hierarchy index.
type ScoreIndex struct {
	Score float64
	Index uint64
}

type expandOptions struct {
	null float64
}

// ExpandOption configures ExpandTopN.
type ExpandOption func(*expandOptions)

// WithNullScore sets the score that marks unset candidates. Entries with this
// score are never expanded. Default: 0.
func WithNullScore(v float64) ExpandOption {
	return func(o *expandOptions) {
		o.null = v
	}
}

// ExpandTopN selects up to n records with the largest scores at depth and
// returns all 64 children of each at depth+1 with their center transforms.
//
// Records scored with the null value (see WithNullScore) or NaN are
// skipped, as are indices outside Size(depth). Equal scores are ordered by
// ascending index. Parents are emitted best first; the children of a parent
// are contiguous and ascending.
func (h *XformHier[F]) ExpandTopN(n, depth int, records []ScoreIndex, opts ...ExpandOption) ([]uint64, []geom.Xform[F], error) {
	o := expandOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	return h.expand(n, depth, records, o)
}

// ExpandTopNSeparate is ExpandTopN over parallel score and index slices.
func (h *XformHier[F]) ExpandTopNSeparate(n, depth int, scores []float64, indices []uint64, opts ...ExpandOption) ([]uint64, []geom.Xform[F], error) {
	if len(scores) != len(indices) {
		return nil, nil, ErrLengthMismatch
	}
	records := make([]ScoreIndex, len(scores))
	for i := range scores {
		records[i] = ScoreIndex{Score: scores[i], Index: indices[i]}
	}

	o := expandOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	return h.expand(n, depth, records, o)
}

func (h *XformHier[F]) expand(n, depth int, records []ScoreIndex, o expandOptions) ([]uint64, []geom.Xform[F], error) {
	if depth < 0 || depth >= h.MaxDepth() {
		return nil, nil, ErrDepthOutOfRange
	}
	if n <= 0 {
		return nil, nil, nil
	}

	size := h.Size(depth)
	keep := make([]ScoreIndex, 0, len(records))
	for _, r := range records {
		if r.Score == o.null || math.IsNaN(r.Score) || r.Index >= size {
			continue
		}
		keep = append(keep, r)
	}
	if len(keep) == 0 {
		return nil, nil, nil
	}

	slices.SortFunc(keep, func(a, b ScoreIndex) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})
	keep = keep[:min(n, len(keep))]

	branching := h.codec.Branching()
	children := make([]uint64, 0, uint64(len(keep))*branching)
	for _, r := range keep {
		for child := h.ChildBegin(r.Index); child < h.ChildEnd(r.Index); child++ {
			children = append(children, child)
		}
	}

	_, xs := h.Xforms(depth+1, children)
	return children, xs, nil
}
