package nnindex

import (
	"errors"
	"math"

	"github.com/hupe1980/posehash/internal/parallel"
)

var (
	// ErrEmpty is returned when an index is built from no points.
	ErrEmpty = errors.New("nnindex: no points")

	// ErrDimensionMismatch is returned when points differ in length.
	ErrDimensionMismatch = errors.New("nnindex: dimension mismatch")
)

// Flat is an immutable set of points answering exact Euclidean
// nearest-neighbour queries by linear scan.
type Flat struct {
	dim  int
	data []float64 // len = n*dim
}

// Build copies points into a new index. All points must share one length.
func Build(points [][]float64) (*Flat, error) {
	if len(points) == 0 {
		return nil, ErrEmpty
	}
	dim := len(points[0])
	if dim == 0 {
		return nil, ErrDimensionMismatch
	}

	f := &Flat{dim: dim, data: make([]float64, 0, len(points)*dim)}
	for _, p := range points {
		if len(p) != dim {
			return nil, ErrDimensionMismatch
		}
		f.data = append(f.data, p...)
	}
	return f, nil
}

// Len returns the number of indexed points.
func (f *Flat) Len() int { return len(f.data) / f.dim }

// Dim returns the point dimension.
func (f *Flat) Dim() int { return f.dim }

// MinDist returns, per query, the Euclidean distance to the nearest indexed
// point and that point's position. Ties go to the lower position. Queries
// of the wrong length get +Inf and -1.
func (f *Flat) MinDist(queries [][]float64) ([]float64, []int) {
	dist := make([]float64, len(queries))
	nearest := make([]int, len(queries))

	_ = parallel.For(len(queries), func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			d, j := f.nearest(queries[i])
			dist[i], nearest[i] = math.Sqrt(d), j
		}
		return nil
	})

	return dist, nearest
}

func (f *Flat) nearest(q []float64) (float64, int) {
	if len(q) != f.dim {
		return math.Inf(1), -1
	}

	best, bestIdx := math.Inf(1), -1
	for j, off := 0, 0; off < len(f.data); j, off = j+1, off+f.dim {
		v := f.data[off : off+f.dim]
		var d float64
		for k := range v {
			diff := q[k] - v[k]
			d += diff * diff
		}
		if d < best {
			best, bestIdx = d, j
		}
	}
	return best, bestIdx
}
