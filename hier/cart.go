package hier

import (
	"math"
	"math/bits"
	"slices"

	"github.com/hupe1980/posehash/geom"
	"github.com/hupe1980/posehash/internal/parallel"
	"github.com/hupe1980/posehash/zorder"
)

// CartHier quantizes the box [lb, ub] into a grid of base cells refined by
// halving every axis per level.
type CartHier[F geom.Float] struct {
	codec  zorder.Codec
	lb     []F
	ub     []F
	width  []F
	bs     []uint64
	prefix []uint64
	ncell  uint64
}

// NewCartHier creates a hierarchy over [lb, ub] with bs base cells per axis.
// The number of axes (1 to 6) is len(lb).
func NewCartHier[F geom.Float](lb, ub []F, bs []uint64) (*CartHier[F], error) {
	dim := len(lb)
	codec, err := zorder.New(dim)
	if err != nil {
		return nil, invalid("dimension", dim)
	}
	if len(ub) != dim || len(bs) != dim {
		return nil, invalid("bounds", [2]int{len(ub), len(bs)})
	}

	h := &CartHier[F]{
		codec:  codec,
		lb:     slices.Clone(lb),
		ub:     slices.Clone(ub),
		width:  make([]F, dim),
		bs:     slices.Clone(bs),
		prefix: make([]uint64, dim),
		ncell:  1,
	}

	for i := 0; i < dim; i++ {
		lo, hi := float64(lb[i]), float64(ub[i])
		if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) || hi <= lo {
			return nil, invalid("axis range", [2]F{lb[i], ub[i]})
		}
		if bs[i] == 0 {
			return nil, invalid("base cell count", bs[i])
		}
		h.width[i] = F((hi - lo) / float64(bs[i]))
		h.prefix[i] = h.ncell

		overflow, n := bits.Mul64(h.ncell, bs[i])
		if overflow != 0 {
			return nil, invalid("base cell count", bs)
		}
		h.ncell = n
	}

	return h, nil
}

// Dim returns the number of axes.
func (h *CartHier[F]) Dim() int { return h.codec.Dim() }

// LowerBound returns a copy of the per-axis lower bounds.
func (h *CartHier[F]) LowerBound() []F { return slices.Clone(h.lb) }

// UpperBound returns a copy of the per-axis upper bounds.
func (h *CartHier[F]) UpperBound() []F { return slices.Clone(h.ub) }

// BaseCells returns a copy of the per-axis base cell counts.
func (h *CartHier[F]) BaseCells() []uint64 { return slices.Clone(h.bs) }

// CellWidth returns a copy of the per-axis base cell widths.
func (h *CartHier[F]) CellWidth() []F { return slices.Clone(h.width) }

// NumCells returns the number of base cells.
func (h *CartHier[F]) NumCells() uint64 { return h.ncell }

// MaxDepth returns the deepest addressable level.
func (h *CartHier[F]) MaxDepth() int { return h.codec.MaxDepth(h.ncell) }

// Size returns the number of cells at depth, NumCells() * 2^(Dim()*depth).
func (h *CartHier[F]) Size(depth int) uint64 { return h.codec.Size(h.ncell, depth) }

// At writes the center of cell index at depth into dst, which must have
// length Dim(). It reports false, leaving dst untouched, for invalid indices.
func (h *CartHier[F]) At(depth int, index uint64, dst []F) bool {
	if index >= h.Size(depth) {
		return false
	}
	var buf [zorder.MaxDim + 1]uint64
	c := h.codec.Coeffs(index, depth, buf[:])
	h.center(c[0], c[1:], depth, dst)
	return true
}

// Trans returns the cell centers of indices at depth. Invalid entries are
// false in the mask and hold a zeroed point of their own.
func (h *CartHier[F]) Trans(depth int, indices []uint64) ([]bool, [][]F) {
	dim := h.Dim()
	valid := make([]bool, len(indices))
	points := make([][]F, len(indices))
	backing := make([]F, len(indices)*dim)

	_ = parallel.For(len(indices), func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			points[i] = backing[i*dim : (i+1)*dim : (i+1)*dim]
			valid[i] = h.At(depth, indices[i], points[i])
		}
		return nil
	})

	return valid, points
}

// center resolves a base cell and a per-axis path to a point.
func (h *CartHier[F]) center(cell uint64, path []uint64, depth int, dst []F) {
	scale := math.Ldexp(1, -depth)
	for i := range h.bs {
		b := cell / h.prefix[i] % h.bs[i]
		f := float64(b) + (float64(path[i])+0.5)*scale
		dst[i] = F(float64(h.lb[i]) + float64(h.width[i])*f)
	}
}
