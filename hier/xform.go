package hier

import (
	"math/bits"

	"github.com/hupe1980/posehash/geom"
	"github.com/hupe1980/posehash/internal/parallel"
	"github.com/hupe1980/posehash/zorder"
)

// XformHier is the product of a 3-D Cartesian hierarchy and an orientation
// hierarchy. Each level splits a cell into 8 translation x 8 orientation
// children.
//
// The combined cell selector is cartCell*OriNumCells() + oriCell. Within each
// 6-bit path group, bits 0..2 refine the orientation and bits 3..5 the
// translation.
type XformHier[F geom.Float] struct {
	codec zorder.Codec
	cart  *CartHier[F]
	ori   *OriHier[F]
	ncell uint64
}

// NewXformHier creates a hierarchy over the box [lb, ub] with bs base cells
// per axis and the orientation side count calibrated for oriResl degrees.
func NewXformHier[F geom.Float](lb, ub geom.Vec3[F], bs [3]uint64, oriResl float64) (*XformHier[F], error) {
	ori, err := NewOriHier[F](oriResl)
	if err != nil {
		return nil, err
	}
	return newXformHier(lb, ub, bs, ori)
}

// NewXformHierNside is like NewXformHier with an explicit orientation side
// count.
func NewXformHierNside[F geom.Float](lb, ub geom.Vec3[F], bs [3]uint64, nside int) (*XformHier[F], error) {
	ori, err := NewOriHierNside[F](nside)
	if err != nil {
		return nil, err
	}
	return newXformHier(lb, ub, bs, ori)
}

func newXformHier[F geom.Float](lb, ub geom.Vec3[F], bs [3]uint64, ori *OriHier[F]) (*XformHier[F], error) {
	cart, err := NewCartHier(lb[:], ub[:], bs[:])
	if err != nil {
		return nil, err
	}
	hi, ncell := bits.Mul64(cart.NumCells(), ori.NumCells())
	if hi != 0 {
		return nil, invalid("base cell count", bs)
	}
	return &XformHier[F]{
		codec: zorder.MustNew(6),
		cart:  cart,
		ori:   ori,
		ncell: ncell,
	}, nil
}

// Cart returns the Cartesian component.
func (h *XformHier[F]) Cart() *CartHier[F] { return h.cart }

// Ori returns the orientation component.
func (h *XformHier[F]) Ori() *OriHier[F] { return h.ori }

// OriNside returns the orientation side count.
func (h *XformHier[F]) OriNside() int { return h.ori.Nside() }

// OriResl returns the calibrated orientation resolution in degrees.
func (h *XformHier[F]) OriResl() float64 { return h.ori.Resl() }

// CartLowerBound returns the lower corner of the box.
func (h *XformHier[F]) CartLowerBound() geom.Vec3[F] { return toVec3(h.cart.lb) }

// CartUpperBound returns the upper corner of the box.
func (h *XformHier[F]) CartUpperBound() geom.Vec3[F] { return toVec3(h.cart.ub) }

// CartBaseCells returns the base cell count per axis.
func (h *XformHier[F]) CartBaseCells() [3]uint64 { return [3]uint64(h.cart.bs) }

// CartCellWidth returns the base cell width per axis.
func (h *XformHier[F]) CartCellWidth() geom.Vec3[F] { return toVec3(h.cart.width) }

// CartNumCells returns the number of Cartesian base cells.
func (h *XformHier[F]) CartNumCells() uint64 { return h.cart.NumCells() }

// OriNumCells returns the number of orientation base cells.
func (h *XformHier[F]) OriNumCells() uint64 { return h.ori.NumCells() }

// NumCells returns the total number of base cells.
func (h *XformHier[F]) NumCells() uint64 { return h.ncell }

// MaxDepth returns the deepest addressable level.
func (h *XformHier[F]) MaxDepth() int { return h.codec.MaxDepth(h.ncell) }

// Size returns the number of cells at depth, NumCells() * 64^depth.
func (h *XformHier[F]) Size(depth int) uint64 { return h.codec.Size(h.ncell, depth) }

// CellIndex returns the base cell of index at depth.
func (h *XformHier[F]) CellIndex(index uint64, depth int) uint64 {
	return h.codec.CellIndex(index, depth)
}

// HierIndex returns the refinement path of index at depth.
func (h *XformHier[F]) HierIndex(index uint64, depth int) uint64 {
	return h.codec.HierIndex(index, depth)
}

// Parent returns the parent of index one level up.
func (h *XformHier[F]) Parent(index uint64) uint64 { return h.codec.Parent(index) }

// ChildBegin returns the first child of index one level down.
func (h *XformHier[F]) ChildBegin(index uint64) uint64 { return h.codec.ChildBegin(index) }

// ChildEnd returns one past the last child of index one level down.
func (h *XformHier[F]) ChildEnd(index uint64) uint64 { return h.codec.ChildEnd(index) }

// At returns the center transform of cell index at depth.
func (h *XformHier[F]) At(depth int, index uint64) (geom.Xform[F], bool) {
	if index >= h.Size(depth) {
		return geom.Xform[F]{}, false
	}

	var buf [7]uint64
	c := h.codec.Coeffs(index, depth, buf[:])
	oriCell := c[0] % h.ori.ncell
	cartCell := c[0] / h.ori.ncell

	var x geom.Xform[F]
	x.R = geom.CastMat3[F](h.ori.quat(oriCell, c[1:4], depth).Mat3())
	h.cart.center(cartCell, c[4:7], depth, x.T[:])
	return x, true
}

// Xforms returns the center transforms of indices at depth. Invalid entries
// are false in the mask and hold a zero transform.
func (h *XformHier[F]) Xforms(depth int, indices []uint64) ([]bool, []geom.Xform[F]) {
	valid := make([]bool, len(indices))
	xs := make([]geom.Xform[F], len(indices))

	_ = parallel.For(len(indices), func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			xs[i], valid[i] = h.At(depth, indices[i])
		}
		return nil
	})

	return valid, xs
}

func toVec3[F geom.Float](s []F) geom.Vec3[F] {
	var v geom.Vec3[F]
	copy(v[:], s)
	return v
}
