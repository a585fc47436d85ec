package hier

import (
	"math"

	"github.com/hupe1980/posehash/geom"
	"github.com/hupe1980/posehash/internal/lattice"
	"github.com/hupe1980/posehash/internal/parallel"
	"github.com/hupe1980/posehash/zorder"
)

// OriHier quantizes SO(3) into 24*nside³ base cells, an nside³ grid over the
// gnomonic cube around each rotation of the cube, refined as an octree.
type OriHier[F geom.Float] struct {
	codec zorder.Codec
	nside int
	resl  float64
	ncell uint64
}

// NewOriHier creates the hierarchy whose depth-0 resolution is the finest
// calibrated value not above resl degrees.
func NewOriHier[F geom.Float](resl float64) (*OriHier[F], error) {
	if math.IsNaN(resl) || resl <= 0 {
		return nil, invalid("orientation resolution", resl)
	}
	return NewOriHierNside[F](lattice.HierNside(resl))
}

// NewOriHierNside creates the hierarchy with an explicit side count.
func NewOriHierNside[F geom.Float](nside int) (*OriHier[F], error) {
	if nside < 1 || nside > lattice.MaxNside {
		return nil, invalid("orientation side count", nside)
	}
	n := uint64(nside)
	return &OriHier[F]{
		codec: zorder.MustNew(3),
		nside: nside,
		resl:  lattice.HierResl(nside),
		ncell: lattice.NumBases * n * n * n,
	}, nil
}

// Nside returns the orientation side count.
func (h *OriHier[F]) Nside() int { return h.nside }

// Resl returns the calibrated depth-0 resolution in degrees.
func (h *OriHier[F]) Resl() float64 { return h.resl }

// NumCells returns the number of base cells, 24*nside³.
func (h *OriHier[F]) NumCells() uint64 { return h.ncell }

// MaxDepth returns the deepest addressable level.
func (h *OriHier[F]) MaxDepth() int { return h.codec.MaxDepth(h.ncell) }

// Size returns the number of cells at depth, NumCells() * 8^depth.
func (h *OriHier[F]) Size(depth int) uint64 { return h.codec.Size(h.ncell, depth) }

// At returns the center rotation of cell index at depth.
func (h *OriHier[F]) At(depth int, index uint64) (geom.Mat3[F], bool) {
	if index >= h.Size(depth) {
		return geom.Mat3[F]{}, false
	}
	var buf [4]uint64
	c := h.codec.Coeffs(index, depth, buf[:])
	return geom.CastMat3[F](h.quat(c[0], c[1:], depth).Mat3()), true
}

// Ori returns the center rotations of indices at depth. Invalid entries are
// false in the mask and hold a zero matrix.
func (h *OriHier[F]) Ori(depth int, indices []uint64) ([]bool, []geom.Mat3[F]) {
	valid := make([]bool, len(indices))
	rots := make([]geom.Mat3[F], len(indices))

	_ = parallel.For(len(indices), func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			rots[i], valid[i] = h.At(depth, indices[i])
		}
		return nil
	})

	return valid, rots
}

// quat resolves a base cell and an octant path to the cell center.
func (h *OriHier[F]) quat(cell uint64, path []uint64, depth int) geom.Quat[float64] {
	n := uint64(h.nside)
	base := cell / (n * n * n)
	rem := cell % (n * n * n)
	xyz := [3]uint64{rem % n, rem / n % n, rem / (n * n)}

	scale := math.Ldexp(1, -depth)
	var p geom.Vec3[float64]
	for k := 0; k < 3; k++ {
		frac := (float64(xyz[k]) + (float64(path[k])+0.5)*scale) / float64(n)
		p[k] = lattice.FracToGnomonic(frac)
	}
	return lattice.FromGnomonic(int(base), p)
}
