package zorder

import (
	"errors"
	"fmt"
	"math/bits"
)

// MaxDim is the largest dimension a Codec supports.
const MaxDim = 6

// ErrInvalidDim is returned for dimensions outside [1, MaxDim].
var ErrInvalidDim = errors.New("zorder: invalid dimension")

// Codec converts between flat indices and coefficient vectors for one
// dimension. A coefficient vector has Width() = dim+1 entries: the cell
// selector followed by one coordinate per dimension. At depth d every
// coordinate lies in [0, 2^d).
//
// Codec is a value type and safe for concurrent use.
type Codec struct {
	dim int
}

// New returns a codec for dim dimensions.
func New(dim int) (Codec, error) {
	if dim < 1 || dim > MaxDim {
		return Codec{}, fmt.Errorf("%w: %d", ErrInvalidDim, dim)
	}
	return Codec{dim: dim}, nil
}

// MustNew is like New but panics on an invalid dimension.
func MustNew(dim int) Codec {
	c, err := New(dim)
	if err != nil {
		panic(err)
	}
	return c
}

// Dim returns the number of dimensions.
func (c Codec) Dim() int { return c.dim }

// Width returns the length of a coefficient vector.
func (c Codec) Width() int { return c.dim + 1 }

// Branching returns the number of children per cell.
func (c Codec) Branching() uint64 { return 1 << c.dim }

// HierBits returns the number of low bits holding the path at depth.
func (c Codec) HierBits(depth int) int { return c.dim * depth }

// CellIndex returns the base cell selector of index at depth.
func (c Codec) CellIndex(index uint64, depth int) uint64 {
	return index >> c.HierBits(depth)
}

// HierIndex returns the refinement path of index at depth.
func (c Codec) HierIndex(index uint64, depth int) uint64 {
	return index & lowMask(c.HierBits(depth))
}

// Parent returns the index of the parent cell one level up.
func (c Codec) Parent(index uint64) uint64 { return index >> c.dim }

// ChildBegin returns the first child index one level down.
func (c Codec) ChildBegin(index uint64) uint64 { return index << c.dim }

// ChildEnd returns one past the last child index one level down.
func (c Codec) ChildEnd(index uint64) uint64 { return (index + 1) << c.dim }

// MaxDepth returns the deepest level at which an index space with ncell base
// cells still has a representable size.
func (c Codec) MaxDepth(ncell uint64) int {
	if ncell == 0 {
		return 0
	}
	free := 64 - bits.Len64(ncell)
	return min(free/c.dim, MaxBits(c.dim))
}

// Size returns ncell << (dim*depth), or 0 when depth exceeds MaxDepth(ncell).
func (c Codec) Size(ncell uint64, depth int) uint64 {
	if depth < 0 || depth > c.MaxDepth(ncell) {
		return 0
	}
	return ncell << c.HierBits(depth)
}

// Coeffs decodes index at depth into dst, which is grown to Width() if
// needed, and returns it.
func (c Codec) Coeffs(index uint64, depth int, dst []uint64) []uint64 {
	if cap(dst) < c.Width() {
		dst = make([]uint64, c.Width())
	}
	dst = dst[:c.Width()]

	hier := c.HierIndex(index, depth)
	dst[0] = c.CellIndex(index, depth)
	for j := 0; j < c.dim; j++ {
		dst[1+j] = Undilate(hier>>j, c.dim)
	}
	return dst
}

// Index encodes a coefficient vector at depth. It is the inverse of Coeffs.
func (c Codec) Index(coeffs []uint64, depth int) uint64 {
	index := coeffs[0] << c.HierBits(depth)
	for j := 0; j < c.dim; j++ {
		index |= Dilate(coeffs[1+j], c.dim) << j
	}
	return index
}

func lowMask(n int) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return 1<<n - 1
}
