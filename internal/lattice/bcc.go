package lattice

import (
	"math"
	"math/bits"
)

// BCC is a body-centred cubic lattice over the cube [-extent, extent]³: the
// corners of a cubic grid with side a plus the cube centres. With
// a = 4r/√5 every point of space lies within r of a lattice point.
type BCC struct {
	side   float64
	origin float64
	m      uint64
}

// NewBCC returns the lattice with covering radius resl over [-extent, extent]³.
func NewBCC(resl, extent float64) BCC {
	a := 4 * resl / math.Sqrt(5)
	return BCC{
		side:   a,
		origin: -extent,
		m:      uint64(math.Ceil(2 * extent / a)),
	}
}

// Side returns the cube side a.
func (b BCC) Side() float64 { return b.side }

// MaxIndex returns the largest per-axis grid index Nearest can produce.
func (b BCC) MaxIndex() uint64 { return b.m }

// AxisBits returns the number of bits needed for one axis index.
func (b BCC) AxisBits() int { return max(bits.Len64(b.m), 1) }

// Nearest returns the grid index and sublattice (odd = cube centre) of the
// lattice point nearest v. v must lie within the extent.
func (b BCC) Nearest(v [3]float64) (idx [3]uint64, odd bool) {
	var i0, i1 [3]float64
	var d0, d1 float64
	for k := 0; k < 3; k++ {
		u := (v[k] - b.origin) / b.side
		i0[k] = math.Floor(u + 0.5)
		i1[k] = math.Floor(u)
		e0 := u - i0[k]
		e1 := u - i1[k] - 0.5
		d0 += e0 * e0
		d1 += e1 * e1
	}

	src := i0
	if d1 < d0 {
		src, odd = i1, true
	}
	for k := 0; k < 3; k++ {
		idx[k] = uint64(src[k])
	}
	return idx, odd
}

// Center returns the position of a lattice point.
func (b BCC) Center(idx [3]uint64, odd bool) [3]float64 {
	var off float64
	if odd {
		off = 0.5
	}
	var c [3]float64
	for k := 0; k < 3; k++ {
		c[k] = b.origin + b.side*(float64(idx[k])+off)
	}
	return c
}
