package xbin

import (
	"math"
	"math/bits"

	"github.com/hupe1980/posehash/geom"
	"github.com/hupe1980/posehash/internal/lattice"
	"github.com/hupe1980/posehash/internal/parallel"
)

// Hash maps rigid transforms to 64-bit keys at a fixed resolution.
type Hash[F geom.Float] struct {
	cartResl float64
	maxCart  float64
	nside    int
	oriResl  float64
	oriCells uint64

	bcc      lattice.BCC
	axisBits int
	oriShift int
	keyBits  int
}

// New creates a hash with translation covering radius cartResl, the
// coarsest orientation grid whose covering radius is at most oriResl
// degrees, and translations bounded by maxCart per axis.
func New[F geom.Float](cartResl, oriResl, maxCart float64) (*Hash[F], error) {
	if !(oriResl > 0) {
		return nil, invalid("orientation resolution", oriResl)
	}
	nside := lattice.HashNside(oriResl, MaxOriNside)
	if nside == 0 {
		return nil, invalid("orientation resolution", oriResl)
	}
	return NewWithNside[F](cartResl, nside, maxCart)
}

// NewWithNside is like New with an explicit orientation side count.
func NewWithNside[F geom.Float](cartResl float64, nside int, maxCart float64) (*Hash[F], error) {
	if !(cartResl > 0) || math.IsInf(cartResl, 0) {
		return nil, invalid("translation resolution", cartResl)
	}
	if !(maxCart > 0) || math.IsInf(maxCart, 0) {
		return nil, invalid("translation bound", maxCart)
	}
	if nside < 1 || nside > MaxOriNside {
		return nil, invalid("orientation side count", nside)
	}

	n := uint64(nside)
	h := &Hash[F]{
		cartResl: cartResl,
		maxCart:  maxCart,
		nside:    nside,
		oriResl:  lattice.HashResl(nside),
		oriCells: lattice.NumBases * n * n * n,
		bcc:      lattice.NewBCC(cartResl, maxCart),
	}

	h.axisBits = h.bcc.AxisBits()
	h.oriShift = 1 + 3*h.axisBits
	h.keyBits = h.oriShift + bits.Len64(h.oriCells-1)
	if h.keyBits > MaxKeyBits {
		return nil, invalid("key width", h.keyBits)
	}

	return h, nil
}

// NewFromParams creates a hash from p. A positive OriNside takes precedence
// over OriResl.
func NewFromParams[F geom.Float](p Params) (*Hash[F], error) {
	if p.OriNside > 0 {
		return NewWithNside[F](p.CartResl, p.OriNside, p.MaxCart)
	}
	return New[F](p.CartResl, p.OriResl, p.MaxCart)
}

// CartResl returns the translation covering radius.
func (h *Hash[F]) CartResl() float64 { return h.cartResl }

// OriResl returns the achieved orientation covering radius in degrees.
func (h *Hash[F]) OriResl() float64 { return h.oriResl }

// OriNside returns the orientation side count.
func (h *Hash[F]) OriNside() int { return h.nside }

// MaxCart returns the per-axis translation bound.
func (h *Hash[F]) MaxCart() float64 { return h.maxCart }

// KeyBits returns the number of bits an untagged key can occupy.
func (h *Hash[F]) KeyBits() int { return h.keyBits }

// Params returns parameters that reconstruct h through NewFromParams.
func (h *Hash[F]) Params() Params {
	return Params{
		CartResl: h.cartResl,
		OriResl:  h.oriResl,
		OriNside: h.nside,
		MaxCart:  h.maxCart,
	}
}

// Key returns the key of x.
func (h *Hash[F]) Key(x geom.Xform[F]) (uint64, error) {
	var t [3]float64
	for k := 0; k < 3; k++ {
		t[k] = float64(x.T[k])
		if math.IsNaN(t[k]) || math.IsInf(t[k], 0) {
			return 0, ErrNonFinite
		}
		if math.Abs(t[k]) > h.maxCart {
			return 0, ErrOutOfBounds
		}
	}
	r := geom.CastMat3[float64](x.R)
	for i := range r {
		if !geom.Vec3[float64](r[i]).IsFinite() {
			return 0, ErrNonFinite
		}
	}

	idx, odd := h.bcc.Nearest(t)
	key := h.oriCell(r)<<h.oriShift |
		idx[2]<<(1+2*h.axisBits) |
		idx[1]<<(1+h.axisBits) |
		idx[0]<<1
	if odd {
		key |= 1
	}
	return key, nil
}

// Keys returns the keys of xs. The error is a *DomainError naming the
// lowest element that could not be hashed.
func (h *Hash[F]) Keys(xs []geom.Xform[F]) ([]uint64, error) {
	keys := make([]uint64, len(xs))
	err := parallel.For(len(xs), func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			key, err := h.Key(xs[i])
			if err != nil {
				return &DomainError{Index: i, Err: err}
			}
			keys[i] = key
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// Center returns the representative transform of the bin of key. Tag bits
// are ignored.
func (h *Hash[F]) Center(key uint64) (geom.Xform[F], error) {
	key = UntagKey(key)
	if key>>h.keyBits != 0 {
		return geom.Xform[F]{}, ErrInvalidKey
	}

	mask := uint64(1)<<h.axisBits - 1
	idx := [3]uint64{
		key >> 1 & mask,
		key >> (1 + h.axisBits) & mask,
		key >> (1 + 2*h.axisBits) & mask,
	}
	ori := key >> h.oriShift
	if ori >= h.oriCells {
		return geom.Xform[F]{}, ErrInvalidKey
	}
	for _, v := range idx {
		if v > h.bcc.MaxIndex() {
			return geom.Xform[F]{}, ErrInvalidKey
		}
	}

	c := h.bcc.Center(idx, key&1 == 1)
	return geom.Xform[F]{
		R: geom.CastMat3[F](h.oriCenter(ori).Mat3()),
		T: geom.Vec3[F]{F(c[0]), F(c[1]), F(c[2])},
	}, nil
}

// Centers returns the bin centers of keys. The error is a *DomainError
// naming the lowest invalid key.
func (h *Hash[F]) Centers(keys []uint64) ([]geom.Xform[F], error) {
	xs := make([]geom.Xform[F], len(keys))
	err := parallel.For(len(keys), func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			x, err := h.Center(keys[i])
			if err != nil {
				return &DomainError{Index: i, Err: err}
			}
			xs[i] = x
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return xs, nil
}

// oriCell returns the orientation cell id base*n³ + x + n*(y + n*z).
func (h *Hash[F]) oriCell(r geom.Mat3[float64]) uint64 {
	base, local := lattice.Nearest(geom.QuatFromMat3(r))
	p := lattice.Gnomonic(local)

	n := float64(h.nside)
	var c [3]uint64
	for k := 0; k < 3; k++ {
		f := math.Floor(lattice.GnomonicToFrac(p[k]) * n)
		c[k] = uint64(min(max(f, 0), n-1))
	}

	un := uint64(h.nside)
	return uint64(base)*un*un*un + c[0] + un*(c[1]+un*c[2])
}

func (h *Hash[F]) oriCenter(cell uint64) geom.Quat[float64] {
	n := uint64(h.nside)
	base := cell / (n * n * n)
	rem := cell % (n * n * n)
	xyz := [3]uint64{rem % n, rem / n % n, rem / (n * n)}

	var p geom.Vec3[float64]
	for k := 0; k < 3; k++ {
		p[k] = lattice.FracToGnomonic((float64(xyz[k]) + 0.5) / float64(n))
	}
	return lattice.FromGnomonic(int(base), p)
}
