// Package lattice holds the quantization primitives shared by the
// hierarchies and the transform hash: the 24 rotations of the cube that
// anchor the orientation lattice, the gnomonic cell maps around each of
// them, the resolution calibration tables, and a body-centred cubic lattice
// for translations.
package lattice

import (
	"math"

	"github.com/hupe1980/posehash/geom"
)

// NumBases is the order of the rotation group of the cube.
const NumBases = 24

// HalfWidth is the half extent t = √2-1 of the gnomonic cube around each
// base. Every rotation maps into this cube for its nearest base.
var HalfWidth = math.Sqrt2 - 1

// CellWidth is the full extent 2t of the gnomonic cube.
var CellWidth = 2 * HalfWidth

// Bases are the 24 proper rotations of the cube as unit quaternions with
// W >= 0. Base 0 is the identity. The order is part of the key format.
var Bases = func() [NumBases]geom.Quat[float64] {
	const h = 0.5
	s := math.Sqrt2 / 2

	var b [NumBases]geom.Quat[float64]
	i := 0
	add := func(w, x, y, z float64) {
		b[i] = geom.Quat[float64]{W: w, X: x, Y: y, Z: z}
		i++
	}

	add(1, 0, 0, 0)
	add(0, 1, 0, 0)
	add(0, 0, 1, 0)
	add(0, 0, 0, 1)
	for _, x := range []float64{h, -h} {
		for _, y := range []float64{h, -h} {
			for _, z := range []float64{h, -h} {
				add(h, x, y, z)
			}
		}
	}
	add(s, s, 0, 0)
	add(s, -s, 0, 0)
	add(s, 0, s, 0)
	add(s, 0, -s, 0)
	add(s, 0, 0, s)
	add(s, 0, 0, -s)
	add(0, s, s, 0)
	add(0, s, -s, 0)
	add(0, s, 0, s)
	add(0, s, 0, -s)
	add(0, 0, s, s)
	add(0, 0, s, -s)
	return b
}()

// Nearest returns the base closest to the unit quaternion q together with q
// expressed relative to it, canonicalized to W >= 0. Ties go to the lower
// base.
func Nearest(q geom.Quat[float64]) (int, geom.Quat[float64]) {
	best, bestDot := 0, -1.0
	for i, g := range Bases {
		if d := math.Abs(q.Dot(g)); d > bestDot {
			best, bestDot = i, d
		}
	}
	return best, Bases[best].Conj().Mul(q).Canonical()
}

// Gnomonic returns the gnomonic coordinates v/w of a local quaternion.
// local.W must be positive, which Nearest guarantees.
func Gnomonic(local geom.Quat[float64]) geom.Vec3[float64] {
	return geom.Vec3[float64]{local.X / local.W, local.Y / local.W, local.Z / local.W}
}

// FromGnomonic returns the rotation base * normalize(1, p).
func FromGnomonic(base int, p geom.Vec3[float64]) geom.Quat[float64] {
	local := geom.Quat[float64]{W: 1, X: p[0], Y: p[1], Z: p[2]}.Normalize()
	return Bases[base].Mul(local)
}

// FracToGnomonic maps a fraction in [0, 1] of the gnomonic cube to its
// coordinate in [-t, t].
func FracToGnomonic(f float64) float64 {
	return CellWidth * (f - 0.5)
}

// GnomonicToFrac is the inverse of FracToGnomonic.
func GnomonicToFrac(p float64) float64 {
	return p/CellWidth + 0.5
}
