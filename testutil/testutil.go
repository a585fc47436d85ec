package testutil

import (
	"math"
	"math/rand"
	"sync"

	"github.com/hupe1980/posehash/geom"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Ints returns n values in [0, bound).
// Locks only once per call.
func (r *RNG) Ints(n, bound int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, n)
	for i := range out {
		out[i] = r.rand.Intn(bound)
	}
	return out
}

// Tags returns n 2-bit tags in [0, 3].
func (r *RNG) Tags(n int) []uint8 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]uint8, n)
	for i := range out {
		out[i] = uint8(r.rand.Intn(4))
	}
	return out
}

// quatLocked draws a rotation uniformly from SO(3) by normalizing a 4-D
// Gaussian (caller must hold lock).
func (r *RNG) quatLocked() geom.Quat[float64] {
	for {
		q := geom.Quat[float64]{
			W: r.rand.NormFloat64(),
			X: r.rand.NormFloat64(),
			Y: r.rand.NormFloat64(),
			Z: r.rand.NormFloat64(),
		}
		if n := math.Sqrt(q.Dot(q)); n > 1e-9 {
			return q.Normalize().Canonical()
		}
	}
}

// RandQuats returns n unit quaternions uniformly distributed over SO(3),
// canonicalized to W >= 0.
func RandQuats[F geom.Float](r *RNG, n int) []geom.Quat[F] {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]geom.Quat[F], n)
	for i := range out {
		out[i] = geom.CastQuat[F](r.quatLocked())
	}
	return out
}

// RandRotations returns n rotation matrices uniformly distributed over SO(3).
func RandRotations[F geom.Float](r *RNG, n int) []geom.Mat3[F] {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]geom.Mat3[F], n)
	for i := range out {
		out[i] = geom.CastMat3[F](r.quatLocked().Mat3())
	}
	return out
}

// RandXforms returns n transforms with uniform rotations and translations
// drawn per axis from N(0, cartSD²).
func RandXforms[F geom.Float](r *RNG, n int, cartSD float64) []geom.Xform[F] {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]geom.Xform[F], n)
	for i := range out {
		rot := r.quatLocked().Mat3()
		t := geom.Vec3[float64]{
			r.rand.NormFloat64() * cartSD,
			r.rand.NormFloat64() * cartSD,
			r.rand.NormFloat64() * cartSD,
		}
		out[i] = geom.CastXform[F](geom.NewXform(rot, t))
	}
	return out
}

// BoxXforms returns n transforms with uniform rotations and translations
// uniform in [-halfExtent, halfExtent)³.
func BoxXforms[F geom.Float](r *RNG, n int, halfExtent float64) []geom.Xform[F] {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]geom.Xform[F], n)
	for i := range out {
		rot := r.quatLocked().Mat3()
		var t geom.Vec3[float64]
		for j := range t {
			t[j] = (2*r.rand.Float64() - 1) * halfExtent
		}
		out[i] = geom.CastXform[F](geom.NewXform(rot, t))
	}
	return out
}
