package geom

import "math"

// Float is the set of floating point types the package is generic over.
type Float interface {
	~float32 | ~float64
}

// Vec3 is a 3-vector.
type Vec3[F Float] [3]F

// Add returns v + u.
func (v Vec3[F]) Add(u Vec3[F]) Vec3[F] {
	return Vec3[F]{v[0] + u[0], v[1] + u[1], v[2] + u[2]}
}

// Sub returns v - u.
func (v Vec3[F]) Sub(u Vec3[F]) Vec3[F] {
	return Vec3[F]{v[0] - u[0], v[1] - u[1], v[2] - u[2]}
}

// Scale returns s * v.
func (v Vec3[F]) Scale(s F) Vec3[F] {
	return Vec3[F]{s * v[0], s * v[1], s * v[2]}
}

// Dot returns the inner product of v and u.
func (v Vec3[F]) Dot(u Vec3[F]) F {
	return v[0]*u[0] + v[1]*u[1] + v[2]*u[2]
}

// Norm returns the Euclidean length of v.
func (v Vec3[F]) Norm() F {
	return F(math.Sqrt(float64(v.Dot(v))))
}

// Dist returns the Euclidean distance between v and u.
func (v Vec3[F]) Dist(u Vec3[F]) F {
	return v.Sub(u).Norm()
}

// IsFinite reports whether no component is NaN or infinite.
func (v Vec3[F]) IsFinite() bool {
	for _, c := range v {
		f := float64(c)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// CastVec3 converts a vector between float widths.
func CastVec3[G, F Float](v Vec3[F]) Vec3[G] {
	return Vec3[G]{G(v[0]), G(v[1]), G(v[2])}
}
