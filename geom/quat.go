package geom

import "math"

// Quat is a quaternion W + Xi + Yj + Zk. Rotations use unit quaternions;
// q and -q denote the same rotation.
type Quat[F Float] struct {
	W, X, Y, Z F
}

// QuatIdentity returns the identity rotation.
func QuatIdentity[F Float]() Quat[F] {
	return Quat[F]{W: 1}
}

// Mul returns the Hamilton product q * p (apply p first, then q).
func (q Quat[F]) Mul(p Quat[F]) Quat[F] {
	return Quat[F]{
		W: q.W*p.W - q.X*p.X - q.Y*p.Y - q.Z*p.Z,
		X: q.W*p.X + q.X*p.W + q.Y*p.Z - q.Z*p.Y,
		Y: q.W*p.Y - q.X*p.Z + q.Y*p.W + q.Z*p.X,
		Z: q.W*p.Z + q.X*p.Y - q.Y*p.X + q.Z*p.W,
	}
}

// Conj returns the conjugate of q, the inverse of a unit quaternion.
func (q Quat[F]) Conj() Quat[F] {
	return Quat[F]{W: q.W, X: -q.X, Y: -q.Y, Z: -q.Z}
}

// Neg returns -q.
func (q Quat[F]) Neg() Quat[F] {
	return Quat[F]{W: -q.W, X: -q.X, Y: -q.Y, Z: -q.Z}
}

// Dot returns the 4-D inner product of q and p.
func (q Quat[F]) Dot(p Quat[F]) F {
	return q.W*p.W + q.X*p.X + q.Y*p.Y + q.Z*p.Z
}

// Norm returns the 4-D length of q.
func (q Quat[F]) Norm() F {
	return F(math.Sqrt(float64(q.Dot(q))))
}

// Normalize returns q scaled to unit length. The zero quaternion maps to the
// identity.
func (q Quat[F]) Normalize() Quat[F] {
	n := math.Sqrt(float64(q.Dot(q)))
	if n == 0 {
		return QuatIdentity[F]()
	}
	inv := 1 / n
	return Quat[F]{
		W: F(float64(q.W) * inv),
		X: F(float64(q.X) * inv),
		Y: F(float64(q.Y) * inv),
		Z: F(float64(q.Z) * inv),
	}
}

// Canonical returns the representative of q with W >= 0.
func (q Quat[F]) Canonical() Quat[F] {
	if q.W < 0 {
		return q.Neg()
	}
	return q
}

// Mat3 returns the rotation matrix of the unit quaternion q.
func (q Quat[F]) Mat3() Mat3[F] {
	w, x, y, z := q.W, q.X, q.Y, q.Z
	return Mat3[F]{
		{1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y)},
		{2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x)},
		{2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y)},
	}
}

// QuatFromMat3 returns the unit quaternion of the rotation m, with W >= 0.
func QuatFromMat3[F Float](m Mat3[F]) Quat[F] {
	var (
		m00, m01, m02 = float64(m[0][0]), float64(m[0][1]), float64(m[0][2])
		m10, m11, m12 = float64(m[1][0]), float64(m[1][1]), float64(m[1][2])
		m20, m21, m22 = float64(m[2][0]), float64(m[2][1]), float64(m[2][2])
	)

	var w, x, y, z float64
	switch tr := m00 + m11 + m22; {
	case tr > 0:
		s := 2 * math.Sqrt(tr+1)
		w, x, y, z = s/4, (m21-m12)/s, (m02-m20)/s, (m10-m01)/s
	case m00 > m11 && m00 > m22:
		s := 2 * math.Sqrt(1+m00-m11-m22)
		w, x, y, z = (m21-m12)/s, s/4, (m01+m10)/s, (m02+m20)/s
	case m11 > m22:
		s := 2 * math.Sqrt(1+m11-m00-m22)
		w, x, y, z = (m02-m20)/s, (m01+m10)/s, s/4, (m12+m21)/s
	default:
		s := 2 * math.Sqrt(1+m22-m00-m11)
		w, x, y, z = (m10-m01)/s, (m02+m20)/s, (m12+m21)/s, s/4
	}

	q := Quat[float64]{W: w, X: x, Y: y, Z: z}.Normalize().Canonical()
	return CastQuat[F](q)
}

// QuatAngle returns the rotation angle in radians between q and p.
func QuatAngle[F Float](q, p Quat[F]) float64 {
	d := math.Abs(float64(q.Dot(p)))
	if d > 1 {
		d = 1
	}
	return 2 * math.Acos(d)
}

// CastQuat converts a quaternion between float widths.
func CastQuat[G, F Float](q Quat[F]) Quat[G] {
	return Quat[G]{W: G(q.W), X: G(q.X), Y: G(q.Y), Z: G(q.Z)}
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }
