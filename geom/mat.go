package geom

import "math"

// Mat3 is a row-major 3x3 matrix. m[i][j] is row i, column j.
type Mat3[F Float] [3][3]F

// Identity3 returns the 3x3 identity.
func Identity3[F Float]() Mat3[F] {
	return Mat3[F]{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// Mul returns the matrix product m * n.
func (m Mat3[F]) Mul(n Mat3[F]) Mat3[F] {
	var r Mat3[F]
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][0]*n[0][j] + m[i][1]*n[1][j] + m[i][2]*n[2][j]
		}
	}
	return r
}

// MulVec returns m * v.
func (m Mat3[F]) MulVec(v Vec3[F]) Vec3[F] {
	return Vec3[F]{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

// Transpose returns the transpose of m.
func (m Mat3[F]) Transpose() Mat3[F] {
	return Mat3[F]{
		{m[0][0], m[1][0], m[2][0]},
		{m[0][1], m[1][1], m[2][1]},
		{m[0][2], m[1][2], m[2][2]},
	}
}

// Det returns the determinant of m.
func (m Mat3[F]) Det() F {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// Trace returns the sum of the diagonal of m.
func (m Mat3[F]) Trace() F {
	return m[0][0] + m[1][1] + m[2][2]
}

// Col returns column j of m.
func (m Mat3[F]) Col(j int) Vec3[F] {
	return Vec3[F]{m[0][j], m[1][j], m[2][j]}
}

// RotationAngle returns the angle in radians of the rotation m.
//
// The angle is computed with atan2 from the skew and symmetric parts, which
// stays accurate near 0 and near pi.
func (m Mat3[F]) RotationAngle() float64 {
	sx := float64(m[2][1] - m[1][2])
	sy := float64(m[0][2] - m[2][0])
	sz := float64(m[1][0] - m[0][1])
	s := 0.5 * math.Sqrt(sx*sx+sy*sy+sz*sz)
	c := 0.5 * (float64(m.Trace()) - 1)
	return math.Atan2(s, c)
}

// AngleBetween returns the angle in radians of the rotation taking a to b.
func AngleBetween[F Float](a, b Mat3[F]) float64 {
	return a.Transpose().Mul(b).RotationAngle()
}

// CastMat3 converts a matrix between float widths.
func CastMat3[G, F Float](m Mat3[F]) Mat3[G] {
	var r Mat3[G]
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = G(m[i][j])
		}
	}
	return r
}
