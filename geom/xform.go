package geom

// Xform is a rigid transform: rotation R followed by translation T. As a
// homogeneous matrix it is [R T; 0 1].
type Xform[F Float] struct {
	R Mat3[F]
	T Vec3[F]
}

// IdentityXform returns the identity transform.
func IdentityXform[F Float]() Xform[F] {
	return Xform[F]{R: Identity3[F]()}
}

// NewXform assembles a transform from a rotation and a translation.
func NewXform[F Float](r Mat3[F], t Vec3[F]) Xform[F] {
	return Xform[F]{R: r, T: t}
}

// Mul returns the composition x * y (apply y first, then x).
func (x Xform[F]) Mul(y Xform[F]) Xform[F] {
	return Xform[F]{
		R: x.R.Mul(y.R),
		T: x.R.MulVec(y.T).Add(x.T),
	}
}

// Inverse returns the inverse transform. R must be orthonormal.
func (x Xform[F]) Inverse() Xform[F] {
	rt := x.R.Transpose()
	t := rt.MulVec(x.T)
	return Xform[F]{R: rt, T: Vec3[F]{-t[0], -t[1], -t[2]}}
}

// Apply maps the point v through x.
func (x Xform[F]) Apply(v Vec3[F]) Vec3[F] {
	return x.R.MulVec(v).Add(x.T)
}

// Matrix returns the 4x4 homogeneous matrix of x.
func (x Xform[F]) Matrix() [4][4]F {
	var m [4][4]F
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = x.R[i][j]
		}
		m[i][3] = x.T[i]
	}
	m[3][3] = 1
	return m
}

// XformFromMatrix reads the rotation and translation blocks of a 4x4
// homogeneous matrix. The bottom row is ignored.
func XformFromMatrix[F Float](m [4][4]F) Xform[F] {
	var x Xform[F]
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			x.R[i][j] = m[i][j]
		}
		x.T[i] = m[i][3]
	}
	return x
}

// CastXform converts a transform between float widths.
func CastXform[G, F Float](x Xform[F]) Xform[G] {
	return Xform[G]{R: CastMat3[G](x.R), T: CastVec3[G](x.T)}
}
