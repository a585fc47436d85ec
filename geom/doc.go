// Package geom provides the small rigid-body algebra used by the hierarchies
// and the transform hash.
//
// All types are generic over the floating point width:
//
//	type Float interface{ ~float32 | ~float64 }
//
// Types:
//   - Vec3: a 3-vector
//   - Mat3: a row-major 3x3 matrix (rotations)
//   - Quat: a quaternion (W, X, Y, Z)
//   - Xform: a rigid transform, the homogeneous matrix [R T; 0 1]
//
// Transcendental math is evaluated in float64 and rounded back to F.
package geom
