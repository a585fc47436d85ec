package nnindex

import (
	"math"

	"github.com/hupe1980/posehash/geom"
	"github.com/hupe1980/posehash/internal/parallel"
)

// Rotations is an immutable set of rotations answering nearest-rotation
// queries under the geodesic angle on SO(3).
type Rotations[F geom.Float] struct {
	quats []geom.Quat[float64]
}

// BuildRotations indexes rots, which must be proper rotations.
func BuildRotations[F geom.Float](rots []geom.Mat3[F]) (*Rotations[F], error) {
	if len(rots) == 0 {
		return nil, ErrEmpty
	}
	r := &Rotations[F]{quats: make([]geom.Quat[float64], len(rots))}
	for i, m := range rots {
		r.quats[i] = geom.QuatFromMat3(geom.CastMat3[float64](m))
	}
	return r, nil
}

// Len returns the number of indexed rotations.
func (r *Rotations[F]) Len() int { return len(r.quats) }

// MinDist returns, per query, the angle in degrees to the nearest indexed
// rotation and its position. Ties go to the lower position.
func (r *Rotations[F]) MinDist(queries []geom.Mat3[F]) ([]float64, []int) {
	dist := make([]float64, len(queries))
	nearest := make([]int, len(queries))

	_ = parallel.For(len(queries), func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			q := geom.QuatFromMat3(geom.CastMat3[float64](queries[i]))

			// max |q.p| is the min angle; q and -q are one rotation.
			best, bestIdx := -1.0, -1
			for j, p := range r.quats {
				if d := math.Abs(q.Dot(p)); d > best {
					best, bestIdx = d, j
				}
			}
			dist[i] = geom.Degrees(2 * math.Acos(min(best, 1)))
			nearest[i] = bestIdx
		}
		return nil
	})

	return dist, nearest
}
