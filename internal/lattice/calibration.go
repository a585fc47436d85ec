package lattice

import (
	"math"

	"github.com/hupe1980/posehash/geom"
)

// MaxNside bounds the orientation side count of both calibrations.
const MaxNside = 64

// hierCovRad lists the measured covering radius in degrees of the
// orientation hierarchy at depth 0 for nside = 1..15.
var hierCovRad = [...]float64{
	92.609, 66.065, 47.017, 37.702, 30.643,
	26.018, 22.466, 19.543, 17.607, 15.928,
	14.282, 13.149, 12.238, 11.405, 10.589,
}

// HierResl returns the angular resolution in degrees of the orientation
// hierarchy with side count nside. Beyond the measured table the value is
// extrapolated as 1/nside from the last entry.
func HierResl(nside int) float64 {
	if nside < 1 {
		return math.Inf(1)
	}
	if nside <= len(hierCovRad) {
		return hierCovRad[nside-1]
	}
	last := len(hierCovRad)
	return hierCovRad[last-1] * float64(last) / float64(nside)
}

// HierNside returns the first side count whose resolution is at most resl,
// capped at MaxNside.
func HierNside(resl float64) int {
	for n := 1; n < MaxNside; n++ {
		if HierResl(n) <= resl {
			return n
		}
	}
	return MaxNside
}

// HashResl returns the exact covering radius in degrees of the flat
// orientation grid used by the transform hash. For nside >= 2 the farthest
// point of any cell is the corner of a cell touching a base orientation; for
// nside 1 it is a vertex of the truncated cube.
func HashResl(nside int) float64 {
	t := HalfWidth
	switch {
	case nside < 1:
		return math.Inf(1)
	case nside == 1:
		r := math.Sqrt(2*t*t + (1-2*t)*(1-2*t))
		return geom.Degrees(2 * math.Atan(r))
	default:
		return geom.Degrees(2 * math.Atan(math.Sqrt(3)*t/float64(nside)))
	}
}

// HashNside returns the smallest side count whose hash resolution is at most
// resl, or 0 when even maxNside is too coarse.
func HashNside(resl float64, maxNside int) int {
	for n := 1; n <= maxNside; n++ {
		if HashResl(n) <= resl {
			return n
		}
	}
	return 0
}
