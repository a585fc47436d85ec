package cluster

import (
	"errors"
	"math"

	"github.com/hupe1980/posehash/geom"
)

var (
	// ErrInvalidThreshold is returned for a negative or NaN threshold.
	ErrInvalidThreshold = errors.New("cluster: invalid threshold")

	// ErrDimensionMismatch is returned when points differ in length.
	ErrDimensionMismatch = errors.New("cluster: dimension mismatch")
)

// CookieCutter returns the indices of the points kept by greedy clustering
// with radius thresh, in input order. A point within thresh (inclusive) of
// a kept point is dropped.
func CookieCutter[F geom.Float](pts [][]F, thresh F) ([]int, error) {
	if thresh < 0 || math.IsNaN(float64(thresh)) {
		return nil, ErrInvalidThreshold
	}
	if len(pts) == 0 {
		return nil, nil
	}

	dim := len(pts[0])
	t2 := thresh * thresh
	var keep []int
	for i, p := range pts {
		if len(p) != dim {
			return nil, ErrDimensionMismatch
		}
		if !covered(pts, keep, p, t2) {
			keep = append(keep, i)
		}
	}
	return keep, nil
}

func covered[F geom.Float](pts [][]F, keep []int, p []F, t2 F) bool {
	for _, k := range keep {
		var d2 F
		for j, v := range pts[k] {
			d := p[j] - v
			d2 += d * d
		}
		if d2 <= t2 {
			return true
		}
	}
	return false
}

// CookieCutterXforms clusters transforms. The distance between two
// transforms is sqrt(|t1-t2|² + lever²·|R1-R2|²) with the Frobenius norm on
// the rotation part, so lever converts rotation difference to length.
func CookieCutterXforms[F geom.Float](xs []geom.Xform[F], thresh, lever F) ([]int, error) {
	if lever < 0 || math.IsNaN(float64(lever)) {
		return nil, ErrInvalidThreshold
	}
	pts := make([][]F, len(xs))
	for i, x := range xs {
		p := make([]F, 0, 12)
		p = append(p, x.T[:]...)
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				p = append(p, lever*x.R[r][c])
			}
		}
		pts[i] = p
	}
	return CookieCutter(pts, thresh)
}
