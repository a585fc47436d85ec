package lattice

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/posehash/geom"
	"github.com/hupe1980/posehash/testutil"
)

func baseOf(t *testing.T, q geom.Quat[float64]) int {
	t.Helper()
	for i, g := range Bases {
		if math.Abs(q.Dot(g)) > 1-1e-12 {
			return i
		}
	}
	t.Fatalf("quaternion %v is not a base", q)
	return -1
}

func TestBasesFormGroup(t *testing.T) {
	assert.Equal(t, geom.QuatIdentity[float64](), Bases[0])

	for i, g := range Bases {
		assert.InDelta(t, 1.0, g.Norm(), 1e-15)
		assert.GreaterOrEqual(t, g.W, 0.0)
		for j := i + 1; j < NumBases; j++ {
			assert.Less(t, math.Abs(g.Dot(Bases[j])), 1-1e-9, "bases %d and %d coincide", i, j)
		}
	}

	for _, a := range Bases {
		for _, b := range Bases {
			baseOf(t, a.Mul(b))
		}
	}
}

func TestNearestLandsInTruncatedCube(t *testing.T) {
	rng := testutil.NewRNG(1)

	for _, q := range testutil.RandQuats[float64](rng, 5000) {
		base, local := Nearest(q)
		require.Greater(t, local.W, 0.0)

		p := Gnomonic(local)
		l1 := 0.0
		for _, c := range p {
			assert.LessOrEqual(t, math.Abs(c), HalfWidth+1e-12)
			l1 += math.Abs(c)
		}
		assert.LessOrEqual(t, l1, 1+1e-12)

		back := FromGnomonic(base, p)
		assert.InDelta(t, 1.0, math.Abs(back.Dot(q)), 1e-12)
	}
}

func TestGnomonicFrac(t *testing.T) {
	assert.InDelta(t, -HalfWidth, FracToGnomonic(0), 1e-15)
	assert.InDelta(t, HalfWidth, FracToGnomonic(1), 1e-15)
	assert.InDelta(t, 0.3, GnomonicToFrac(FracToGnomonic(0.3)), 1e-15)
}

func TestHierCalibration(t *testing.T) {
	assert.Equal(t, 26.018, HierResl(6))
	assert.Equal(t, 6, HierNside(30))

	cases := []struct {
		resl  float64
		nside int
	}{
		{93, 1}, {92, 2}, {66, 3}, {47, 4}, {37, 5}, {30, 6}, {26, 7}, {22, 8},
		{19, 9}, {17, 10}, {15, 11}, {14, 12}, {13, 13}, {12, 14}, {11, 15}, {10, 16},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.nside, HierNside(tc.resl), "resl %v", tc.resl)
	}

	for n := 1; n < MaxNside; n++ {
		assert.Greater(t, HierResl(n), HierResl(n+1))
	}
	assert.Equal(t, MaxNside, HierNside(0.001))
}

func TestHashCalibration(t *testing.T) {
	assert.InDelta(t, 62.7994, HashResl(1), 1e-3)
	assert.InDelta(t, 39.47, HashResl(2), 0.01)
	assert.True(t, math.IsInf(HashResl(0), 1))

	for n := 1; n < 100; n++ {
		assert.Greater(t, HashResl(n), HashResl(n+1))
	}

	assert.Equal(t, 1, HashNside(70, MaxNside))
	assert.Equal(t, 2, HashNside(40, MaxNside))
	assert.Equal(t, 5, HashNside(20, MaxNside))
	assert.Equal(t, 0, HashNside(0.01, MaxNside))

	for _, resl := range []float64{5, 10, 15, 20, 30} {
		n := HashNside(resl, 1000)
		got := HashResl(n)
		assert.LessOrEqual(t, got, resl)
		assert.Greater(t, got, 0.8*resl)
	}
}

func TestBCCCovering(t *testing.T) {
	rng := testutil.NewRNG(2)
	const resl = 1.3
	b := NewBCC(resl, 50)

	assert.InDelta(t, resl, b.Side()*math.Sqrt(5)/4, 1e-12)

	worst := 0.0
	for i := 0; i < 20000; i++ {
		var v [3]float64
		for k := range v {
			v[k] = (2*rng.Float64() - 1) * 50
		}
		idx, odd := b.Nearest(v)
		c := b.Center(idx, odd)
		for k := range idx {
			require.Less(t, idx[k], uint64(1)<<b.AxisBits())
		}
		d := math.Sqrt((v[0]-c[0])*(v[0]-c[0]) + (v[1]-c[1])*(v[1]-c[1]) + (v[2]-c[2])*(v[2]-c[2]))
		require.Less(t, d, resl)
		worst = max(worst, d)
	}
	assert.Greater(t, worst, 0.85*resl)
}

func TestBCCExtremes(t *testing.T) {
	b := NewBCC(1, 10)
	for _, v := range [][3]float64{{-10, -10, -10}, {10, 10, 10}, {10, -10, 0}} {
		idx, odd := b.Nearest(v)
		for k := range idx {
			assert.Less(t, idx[k], uint64(1)<<b.AxisBits())
		}
		c := b.Center(idx, odd)
		d := math.Sqrt((v[0]-c[0])*(v[0]-c[0]) + (v[1]-c[1])*(v[1]-c[1]) + (v[2]-c[2])*(v[2]-c[2]))
		assert.Less(t, d, 1.0)
	}
}
