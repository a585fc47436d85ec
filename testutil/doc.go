// Package testutil provides testing utilities for posehash.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe RNG and generators for random
// rotations and rigid transforms.
//
// # Random Transforms
//
//	rng := testutil.NewRNG(seed)
//	xs := testutil.RandXforms[float64](rng, 1000, 10) // uniform rotation, N(0, 10) translation
//	qs := testutil.RandQuats[float64](rng, 1000)      // uniform on SO(3)
package testutil
