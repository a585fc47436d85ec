// Package xbin hashes rigid transforms into fixed-width integer keys at one
// calibrated resolution.
//
// A Hash quantizes the rotation onto a grid around the nearest of the 24
// rotations of the cube and the translation onto a body-centred cubic
// lattice. Two transforms with the same key are close: the translation of
// any transform lies within CartResl() of its bin center, and the rotation
// within OriResl() degrees.
//
// # Key Layout
//
// From the least significant bit:
//
//	[parity:1][x:B][y:B][z:B][ori:O]
//
// B depends on MaxCart()/CartResl(), O on the orientation side count. The
// layout never uses more than 60 bits, which leaves bits 60-63 for two
// optional 2-bit tags (see TagKey).
//
// # Pair Keys
//
// The *OfPairs methods hash the relative transform inverse(xs1[i])*xs2[j]
// for index pairs without materializing the relative transforms, and the
// MapOf* methods look the resulting keys up in a Getter:
//
//	h, _ := xbin.New[float64](1, 20, 512)
//	keys, _ := h.KeysOfPairs(pairs, xs1, xs2)
//	scores, _ := h.MapOfPairs(table, pairs, xs1, xs2, 0)
//
// A Hash is immutable and safe for concurrent use.
package xbin
