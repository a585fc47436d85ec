// Package nnindex provides exact brute-force nearest-neighbour queries over
// small point sets and rotation sets.
//
// Points are stored columnar in one contiguous slice. Queries are
// independent and fan out over GOMAXPROCS workers.
//
//	ix, _ := nnindex.Build(points)
//	dist, nearest := ix.MinDist(queries)
//
// It is used to measure covering radii of quantization schemes, not for
// production lookups.
package nnindex
