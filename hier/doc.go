// Package hier enumerates representative rigid transforms over a bounded
// region of SE(3) at any refinement depth without materializing a tree.
//
// Three hierarchies share one addressing scheme (see package zorder):
//
//   - CartHier: an axis-aligned box split into base cells, each refined by
//     halving every axis per level (2^N children)
//   - OriHier: SO(3) split into 24*nside³ base cells around the rotations of
//     the cube, each refined as an octree in gnomonic coordinates
//     (8 children)
//   - XformHier: the product of a 3-D CartHier and an OriHier (64 children)
//
// A cell is a (depth, index) pair. Indices at or beyond Size(depth) are
// invalid and reported through the validity mask of the batched accessors.
//
// # Branch and Bound
//
//	h, _ := hier.NewXformHier[float64](lb, ub, bs, 30)
//	idx := allIndices(h.Size(0))
//	_, xs := h.Xforms(0, idx)
//	scores := score(xs)
//	children, xs, _ := h.ExpandTopNSeparate(1000, 0, scores, idx)
//
// All hierarchy types are immutable after construction and safe for
// concurrent use.
package hier
