// Package zorder maps hierarchical cell coordinates to flat 64-bit indices by
// bit interleaving (Morton order).
//
// An index at depth d has two parts:
//
//	index = cell << (dim*d) | hier
//
// cell selects a base cell. hier holds d groups of dim bits, one group per
// refinement level with the coarsest level in the most significant group.
// Within a group, bit j belongs to dimension j. Parent and child indices are
// therefore plain shifts:
//
//	parent   = index >> dim
//	children = index<<dim | [0, 1<<dim)
package zorder
