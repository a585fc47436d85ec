package zorder

// The combined transform index interleaves two 3-D paths into one 6-D path.
// Orientation coordinates occupy dimensions 0..2 and translation coordinates
// dimensions 3..5 of each 6-bit group. The combined cell selector is
// cartCell*oriCells + oriCell.

// Join builds the 7-wide combined coefficient vector from a 4-wide orientation
// vector and a 4-wide Cartesian vector.
func Join(ori, cart []uint64, oriCells uint64, dst []uint64) []uint64 {
	if cap(dst) < 7 {
		dst = make([]uint64, 7)
	}
	dst = dst[:7]
	dst[0] = cart[0]*oriCells + ori[0]
	copy(dst[1:4], ori[1:4])
	copy(dst[4:7], cart[1:4])
	return dst
}

// Split is the inverse of Join.
func Split(combined []uint64, oriCells uint64, ori, cart []uint64) ([]uint64, []uint64) {
	if cap(ori) < 4 {
		ori = make([]uint64, 4)
	}
	if cap(cart) < 4 {
		cart = make([]uint64, 4)
	}
	ori, cart = ori[:4], cart[:4]
	ori[0] = combined[0] % oriCells
	cart[0] = combined[0] / oriCells
	copy(ori[1:4], combined[1:4])
	copy(cart[1:4], combined[4:7])
	return ori, cart
}

// Combine merges a 3-D orientation index and a 3-D Cartesian index at the
// same depth into the combined 6-D index, working on the bit groups directly.
//
// Combine(o, t, d, n) == MustNew(6).Index(Join(Coeffs3(o), Coeffs3(t), n), d)
func Combine(oriIndex, cartIndex uint64, depth int, oriCells uint64) uint64 {
	c3 := Codec{dim: 3}
	cell := c3.CellIndex(cartIndex, depth)*oriCells + c3.CellIndex(oriIndex, depth)
	oh := c3.HierIndex(oriIndex, depth)
	th := c3.HierIndex(cartIndex, depth)

	var hier uint64
	for k := 0; k < depth; k++ {
		hier |= (oh >> (3 * k) & 7) << (6 * k)
		hier |= (th >> (3 * k) & 7) << (6*k + 3)
	}
	return cell<<(6*depth) | hier
}

// Separate is the inverse of Combine.
func Separate(index uint64, depth int, oriCells uint64) (oriIndex, cartIndex uint64) {
	c6 := Codec{dim: 6}
	cell := c6.CellIndex(index, depth)
	hier := c6.HierIndex(index, depth)

	var oh, th uint64
	for k := 0; k < depth; k++ {
		oh |= (hier >> (6 * k) & 7) << (3 * k)
		th |= (hier >> (6*k + 3) & 7) << (3 * k)
	}
	oriIndex = (cell%oriCells)<<(3*depth) | oh
	cartIndex = (cell/oriCells)<<(3*depth) | th
	return oriIndex, cartIndex
}
