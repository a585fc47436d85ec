package zorder

// MaxBits returns how many bits of a coordinate survive dilation for dim.
func MaxBits(dim int) int {
	return 64 / dim
}

// Dilate spreads bit i of v to bit i*dim. Bits above MaxBits(dim) are
// dropped.
func Dilate(v uint64, dim int) uint64 {
	switch dim {
	case 1:
		return v
	case 3:
		return part1By2(v)
	}
	var out uint64
	for i := 0; i < 64/dim && v>>i != 0; i++ {
		out |= (v >> i & 1) << (i * dim)
	}
	return out
}

// Undilate gathers bits 0, dim, 2*dim, ... of v into the low bits.
func Undilate(v uint64, dim int) uint64 {
	switch dim {
	case 1:
		return v
	case 3:
		return compact1By2(v)
	}
	var out uint64
	for i := 0; i < 64/dim; i++ {
		out |= (v >> (i * dim) & 1) << i
	}
	return out
}

func part1By2(x uint64) uint64 {
	x &= 0x1fffff
	x = (x | (x << 32)) & 0x1f00000000ffff
	x = (x | (x << 16)) & 0x1f0000ff0000ff
	x = (x | (x << 8)) & 0x100f00f00f00f00f
	x = (x | (x << 4)) & 0x10c30c30c30c30c3
	x = (x | (x << 2)) & 0x1249249249249249
	return x
}

func compact1By2(x uint64) uint64 {
	x &= 0x1249249249249249
	x = (x ^ (x >> 2)) & 0x10c30c30c30c30c3
	x = (x ^ (x >> 4)) & 0x100f00f00f00f00f
	x = (x ^ (x >> 8)) & 0x1f0000ff0000ff
	x = (x ^ (x >> 16)) & 0x1f00000000ffff
	x = (x ^ (x >> 32)) & 0x1fffff
	return x
}
