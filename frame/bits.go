package frame

import "math/bits"

// msb returns the number of bits needed to represent v as an unsigned
// value: 0 for v == 0, otherwise the position of its highest set bit plus
// one.
func msb(v uint64) int {
	if v == 0 {
		return 0
	}
	return 64 - bits.LeadingZeros64(v)
}

func maskU(width int) uint64 {
	switch {
	case width <= 0:
		return 0
	case width >= 64:
		return ^uint64(0)
	default:
		return (uint64(1) << uint(width)) - 1
	}
}

// magnitude returns the absolute value of a negative int64 as a uint64,
// without relying on signed overflow (safe even for math.MinInt64).
func magnitude(v int64) uint64 {
	return uint64(^v) + 1
}

// signedBits returns the minimum two's-complement width that can hold v.
// This coincides with the "msb(2*|extreme|)" rule the format describes for
// a block's dominant value, including its -1 special case (a block
// containing only -1 needs 1 bit, not 2), derived here directly from the
// two's-complement range rather than as a special-cased branch. For a
// negative power of two below -1 it is one bit narrower than that rule
// (signedBits(-2) == 2, while msb(4) == 3).
func signedBits(v int64) int {
	switch {
	case v == 0:
		return 0
	case v > 0:
		return bits.Len64(uint64(v)) + 1
	default:
		m := magnitude(v)
		return bits.Len64(m-1) + 1
	}
}

func maxUint64(vals []uint64) uint64 {
	var m uint64
	for _, v := range vals {
		if v > m {
			m = v
		}
	}
	return m
}
