package frame

import (
	"math/big"

	"github.com/terse-codec/terse/bitio"
)

// radixWidth returns the number of bits needed to hold any combination of L
// digits in [0, base). Block sizes are capped at wireformat.SmallUnsignedMaxBlock
// (24) but a base of 7 and L of 24 already exceeds 64 bits, so the combined
// digit value is handled as an arbitrary-precision integer rather than a
// uint64.
func radixWidth(base uint64, l int) int {
	max := new(big.Int).Exp(big.NewInt(int64(base)), big.NewInt(int64(l)), nil)
	max.Sub(max, big.NewInt(1))

	return max.BitLen()
}

// pushBig appends the low width bits of v to w, least-significant 64-bit
// word first, matching bitio.Writer's own bit ordering.
func pushBig(w *bitio.Writer, v *big.Int, width int) {
	rem := new(big.Int).Set(v)
	mask64 := new(big.Int).SetUint64(^uint64(0))
	word := new(big.Int)

	for remaining := width; remaining > 0; {
		n := remaining
		if n > 64 {
			n = 64
		}

		word.Set(rem)
		if n < 64 {
			word.And(word, big.NewInt((int64(1)<<uint(n))-1))
		} else {
			word.And(word, mask64)
		}
		w.Push(n, word.Uint64())

		rem.Rsh(rem, uint(n))
		remaining -= n
	}
}

// popBig is the symmetric decode of pushBig.
func popBig(r *bitio.Reader, width int) *big.Int {
	result := new(big.Int)
	word := new(big.Int)

	shift := uint(0)
	for remaining := width; remaining > 0; {
		n := remaining
		if n > 64 {
			n = 64
		}

		word.SetUint64(r.PopU(n))
		word.Lsh(word, shift)
		result.Or(result, word)

		shift += uint(n)
		remaining -= n
	}

	return result
}

// packRadix combines vals (each < base) into a single base-ary number,
// msb-first (vals[0] is the most significant digit), and writes it in
// exactly radixWidth(base, len(vals)) bits.
func packRadix(w *bitio.Writer, vals []uint64, base uint64) {
	combined := new(big.Int)
	b := big.NewInt(int64(base))
	digit := new(big.Int)

	for _, v := range vals {
		combined.Mul(combined, b)
		digit.SetUint64(v)
		combined.Add(combined, digit)
	}

	pushBig(w, combined, radixWidth(base, len(vals)))
}

// unpackRadix is the symmetric decode of packRadix.
func unpackRadix(r *bitio.Reader, out []uint64, base uint64) {
	width := radixWidth(base, len(out))
	combined := popBig(r, width)

	b := big.NewInt(int64(base))
	quot := new(big.Int)
	rem := new(big.Int)

	for i := len(out) - 1; i >= 0; i-- {
		quot.DivMod(combined, b, rem)
		out[i] = rem.Uint64()
		combined, quot = quot, combined
	}
}
