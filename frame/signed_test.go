package frame

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedRoundTrip_Monotone(t *testing.T) {
	values := make([]int64, 1000)
	for i := range values {
		values[i] = int64(i) - 500
	}

	payload := EncodeSigned(values, 12)
	assert.LessOrEqual(t, len(payload), int(0.30*4000), "encoded size should stay well under the prolix byte budget")

	out := make([]int64, len(values))
	require.NoError(t, DecodeSigned(payload, 12, out))
	assert.Equal(t, values, out)
}

func TestSignedRoundTrip_AllWidthsAndBlocks(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for _, block := range []int{8, 12, 16, 24, 32} {
		for _, width := range []int{8, 16, 32, 64} {
			values := make([]int64, 200)
			for i := range values {
				lo, hi := rangeForWidth(width)
				values[i] = lo + rng.Int63n(hi-lo+1)
			}

			payload := EncodeSigned(values, block)
			out := make([]int64, len(values))
			require.NoError(t, DecodeSigned(payload, block, out))
			assert.Equalf(t, values, out, "block=%d width=%d", block, width)
		}
	}
}

func TestSignedRoundTrip_ZeroBlock(t *testing.T) {
	values := make([]int64, 12)
	payload := EncodeSigned(values, 12)

	out := make([]int64, 12)
	require.NoError(t, DecodeSigned(payload, 12, out))
	assert.Equal(t, values, out)
}

func TestSignedRoundTrip_NegativeOne(t *testing.T) {
	values := []int64{-1, -1, -1, -1}
	payload := EncodeSigned(values, 12)

	out := make([]int64, len(values))
	require.NoError(t, DecodeSigned(payload, 12, out))
	assert.Equal(t, values, out)
}

func TestSignedPayload_NeverCollidesWithUnsignedTags(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 500; trial++ {
		values := make([]int64, 64)
		for i := range values {
			values[i] = rng.Int63n(1<<32) - (1 << 31)
		}

		payload := EncodeSigned(values, 12)
		if len(payload) < 3 {
			continue
		}

		mode := DetectMode(payload)
		assert.Equalf(t, "Signed", mode.String(), "trial %d produced a false tag match", trial)
	}
}

func TestSignedBitsNegativePowersOfTwo(t *testing.T) {
	// signedBits(v) computes the minimum two's-complement width directly
	// from v's range, which for a negative power of two other than -1
	// comes out one bit narrower than the literal msb(2*|v|) reading of
	// the format description: e.g. v=-2 needs only 2 bits in two's
	// complement (signedBits(-2)=2), while msb(2*2)=msb(4)=3. Both widths
	// round-trip v correctly; this pins the actual (narrower) value so a
	// future change to the formula doesn't silently widen every such
	// block. See the DESIGN.md deviation note for frame/bits.go.
	cases := []struct {
		v    int64
		want int
	}{
		{-1, 1},
		{-2, 2},
		{-4, 3},
		{-8, 4},
		{-16, 5},
		{-(1 << 30), 31},
		{-(1 << 62), 63},
	}

	for _, c := range cases {
		assert.Equalf(t, c.want, signedBits(c.v), "v=%d", c.v)
	}
}

func rangeForWidth(width int) (lo, hi int64) {
	switch width {
	case 8:
		return -128, 127
	case 16:
		return -32768, 32767
	case 32:
		return -2147483648, 2147483647
	default:
		return -1 << 40, 1<<40 - 1
	}
}
