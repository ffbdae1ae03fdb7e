package frame

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmallUnsignedRoundTrip_Sparse(t *testing.T) {
	values := make([]uint64, 48)
	values[10] = 1
	values[37] = 1

	payload := EncodeSmallUnsigned(values, 8, 12)
	assert.LessOrEqual(t, len(payload), 16)

	out := make([]uint64, len(values))
	require.NoError(t, DecodeSmallUnsigned(payload, 8, 12, out))
	assert.Equal(t, values, out)
}

func TestSmallUnsignedRoundTrip_RadixPacked(t *testing.T) {
	values := make([]uint64, 12)
	for i := range values {
		values[i] = 2
	}

	payload := EncodeSmallUnsigned(values, 8, 12)

	// Single block, maxPrev starts at 0 and maxV=2 isn't 0 or 1, so the
	// header falls to the shared escape: 18-bit mode tag + 2-bit "00" +
	// 3-bit literal max (5 bits) + a radixWidth(3,12)-bit packed payload.
	wantBits := 18 + 5 + radixWidth(3, 12)
	wantBytes := (wantBits + 7) / 8
	assert.Equal(t, wantBytes, len(payload))

	out := make([]uint64, len(values))
	require.NoError(t, DecodeSmallUnsigned(payload, 8, 12, out))
	assert.Equal(t, values, out)
}

func TestSmallUnsignedRoundTrip_WithOverloadMasking(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	values := make([]uint64, 96)
	for i := range values {
		values[i] = uint64(rng.Intn(5))
	}
	// force overload runs across several consecutive blocks
	for i := 24; i < 60; i++ {
		values[i] = 255
	}

	payload := EncodeSmallUnsigned(values, 8, 12)
	out := make([]uint64, len(values))
	require.NoError(t, DecodeSmallUnsigned(payload, 8, 12, out))
	assert.Equal(t, values, out)
}

func TestSmallUnsignedRoundTrip_Random(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for _, block := range []int{8, 12, 16, 24, 32, 64} {
		values := make([]uint64, 240)
		for i := range values {
			values[i] = uint64(rng.Intn(256))
		}

		payload := EncodeSmallUnsigned(values, 8, block)
		out := make([]uint64, len(values))
		require.NoError(t, DecodeSmallUnsigned(payload, 8, block, out))
		assert.Equalf(t, values, out, "block=%d", block)
	}
}

func TestSmallUnsignedRoundTrip_AllMaxBoundary(t *testing.T) {
	values := make([]uint64, 24)
	for i := range values {
		values[i] = 6
	}

	payload := EncodeSmallUnsigned(values, 8, 24)
	out := make([]uint64, len(values))
	require.NoError(t, DecodeSmallUnsigned(payload, 8, 24, out))
	assert.Equal(t, values, out)
}
