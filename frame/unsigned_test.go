package frame

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnsignedRoundTrip_WithOverload(t *testing.T) {
	values := []uint64{0, 1, 2, 65535, 3, 65535, 65535, 4, 0, 0, 0, 0}
	payload := EncodeUnsigned(values, 16, 12)

	assert.Equal(t, "Unsigned", DetectMode(payload).String())

	out := make([]uint64, len(values))
	require.NoError(t, DecodeUnsigned(payload, 16, 12, out))
	assert.Equal(t, values, out)
}

func TestUnsignedRoundTrip_Random(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for _, block := range []int{8, 12, 16, 24, 32} {
		for _, prolixBits := range []int{8, 16, 32} {
			values := make([]uint64, 300)
			maxV := uint64(1)<<uint(prolixBits) - 1
			for i := range values {
				values[i] = uint64(rng.Int63()) & maxV
			}
			// force at least one overload block
			values[0] = maxV

			payload := EncodeUnsigned(values, prolixBits, block)
			out := make([]uint64, len(values))
			require.NoError(t, DecodeUnsigned(payload, prolixBits, block, out))
			assert.Equalf(t, values, out, "block=%d prolixBits=%d", block, prolixBits)
		}
	}
}

func TestUnsignedRoundTrip_AllZero(t *testing.T) {
	values := make([]uint64, 48)
	payload := EncodeUnsigned(values, 8, 12)

	out := make([]uint64, len(values))
	require.NoError(t, DecodeUnsigned(payload, 8, 12, out))
	assert.Equal(t, values, out)
}
