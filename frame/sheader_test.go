package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terse-codec/terse/bitio"
	"github.com/terse-codec/terse/internal/pool"
)

func TestSBitsRoundTrip(t *testing.T) {
	cases := []struct{ s, sPrev int }{
		{0, 0}, {1, 0}, {6, 0}, {7, 0}, {9, 0}, {10, 0}, {64, 0},
		{5, 5}, {5, 4}, {64, 63},
	}

	for _, c := range cases {
		buf := pool.New(16)
		w := bitio.NewWriter(buf)
		writeSBits(w, c.s, c.sPrev)
		w.Finish()

		r := bitio.NewReader(buf.Bytes())
		got := readSBits(r, c.sPrev)
		assert.Equalf(t, c.s, got, "s=%d sPrev=%d", c.s, c.sPrev)
	}
}

func TestSignedBitsSpecialCases(t *testing.T) {
	assert.Equal(t, 0, signedBits(0))
	assert.Equal(t, 1, signedBits(-1))
	assert.Equal(t, 2, signedBits(1))
	assert.Equal(t, 2, signedBits(-2))
}

func TestWeakStrongHeaderRoundTrip(t *testing.T) {
	weakCases := []struct{ maxV, maxPrev int }{
		{0, 0}, {1, 0}, {3, 0}, {6, 0},
		{3, 3}, {4, 3}, {2, 3}, {0, 6}, {4, 6}, {6, 6},
	}
	for _, c := range weakCases {
		buf := pool.New(16)
		w := bitio.NewWriter(buf)
		encodeSmallUnsignedHeader(w, true, c.maxV, true, c.maxPrev, 0)
		w.Finish()

		r := bitio.NewReader(buf.Bytes())
		weak, got := decodeSmallUnsignedHeader(r, true, c.maxPrev, 0)
		assert.Truef(t, weak, "maxV=%d maxPrev=%d", c.maxV, c.maxPrev)
		assert.Equalf(t, c.maxV, got, "maxV=%d maxPrev=%d", c.maxV, c.maxPrev)
	}

	strongCases := []struct{ s, sPrev int }{
		{7, 0}, {8, 7}, {9, 8}, {10, 9}, {16, 10}, {17, 16}, {64, 17},
	}
	for _, c := range strongCases {
		buf := pool.New(16)
		w := bitio.NewWriter(buf)
		encodeSmallUnsignedHeader(w, false, c.s, false, 0, c.sPrev)
		w.Finish()

		r := bitio.NewReader(buf.Bytes())
		weak, got := decodeSmallUnsignedHeader(r, false, 0, c.sPrev)
		assert.Falsef(t, weak, "s=%d sPrev=%d", c.s, c.sPrev)
		assert.Equalf(t, c.s, got, "s=%d sPrev=%d", c.s, c.sPrev)
	}
}

func TestSmallUnsignedHeaderRegimeTransition(t *testing.T) {
	// A regime change never uses a delta shortcut against the other
	// table's stale previous value, so it always round-trips through the
	// shared escape regardless of what maxPrev/sPrev happen to hold.
	cases := []struct {
		name           string
		weak           bool
		value          int
		prevWeak       bool
		maxPrev, sPrev int
	}{
		{"weak after strong", true, 2, false, 0, 40},
		{"strong after weak", false, 9, true, 3, 0},
		{"weak after strong at sentinel", true, 0, false, 0, 7},
	}

	for _, c := range cases {
		buf := pool.New(16)
		w := bitio.NewWriter(buf)
		encodeSmallUnsignedHeader(w, c.weak, c.value, c.prevWeak, c.maxPrev, c.sPrev)
		w.Finish()

		r := bitio.NewReader(buf.Bytes())
		weak, got := decodeSmallUnsignedHeader(r, c.prevWeak, c.maxPrev, c.sPrev)
		assert.Equalf(t, c.weak, weak, c.name)
		assert.Equalf(t, c.value, got, c.name)
	}
}

func TestRadixPackRoundTrip(t *testing.T) {
	vals := []uint64{2, 0, 1, 2, 2, 0, 1, 1, 2, 0, 2, 1}
	buf := pool.New(16)
	w := bitio.NewWriter(buf)
	packRadix(w, vals, 3)
	w.Finish()

	r := bitio.NewReader(buf.Bytes())
	out := make([]uint64, len(vals))
	unpackRadix(r, out, 3)
	assert.Equal(t, vals, out)
}

func TestRadixWidthLargeBlock(t *testing.T) {
	// base 7, block 24 exceeds 64 bits (7^24 needs ~68 bits), exercising the
	// multi-word big.Int push/pop path.
	width := radixWidth(7, 24)
	assert.Greater(t, width, 64)

	vals := make([]uint64, 24)
	for i := range vals {
		vals[i] = uint64(i % 7)
	}

	buf := pool.New(32)
	w := bitio.NewWriter(buf)
	packRadix(w, vals, 7)
	w.Finish()

	r := bitio.NewReader(buf.Bytes())
	out := make([]uint64, len(vals))
	unpackRadix(r, out, 7)
	require.Equal(t, vals, out)
}
