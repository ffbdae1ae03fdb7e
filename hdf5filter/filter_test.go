package hdf5filter

import (
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terse-codec/terse/container"
	"github.com/terse-codec/terse/errs"
)

func u16Buffer(rng *rand.Rand, n int) []byte {
	buf := make([]byte, n*2)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(rng.Intn(1<<16)))
	}
	return buf
}

func TestTerseFilterRejectsEmptyCDValues(t *testing.T) {
	_, err := TerseFilter(0, nil, []byte{1, 2})
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestTerseFilterRejectsUnknownTypeCode(t *testing.T) {
	_, err := TerseFilter(0, []uint32{99}, []byte{1, 2})
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestCompressDecompressRoundTrip_SingleChunk(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	raw := u16Buffer(rng, 1000)

	compressed, err := TerseFilter(0, []uint32{uint32(TypeUint16)}, raw)
	require.NoError(t, err)

	roundTripped, err := TerseFilter(FlagReverse, []uint32{uint32(TypeUint16)}, compressed)
	require.NoError(t, err)

	assert.Equal(t, raw, roundTripped)
}

func TestCompressDecompressRoundTrip_Signed(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	n := 5000
	raw := make([]byte, n*4)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint32(raw[i*4:], uint32(int32(rng.Intn(2000000)-1000000)))
	}

	compressed, err := TerseFilter(0, []uint32{uint32(TypeInt32)}, raw)
	require.NoError(t, err)

	roundTripped, err := TerseFilter(FlagReverse, []uint32{uint32(TypeInt32)}, compressed)
	require.NoError(t, err)

	assert.Equal(t, raw, roundTripped)
}

// TestShapeSplit_TwoConcatenatedContainers exercises the fixed 300000-value
// u16 chunk from the shape-split fixture: with DefaultChunkSize=262144 the
// loop leaves one full chunk plus a nonempty tail, so the compressed blob
// must parse as exactly two concatenated containers whose frame counts sum
// to what the buffer holds.
func TestShapeSplit_TwoConcatenatedContainers(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	n := 300000
	raw := u16Buffer(rng, n)

	compressed, err := TerseFilter(0, []uint32{uint32(TypeUint16)}, raw)
	require.NoError(t, err)

	chunks, consumed, err := container.Read(compressed)
	require.NoError(t, err)
	require.Equal(t, 1, chunks.Len())
	require.Equal(t, DefaultChunkSize, chunks.Size())

	rest := compressed[consumed:]
	require.NotEmpty(t, rest)

	tail, tailConsumed, err := container.Read(rest)
	require.NoError(t, err)
	require.Equal(t, 1, tail.Len())
	require.Equal(t, n-DefaultChunkSize, tail.Size())
	require.Equal(t, len(rest), tailConsumed)

	roundTripped, err := TerseFilter(FlagReverse, []uint32{uint32(TypeUint16)}, compressed)
	require.NoError(t, err)
	assert.Equal(t, raw, roundTripped)
}

func TestCompressRejectsMisalignedBuffer(t *testing.T) {
	_, err := TerseFilter(0, []uint32{uint32(TypeUint16)}, []byte{1, 2, 3})
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestCompressDecompressRoundTrip_ExactMultipleOfChunkSize(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	n := DefaultChunkSize * 2
	raw := u16Buffer(rng, n)

	compressed, err := TerseFilter(0, []uint32{uint32(TypeUint16)}, raw)
	require.NoError(t, err)

	chunks, consumed, err := container.Read(compressed)
	require.NoError(t, err)
	// The strict "<" loop condition means an exact multiple still leaves
	// its last chunk in the tail container rather than emitted as chunks.
	assert.Equal(t, 1, chunks.Len())

	rest := compressed[consumed:]
	tail, _, err := container.Read(rest)
	require.NoError(t, err)
	assert.Equal(t, DefaultChunkSize, tail.Size())

	roundTripped, err := TerseFilter(FlagReverse, []uint32{uint32(TypeUint16)}, compressed)
	require.NoError(t, err)
	assert.Equal(t, raw, roundTripped)
}
