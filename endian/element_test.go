package endian

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWriteSignedRoundTrip(t *testing.T) {
	engine := GetLittleEndianEngine()

	for _, tc := range []struct {
		width int
		value int64
	}{
		{1, -100},
		{2, -30000},
		{4, -2000000000},
		{8, -9000000000000000000},
	} {
		buf := make([]byte, tc.width)
		require.NoError(t, WriteSigned(engine, buf, 0, tc.width, tc.value))

		got, err := ReadSigned(engine, buf, 0, tc.width)
		require.NoError(t, err)
		assert.Equal(t, tc.value, got)
	}
}

func TestReadWriteUnsignedRoundTrip(t *testing.T) {
	engine := GetLittleEndianEngine()

	for _, tc := range []struct {
		width int
		value uint64
	}{
		{1, 200},
		{2, 60000},
		{4, 4000000000},
		{8, 18000000000000000000},
	} {
		buf := make([]byte, tc.width)
		require.NoError(t, WriteUnsigned(engine, buf, 0, tc.width, tc.value))

		got, err := ReadUnsigned(engine, buf, 0, tc.width)
		require.NoError(t, err)
		assert.Equal(t, tc.value, got)
	}
}

func TestReadWriteRejectsUnsupportedWidth(t *testing.T) {
	engine := GetLittleEndianEngine()
	buf := make([]byte, 3)

	_, err := ReadSigned(engine, buf, 0, 3)
	assert.Error(t, err)

	_, err = ReadUnsigned(engine, buf, 0, 3)
	assert.Error(t, err)

	assert.Error(t, WriteSigned(engine, buf, 0, 3, 1))
	assert.Error(t, WriteUnsigned(engine, buf, 0, 3, 1))
}
