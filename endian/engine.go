// Package endian provides byte order utilities for the raw integer buffers
// that hdf5filter and cmd/terse read element values out of and write
// decoded values back into.
//
// It extends encoding/binary by combining ByteOrder and AppendByteOrder
// into one EndianEngine interface, satisfied directly by binary.LittleEndian
// and binary.BigEndian, so callers that read a width-tagged element out of a
// flat buffer don't need a separate switch over byte order the way they
// already switch over element width.
package endian

import (
	"encoding/binary"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian from
// the standard library, making it fully compatible with existing Go code while
// providing access to both read/write and append operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
