// Package hdf5filter implements the pure-Go core of the Terse HDF5 filter
// plugin (spec §6.2): cd_values decoding, the chunk/tail container split
// used on compress, and the two-container concatenation/parse used on
// decompress. It is fully testable without libhdf5 present; the cgo
// entry points HDF5 itself calls (H5PLget_plugin_info,
// H5PLget_plugin_type) live in a separate,
// build-tagged file so this package's default build never requires the
// HDF5 headers.
package hdf5filter

import (
	"bytes"
	"fmt"

	"github.com/terse-codec/terse/container"
	"github.com/terse-codec/terse/endian"
	"github.com/terse-codec/terse/errs"
	"github.com/terse-codec/terse/wireformat"
)

// byteOrder is HDF5's native in-memory element layout for the integer
// types this filter handles.
var byteOrder = endian.GetLittleEndianEngine()

// FilterID is the registered HDF5 filter id for "TERSE".
const FilterID = 32029

// FilterName is the symbolic name HDF5 registers the filter under.
const FilterName = "TERSE"

// DefaultChunkSize is the default number of elements per sub-chunk,
// matching the original plugin's TERSE_DEFAULT_CHUNK_SIZE.
const DefaultChunkSize = 1 << 18

// FlagReverse mirrors HDF5's H5Z_FLAG_REVERSE: when set, TerseFilter
// decompresses instead of compressing.
const FlagReverse uint32 = 0x0001

// TypeCode names the element type carried in cd_values[0].
type TypeCode uint32

const (
	TypeInt16 TypeCode = iota
	TypeUint16
	TypeInt32
	TypeUint32
	TypeInt8
	TypeUint8
)

func (t TypeCode) shape() (prolixBits int, signed bool, ok bool) {
	switch t {
	case TypeInt16:
		return 16, true, true
	case TypeUint16:
		return 16, false, true
	case TypeInt32:
		return 32, true, true
	case TypeUint32:
		return 32, false, true
	case TypeInt8:
		return 8, true, true
	case TypeUint8:
		return 8, false, true
	default:
		return 0, false, false
	}
}

// TerseFilter runs the filter in the direction flags indicates: compress
// (the default) or decompress (FlagReverse set). cdValues must carry at
// least one element, cdValues[0] naming the dataset's element type.
func TerseFilter(flags uint32, cdValues []uint32, buf []byte) ([]byte, error) {
	if len(cdValues) == 0 {
		return nil, fmt.Errorf("%w: cd_values is empty", errs.ErrInvalidArgument)
	}

	code := TypeCode(cdValues[0])
	prolixBits, signed, ok := code.shape()
	if !ok {
		return nil, fmt.Errorf("%w: unsupported type code %d", errs.ErrInvalidArgument, cdValues[0])
	}

	if flags&FlagReverse != 0 {
		return decompress(prolixBits, signed, buf)
	}

	return compress(prolixBits, signed, buf)
}

func elementWidth(prolixBits int) int { return prolixBits / 8 }

// compress splits buf's elements into a container of equal-sized
// DefaultChunkSize sub-chunks plus one tail container holding whatever
// remains, matching hdf5_buffer_to_terse's strict loop condition:
// the loop stops as soon as at most one full chunk remains, so
// the tail frame can itself be as large as a full chunk (e.g. an exactly
// divisible buffer leaves its last chunk as the tail rather than emitting
// it as just another equal-sized chunk).
func compress(prolixBits int, signed bool, buf []byte) ([]byte, error) {
	width := elementWidth(prolixBits)
	if width == 0 || len(buf)%width != 0 {
		return nil, fmt.Errorf("%w: buffer length %d not a multiple of element width %d", errs.ErrInvalidArgument, len(buf), width)
	}
	n := len(buf) / width

	chunks := container.New(prolixBits, wireformat.DefaultBlock)
	tail := container.New(prolixBits, wireformat.DefaultBlock)

	pos := 0
	for pos+DefaultChunkSize < n {
		if err := pushFrame(chunks, buf, pos, DefaultChunkSize, width, signed); err != nil {
			return nil, err
		}
		pos += DefaultChunkSize
	}
	if err := pushFrame(tail, buf, pos, n-pos, width, signed); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if _, err := chunks.Write(&out); err != nil {
		return nil, err
	}
	if _, err := tail.Write(&out); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

// decompress parses the two concatenated containers compress produced and
// materializes their decoded values back into one contiguous raw buffer.
func decompress(prolixBits int, signed bool, buf []byte) ([]byte, error) {
	chunks, consumed, err := container.Read(buf)
	if err != nil {
		return nil, err
	}

	rest := buf[consumed:]
	var tail *container.Container
	if len(rest) > 0 {
		tail, _, err = container.Read(rest)
		if err != nil {
			return nil, err
		}
	} else {
		tail = container.New(prolixBits, wireformat.DefaultBlock)
	}

	width := elementWidth(prolixBits)
	totalElems := chunks.Len()*chunks.Size() + tail.Len()*tail.Size()
	out := make([]byte, totalElems*width)

	off := 0
	for _, c := range []*container.Container{chunks, tail} {
		for i := 0; i < c.Len(); i++ {
			n, err := decodeFrameInto(c, i, out[off:], width, signed)
			if err != nil {
				return nil, err
			}
			off += n
		}
	}

	return out, nil
}

func pushFrame(c *container.Container, buf []byte, startElem, count, width int, signed bool) error {
	if signed {
		vals := make([]int64, count)
		for i := 0; i < count; i++ {
			v, err := endian.ReadSigned(byteOrder, buf, (startElem+i)*width, width)
			if err != nil {
				return err
			}
			vals[i] = v
		}
		return c.PushBackSigned(vals)
	}

	vals := make([]uint64, count)
	for i := 0; i < count; i++ {
		v, err := endian.ReadUnsigned(byteOrder, buf, (startElem+i)*width, width)
		if err != nil {
			return err
		}
		vals[i] = v
	}

	return c.PushBackUnsigned(vals, chooseMode(vals))
}

func decodeFrameInto(c *container.Container, idx int, out []byte, width int, signed bool) (int, error) {
	if signed {
		vals, err := c.ProlixSigned(idx)
		if err != nil {
			return 0, err
		}
		for i, v := range vals {
			if err := endian.WriteSigned(byteOrder, out, i*width, width, v); err != nil {
				return 0, err
			}
		}
		return len(vals) * width, nil
	}

	vals, _, err := c.ProlixUnsigned(idx)
	if err != nil {
		return 0, err
	}
	for i, v := range vals {
		if err := endian.WriteUnsigned(byteOrder, out, i*width, width, v); err != nil {
			return 0, err
		}
	}

	return len(vals) * width, nil
}

// chooseMode picks the Small-Unsigned mode for a frame whose values are
// all small (cheap weak-block packing pays off), and Unsigned otherwise.
// Either mode is lossless for any value within prolixBits; this only
// affects compression ratio.
func chooseMode(vals []uint64) wireformat.Mode {
	for _, v := range vals {
		if v >= 7 {
			return wireformat.ModeUnsigned
		}
	}

	return wireformat.ModeSmallUnsigned
}
