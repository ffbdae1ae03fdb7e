package endian

import "fmt"

// ReadSigned reads a two's-complement integer of the given byte width
// (1, 2, 4, or 8) out of buf at byteOff using engine's byte order.
func ReadSigned(engine EndianEngine, buf []byte, byteOff, width int) (int64, error) {
	switch width {
	case 1:
		return int64(int8(buf[byteOff])), nil
	case 2:
		return int64(int16(engine.Uint16(buf[byteOff:]))), nil
	case 4:
		return int64(int32(engine.Uint32(buf[byteOff:]))), nil
	case 8:
		return int64(engine.Uint64(buf[byteOff:])), nil
	default:
		return 0, fmt.Errorf("endian: unsupported element width %d", width)
	}
}

// ReadUnsigned reads an unsigned integer of the given byte width (1, 2, 4,
// or 8) out of buf at byteOff using engine's byte order.
func ReadUnsigned(engine EndianEngine, buf []byte, byteOff, width int) (uint64, error) {
	switch width {
	case 1:
		return uint64(buf[byteOff]), nil
	case 2:
		return uint64(engine.Uint16(buf[byteOff:])), nil
	case 4:
		return uint64(engine.Uint32(buf[byteOff:])), nil
	case 8:
		return engine.Uint64(buf[byteOff:]), nil
	default:
		return 0, fmt.Errorf("endian: unsupported element width %d", width)
	}
}

// WriteSigned stores v as a two's-complement integer of the given byte
// width into buf at byteOff using engine's byte order.
func WriteSigned(engine EndianEngine, buf []byte, byteOff, width int, v int64) error {
	switch width {
	case 1:
		buf[byteOff] = byte(int8(v))
	case 2:
		engine.PutUint16(buf[byteOff:], uint16(int16(v)))
	case 4:
		engine.PutUint32(buf[byteOff:], uint32(int32(v)))
	case 8:
		engine.PutUint64(buf[byteOff:], uint64(v))
	default:
		return fmt.Errorf("endian: unsupported element width %d", width)
	}

	return nil
}

// WriteUnsigned stores v as an unsigned integer of the given byte width
// into buf at byteOff using engine's byte order.
func WriteUnsigned(engine EndianEngine, buf []byte, byteOff, width int, v uint64) error {
	switch width {
	case 1:
		buf[byteOff] = byte(v)
	case 2:
		engine.PutUint16(buf[byteOff:], uint16(v))
	case 4:
		engine.PutUint32(buf[byteOff:], uint32(v))
	case 8:
		engine.PutUint64(buf[byteOff:], v)
	default:
		return fmt.Errorf("endian: unsupported element width %d", width)
	}

	return nil
}
