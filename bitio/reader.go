package bitio

import "encoding/binary"

// Reader consumes variable-width bit-fields from a byte slice in the same
// order a Writer appended them.
//
// Unlike Writer, Reader operates directly on a read-only []byte: payloads
// are trimmed to their exact bit length by the encoder and are never
// padded to an 8-byte boundary, so Reader tolerates a final partial word
// by zero-extending it in memory rather than requiring the slice itself
// to be aligned.
type Reader struct {
	buf    []byte
	cursor int // byte offset of the word currently loaded in acc
	acc    uint64
	nbits  int // number of valid, not-yet-consumed low bits in acc
}

// NewReader preloads the first 8 bytes of buf (zero-extended if buf is
// shorter) into the accumulator.
func NewReader(buf []byte) *Reader {
	r := &Reader{buf: buf}
	r.acc = loadWord(buf, 0)
	r.nbits = 64

	return r
}

// Rewind resets the Reader to the beginning of its buffer, as used when a
// decoder must re-read the 18-bit mode tag after determining the payload
// is Signed-mode.
func (r *Reader) Rewind() {
	r.cursor = 0
	r.acc = loadWord(r.buf, 0)
	r.nbits = 64
}

func loadWord(buf []byte, offset int) uint64 {
	if offset < 0 || offset >= len(buf) {
		return 0
	}

	if offset+8 <= len(buf) {
		return binary.LittleEndian.Uint64(buf[offset : offset+8])
	}

	var tmp [8]byte
	copy(tmp[:], buf[offset:])

	return binary.LittleEndian.Uint64(tmp[:])
}

// PopU consumes the low width bits of the stream and zero-extends them.
// width must be in [0,64]; width == 0 returns 0 without consuming.
func (r *Reader) PopU(width int) uint64 {
	if width == 0 {
		return 0
	}

	if width <= r.nbits {
		result := r.acc & mask(width)
		r.acc >>= uint(width)
		r.nbits -= width

		if r.nbits == 0 {
			r.cursor += 8
			r.acc = loadWord(r.buf, r.cursor)
			r.nbits = 64
		}

		return result
	}

	lowBits := r.nbits
	low := r.acc

	r.cursor += 8
	next := loadWord(r.buf, r.cursor)

	needed := width - lowBits
	high := next & mask(needed)
	result := low | (high << uint(lowBits))

	r.acc = next >> uint(needed)
	r.nbits = 64 - needed

	return result
}

// PopS consumes the low width bits and sign-extends from bit (width-1) into
// an int64. When width equals 64, the bit pattern is returned verbatim
// (sign-extending from the type's own top bit is a no-op).
func (r *Reader) PopS(width int) int64 {
	raw := r.PopU(width)
	if width == 0 || width >= 64 {
		return int64(raw)
	}

	shift := uint(64 - width)

	return int64(raw<<shift) >> shift
}

// PopSeqU fills out with len(out) unsigned values of width bits each.
func (r *Reader) PopSeqU(width int, out []uint64) {
	for i := range out {
		out[i] = r.PopU(width)
	}
}

// PopSeqS fills out with len(out) signed values of width bits each.
func (r *Reader) PopSeqS(width int, out []int64) {
	for i := range out {
		out[i] = r.PopS(width)
	}
}

// Skip advances the stream by width bits without materializing them.
// Unlike Push/PopU, width may exceed 64; Skip advances the cursor and
// rebuffers as many times as necessary.
func (r *Reader) Skip(width int) {
	for width > 0 {
		n := width
		if n > 64 {
			n = 64
		}

		r.PopU(n)
		width -= n
	}
}

// BitPos returns the current bit position within the stream, i.e. the
// number of bits already consumed. Used by callers (e.g.
// frame.FrameByteLength) that need to know precisely how far the reader
// has advanced.
func (r *Reader) BitPos() int {
	return r.cursor*8 + (64 - r.nbits)
}
