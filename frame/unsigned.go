package frame

import (
	"fmt"

	"github.com/terse-codec/terse/bitio"
	"github.com/terse-codec/terse/errs"
	"github.com/terse-codec/terse/internal/pool"
	"github.com/terse-codec/terse/wireformat"
)

// encodeUnsigned implements the Unsigned mode payload (§4.4.2): the same
// per-block significant-bits header as Signed mode, but over plain
// magnitude rather than two's complement, with a mask-expansion pass for
// any block that contains the widest possible value (an "overload").
func encodeUnsigned(w *bitio.Writer, values []uint64, prolixBits, block int) {
	w.Push(wireformat.ModeTagBits, wireformat.UnsignedTag)

	sPrev := 0
	sMaskPrev := 0
	prolixMask := maskU(prolixBits)

	for from := 0; from < len(values); from += block {
		to := from + block
		if to > len(values) {
			to = len(values)
		}
		chunk := values[from:to]

		s := msb(maxUint64(chunk))
		writeSBits(w, s, sPrev)
		sPrev = s

		if s == prolixBits {
			inc := make([]uint64, len(chunk))
			for i, v := range chunk {
				inc[i] = (v + 1) & prolixMask
			}

			sMask := msb(maxUint64(inc))
			writeSBits(w, sMask, sMaskPrev)
			sMaskPrev = sMask

			for _, v := range inc {
				w.Push(sMask, v)
			}

			continue
		}

		for _, v := range chunk {
			w.Push(s, v)
		}
	}
}

func decodeUnsigned(r *bitio.Reader, out []uint64, prolixBits, block int) error {
	sPrev := 0
	sMaskPrev := 0
	prolixMask := maskU(prolixBits)

	for from := 0; from < len(out); from += block {
		to := from + block
		if to > len(out) {
			to = len(out)
		}

		s := readSBits(r, sPrev)
		if s < 0 || s > 64 {
			return fmt.Errorf("%w: unsigned block width %d out of range", errs.ErrCorruptPayload, s)
		}
		sPrev = s

		if s == prolixBits {
			sMask := readSBits(r, sMaskPrev)
			if sMask < 0 || sMask > 64 {
				return fmt.Errorf("%w: unsigned mask block width %d out of range", errs.ErrCorruptPayload, sMask)
			}
			sMaskPrev = sMask

			for i := from; i < to; i++ {
				v := r.PopU(sMask)
				out[i] = (v - 1) & prolixMask
			}

			continue
		}

		for i := from; i < to; i++ {
			out[i] = r.PopU(s)
		}
	}

	return nil
}

// EncodeUnsigned packs values (each within [0, 2^prolixBits)) into an
// Unsigned-mode frame payload.
func EncodeUnsigned(values []uint64, prolixBits, block int) []byte {
	buf := pool.Get()
	w := bitio.NewWriter(buf)

	encodeUnsigned(w, values, prolixBits, block)
	w.Finish()

	out := make([]byte, w.BytesWritten())
	copy(out, w.Buffer().Bytes())
	pool.Put(buf)

	return out
}

// DecodeUnsigned decodes an Unsigned-mode payload, including its leading
// 18-bit mode tag, into out.
func DecodeUnsigned(payload []byte, prolixBits, block int, out []uint64) error {
	r := bitio.NewReader(payload)
	r.Skip(wireformat.ModeTagBits)

	return decodeUnsigned(r, out, prolixBits, block)
}
