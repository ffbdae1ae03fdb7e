package frame

import (
	"fmt"

	"github.com/terse-codec/terse/bitio"
	"github.com/terse-codec/terse/errs"
	"github.com/terse-codec/terse/internal/pool"
)

// encodeSigned implements the Signed mode payload (§4.4.1): a sequence of
// blocks, each a prefix-coded significant-bits header followed by that
// many two's-complement bits per value. Signed payloads carry no explicit
// mode tag; their first 18 bits are the first block's header and values.
//
// A first-block header announcing s=4 or s=6 (bits 0,0,0,1 or 0,0,1,1)
// matches the first four bits of UnsignedTag or SmallUnsignedTag, and the
// values that follow can complete the tag, so the first block is widened
// by one bit in those two cases; every other first header already differs
// from both tags within its first four bits.
func encodeSigned(w *bitio.Writer, values []int64, block int) {
	sPrev := 0

	for from := 0; from < len(values); from += block {
		to := from + block
		if to > len(values) {
			to = len(values)
		}
		chunk := values[from:to]

		s := 0
		for _, v := range chunk {
			if b := signedBits(v); b > s {
				s = b
			}
		}
		if from == 0 && (s == 4 || s == 6) {
			s++
		}

		writeSBits(w, s, sPrev)
		for _, v := range chunk {
			w.Push(s, uint64(v))
		}
		sPrev = s
	}
}

// decodeSigned consumes a Signed payload into out, which must already be
// sized to the frame's value count.
func decodeSigned(r *bitio.Reader, out []int64, block int) error {
	sPrev := 0

	for from := 0; from < len(out); from += block {
		to := from + block
		if to > len(out) {
			to = len(out)
		}

		s := readSBits(r, sPrev)
		if s < 0 || s > 64 {
			return fmt.Errorf("%w: signed block width %d out of range", errs.ErrCorruptPayload, s)
		}

		for i := from; i < to; i++ {
			out[i] = r.PopS(s)
		}
		sPrev = s
	}

	return nil
}

// EncodeSigned packs values (interpreted two's-complement, matching
// prolixBits) into a Signed-mode frame payload.
func EncodeSigned(values []int64, block int) []byte {
	buf := pool.Get()
	w := bitio.NewWriter(buf)

	encodeSigned(w, values, block)
	w.Finish()

	out := make([]byte, w.BytesWritten())
	copy(out, w.Buffer().Bytes())
	pool.Put(buf)

	return out
}

// DecodeSigned decodes a Signed-mode payload into out.
func DecodeSigned(payload []byte, block int, out []int64) error {
	r := bitio.NewReader(payload)
	return decodeSigned(r, out, block)
}
