package frame

import (
	"fmt"

	"github.com/terse-codec/terse/bitio"
	"github.com/terse-codec/terse/errs"
	"github.com/terse-codec/terse/internal/pool"
	"github.com/terse-codec/terse/wireformat"
)

// encodeWeakDelta writes the weak-block delta prefix (§4.4.3) when maxV can
// be expressed relative to maxPrev, reporting false when the caller must
// fall back to the shared escape in writeSmallUnsignedEscape.
//
// maxPrev == 0 still uses the full delta table, including the 2-bit
// "max == max_prev + 1" code: its leading bit is the low bit of the 2-bit
// value pushed (0b10 pushes low-to-high, so bit 0 is 0), which never
// matches the all-1s leading bit of the 1-bit "max == 0" shortcut, so the
// two don't collide.
func encodeWeakDelta(w *bitio.Writer, maxV, maxPrev int) bool {
	if maxPrev == 0 {
		switch maxV {
		case 0:
			w.Push(1, 0b1)
		case 1:
			w.Push(2, 0b10)
		default:
			return false
		}
		return true
	}

	switch {
	case maxV == maxPrev:
		w.Push(2, 0b11)
	case maxPrev == 6 && maxV == 4:
		w.Push(2, 0b10)
	case maxV == maxPrev+1:
		w.Push(2, 0b10)
	case maxV != 6 && maxV == maxPrev-1:
		w.Push(2, 0b01)
	default:
		return false
	}

	return true
}

// writeSmallUnsignedEscape writes the shared "00"-prefixed fallback
// (§4.4.3). A weak escape is a literal 3-bit max in [0,6]; a strong escape
// is the fixed 3-bit marker 0b111 followed by one or two more optional
// 0b111 escalation markers and a final offset. Since a weak max can never
// reach 7, a decoder reading this same prefix with no other context can
// tell the two apart by that value alone: see decodeSmallUnsignedEscape.
func writeSmallUnsignedEscape(w *bitio.Writer, weak bool, value int) {
	w.Push(2, 0b00)

	if weak {
		w.Push(3, uint64(value))
		return
	}

	w.Push(3, 0b111)
	if value < 10 {
		w.Push(3, uint64(value-3))
		return
	}

	w.Push(3, 0b111)
	if value < 17 {
		w.Push(3, uint64(value-10))
		return
	}

	w.Push(3, 0b111)
	w.Push(6, uint64(value-17))
}

// decodeSmallUnsignedEscape reads the escape body written by
// writeSmallUnsignedEscape, after its "00" prefix has already been
// consumed, and reports which regime it belongs to.
func decodeSmallUnsignedEscape(r *bitio.Reader) (weak bool, value int) {
	m1 := int(r.PopU(3))
	if m1 != 0b111 {
		return true, m1
	}

	m2 := int(r.PopU(3))
	if m2 != 0b111 {
		return false, 3 + m2
	}

	m3 := int(r.PopU(3))
	if m3 != 0b111 {
		return false, 10 + m3
	}

	return false, 17 + int(r.PopU(6))
}

// encodeSmallUnsignedHeader writes one block's weak- or strong-block
// header (§4.4.3): a delta against whichever of maxPrev/sPrev matches the
// previous block's own regime when that regime continues, the shared
// escape otherwise. No bit announces which table was used; decode
// recovers it from prevWeak plus, on an escape, the value partition in
// decodeSmallUnsignedEscape.
func encodeSmallUnsignedHeader(w *bitio.Writer, weak bool, value int, prevWeak bool, maxPrev, sPrev int) {
	if weak && prevWeak {
		if encodeWeakDelta(w, value, maxPrev) {
			return
		}
		writeSmallUnsignedEscape(w, true, value)
		return
	}

	if !weak && !prevWeak {
		switch {
		case value == sPrev:
			w.Push(2, 0b11)
			return
		case value == sPrev+1:
			w.Push(2, 0b10)
			return
		case value == sPrev-1:
			w.Push(2, 0b01)
			return
		}
	}

	writeSmallUnsignedEscape(w, weak, value)
}

// decodeSmallUnsignedHeader reads the header written by
// encodeSmallUnsignedHeader. prevWeak selects which delta table applies
// to a 2-bit "11"/"10"/"01" code; it does not need to know the upcoming
// block's own regime, since a transition between regimes always takes the
// shared escape rather than a delta code (encodeSmallUnsignedHeader emits
// a delta code only when the previous block had the same regime).
func decodeSmallUnsignedHeader(r *bitio.Reader, prevWeak bool, maxPrev, sPrev int) (weak bool, value int) {
	if prevWeak {
		if maxPrev == 0 {
			if r.PopU(1) == 1 {
				return true, 0
			}
			if r.PopU(1) == 1 {
				return true, 1
			}
			return decodeSmallUnsignedEscape(r)
		}

		switch r.PopU(2) {
		case 0b11:
			return true, maxPrev
		case 0b10:
			if maxPrev == 6 {
				return true, 4
			}
			return true, maxPrev + 1
		case 0b01:
			return true, maxPrev - 1
		default:
			return decodeSmallUnsignedEscape(r)
		}
	}

	switch r.PopU(2) {
	case 0b11:
		return false, sPrev
	case 0b10:
		return false, sPrev + 1
	case 0b01:
		return false, sPrev - 1
	default:
		return decodeSmallUnsignedEscape(r)
	}
}

func encodeWeakPayload(w *bitio.Writer, vals []uint64, maxV int) {
	switch maxV {
	case 0:
		return
	case 1:
		for _, v := range vals {
			w.Push(1, v)
		}
	case 3:
		for _, v := range vals {
			w.Push(2, v)
		}
	default:
		packRadix(w, vals, uint64(maxV)+1)
	}
}

func decodeWeakPayload(r *bitio.Reader, out []uint64, maxV int) {
	switch maxV {
	case 0:
		for i := range out {
			out[i] = 0
		}
	case 1:
		for i := range out {
			out[i] = r.PopU(1)
		}
	case 3:
		for i := range out {
			out[i] = r.PopU(2)
		}
	default:
		unpackRadix(r, out, uint64(maxV)+1)
	}
}

func encodeStrongPayload(w *bitio.Writer, vals []uint64, s int) {
	for _, v := range vals {
		w.Push(s, v)
	}
}

func decodeStrongPayload(r *bitio.Reader, out []uint64, s int) {
	for i := range out {
		out[i] = r.PopU(s)
	}
}

func containsOverload(vals []uint64, prolixMask uint64) bool {
	for _, v := range vals {
		if v == prolixMask {
			return true
		}
	}
	return false
}

func incrementBlock(vals []uint64, prolixMask uint64) []uint64 {
	out := make([]uint64, len(vals))
	for i, v := range vals {
		out[i] = (v + 1) & prolixMask
	}
	return out
}

func decrementBlock(vals []uint64, prolixMask uint64) {
	for i, v := range vals {
		vals[i] = (v - 1) & prolixMask
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// encodeSmallUnsigned implements the Small-Unsigned mode payload
// (§4.4.3): weak/strong blocks capped at wireformat.SmallUnsignedMaxBlock,
// plus the masked sub-mode entered when a strong block's significant-bits
// value equals prolixBits.
//
// Weak and strong blocks share one header bitstream with no marker
// announcing which table produced it (§4.4.3's tables are read literally:
// a weak block's delta is relative to maxPrev, a strong block's to sPrev).
// prevWeak carries which table continues a delta code; a regime change
// always falls through to the shared escape, which a decoder partitions
// by value (weak maxes fit in [0,6], the literal 7 is reserved for a
// strong escape) rather than needing its own bit. See
// encodeSmallUnsignedHeader/decodeSmallUnsignedHeader.
func encodeSmallUnsigned(w *bitio.Writer, values []uint64, prolixBits, containerBlock int) {
	w.Push(wireformat.ModeTagBits, wireformat.SmallUnsignedTag)

	block := wireformat.SmallUnsignedBlock(containerBlock)
	prolixMask := maskU(prolixBits)
	sentinelMaxPrev := int(prolixMask >> 1)

	prevWeak := true
	maxPrev := 0
	sPrev := 0
	masked := false
	n := len(values)

	for from := 0; from < n; {
		to := minInt(from+block, n)
		raw := values[from:to]

		chunk := raw
		if masked {
			chunk = incrementBlock(raw, prolixMask)
		}

		maxV := maxUint64(chunk)
		weak := maxV < 7

		if weak {
			encodeSmallUnsignedHeader(w, true, int(maxV), prevWeak, maxPrev, sPrev)
			encodeWeakPayload(w, chunk, int(maxV))
			prevWeak, maxPrev = true, int(maxV)
			from = to
		} else {
			s := msb(maxV)
			encodeSmallUnsignedHeader(w, false, s, prevWeak, maxPrev, sPrev)
			prevWeak, sPrev = false, s

			if s == prolixBits && !masked {
				masked = true
				prevWeak, maxPrev = true, sentinelMaxPrev
				continue // re-process this same block, now masked
			}

			encodeStrongPayload(w, chunk, s)
			from = to
		}

		if masked {
			if from >= n {
				w.Push(1, 0)
				masked = false
				continue
			}

			nextTo := minInt(from+block, n)
			if containsOverload(values[from:nextTo], prolixMask) {
				w.Push(1, 1)
			} else {
				w.Push(1, 0)
				masked = false
			}
		}
	}
}

func decodeSmallUnsigned(r *bitio.Reader, out []uint64, prolixBits, containerBlock int) error {
	block := wireformat.SmallUnsignedBlock(containerBlock)
	prolixMask := maskU(prolixBits)
	sentinelMaxPrev := int(prolixMask >> 1)

	prevWeak := true
	maxPrev := 0
	sPrev := 0
	masked := false
	n := len(out)

	for from := 0; from < n; {
		to := minInt(from+block, n)
		l := to - from

		weak, value := decodeSmallUnsignedHeader(r, prevWeak, maxPrev, sPrev)

		if weak {
			tmp := make([]uint64, l)
			decodeWeakPayload(r, tmp, value)
			if masked {
				decrementBlock(tmp, prolixMask)
			}
			copy(out[from:to], tmp)

			prevWeak, maxPrev = true, value
			from = to
		} else {
			s := value
			if s < 0 || s > 64 {
				return fmt.Errorf("%w: small-unsigned block width %d out of range", errs.ErrCorruptPayload, s)
			}
			prevWeak, sPrev = false, s

			if s == prolixBits && !masked {
				masked = true
				prevWeak, maxPrev = true, sentinelMaxPrev
				continue
			}

			tmp := make([]uint64, l)
			decodeStrongPayload(r, tmp, s)
			if masked {
				decrementBlock(tmp, prolixMask)
			}
			copy(out[from:to], tmp)

			from = to
		}

		if masked {
			if from >= n {
				r.PopU(1)
				masked = false
				continue
			}

			if r.PopU(1) == 0 {
				masked = false
			}
		}
	}

	return nil
}

// EncodeSmallUnsigned packs values (each within [0, 2^prolixBits)) into a
// Small-Unsigned-mode frame payload.
func EncodeSmallUnsigned(values []uint64, prolixBits, containerBlock int) []byte {
	buf := pool.Get()
	w := bitio.NewWriter(buf)

	encodeSmallUnsigned(w, values, prolixBits, containerBlock)
	w.Finish()

	out := make([]byte, w.BytesWritten())
	copy(out, w.Buffer().Bytes())
	pool.Put(buf)

	return out
}

// DecodeSmallUnsigned decodes a Small-Unsigned-mode payload, including its
// leading 18-bit mode tag, into out.
func DecodeSmallUnsigned(payload []byte, prolixBits, containerBlock int, out []uint64) error {
	r := bitio.NewReader(payload)
	r.Skip(wireformat.ModeTagBits)

	return decodeSmallUnsigned(r, out, prolixBits, containerBlock)
}
