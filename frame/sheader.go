package frame

import "github.com/terse-codec/terse/bitio"

// writeSBits writes the prefix-coded significant-bits header shared by
// Signed mode (§4.4.1) and the main/secondary headers of Unsigned mode
// (§4.4.2): a 1-bit "same as previous" shortcut, otherwise an escalating
// escape sequence of 3, then 2, then 6 bits.
func writeSBits(w *bitio.Writer, s, sPrev int) {
	if s == sPrev {
		w.Push(1, 1)
		return
	}

	w.Push(1, 0)

	if s < 7 {
		w.Push(3, uint64(s))
		return
	}
	w.Push(3, 7)

	if s < 10 {
		w.Push(2, uint64(s-7))
		return
	}
	w.Push(2, 3)
	w.Push(6, uint64(s-10))
}

// readSBits is the symmetric decode of writeSBits.
func readSBits(r *bitio.Reader, sPrev int) int {
	if r.PopU(1) == 1 {
		return sPrev
	}

	v3 := r.PopU(3)
	if v3 < 7 {
		return int(v3)
	}

	v2 := r.PopU(2)
	if v2 < 3 {
		return 7 + int(v2)
	}

	v6 := r.PopU(6)
	return 10 + int(v6)
}
