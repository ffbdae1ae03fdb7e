// Package frame implements the per-frame codec (spec components C4/C5): a
// FrameEncoder/FrameDecoder pair compressing one fixed-size sequence of
// integers under one of three modes (Signed, Unsigned, Small-Unsigned),
// using bitio as its bit-level primitive.
//
// Every payload produced by an Unsigned or Small-Unsigned encoder begins
// with an 18-bit mode tag (wireformat.UnsignedTag / SmallUnsignedTag).
// Signed payloads carry no tag of their own; their leading 18 bits are
// simply the first block's ordinary header, constructed so that it can
// never collide with either tag (see the Signed-mode encoders' width
// selection and the corresponding property test).
package frame

import (
	"fmt"

	"github.com/terse-codec/terse/bitio"
	"github.com/terse-codec/terse/errs"
	"github.com/terse-codec/terse/wireformat"
)

// DetectMode inspects the leading 18 bits of payload and reports which
// encoder produced it, per §4.3's auto-detection rule. An empty payload is
// reported as Signed (the representation of a zero-length frame).
func DetectMode(payload []byte) wireformat.Mode {
	if len(payload) == 0 {
		return wireformat.ModeSigned
	}

	r := bitio.NewReader(payload)
	switch r.PopU(wireformat.ModeTagBits) {
	case wireformat.UnsignedTag:
		return wireformat.ModeUnsigned
	case wireformat.SmallUnsignedTag:
		return wireformat.ModeSmallUnsigned
	default:
		return wireformat.ModeSigned
	}
}

// DecodeSignedFrame decodes a payload known to belong to a signed
// container. It fails with ErrCorruptPayload if the payload's leading bits
// happen to match one of the unsigned mode tags, which a correctly
// operating Signed encoder never produces.
func DecodeSignedFrame(payload []byte, size, block int) ([]int64, error) {
	if mode := DetectMode(payload); mode != wireformat.ModeSigned {
		return nil, fmt.Errorf("%w: signed frame payload carries a %s tag", errs.ErrCorruptPayload, mode)
	}

	out := make([]int64, size)
	if err := DecodeSigned(payload, block, out); err != nil {
		return nil, err
	}

	return out, nil
}

// FrameByteLength reports how many bytes of payload a frame of size values
// actually consumes, by performing one throwaway decode and reading the
// reader's final bit position. It is used to recover per-frame boundaries
// in a concatenated payload area when a container's header omits explicit
// per-frame byte lengths (§6.1's "bit-accurate re-parse" fallback).
func FrameByteLength(payload []byte, size, prolixBits, block int) (int, wireformat.Mode, error) {
	mode := DetectMode(payload)
	r := bitio.NewReader(payload)

	switch mode {
	case wireformat.ModeSigned:
		out := make([]int64, size)
		if err := decodeSigned(r, out, block); err != nil {
			return 0, mode, err
		}
	case wireformat.ModeUnsigned:
		r.Skip(wireformat.ModeTagBits)
		out := make([]uint64, size)
		if err := decodeUnsigned(r, out, prolixBits, block); err != nil {
			return 0, mode, err
		}
	case wireformat.ModeSmallUnsigned:
		r.Skip(wireformat.ModeTagBits)
		out := make([]uint64, size)
		if err := decodeSmallUnsigned(r, out, prolixBits, block); err != nil {
			return 0, mode, err
		}
	}

	return (r.BitPos() + 7) / 8, mode, nil
}

// DecodeUnsignedFrame decodes a payload known to belong to an unsigned
// container, auto-detecting whether it was packed as Unsigned or
// Small-Unsigned.
func DecodeUnsignedFrame(payload []byte, size, prolixBits, block int) ([]uint64, wireformat.Mode, error) {
	mode := DetectMode(payload)
	out := make([]uint64, size)

	switch mode {
	case wireformat.ModeUnsigned:
		if err := DecodeUnsigned(payload, prolixBits, block, out); err != nil {
			return nil, mode, err
		}
	case wireformat.ModeSmallUnsigned:
		if err := DecodeSmallUnsigned(payload, prolixBits, block, out); err != nil {
			return nil, mode, err
		}
	default:
		return nil, mode, fmt.Errorf("%w: unsigned frame payload carries no mode tag", errs.ErrCorruptPayload)
	}

	return out, mode, nil
}
