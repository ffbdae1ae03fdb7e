// Package wireformat defines the wire-level constants shared by the frame,
// container, hdf5filter and cmd/terse packages: encoding modes, their 18-bit
// tags, and the bounds on block size and value width. ValidBlock and
// ValidProlixBits are predicates only; the container does not call them.
package wireformat

// Mode selects which of the three FrameEncoder/FrameDecoder algorithms a
// frame payload was packed with.
type Mode uint8

const (
	// ModeSigned packs signed data with a per-block significant-bits header
	// (§4.4.1). It is the legacy-compatible mode: its payloads do not start
	// with either of the other two modes' 18-bit tags.
	ModeSigned Mode = iota

	// ModeUnsigned packs unsigned data, applying a mask-expansion pass
	// (§4.4.2) to blocks that contain an "all-ones" overload value.
	ModeUnsigned

	// ModeSmallUnsigned packs small, sparse unsigned data (many zeros,
	// dense overload runs) with a capped block size and a compact
	// weak/strong header scheme (§4.4.3).
	ModeSmallUnsigned
)

func (m Mode) String() string {
	switch m {
	case ModeSigned:
		return "Signed"
	case ModeUnsigned:
		return "Unsigned"
	case ModeSmallUnsigned:
		return "SmallUnsigned"
	default:
		return "Unknown"
	}
}

const (
	// ModeTagBits is the width, in bits, of the mode tag every payload
	// begins with conceptually. A Signed payload's first 18 bits are
	// already part of its first block header rather than a dedicated tag;
	// see ModeTagBits' use in frame.DetectMode.
	ModeTagBits = 18

	// UnsignedTag is the 18-bit prefix that identifies an Unsigned-mode
	// payload. Chosen so that it can never be produced as the leading 18
	// bits of a Signed payload (see frame's encodeSigned for the
	// disambiguation argument and frame's property test enforcing it).
	UnsignedTag uint64 = 0b111111111111111000

	// SmallUnsignedTag is the 18-bit prefix that identifies a
	// Small-Unsigned-mode payload.
	SmallUnsignedTag uint64 = 0b111111111111111100
)

// DefaultBlock is the default number of values grouped per encoding block
// in Signed and Unsigned modes.
const DefaultBlock = 12

// MinBlock and MaxBlock bound the configurable block size.
const (
	MinBlock = 8
	MaxBlock = 64
)

// SmallUnsignedMaxBlock caps the working block size used by Small-Unsigned
// mode, regardless of the container's configured block size.
const SmallUnsignedMaxBlock = 24

// ValidProlixBits reports whether bits is one of the four supported
// original value widths.
func ValidProlixBits(bits int) bool {
	switch bits {
	case 8, 16, 32, 64:
		return true
	default:
		return false
	}
}

// ValidBlock reports whether block is within the container's supported
// range.
func ValidBlock(block int) bool {
	return block >= MinBlock && block <= MaxBlock
}

func smallUnsignedBlock(containerBlock int) int {
	if containerBlock > SmallUnsignedMaxBlock {
		return SmallUnsignedMaxBlock
	}

	return containerBlock
}

// SmallUnsignedBlock returns the working block size Small-Unsigned mode
// uses for a container configured with the given block size: the
// container's block, capped at SmallUnsignedMaxBlock.
func SmallUnsignedBlock(containerBlock int) int {
	return smallUnsignedBlock(containerBlock)
}
