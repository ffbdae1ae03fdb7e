// Package errs defines the sentinel errors returned across the terse module.
//
// Callers should match against these sentinels with errors.Is rather than
// comparing error strings, since call sites typically wrap a sentinel with
// fmt.Errorf("%w: ...", errs.ErrXxx, ...) to attach contextual detail.
package errs

import "errors"

var (
	// ErrShapeMismatch is returned when a frame's value count does not match
	// the container's fixed size, or dimensions are inconsistent with it.
	ErrShapeMismatch = errors.New("terse: shape mismatch")

	// ErrSignednessMismatch is returned when inserting signed data into an
	// unsigned container, or vice versa.
	ErrSignednessMismatch = errors.New("terse: signedness mismatch")

	// ErrModeConflict is returned when signed data is encoded with any mode
	// other than Signed.
	ErrModeConflict = errors.New("terse: mode conflict")

	// ErrNarrowingPop is returned when a decode destination is narrower than
	// the container's prolix_bits.
	ErrNarrowingPop = errors.New("terse: narrowing pop")

	// ErrSignedIntoUnsigned is returned when popping a signed payload into an
	// unsigned destination.
	ErrSignedIntoUnsigned = errors.New("terse: signed payload into unsigned destination")

	// ErrIndexOutOfRange is returned by insert/at/erase when pos is invalid.
	ErrIndexOutOfRange = errors.New("terse: index out of range")

	// ErrStreamIO is returned on read/write underflow or overflow against a
	// byte stream.
	ErrStreamIO = errors.New("terse: stream I/O failure")

	// ErrAllocation is returned when an output buffer cannot be grown or
	// allocated.
	ErrAllocation = errors.New("terse: allocation failure")

	// ErrCorruptPayload is returned when a header delta implies a negative
	// significant-bits value, or the bit stream is exhausted mid-block.
	ErrCorruptPayload = errors.New("terse: corrupt payload")

	// ErrCorruptHeader is returned when the XML-shaped container header is
	// malformed or missing a required attribute.
	ErrCorruptHeader = errors.New("terse: corrupt header")

	// ErrInvalidArgument is returned for malformed caller input that does not
	// fit any of the more specific categories above (e.g. an HDF5 cd_values
	// array naming an unsupported type code).
	ErrInvalidArgument = errors.New("terse: invalid argument")
)
