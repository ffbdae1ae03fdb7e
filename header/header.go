// Package header serializes and parses the XML-shaped prelude that precedes
// a container's metadata and frame payloads on the wire (§6.1): a single
// self-closing "<Terse .../>" element carrying the container's shape and
// layout as attributes.
package header

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/terse-codec/terse/errs"
)

// Header is the parsed form of the "<Terse .../>" element.
type Header struct {
	ProlixBits     int
	Signed         bool
	Block          int
	NumberOfValues int
	NumberOfFrames int
	MemorySize     int

	// Dimensions is the per-frame shape; empty when the container carries
	// no explicit dim().
	Dimensions []int

	// MetadataSizes gives the byte length of each frame's metadata string,
	// in frame order. Nil when the attribute is absent; Encode omits it
	// only when this slice is empty.
	MetadataSizes []int

	// FrameSizes gives the byte length of each frame's payload, in frame
	// order. Nil when the writer chose to omit it, in which case a reader
	// must recover per-frame boundaries by bit-accurate re-parse of the
	// payload area.
	FrameSizes []int
}

// wireElement mirrors the on-wire attribute set; encoding/xml marshals and
// unmarshals it directly, since every field is a plain scalar attribute.
type wireElement struct {
	XMLName xml.Name `xml:"Terse"`

	ProlixBits     uint64 `xml:"prolix_bits,attr"`
	Signed         uint8  `xml:"signed,attr"`
	Block          uint64 `xml:"block,attr"`
	NumberOfValues uint64 `xml:"number_of_values,attr"`
	NumberOfFrames uint64 `xml:"number_of_frames,attr"`
	MemorySize     uint64 `xml:"memory_size,attr"`

	Dimensions           string `xml:"dimensions,attr,omitempty"`
	MetadataStringSizes  string `xml:"metadata_string_sizes,attr,omitempty"`
	MemorySizesOfFrames  string `xml:"memory_sizes_of_frames,attr,omitempty"`
}

// Encode renders h as the wire-format "<Terse .../>" element.
//
// encoding/xml's Marshal does not emit a self-closing tag for an element
// with no character data (it writes "<Terse ...></Terse>"), so Encode
// collapses that empty-body closing pair into "/>" itself rather than
// hand-rolling attribute serialization.
func Encode(h Header) ([]byte, error) {
	we := wireElement{
		ProlixBits:     uint64(h.ProlixBits),
		Block:          uint64(h.Block),
		NumberOfValues: uint64(h.NumberOfValues),
		NumberOfFrames: uint64(h.NumberOfFrames),
		MemorySize:     uint64(h.MemorySize),
	}
	if h.Signed {
		we.Signed = 1
	}

	if len(h.Dimensions) > 0 {
		we.Dimensions = joinInts(h.Dimensions)
	}
	if len(h.MetadataSizes) > 0 {
		we.MetadataStringSizes = joinInts(h.MetadataSizes)
	}
	if len(h.FrameSizes) > 0 {
		we.MemorySizesOfFrames = joinInts(h.FrameSizes)
	}

	body, err := xml.Marshal(we)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal header: %v", errs.ErrCorruptHeader, err)
	}

	const openClose = "></Terse>"
	if strings.HasSuffix(string(body), openClose) {
		body = append(body[:len(body)-len(openClose)], "/>"...)
	}

	return body, nil
}

// Decode parses a "<Terse .../>" element from the start of buf and returns
// the parsed Header along with the number of bytes consumed.
func Decode(buf []byte) (Header, int, error) {
	dec := xml.NewDecoder(strings.NewReader(string(buf)))

	var we wireElement
	if err := dec.Decode(&we); err != nil {
		return Header{}, 0, fmt.Errorf("%w: parse header: %v", errs.ErrCorruptHeader, err)
	}

	h := Header{
		ProlixBits:     int(we.ProlixBits),
		Signed:         we.Signed != 0,
		Block:          int(we.Block),
		NumberOfValues: int(we.NumberOfValues),
		NumberOfFrames: int(we.NumberOfFrames),
		MemorySize:     int(we.MemorySize),
	}

	var err error
	if h.Dimensions, err = splitInts(we.Dimensions); err != nil {
		return Header{}, 0, fmt.Errorf("%w: dimensions: %v", errs.ErrCorruptHeader, err)
	}
	if h.MetadataSizes, err = splitInts(we.MetadataStringSizes); err != nil {
		return Header{}, 0, fmt.Errorf("%w: metadata_string_sizes: %v", errs.ErrCorruptHeader, err)
	}
	if h.FrameSizes, err = splitInts(we.MemorySizesOfFrames); err != nil {
		return Header{}, 0, fmt.Errorf("%w: memory_sizes_of_frames: %v", errs.ErrCorruptHeader, err)
	}

	return h, int(dec.InputOffset()), nil
}

func joinInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}

	return strings.Join(parts, " ")
}

func splitInts(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}

	fields := strings.Fields(s)
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}
