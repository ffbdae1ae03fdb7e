package container

import (
	"fmt"
	"io"

	"github.com/terse-codec/terse/errs"
	"github.com/terse-codec/terse/frame"
	"github.com/terse-codec/terse/header"
)

// buildHeader assembles the wire-format header describing the container's
// current shape and frames (§6.1). FrameSizes is always populated from the
// payloads this Container itself holds, so a reader never needs to fall
// back to bit-accurate re-parsing for containers this package wrote.
func (c *Container) buildHeader() (header.Header, error) {
	h := header.Header{
		ProlixBits:     c.prolixBits,
		Signed:         c.signed,
		Block:          c.block,
		NumberOfValues: c.size,
		NumberOfFrames: len(c.frames),
		Dimensions:     c.dim,
	}

	frameSizes := make([]int, len(c.frames))
	metaSizes := make([]int, len(c.metadata))
	total := 0

	for i, s := range c.frames {
		payload, err := s.force()
		if err != nil {
			return header.Header{}, err
		}
		frameSizes[i] = len(payload)
		total += len(payload)
	}
	for i, m := range c.metadata {
		metaSizes[i] = len(m)
	}

	h.FrameSizes = frameSizes
	h.MetadataSizes = metaSizes
	h.MemorySize = total

	return h, nil
}

// Write serializes the container's header, metadata block, and concatenated
// frame payloads to w, in the order §6.1 defines, forcing any pending
// encodes first. It returns the total number of bytes written.
func (c *Container) Write(w io.Writer) (int, error) {
	h, err := c.buildHeader()
	if err != nil {
		return 0, err
	}

	encoded, err := header.Encode(h)
	if err != nil {
		return 0, err
	}

	total := 0

	n, err := w.Write(encoded)
	total += n
	if err != nil {
		return total, fmt.Errorf("%w: write header: %v", errs.ErrStreamIO, err)
	}

	for _, m := range c.metadata {
		n, err := io.WriteString(w, m)
		total += n
		if err != nil {
			return total, fmt.Errorf("%w: write metadata: %v", errs.ErrStreamIO, err)
		}
	}

	for _, s := range c.frames {
		payload, err := s.force()
		if err != nil {
			return total, err
		}
		n, err := w.Write(payload)
		total += n
		if err != nil {
			return total, fmt.Errorf("%w: write payload: %v", errs.ErrStreamIO, err)
		}
	}

	return total, nil
}

// Read parses a serialized container from the start of buf (as produced by
// Write) and returns the populated Container along with the number of
// bytes consumed, so callers that concatenate multiple containers (e.g.
// hdf5filter's chunk/tail split) can locate the next one.
func Read(buf []byte) (*Container, int, error) {
	h, headerLen, err := header.Decode(buf)
	if err != nil {
		return nil, 0, err
	}
	rest := buf[headerLen:]

	metaSizes := h.MetadataSizes
	if metaSizes == nil {
		metaSizes = make([]int, h.NumberOfFrames)
	}
	if len(metaSizes) != h.NumberOfFrames {
		return nil, 0, fmt.Errorf("%w: metadata_string_sizes has %d entries, want %d", errs.ErrCorruptHeader, len(metaSizes), h.NumberOfFrames)
	}

	metadata := make([]string, h.NumberOfFrames)
	off := 0
	for i, sz := range metaSizes {
		if off+sz > len(rest) {
			return nil, 0, fmt.Errorf("%w: metadata runs past end of stream", errs.ErrStreamIO)
		}
		metadata[i] = string(rest[off : off+sz])
		off += sz
	}
	rest = rest[off:]
	metaLen := off

	frameSizes := h.FrameSizes
	if frameSizes == nil {
		frameSizes = make([]int, h.NumberOfFrames)
		cursor := 0
		for i := 0; i < h.NumberOfFrames; i++ {
			if cursor > len(rest) {
				return nil, 0, fmt.Errorf("%w: payload area shorter than number_of_frames implies", errs.ErrStreamIO)
			}
			n, _, err := frame.FrameByteLength(rest[cursor:], h.NumberOfValues, h.ProlixBits, h.Block)
			if err != nil {
				return nil, 0, err
			}
			frameSizes[i] = n
			cursor += n
		}
	}

	frames := make([]*slot, h.NumberOfFrames)
	off = 0
	for i, sz := range frameSizes {
		if off+sz > len(rest) {
			return nil, 0, fmt.Errorf("%w: frame payload runs past end of stream", errs.ErrStreamIO)
		}
		frames[i] = &slot{payload: append([]byte(nil), rest[off:off+sz]...)}
		off += sz
	}
	payloadLen := off

	c := &Container{
		prolixBits: h.ProlixBits,
		block:      h.Block,
		signedSet:  h.NumberOfFrames > 0,
		signed:     h.Signed,
		sizeSet:    h.NumberOfFrames > 0,
		size:       h.NumberOfValues,
		dim:        h.Dimensions,
		frames:     frames,
		metadata:   metadata,
	}

	return c, headerLen + metaLen + payloadLen, nil
}
