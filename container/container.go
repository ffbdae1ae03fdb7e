// Package container implements the multi-frame container (spec component
// C6): an ordered sequence of frame payloads plus parallel per-frame
// metadata strings, sharing one fixed shape (signedness, element width,
// block size, values per frame, dimensions).
//
// A Container validates inserts against that shape, encodes each frame
// through the frame package, and — when a worker pool is bound via
// BindPool — dispatches encodes and decodes across goroutines, forcing
// pending results only where §5 says a suspension point is allowed
// (Erase, ShrinkToFit, TerseSize, FileSize, At, the Prolix* decoders).
package container

import (
	"fmt"

	"github.com/terse-codec/terse/errs"
	"github.com/terse-codec/terse/frame"
	"github.com/terse-codec/terse/header"
	"github.com/terse-codec/terse/internal/options"
	"github.com/terse-codec/terse/wireformat"
	"github.com/terse-codec/terse/workerpool"
)

// Container owns a sequence of FramePayloads and parallel per-frame
// metadata strings. Signedness and per-frame value count are fixed by the
// first inserted frame; prolixBits and block are fixed at construction.
type Container struct {
	prolixBits int
	block      int

	signedSet bool
	signed    bool
	sizeSet   bool
	size      int
	dim       []int

	frames   []*slot
	metadata []string

	pool *workerpool.Pool
}

// New creates an empty Container for values of the given bit width
// (prolixBits ∈ {8,16,32,64}), using block as the per-frame encoding block
// size. Signedness and values-per-frame are fixed by the first insert.
func New(prolixBits, block int) *Container {
	if block <= 0 {
		block = wireformat.DefaultBlock
	}

	return &Container{prolixBits: prolixBits, block: block}
}

// BindPool attaches a worker pool so that subsequent inserts and
// whole-container decodes run concurrently. Passing nil reverts the
// Container to fully synchronous operation.
func (c *Container) BindPool(p *workerpool.Pool) {
	c.pool = p
}

// Option configures a Container at construction time, for use with
// NewWithOptions.
type Option = options.Option[*Container]

// WithPool is an Option that binds a worker pool, equivalent to calling
// BindPool right after New.
func WithPool(p *workerpool.Pool) Option {
	return options.NoError[*Container](func(c *Container) { c.BindPool(p) })
}

// WithDim is an Option that sets the container's dimensions, equivalent
// to calling SetDim right after New. An error from SetDim is returned by
// NewWithOptions; on a new Container no size is fixed yet, so SetDim
// accepts any dimensions there.
func WithDim(d []int) Option {
	return options.New[*Container](func(c *Container) error { return c.SetDim(d) })
}

// NewWithOptions creates a Container the way New does and applies opts in
// order, stopping at the first one that fails.
func NewWithOptions(prolixBits, block int, opts ...Option) (*Container, error) {
	c := New(prolixBits, block)
	if err := options.Apply(c, opts...); err != nil {
		return nil, err
	}

	return c, nil
}

// ProlixBits returns the container's fixed element bit width.
func (c *Container) ProlixBits() int { return c.prolixBits }

// Block returns the container's fixed encoding block size.
func (c *Container) Block() int { return c.block }

// Signed reports the container's fixed signedness. It is meaningless
// before the first frame is inserted.
func (c *Container) Signed() bool { return c.signed }

// Size returns the fixed values-per-frame count. It is zero before the
// first frame is inserted.
func (c *Container) Size() int { return c.size }

// Len returns the number of frames currently held.
func (c *Container) Len() int { return len(c.frames) }

// Dim returns a copy of the container's dimensions, or nil if unset.
func (c *Container) Dim() []int { return append([]int(nil), c.dim...) }

// SetDim sets the container's dimensions. It is accepted when d is empty,
// when no insert has fixed the size yet, or when its product equals the
// container's fixed size. Inserts do not check frame length against
// dimensions set before the size was fixed.
func (c *Container) SetDim(d []int) error {
	if len(d) > 0 && c.sizeSet {
		product := 1
		for _, v := range d {
			product *= v
		}
		if product != c.size {
			return fmt.Errorf("%w: dimensions product %d != size %d", errs.ErrShapeMismatch, product, c.size)
		}
	}

	c.dim = append([]int(nil), d...)

	return nil
}

func (c *Container) checkPos(pos int, allowEnd bool) error {
	limit := len(c.frames)
	if !allowEnd {
		limit--
	}

	if pos < 0 || pos > limit {
		return fmt.Errorf("%w: pos %d", errs.ErrIndexOutOfRange, pos)
	}

	return nil
}

// InsertSigned inserts a signed frame at pos, encoded with the Signed mode.
func (c *Container) InsertSigned(pos int, values []int64) error {
	if err := c.checkPos(pos, true); err != nil {
		return err
	}
	if c.signedSet && !c.signed {
		return fmt.Errorf("%w: container already holds unsigned frames", errs.ErrSignednessMismatch)
	}
	if c.sizeSet && len(values) != c.size {
		return fmt.Errorf("%w: got %d values, want %d", errs.ErrShapeMismatch, len(values), c.size)
	}

	if !c.sizeSet {
		c.size = len(values)
		c.sizeSet = true
	}

	return c.insertSlot(pos, true, func() ([]byte, error) {
		return frame.EncodeSigned(values, c.block), nil
	})
}

// InsertUnsigned inserts an unsigned frame at pos, encoded with the given
// mode (ModeUnsigned or ModeSmallUnsigned).
func (c *Container) InsertUnsigned(pos int, values []uint64, mode wireformat.Mode) error {
	if err := c.checkPos(pos, true); err != nil {
		return err
	}
	if mode == wireformat.ModeSigned {
		return fmt.Errorf("%w: unsigned insert requested Signed mode", errs.ErrModeConflict)
	}
	if c.signedSet && c.signed {
		return fmt.Errorf("%w: container already holds signed frames", errs.ErrSignednessMismatch)
	}
	if c.sizeSet && len(values) != c.size {
		return fmt.Errorf("%w: got %d values, want %d", errs.ErrShapeMismatch, len(values), c.size)
	}

	if !c.sizeSet {
		c.size = len(values)
		c.sizeSet = true
	}

	return c.insertSlot(pos, false, func() ([]byte, error) {
		if mode == wireformat.ModeSmallUnsigned {
			return frame.EncodeSmallUnsigned(values, c.prolixBits, c.block), nil
		}
		return frame.EncodeUnsigned(values, c.prolixBits, c.block), nil
	})
}

// PushBackSigned is InsertSigned(Len(), values).
func (c *Container) PushBackSigned(values []int64) error {
	return c.InsertSigned(len(c.frames), values)
}

// PushBackUnsigned is InsertUnsigned(Len(), values, mode).
func (c *Container) PushBackUnsigned(values []uint64, mode wireformat.Mode) error {
	return c.InsertUnsigned(len(c.frames), values, mode)
}

func (c *Container) insertSlot(pos int, signed bool, encode func() ([]byte, error)) error {
	var s *slot
	if c.pool != nil {
		s = &slot{future: workerpool.Submit(c.pool, encode)}
	} else {
		payload, err := encode()
		if err != nil {
			return err
		}
		s = &slot{payload: payload}
	}

	c.frames = append(c.frames, nil)
	copy(c.frames[pos+1:], c.frames[pos:])
	c.frames[pos] = s

	c.metadata = append(c.metadata, "")
	copy(c.metadata[pos+1:], c.metadata[pos:])
	c.metadata[pos] = ""

	if !c.signedSet {
		c.signedSet = true
		c.signed = signed
	}

	return nil
}

// Erase forces any pending encode on every frame, then removes the payload
// and metadata at pos.
func (c *Container) Erase(pos int) error {
	if err := c.checkPos(pos, false); err != nil {
		return err
	}

	for _, s := range c.frames {
		if _, err := s.force(); err != nil {
			return err
		}
	}

	c.frames = append(c.frames[:pos], c.frames[pos+1:]...)
	c.metadata = append(c.metadata[:pos], c.metadata[pos+1:]...)

	return nil
}

// At returns a single-frame view of pos as a new Container sharing shape
// and metadata.
func (c *Container) At(pos int) (*Container, error) {
	if err := c.checkPos(pos, false); err != nil {
		return nil, err
	}

	payload, err := c.frames[pos].force()
	if err != nil {
		return nil, err
	}

	view := &Container{
		prolixBits: c.prolixBits,
		block:      c.block,
		signedSet:  c.signedSet,
		signed:     c.signed,
		sizeSet:    c.sizeSet,
		size:       c.size,
		dim:        append([]int(nil), c.dim...),
		frames:     []*slot{{payload: append([]byte(nil), payload...)}},
		metadata:   []string{c.metadata[pos]},
	}

	return view, nil
}

// Metadata returns the metadata string attached to frame pos.
func (c *Container) Metadata(pos int) (string, error) {
	if err := c.checkPos(pos, false); err != nil {
		return "", err
	}

	return c.metadata[pos], nil
}

// SetMetadata overwrites the metadata string attached to frame pos.
func (c *Container) SetMetadata(pos int, s string) error {
	if err := c.checkPos(pos, false); err != nil {
		return err
	}

	c.metadata[pos] = s

	return nil
}

// ShrinkToFit forces every pending async encode and releases any excess
// backing capacity retained in each payload's byte slice.
func (c *Container) ShrinkToFit() error {
	for i, s := range c.frames {
		payload, err := s.force()
		if err != nil {
			return err
		}

		if cap(payload) > len(payload) {
			trimmed := make([]byte, len(payload))
			copy(trimmed, payload)
			c.frames[i].payload = trimmed
		}
	}

	return nil
}

// TerseSize returns the sum of every frame payload's byte length, forcing
// any pending encodes.
func (c *Container) TerseSize() (int, error) {
	total := 0
	for _, s := range c.frames {
		payload, err := s.force()
		if err != nil {
			return 0, err
		}
		total += len(payload)
	}

	return total, nil
}

// FileSize returns TerseSize() plus the on-wire length of the header that
// would precede it. Per §4.6 this requires materializing the header to
// measure it and is not cached: the container is mutable, and a cached
// value would need invalidation plumbing on every shape-affecting call.
func (c *Container) FileSize() (int, error) {
	terse, err := c.TerseSize()
	if err != nil {
		return 0, err
	}

	hdr, err := c.buildHeader()
	if err != nil {
		return 0, err
	}

	encoded, err := header.Encode(hdr)
	if err != nil {
		return 0, err
	}

	return terse + len(encoded), nil
}
