package container

import (
	"fmt"

	"github.com/terse-codec/terse/errs"
	"github.com/terse-codec/terse/frame"
	"github.com/terse-codec/terse/wireformat"
	"github.com/terse-codec/terse/workerpool"
)

// ProlixSigned decodes frame idx, which must belong to a signed container.
func (c *Container) ProlixSigned(idx int) ([]int64, error) {
	if err := c.checkPos(idx, false); err != nil {
		return nil, err
	}
	if c.signedSet && !c.signed {
		return nil, fmt.Errorf("%w: container holds unsigned frames", errs.ErrSignednessMismatch)
	}

	payload, err := c.frames[idx].force()
	if err != nil {
		return nil, err
	}

	return frame.DecodeSignedFrame(payload, c.size, c.block)
}

// ProlixUnsigned decodes frame idx, which must belong to an unsigned
// container, and reports which mode (Unsigned or SmallUnsigned) the
// payload was auto-detected as.
func (c *Container) ProlixUnsigned(idx int) ([]uint64, wireformat.Mode, error) {
	if err := c.checkPos(idx, false); err != nil {
		return nil, wireformat.ModeSigned, err
	}
	if c.signedSet && c.signed {
		return nil, wireformat.ModeSigned, fmt.Errorf("%w: container holds signed frames", errs.ErrSignednessMismatch)
	}

	payload, err := c.frames[idx].force()
	if err != nil {
		return nil, wireformat.ModeSigned, err
	}

	return frame.DecodeUnsignedFrame(payload, c.size, c.prolixBits, c.block)
}

// ProlixIntoSigned decodes frame idx as signed integers regardless of the
// container's own signedness, per §4.5's destination-type policy: if the
// container holds unsigned frames, the all-ones overload value reinterprets
// as -1 in two's complement (a known, accepted lossy reinterpretation); if
// it holds signed frames, this is a plain decode.
func (c *Container) ProlixIntoSigned(idx int) ([]int64, error) {
	if c.signedSet && c.signed {
		return c.ProlixSigned(idx)
	}

	raw, _, err := c.ProlixUnsigned(idx)
	if err != nil {
		return nil, err
	}

	overload := uint64(1)<<uint(c.prolixBits) - 1
	out := make([]int64, len(raw))
	for i, v := range raw {
		if v == overload {
			out[i] = -1
			continue
		}
		out[i] = int64(v)
	}

	return out, nil
}

// ProlixIntoUnsigned decodes frame idx as unsigned integers. Popping a
// signed payload into an unsigned destination is forbidden (§4.5).
func (c *Container) ProlixIntoUnsigned(idx int) ([]uint64, error) {
	if c.signedSet && c.signed {
		return nil, fmt.Errorf("%w", errs.ErrSignedIntoUnsigned)
	}

	vals, _, err := c.ProlixUnsigned(idx)

	return vals, err
}

// CheckDestinationWidth enforces the narrowing-pop rule: a destination
// integer type narrower than the container's prolixBits is forbidden.
func (c *Container) CheckDestinationWidth(destBits int) error {
	if destBits < c.prolixBits {
		return fmt.Errorf("%w: destination width %d < prolix_bits %d", errs.ErrNarrowingPop, destBits, c.prolixBits)
	}

	return nil
}

// ProlixAllSigned decodes every frame into one concatenated []int64 of
// length Len()*Size(). When a worker pool is bound, per-frame decodes are
// dispatched in parallel.
func (c *Container) ProlixAllSigned() ([]int64, error) {
	out := make([]int64, len(c.frames)*c.size)

	if c.pool == nil {
		for i := range c.frames {
			vals, err := c.ProlixIntoSigned(i)
			if err != nil {
				return nil, err
			}
			copy(out[i*c.size:], vals)
		}
		return out, nil
	}

	futures := make([]*workerpool.Future[[]int64], len(c.frames))
	for i := range c.frames {
		i := i
		futures[i] = workerpool.Submit(c.pool, func() ([]int64, error) { return c.ProlixIntoSigned(i) })
	}
	for i, f := range futures {
		vals, err := f.Get()
		if err != nil {
			return nil, err
		}
		copy(out[i*c.size:], vals)
	}

	return out, nil
}

// ProlixAllUnsigned decodes every frame into one concatenated []uint64 of
// length Len()*Size(). When a worker pool is bound, per-frame decodes are
// dispatched in parallel.
func (c *Container) ProlixAllUnsigned() ([]uint64, error) {
	out := make([]uint64, len(c.frames)*c.size)

	if c.pool == nil {
		for i := range c.frames {
			vals, err := c.ProlixIntoUnsigned(i)
			if err != nil {
				return nil, err
			}
			copy(out[i*c.size:], vals)
		}
		return out, nil
	}

	futures := make([]*workerpool.Future[[]uint64], len(c.frames))
	for i := range c.frames {
		i := i
		futures[i] = workerpool.Submit(c.pool, func() ([]uint64, error) { return c.ProlixIntoUnsigned(i) })
	}
	for i, f := range futures {
		vals, err := f.Get()
		if err != nil {
			return nil, err
		}
		copy(out[i*c.size:], vals)
	}

	return out, nil
}
