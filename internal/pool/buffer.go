// Package pool provides pooled, 8-byte-aligned byte buffers used as the
// backing storage for bit-packed frame payloads.
//
// The pooling strategy is adapted from a columnar time-series encoder's
// byte-buffer pool: a sync.Pool of reusable slices with a size threshold
// above which oversized buffers are discarded instead of retained.
package pool

import "sync"

const (
	// DefaultSize is the default capacity handed out by the default pool.
	DefaultSize = 1024 * 4 // 4KiB

	// MaxThreshold is the capacity above which a returned buffer is
	// discarded rather than retained, to avoid pool memory bloat from a
	// handful of unusually large frames.
	MaxThreshold = 1024 * 1024 * 16 // 16MiB

	// alignment is the byte alignment BitBuffer requires: the backing slice's
	// length must always be a multiple of this value.
	alignment = 8
)

// Buffer is a growable byte slice whose length is always kept a multiple of
// 8 bytes, matching the BitBuffer invariant that it is addressable as a
// stream of 64-bit words.
type Buffer struct {
	B []byte
}

// New creates a Buffer with the given initial capacity, rounded up to the
// next multiple of 8.
func New(capacity int) *Buffer {
	return &Buffer{B: make([]byte, 0, alignUp(capacity))}
}

// Bytes returns the underlying slice.
func (b *Buffer) Bytes() []byte { return b.B }

// Len returns the current length of the buffer.
func (b *Buffer) Len() int { return len(b.B) }

// Cap returns the current capacity of the buffer.
func (b *Buffer) Cap() int { return cap(b.B) }

// Reset empties the buffer while retaining its backing array.
func (b *Buffer) Reset() { b.B = b.B[:0] }

// Truncate shrinks the buffer's reported length to n bytes without
// reallocating. n must be within [0, len(b.B)].
func (b *Buffer) Truncate(n int) {
	if n < 0 || n > len(b.B) {
		panic("pool: Truncate: invalid length")
	}
	b.B = b.B[:n]
}

// EnsureWords grows the buffer, if necessary, so that it has at least
// nWords*8 bytes of addressable length (not just capacity), zero-filling
// any newly exposed bytes. Used by BitWriter to guarantee the next 64-bit
// word it writes lands inside the slice.
func (b *Buffer) EnsureWords(nWords int) {
	need := nWords * 8
	if len(b.B) >= need {
		return
	}

	old := len(b.B)
	b.growTo(need)
	b.B = b.B[:need]
	clear(b.B[old:])
}

// Grow reallocates the backing array so that its capacity is at least
// newCap bytes (rounded up to a multiple of 8), preserving existing
// content and length. It returns the new backing slice's base pointer
// distance moved, i.e. nothing — callers that hold raw offsets into the
// old slice must re-derive them via relocation (see bitio.Writer.Relocate).
func (b *Buffer) Grow(newCap int) {
	b.growTo(newCap)
}

func (b *Buffer) growTo(newCap int) {
	newCap = alignUp(newCap)
	if cap(b.B) >= newCap {
		return
	}

	newBuf := make([]byte, len(b.B), newCap)
	copy(newBuf, b.B)
	b.B = newBuf
}

func alignUp(n int) int {
	if n <= 0 {
		return alignment
	}

	return (n + alignment - 1) / alignment * alignment
}

// Pool is a sync.Pool of Buffers with a maximum retained capacity.
type Pool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewPool creates a Pool whose buffers start at defaultSize bytes of
// capacity; buffers larger than maxThreshold bytes are discarded on Put
// rather than retained.
func NewPool(defaultSize, maxThreshold int) *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() any { return New(defaultSize) },
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a Buffer from the pool, resetting its length to zero.
func (p *Pool) Get() *Buffer {
	buf, _ := p.pool.Get().(*Buffer)
	buf.Reset()

	return buf
}

// Put returns a Buffer to the pool for reuse, discarding it if it has grown
// past the pool's maxThreshold.
func (p *Pool) Put(buf *Buffer) {
	if buf == nil {
		return
	}

	if p.maxThreshold > 0 && cap(buf.B) > p.maxThreshold {
		return
	}

	buf.Reset()
	p.pool.Put(buf)
}

var defaultPool = NewPool(DefaultSize, MaxThreshold)

// Get retrieves a Buffer from the package-level default pool.
func Get() *Buffer { return defaultPool.Get() }

// Put returns a Buffer to the package-level default pool.
func Put(buf *Buffer) { defaultPool.Put(buf) }
