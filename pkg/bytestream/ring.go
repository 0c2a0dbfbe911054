package bytestream

import "io"

// Ring is the power-of-two circular buffer variant from SPEC_FULL.md §4.2,
// for unbounded streams that need bounded memory regardless of how much has
// been consumed. Unlike Stream, Ring never grows past its initial capacity,
// and its Compact does not linearize the buffer: a Peek view stops at the
// wraparound point.
type Ring struct {
	reader io.Reader
	buf    []byte // len(buf) is always a power of two
	mask   int
	head   int // next byte to fill
	tail   int // next byte to consume
	size   int // bytes currently buffered (tail..tail+size, mod len(buf))
	total  uint64
	eof    bool
}

// NewRing constructs a Ring with capacity rounded up to the next power of
// two >= minCapacity, with a minimum capacity of 64.
func NewRing(r io.Reader, minCapacity int) *Ring {
	cap := nextPowerOfTwo(minCapacity)
	return &Ring{
		reader: r,
		buf:    make([]byte, cap),
		mask:   cap - 1,
	}
}

func nextPowerOfTwo(n int) int {
	if n < 64 {
		n = 64
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Fill reads from the reader into the free space of the ring, returning the
// number of bytes read (0 at EOF or if the ring is already full).
func (r *Ring) Fill() (int, error) {
	free := len(r.buf) - r.size
	if free == 0 || r.eof {
		return 0, nil
	}
	// Contiguous free span starting at head, capped by wraparound.
	start := r.head & r.mask
	span := len(r.buf) - start
	if span > free {
		span = free
	}
	n, err := r.reader.Read(r.buf[start : start+span])
	r.head += n
	r.size += n
	r.total += uint64(n)
	if err != nil {
		if err == io.EOF {
			r.eof = true
			return n, nil
		}
		return n, &IOError{Cause: err}
	}
	return n, nil
}

// Peek returns a contiguous slice of min(available, maxLen,
// bytes-to-end-of-buffer) unread bytes without consuming them. Bytes past
// the wraparound point are not included; PeekAt reads them one at a time.
func (r *Ring) Peek(maxLen int) []byte {
	if maxLen > r.size {
		maxLen = r.size
	}
	start := r.tail & r.mask
	span := len(r.buf) - start
	if span > maxLen {
		span = maxLen
	}
	return r.buf[start : start+span]
}

// PeekAt returns the byte offset positions ahead of tail, or false if not
// currently buffered.
func (r *Ring) PeekAt(offset int) (byte, bool) {
	if offset < 0 || offset >= r.size {
		return 0, false
	}
	return r.buf[(r.tail+offset)&r.mask], true
}

// Consume advances the read cursor by length bytes. The caller asserts that
// no live borrows (slices returned by Peek) reference the consumed region,
// per SPEC_FULL.md §4.2's aliasing guarantee.
func (r *Ring) Consume(length int) {
	if length > r.size {
		length = r.size
	}
	r.tail += length
	r.size -= length
}

// NeedsRefill reports whether fewer than lookahead bytes are currently
// buffered and the source has not reached EOF.
func (r *Ring) NeedsRefill(lookahead int) bool {
	return r.size < lookahead && !r.eof
}

// Compact is a no-op for Ring: the circular layout already reuses consumed
// space without a memmove. It exists to satisfy the common Stream-like
// surface described in SPEC_FULL.md §4.2.
func (r *Ring) Compact() {}

// Available returns how many bytes are currently buffered.
func (r *Ring) Available() int {
	return r.size
}

// IsEOF reports whether the source has signaled end-of-stream and every
// buffered byte has been consumed.
func (r *Ring) IsEOF() bool {
	return r.eof && r.size == 0
}
