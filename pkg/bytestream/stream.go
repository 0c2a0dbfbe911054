// Package bytestream implements the byte-source abstraction from
// SPEC_FULL.md §4.2: buffered read/peek/compact/append over memory, file,
// reader, or externally-owned chunked sources, with O(1) amortized append
// and line/column tracking on every consumed byte.
//
// The implementation is adapted from the teacher's pkg/tokenizer.streamImpl
// / bufferedStreamImpl pair, collapsed into a single byte-oriented type
// (spec.md's engine is byte-oriented; UTF-8 passes through transparently —
// see spec.md §1 Non-goals) instead of the teacher's parallel rune/byte
// tracking.
package bytestream

import (
	"io"

	"github.com/shapestone/lexengine/pkg/position"
)

// Source identifies where a Stream's bytes originate, mirroring
// SPEC_FULL.md §3's ByteStream state variants.
type Source int

const (
	SourceMemory Source = iota
	SourceFile
	SourceReader
	SourceExternal
)

// defaultMaxBuffer bounds how large Append is allowed to grow the internal
// buffer before it reports ErrAppendExceedsMaxBuffer. Every constructor sets
// this limit; bufferHint only sizes the initial buffer.
const defaultMaxBuffer = 64 * 1024 * 1024

// growthNumerator/growthDenominator govern how much headroom Append reserves beyond what is
// strictly needed, per SPEC_FULL.md §4.2 ("growth factor ≈ 1.5").
const growthNumerator, growthDenominator = 3, 2

// Stats summarizes buffer utilization, per SPEC_FULL.md §4.2.
type Stats struct {
	BufferSize    int
	Used          int
	Free          int
	TotalConsumed uint64
	Position      position.Position
}

// Stream is a buffered byte source supporting both whole-input and
// incremental (chunked) parsing.
type Stream struct {
	source Source
	reader io.Reader

	buffer []byte
	read   int // read cursor: buffer[read:write] is available
	write  int // write cursor

	totalConsumed uint64
	pos           position.Position
	exhausted     bool
	readerEOF     bool

	// finished reports whether the caller has signaled that no further
	// Append calls will arrive. True by construction for sources whose
	// full extent is already known or self-delimiting (memory, file,
	// reader); false for WithBuffer/WithExternalBuffer until Finish is
	// called, so a Tokenizer can tell "buffer momentarily empty" apart
	// from "end of input" at a chunk boundary.
	finished bool

	maxBuffer int
	external  bool // true if buffer is caller-owned (SourceExternal) and must not be grown

	liveBorrows int // count of outstanding zero-copy slices into buffer; blocks reallocating Append
}

// FromMemory constructs a Stream over an in-memory byte slice. The whole
// input is immediately available; Reset and SetPosition work.
func FromMemory(data []byte) *Stream {
	return &Stream{
		source:    SourceMemory,
		buffer:    data,
		write:     len(data),
		pos:       position.Start,
		maxBuffer: defaultMaxBuffer,
		finished:  true,
	}
}

// FromFile constructs a Stream that reads from f (expected to be seekable,
// e.g. *os.File) in chunks of bufferHint bytes. Reset seeks back to the
// start; SetPosition is not supported for file sources.
func FromFile(f io.Reader, bufferHint int) *Stream {
	s := newBufferedStream(SourceFile, f, bufferHint)
	return s
}

// FromReader constructs a Stream over an arbitrary io.Reader. Reset is not
// supported (the source may not be seekable).
func FromReader(r io.Reader, bufferHint int) *Stream {
	return newBufferedStream(SourceReader, r, bufferHint)
}

// WithBuffer constructs a Stream over a caller-supplied starting buffer for
// incremental (chunked) parsing via Append. Unlike WithExternalBuffer, this
// Stream is free to reallocate its buffer as chunks arrive.
func WithBuffer(buf []byte) *Stream {
	return &Stream{
		source:    SourceExternal,
		buffer:    buf,
		write:     len(buf),
		pos:       position.Start,
		maxBuffer: defaultMaxBuffer,
	}
}

// WithExternalBuffer constructs a Stream over a buffer the caller keeps
// ownership of and does not want grown: Append fills in place and reports
// ErrCannotResizeExternalBuffer rather than reallocating once the buffer's
// capacity is exhausted.
func WithExternalBuffer(buf []byte) *Stream {
	return &Stream{
		source:    SourceExternal,
		buffer:    buf,
		write:     len(buf),
		pos:       position.Start,
		maxBuffer: defaultMaxBuffer,
		external:  true,
	}
}

func newBufferedStream(src Source, r io.Reader, bufferHint int) *Stream {
	if bufferHint <= 0 {
		bufferHint = 8 * 1024
	}
	return &Stream{
		source:    src,
		reader:    r,
		buffer:    make([]byte, bufferHint),
		pos:       position.Start,
		maxBuffer: defaultMaxBuffer,
		finished:  true,
	}
}

// available returns the unread portion of the buffer.
func (s *Stream) available() []byte {
	return s.buffer[s.read:s.write]
}

// fillBuffer performs a single best-effort read from the underlying reader
// (SPEC_FULL.md §5: "file/reader sources perform a single best-effort read
// per fill_buffer" — no internal blocking loop).
func (s *Stream) fillBuffer() error {
	if s.reader == nil || s.readerEOF {
		return nil
	}
	if s.write == len(s.buffer) {
		s.growForFill()
	}
	n, err := s.reader.Read(s.buffer[s.write:])
	s.write += n
	if err != nil {
		if err == io.EOF {
			s.readerEOF = true
			return nil
		}
		s.readerEOF = true
		return &IOError{Cause: err}
	}
	return nil
}

func (s *Stream) growForFill() {
	needed := len(s.buffer) + 4096
	newCap := needed * growthNumerator / growthDenominator
	grown := make([]byte, newCap)
	copy(grown, s.buffer[:s.write])
	s.buffer = grown
}

// ensureAvailable tries to make at least one more byte available at the
// current read cursor, filling from the underlying reader if present.
func (s *Stream) ensureAvailable() error {
	if s.read < s.write {
		return nil
	}
	if s.reader != nil {
		if err := s.fillBuffer(); err != nil {
			return err
		}
	}
	if s.read >= s.write {
		s.exhausted = s.readerEOF || s.reader == nil
	}
	return nil
}

// Peek returns the next byte without advancing the stream.
func (s *Stream) Peek() (byte, bool) {
	if err := s.ensureAvailable(); err != nil {
		return 0, false
	}
	if s.read >= s.write {
		return 0, false
	}
	return s.buffer[s.read], true
}

// PeekAt returns the byte offset bytes ahead of the read cursor, filling the
// buffer as needed. offset 0 is equivalent to Peek.
func (s *Stream) PeekAt(offset int) (byte, bool) {
	for s.read+offset >= s.write {
		if s.reader == nil {
			break
		}
		before := s.write
		if err := s.fillBuffer(); err != nil || s.write == before {
			break
		}
	}
	if s.read+offset >= s.write || offset < 0 {
		return 0, false
	}
	return s.buffer[s.read+offset], true
}

// Consume reads and returns the next byte, advancing the stream and
// updating line/column tracking. '\r', '\n', and "\r\n" each advance the
// line exactly once (SPEC_FULL.md §9).
func (s *Stream) Consume() (byte, bool) {
	if err := s.ensureAvailable(); err != nil {
		return 0, false
	}
	if s.read >= s.write {
		return 0, false
	}
	b := s.buffer[s.read]

	// Fold "\r\n" into a single line break: the '\r' already advanced the
	// line, so the '\n' right after it only advances the offset.
	if b == '\n' && s.read > 0 && s.buffer[s.read-1] == '\r' {
		s.read++
		s.totalConsumed++
		s.pos.Offset++
		return b, true
	}

	s.read++
	s.totalConsumed++
	s.pos = s.pos.Advance(b)
	return b, true
}

// ConsumeIf consumes the next byte only if it equals expected.
func (s *Stream) ConsumeIf(expected byte) bool {
	b, ok := s.Peek()
	if !ok || b != expected {
		return false
	}
	_, _ = s.Consume()
	return true
}

// ConsumeCount consumes up to n bytes, returning how many were actually
// consumed (fewer at EOF).
func (s *Stream) ConsumeCount(n int) int {
	i := 0
	for ; i < n; i++ {
		if _, ok := s.Consume(); !ok {
			break
		}
	}
	return i
}

// Position returns the stream's current position.
func (s *Stream) Position() position.Position {
	return s.pos
}

// SetPosition repositions a memory-backed stream. Non-memory sources
// return ErrCannotSeekNonMemorySource.
func (s *Stream) SetPosition(p position.Position) error {
	if s.source != SourceMemory {
		return ErrCannotSeekNonMemorySource
	}
	s.read = int(p.Offset)
	s.pos = p
	s.totalConsumed = p.Offset
	s.exhausted = s.read >= s.write
	return nil
}

// Append adds bytes to the stream, for external/chunked sources. It grows
// the buffer (factor ~1.5) when the bytes already in it, consumed or not,
// plus the new bytes would exceed its capacity, refusing to do so
// (ErrLiveBorrows) while borrows registered with BorrowText (e.g. slices
// from SliceFrom) are still outstanding — see SPEC_FULL.md §9's resolution
// of the reallocation open question.
func (s *Stream) Append(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	needed := s.write + len(data)
	if needed > s.maxBuffer {
		return ErrAppendExceedsMaxBuffer
	}
	if needed <= cap(s.buffer) {
		s.buffer = s.buffer[:needed]
		copy(s.buffer[s.write:needed], data)
		s.write = needed
		s.exhausted = false
		return nil
	}

	if s.liveBorrows > 0 {
		return ErrLiveBorrows
	}
	if s.external {
		return ErrCannotResizeExternalBuffer
	}

	newCap := needed * growthNumerator / growthDenominator
	grown := make([]byte, needed, newCap)
	copy(grown, s.buffer[:s.write])
	copy(grown[s.write:needed], data)
	s.buffer = grown
	s.write = needed
	s.exhausted = false
	return nil
}

// Compact moves unread data to the start of the buffer. Idempotent.
func (s *Stream) Compact() {
	if s.read == 0 {
		return
	}
	n := copy(s.buffer, s.buffer[s.read:s.write])
	s.write = n
	s.read = 0
}

// Reset restarts a memory or file source from offset 0. Reader sources
// cannot be reset.
func (s *Stream) Reset() error {
	switch s.source {
	case SourceMemory:
		s.read = 0
		s.totalConsumed = 0
		s.pos = position.Start
		s.exhausted = s.write == 0
		return nil
	case SourceFile:
		if seeker, ok := s.reader.(io.Seeker); ok {
			if _, err := seeker.Seek(0, io.SeekStart); err != nil {
				return &IOError{Cause: err}
			}
			s.read, s.write = 0, 0
			s.readerEOF = false
			s.exhausted = false
			s.totalConsumed = 0
			s.pos = position.Start
			return nil
		}
		return ErrCannotSeekNonMemorySource
	default:
		return ErrCannotSeekNonMemorySource
	}
}

// Finish marks the stream as having received its last chunk: no further
// Append calls are expected. A Tokenizer uses this to tell a token that
// merely ends at the edge of what's buffered so far apart from one that
// ends at genuine end of input (SPEC_FULL.md §4.3, §8's ProcessChunk /
// FinishChunks property). A no-op for memory/file/reader sources, whose
// full extent is already known.
func (s *Stream) Finish() {
	s.finished = true
}

// Finished reports whether Finish has been called (always true for
// memory/file/reader sources).
func (s *Stream) Finished() bool {
	return s.finished
}

// IsExhausted reports whether no source and no buffered data remain.
func (s *Stream) IsExhausted() bool {
	if s.read < s.write {
		return false
	}
	if s.reader != nil && !s.readerEOF {
		return false
	}
	return true
}

// Stats reports current buffer utilization.
func (s *Stream) Stats() Stats {
	return Stats{
		BufferSize:    len(s.buffer),
		Used:          s.write - s.read,
		Free:          len(s.buffer) - s.write,
		TotalConsumed: s.totalConsumed,
		Position:      s.pos,
	}
}

// SliceFrom returns a zero-copy view of buffer[readOffset:currentRead] where
// readOffset is an absolute buffer index previously obtained from
// BufferReadIndex. Callers that hold the returned slice across a
// reallocating Append must have registered the borrow via BorrowText /
// ReleaseText.
func (s *Stream) SliceFrom(readOffset int) []byte {
	if readOffset < 0 || readOffset > s.read {
		return nil
	}
	return s.buffer[readOffset:s.read]
}

// BufferReadIndex returns the current read cursor's index into the
// internal buffer, for use with SliceFrom.
func (s *Stream) BufferReadIndex() int {
	return s.read
}

// BorrowText records that a caller is holding a zero-copy slice into the
// buffer, so a subsequent Append knows it must not silently reallocate.
// Paired with ReleaseText.
func (s *Stream) BorrowText() {
	s.liveBorrows++
}

// ReleaseText releases a borrow previously registered with BorrowText.
func (s *Stream) ReleaseText() {
	if s.liveBorrows > 0 {
		s.liveBorrows--
	}
}
