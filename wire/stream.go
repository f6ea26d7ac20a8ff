package wire

// Stream is the mutable byte buffer with a read cursor that a handler owns
// and the framer borrows (spec.md §3). It grows to the frame's declared
// total size during framing and is reset for reuse between frames.
type Stream struct {
	buf []byte
	pos int // write cursor: bytes filled so far, buf[:pos] is valid data
}

// NewStream returns an empty stream.
func NewStream() *Stream {
	return &Stream{}
}

// Len returns the number of valid bytes currently held.
func (s *Stream) Len() int { return s.pos }

// Cap returns the target length the stream has been grown to.
func (s *Stream) Cap() int { return len(s.buf) }

// Bytes returns the valid prefix of the buffer.
func (s *Stream) Bytes() []byte { return s.buf[:s.pos] }

// Remaining returns the subslice still to be filled: buf[pos:].
func (s *Stream) Remaining() []byte { return s.buf[s.pos:] }

// AtEnd reports whether the cursor has reached the current target length.
func (s *Stream) AtEnd() bool { return s.pos >= len(s.buf) }

// Grow resizes the underlying buffer to exactly n bytes, preserving any
// already-filled prefix. It never shrinks below the current cursor, and
// reuses spare capacity left over from a previous frame instead of
// reallocating on every message.
func (s *Stream) Grow(n int) {
	if n <= len(s.buf) {
		return
	}
	if n <= cap(s.buf) {
		s.buf = s.buf[:n]
		return
	}
	nb := make([]byte, n)
	copy(nb, s.buf[:s.pos])
	s.buf = nb
}

// Advance records that n more bytes were written into Remaining() by the
// caller (normally handler.Read).
func (s *Stream) Advance(n int) {
	s.pos += n
	if s.pos > len(s.buf) {
		s.pos = len(s.buf)
	}
}

// Reset clears the stream back to empty, ready for the next frame.
func (s *Stream) Reset() {
	s.buf = s.buf[:0]
	s.pos = 0
}
