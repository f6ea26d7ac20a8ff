// Package wire implements the fixed-header binary framer: reading and
// validating exactly one application message from a handler's stream
// buffer before it is handed to the handler's Message callback.
package wire

// Reader is the read-side capability the framer drives: append bytes from
// the underlying transport into s (writing into s.Remaining() and calling
// s.Advance), returning an error if none are currently available.
// Implementations must make progress or fail — a Reader that returns nil
// without advancing s is treated as having nothing ready right now and
// should instead return a *TimeoutError.
type Reader interface {
	Read(s *Stream) error
}

// maxDatagramSize bounds how large a buffer a datagram Reader is given to
// fill in one shot, when the instance hasn't configured a smaller
// MessageSizeMax. It matches the largest payload a UDP datagram can carry.
const maxDatagramSize = 65507

// ReadFrame ensures s holds exactly one complete, validated frame, ready
// for s.Bytes() to be handed to a handler's Message callback. It is the Go
// expression of spec.md §4.4's algorithm.
func ReadFrame(r Reader, s *Stream, messageSizeMax int, datagram bool) error {
	if datagram {
		return readDatagramFrame(r, s, messageSizeMax)
	}
	return readStreamFrame(r, s, messageSizeMax)
}

// readStreamFrame implements the ordinary, possibly-many-reads path: fill
// the header, parse it, grow to the declared size, and keep reading until
// the cursor reaches the end.
func readStreamFrame(r Reader, s *Stream, messageSizeMax int) error {
	if s.Cap() < HeaderSize {
		s.Grow(HeaderSize)
	}

	// Keep reading until the header is complete. A Reader with nothing
	// ready returns *TimeoutError, which leaves the partial header in s
	// for the next readiness wake.
	for !s.AtEnd() {
		if err := r.Read(s); err != nil {
			return err
		}
	}

	_, size, err := validateHeader(s.Bytes(), messageSizeMax)
	if err != nil {
		return err
	}

	if int(size) > s.Cap() {
		s.Grow(int(size))
	}
	for !s.AtEnd() {
		if err := r.Read(s); err != nil {
			return err
		}
	}
	return nil
}

// readDatagramFrame implements the one-shot path: a single underlying read
// delivers everything that is going to arrive for this message. If that
// single read came up short of the frame's declared size, the message is
// unrecoverable — datagrams don't get a second read.
func readDatagramFrame(r Reader, s *Stream, messageSizeMax int) error {
	bufCap := messageSizeMax
	if bufCap <= 0 || bufCap > maxDatagramSize {
		bufCap = maxDatagramSize
	}
	if s.Cap() < bufCap {
		s.Grow(bufCap)
	}

	if s.Len() == 0 {
		if err := r.Read(s); err != nil {
			return err
		}
	}

	_, size, err := validateHeader(s.Bytes(), messageSizeMax)
	if err != nil {
		return err
	}

	if s.Len() < int(size) {
		return &DatagramLimitError{Got: s.Len(), Want: int(size)}
	}
	return nil
}

// validateHeader parses buf and applies the size-bound checks common to
// both framing paths.
func validateHeader(buf []byte, messageSizeMax int) (Header, int32, error) {
	h, err := ParseHeader(buf)
	if err != nil {
		return h, 0, err
	}
	if h.Size < int32(HeaderSize) {
		return h, 0, &IllegalMessageSizeError{Size: h.Size}
	}
	if messageSizeMax > 0 && h.Size > int32(messageSizeMax) {
		return h, 0, &MemoryLimitError{Size: h.Size, Max: int32(messageSizeMax)}
	}
	return h, h.Size, nil
}
