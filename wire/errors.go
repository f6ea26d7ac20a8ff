package wire

import "fmt"

// BadMagicError reports a frame header whose magic bytes did not match.
type BadMagicError struct {
	Got []byte
}

func (e *BadMagicError) Error() string {
	return fmt.Sprintf("bad magic bytes: %x", e.Got)
}

// UnsupportedProtocolError reports a protocol major/minor mismatch.
type UnsupportedProtocolError struct {
	GotMajor, GotMinor   byte
	WantMajor, WantMinor byte
}

func (e *UnsupportedProtocolError) Error() string {
	return fmt.Sprintf("unsupported protocol %d.%d (want %d.%d or lower minor)",
		e.GotMajor, e.GotMinor, e.WantMajor, e.WantMinor)
}

// UnsupportedEncodingError reports an encoding major/minor mismatch.
type UnsupportedEncodingError struct {
	GotMajor, GotMinor   byte
	WantMajor, WantMinor byte
}

func (e *UnsupportedEncodingError) Error() string {
	return fmt.Sprintf("unsupported encoding %d.%d (want %d.%d or lower minor)",
		e.GotMajor, e.GotMinor, e.WantMajor, e.WantMinor)
}

// IllegalMessageSizeError reports a total size smaller than the header.
type IllegalMessageSizeError struct {
	Size int32
}

func (e *IllegalMessageSizeError) Error() string {
	return fmt.Sprintf("illegal message size %d", e.Size)
}

// MemoryLimitError reports a total size larger than the configured maximum.
type MemoryLimitError struct {
	Size, Max int32
}

func (e *MemoryLimitError) Error() string {
	return fmt.Sprintf("message size %d exceeds limit %d", e.Size, e.Max)
}

// DatagramLimitError reports a datagram handler that received fewer bytes
// than the frame's declared total size. Datagrams are one-shot: the framer
// never issues a second read to complete a short datagram.
type DatagramLimitError struct {
	Got, Want int
}

func (e *DatagramLimitError) Error() string {
	return fmt.Sprintf("datagram limit: got %d bytes, frame declares %d", e.Got, e.Want)
}

// TimeoutError is returned by a handler's Read when no data is currently
// available; the reactor treats it like DatagramLimitError — expected,
// loop continues, no handler.Exception call.
type TimeoutError struct{}

func (e *TimeoutError) Error() string { return "read timeout" }

// IsExpected reports whether err is one of the two framer outcomes the
// reactor treats as "continue without dispatching", per spec §4.5 step 5.
func IsExpected(err error) bool {
	switch err.(type) {
	case *TimeoutError, *DatagramLimitError:
		return true
	default:
		return false
	}
}
