package pool

import "github.com/fzft/leaderpool/wire"

// EventHandler is the polymorphic capability bound to a registered
// descriptor (spec.md §3). Implementations supply transport-specific read
// semantics; the pool never interprets the bytes it frames for them.
type EventHandler interface {
	// Readable reports whether framed reads should be performed before
	// Message is called. A false here skips the framer entirely and
	// Message is invoked with an empty stream.
	Readable() bool

	// Datagram reports message-boundary semantics for the framer's size
	// policy: true means a short first read is terminal (DatagramLimitError)
	// rather than a signal to issue another read.
	Datagram() bool

	// Read appends bytes from the underlying transport into s, up to
	// s.Cap(). It must make progress or return an error.
	Read(s *wire.Stream) error

	// Message consumes one decoded frame. Implementations that do
	// anything that could block must call pool.PromoteFollower() first.
	Message(s *wire.Stream, p *Pool) error

	// Finished is called exactly once, after Unregister takes effect. The
	// reactor does not promote a follower before or after this call (spec.md
	// §4.5 step 5): implementations must call pool.PromoteFollower() first,
	// the same obligation Message carries.
	Finished(p *Pool)

	// Exception receives a framer or transport error that isn't one of
	// the two expected "try again" outcomes.
	Exception(err error)

	// Stream returns the handler's own decode buffer, reused across
	// frames.
	Stream() *wire.Stream

	// String returns a diagnostic label for log lines.
	String() string
}
