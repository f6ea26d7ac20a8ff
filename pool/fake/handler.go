// Package fake provides controllable EventHandler and transport doubles
// for exercising the pool and framer without real sockets.
package fake

import (
	"sync"

	"github.com/fzft/leaderpool/pool"
	"github.com/fzft/leaderpool/wire"
)

// Handler is a fake pool.EventHandler. Queue bytes with AddRecvData and
// they are handed out to ReadFrame one chunk per Read call, reproducing
// however fragmented a real transport would deliver them. Message,
// Finished and Exception calls are recorded for assertions.
type Handler struct {
	mu sync.Mutex

	name     string
	datagram bool
	readable bool

	chunks  [][]byte
	readErr error

	stream *wire.Stream

	messages  [][]byte
	finished  int
	exception error
}

// NewHandler returns a stream-framed handler named name.
func NewHandler(name string) *Handler {
	return &Handler{name: name, readable: true, stream: wire.NewStream()}
}

// NewDatagramHandler returns a datagram-framed handler named name.
func NewDatagramHandler(name string) *Handler {
	return &Handler{name: name, readable: true, datagram: true, stream: wire.NewStream()}
}

func (h *Handler) Readable() bool { return h.readable }

// SetReadable overrides whether the framer runs before Message is called.
func (h *Handler) SetReadable(v bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.readable = v
}
func (h *Handler) Datagram() bool       { return h.datagram }
func (h *Handler) Stream() *wire.Stream { return h.stream }
func (h *Handler) String() string       { return h.name }

// AddRecvData queues one chunk to be returned by the next Read call.
func (h *Handler) AddRecvData(b []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	cp := make([]byte, len(b))
	copy(cp, b)
	h.chunks = append(h.chunks, cp)
}

// SetReadError configures Read to fail once the queued chunks are drained.
func (h *Handler) SetReadError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.readErr = err
}

// Read implements wire.Reader and pool.EventHandler: it copies the next
// queued chunk into s.Remaining(), or returns the configured error once
// the queue is empty.
func (h *Handler) Read(s *wire.Stream) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.chunks) == 0 {
		if h.readErr != nil {
			return h.readErr
		}
		return &wire.TimeoutError{}
	}

	chunk := h.chunks[0]
	h.chunks = h.chunks[1:]

	n := copy(s.Remaining(), chunk)
	s.Advance(n)
	if n < len(chunk) {
		h.chunks = append([][]byte{chunk[n:]}, h.chunks...)
	}
	return nil
}

func (h *Handler) Message(s *wire.Stream, p *pool.Pool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	cp := make([]byte, s.Len())
	copy(cp, s.Bytes())
	h.messages = append(h.messages, cp)
	return nil
}

func (h *Handler) Finished(p *pool.Pool) {
	p.PromoteFollower()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.finished++
}

func (h *Handler) Exception(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.exception = err
}

// Messages returns every payload delivered to Message so far.
func (h *Handler) Messages() [][]byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([][]byte, len(h.messages))
	copy(out, h.messages)
	return out
}

// FinishedCount returns how many times Finished has been called.
func (h *Handler) FinishedCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.finished
}

// LastException returns the last error passed to Exception, if any.
func (h *Handler) LastException() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.exception
}
