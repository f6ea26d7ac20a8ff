package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/fzft/leaderpool/pool"
	"github.com/fzft/leaderpool/wire"
)

// pipeHandler is a demo pool.EventHandler backed by one end of an os.Pipe.
// poolctl uses it to let an operator register a descriptor and push framed
// messages at it from the REPL without opening a real socket.
type pipeHandler struct {
	fd     pool.Fd
	name   string
	r, w   *os.File
	stream *wire.Stream

	finished chan struct{}
}

func newPipeHandler(name string) (*pipeHandler, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	return &pipeHandler{
		fd:       pool.Fd(r.Fd()),
		name:     name,
		r:        r,
		w:        w,
		stream:   wire.NewStream(),
		finished: make(chan struct{}),
	}, nil
}

func (h *pipeHandler) Readable() bool       { return true }
func (h *pipeHandler) Datagram() bool       { return false }
func (h *pipeHandler) Stream() *wire.Stream { return h.stream }
func (h *pipeHandler) String() string       { return h.name }

func (h *pipeHandler) Read(s *wire.Stream) error {
	n, err := h.r.Read(s.Remaining())
	if err != nil {
		return err
	}
	s.Advance(n)
	return nil
}

// Message prints the decoded payload and promotes a follower before doing
// so, per the EventHandler contract (spec.md §3): anything that could
// block must hand off leadership first.
func (h *pipeHandler) Message(s *wire.Stream, p *pool.Pool) error {
	payload := append([]byte(nil), s.Bytes()[wire.HeaderSize:]...)
	p.PromoteFollower()
	color.New(color.FgGreen).Printf("[%s] %s  (%d bytes @ %s)\n",
		h.name, string(payload), len(payload), time.Now().Format(time.RFC3339))
	return nil
}

func (h *pipeHandler) Finished(p *pool.Pool) {
	p.PromoteFollower()
	close(h.finished)
	_ = h.r.Close()
}

func (h *pipeHandler) Exception(err error) {
	color.New(color.FgRed).Fprintf(os.Stderr, "[%s] error: %v\n", h.name, err)
}

// Send encodes payload into one frame and writes it to the handler's write
// end, waking the pool's readiness wait on h.fd.
func (h *pipeHandler) Send(payload []byte) error {
	buf := make([]byte, wire.HeaderSize+len(payload))
	wire.PutHeader(buf, wire.Header{
		ProtoMajor: wire.ProtocolMajor, ProtoMinor: wire.ProtocolMinor,
		EncMajor: wire.EncodingMajor, EncMinor: wire.EncodingMinor,
		Size: int32(len(buf)),
	})
	copy(buf[wire.HeaderSize:], payload)
	_, err := h.w.Write(buf)
	return err
}

func (h *pipeHandler) Close() error {
	return h.w.Close()
}

var errUsage = fmt.Errorf("usage error")
