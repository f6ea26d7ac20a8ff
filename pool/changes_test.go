package pool

import (
	"testing"

	"github.com/fzft/leaderpool/wire"
	"github.com/stretchr/testify/assert"
)

func TestChangeQueueFIFOOrder(t *testing.T) {
	q := newChangeQueue()
	q.push(change{fd: 1})
	q.push(change{fd: 2})
	q.push(change{fd: 3})

	assert.Equal(t, 3, q.len())
	assert.Equal(t, Fd(1), q.pop().fd)
	assert.Equal(t, Fd(2), q.pop().fd)
	assert.Equal(t, Fd(3), q.pop().fd)
	assert.Equal(t, 0, q.len())
}

func TestChangeQueueAddThenRemoveOrdering(t *testing.T) {
	q := newChangeQueue()
	h := &fakeHandler{}
	q.push(change{fd: 5, handler: h})
	q.push(change{fd: 5, handler: nil})

	add := q.pop()
	assert.Same(t, h, add.handler)

	remove := q.pop()
	assert.Nil(t, remove.handler)
}

// fakeHandler satisfies EventHandler minimally for queue identity checks;
// none of its methods are exercised here.
type fakeHandler struct{}

func (fakeHandler) Readable() bool                        { return false }
func (fakeHandler) Datagram() bool                        { return false }
func (fakeHandler) Read(s *wire.Stream) error             { return nil }
func (fakeHandler) Message(s *wire.Stream, p *Pool) error { return nil }
func (fakeHandler) Finished(p *Pool)                      {}
func (fakeHandler) Exception(err error)                   {}
func (fakeHandler) Stream() *wire.Stream                  { return nil }
func (fakeHandler) String() string                        { return "fake" }
