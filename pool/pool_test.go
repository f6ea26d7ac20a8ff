package pool

import (
	"os"
	"sync"
	"testing"
	"time"

	"github.com/fzft/leaderpool/config"
	"github.com/fzft/leaderpool/instance"
	"github.com/fzft/leaderpool/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pipeHandler frames messages off a real *os.File (one end of os.Pipe),
// so tests exercise the real epoll registration path instead of a mocked
// readiness source.
type pipeHandler struct {
	name string
	r    *os.File
	s    *wire.Stream

	mu        sync.Mutex
	messages  [][]byte
	finished  chan struct{}
	exception error
}

func newPipeHandler(name string, r *os.File) *pipeHandler {
	return &pipeHandler{name: name, r: r, s: wire.NewStream(), finished: make(chan struct{})}
}

func (h *pipeHandler) Readable() bool       { return true }
func (h *pipeHandler) Datagram() bool       { return false }
func (h *pipeHandler) Stream() *wire.Stream { return h.s }
func (h *pipeHandler) String() string       { return h.name }

func (h *pipeHandler) Read(s *wire.Stream) error {
	n, err := h.r.Read(s.Remaining())
	if err != nil {
		return err
	}
	s.Advance(n)
	return nil
}

func (h *pipeHandler) Message(s *wire.Stream, p *Pool) error {
	h.mu.Lock()
	cp := make([]byte, s.Len())
	copy(cp, s.Bytes())
	h.messages = append(h.messages, cp)
	h.mu.Unlock()
	p.PromoteFollower()
	return nil
}

func (h *pipeHandler) Finished(p *Pool) {
	p.PromoteFollower()
	close(h.finished)
}

func (h *pipeHandler) Exception(err error) {
	h.mu.Lock()
	h.exception = err
	h.mu.Unlock()
}

func (h *pipeHandler) Messages() [][]byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([][]byte, len(h.messages))
	copy(out, h.messages)
	return out
}

func newTestPool(t *testing.T, size, sizeMax int) *Pool {
	t.Helper()
	props := config.New()
	props.SetInt("Test.Size", size)
	props.SetInt("Test.SizeMax", sizeMax)
	inst := instance.New(nil, props)

	p, err := New(inst, "Test", 0)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, p.Destroy())
		p.JoinWithAllThreads()
	})
	return p
}

func encodeFrame(payload []byte) []byte {
	buf := make([]byte, wire.HeaderSize+len(payload))
	wire.PutHeader(buf, wire.Header{
		ProtoMajor: wire.ProtocolMajor, ProtoMinor: wire.ProtocolMinor,
		EncMajor: wire.EncodingMajor, EncMinor: wire.EncodingMinor,
		Size: int32(wire.HeaderSize + len(payload)),
	})
	copy(buf[wire.HeaderSize:], payload)
	return buf
}

func TestPoolSizeMax1DispatchesMessage(t *testing.T) {
	p := newTestPool(t, 1, 1)

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	h := newPipeHandler("pipe", r)
	require.NoError(t, p.Register(Fd(r.Fd()), h))

	frame := encodeFrame([]byte("hello"))
	_, err = w.Write(frame)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(h.Messages()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, frame, h.Messages()[0])

	require.NoError(t, p.Unregister(Fd(r.Fd())))
	require.Eventually(t, func() bool {
		select {
		case <-h.finished:
			return true
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPoolElasticSizeDeliversAllFramesUnderLoad(t *testing.T) {
	p := newTestPool(t, 1, 4)

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	h := newPipeHandler("pipe", r)
	require.NoError(t, p.Register(Fd(r.Fd()), h))

	for i := 0; i < 20; i++ {
		_, err := w.Write(encodeFrame([]byte("x")))
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool {
		return len(h.Messages()) == 20
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, p.Unregister(Fd(r.Fd())))
	require.Eventually(t, func() bool {
		select {
		case <-h.finished:
			return true
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPoolDestroyRequiresEmptyHandlerSet(t *testing.T) {
	props := config.New()
	inst := instance.New(nil, props)
	p, err := New(inst, "Test", 0)
	require.NoError(t, err)

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	h := newPipeHandler("pipe", r)
	require.NoError(t, p.Register(Fd(r.Fd()), h))
	time.Sleep(20 * time.Millisecond) // let the leader drain the add

	err = p.Destroy()
	assert.ErrorIs(t, err, ErrNotEmpty)

	require.NoError(t, p.Unregister(Fd(r.Fd())))
	require.Eventually(t, func() bool {
		select {
		case <-h.finished:
			return true
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, p.Destroy())
	p.JoinWithAllThreads()
}

func TestPoolRegisterAfterDestroyIsRejected(t *testing.T) {
	p := newTestPool(t, 1, 1)
	require.NoError(t, p.Destroy())
	p.JoinWithAllThreads()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	err = p.Register(Fd(r.Fd()), newPipeHandler("pipe", r))
	assert.ErrorIs(t, err, ErrDestroyed)
}
