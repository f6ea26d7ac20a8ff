// Package pool implements the Leader/Follower I/O thread pool: readiness
// multiplexing, round-robin fair dispatch, elastic worker sizing, and
// coordinated shutdown, all guarded by a single mutex/condvar pair per
// spec.md §5.
package pool

import (
	"sync"

	"github.com/fzft/leaderpool/instance"
	"github.com/fzft/leaderpool/internal/epoll"
	"go.uber.org/zap"
)

// loadFactor is the EWMA smoothing constant for the in-use load estimate
// (spec.md §4.6).
const loadFactor = 0.05

// workerHandle tracks one spawned worker goroutine so JoinWithAllThreads
// and the elastic-shrink reaper can wait for / detect its exit without
// the cyclic pool<->thread ownership the original C++ breaks with an
// explicit null-out (spec.md §9): the handle is owned by the pool, the
// worker only ever receives a plain, non-owning *Pool back-reference.
type workerHandle struct {
	done chan struct{}
}

func (w *workerHandle) alive() bool {
	select {
	case <-w.done:
		return false
	default:
		return true
	}
}

// Pool is the Leader/Follower coordinator (spec.md §3 C7). All fields
// below the mutex are only ever touched while holding mu, except where a
// comment says otherwise.
type Pool struct {
	inst   *instance.Instance
	log    *zap.Logger
	prefix string

	poller *epoll.Poller

	mu          sync.Mutex
	promoteCond *sync.Cond

	destroyed bool
	changes   *changeQueue
	handlers  map[Fd]EventHandler
	ready     *readySet

	size, sizeMax, sizeWarn int
	stackSize               int
	timeoutSeconds          int

	running, inUse int
	load           float64
	promote        bool

	threads []*workerHandle
}

// New constructs a pool, spawning Size workers immediately. Configuration
// is read once from inst.Properties under the given prefix, per spec.md §6.
func New(inst *instance.Instance, prefix string, timeoutSeconds int) (*Pool, error) {
	props := inst.Properties

	size := props.GetInt(prefix+".Size", 1)
	if size < 1 {
		size = 1
	}
	sizeMax := props.GetInt(prefix+".SizeMax", size)
	if sizeMax < size {
		sizeMax = size
	}
	sizeWarn := props.GetInt(prefix+".SizeWarn", sizeMax*80/100)
	stackSize := props.GetInt(prefix+".StackSize", 0)
	if stackSize < 0 {
		stackSize = 0
	}

	poller, err := epoll.New()
	if err != nil {
		return nil, err
	}

	p := &Pool{
		inst:           inst,
		log:            inst.Logger,
		prefix:         prefix,
		poller:         poller,
		changes:        newChangeQueue(),
		handlers:       make(map[Fd]EventHandler),
		ready:          newReadySet(Fd(poller.InterruptFd())),
		size:           size,
		sizeMax:        sizeMax,
		sizeWarn:       sizeWarn,
		stackSize:      stackSize,
		timeoutSeconds: timeoutSeconds,
		promote:        true,
	}
	p.promoteCond = sync.NewCond(&p.mu)

	p.mu.Lock()
	for i := 0; i < size; i++ {
		if err := p.spawnWorkerLocked(); err != nil {
			p.mu.Unlock()
			_ = p.Destroy()
			p.JoinWithAllThreads()
			return nil, &SpawnError{Err: err}
		}
	}
	p.mu.Unlock()

	return p, nil
}

// spawnWorkerLocked starts one worker goroutine and records its handle.
// Callers must hold mu: it mutates threads and running, the same fields
// the leader touches under lock in the reap/shrink path.
func (p *Pool) spawnWorkerLocked() error {
	h := &workerHandle{done: make(chan struct{})}
	p.threads = append(p.threads, h)
	p.running++

	go func() {
		defer close(h.done)
		p.runWorker()
	}()
	return nil
}

// Prefix returns the configuration prefix this pool was constructed with.
func (p *Pool) Prefix() string { return p.prefix }

// Register defers adding fd/handler to the descriptor set: the mutation
// is queued and the interrupt is signaled so the current leader drains it
// on its next wake (spec.md §4.3).
func (p *Pool) Register(fd Fd, h EventHandler) error {
	p.mu.Lock()
	if p.destroyed {
		p.mu.Unlock()
		return ErrDestroyed
	}
	p.changes.push(change{fd: fd, handler: h})
	p.mu.Unlock()

	return p.poller.SetInterrupt()
}

// Unregister defers removing fd from the descriptor set. The handler's
// Finished is invoked once the removal is applied inside the loop.
func (p *Pool) Unregister(fd Fd) error {
	p.mu.Lock()
	if p.destroyed {
		p.mu.Unlock()
		return ErrDestroyed
	}
	p.changes.push(change{fd: fd, handler: nil})
	p.mu.Unlock()

	return p.poller.SetInterrupt()
}

// PromoteFollower hands leadership to a waiting worker and, under load,
// grows the pool. It is a no-op when SizeMax == 1: the Leader/Follower
// machinery is elided entirely in that configuration (spec.md §4.6).
func (p *Pool) PromoteFollower() {
	if p.sizeMax <= 1 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.promote {
		// Already promoted (e.g. a worker exiting its error path set this
		// before we got here); nothing to do.
		return
	}
	p.promote = true
	p.promoteCond.Signal()

	if p.destroyed {
		return
	}

	p.inUse++
	if p.inUse == p.sizeWarn {
		p.log.Warn("thread pool is running low on threads",
			zap.String("prefix", p.prefix),
			zap.Int("size", p.size), zap.Int("sizeMax", p.sizeMax), zap.Int("sizeWarn", p.sizeWarn))
	}

	if p.inUse < p.sizeMax && p.inUse == p.running {
		if err := p.spawnWorkerLocked(); err != nil {
			p.log.Error("cannot create thread", zap.String("prefix", p.prefix), zap.Error(err))
		}
	}
}

// Destroy marks the pool destroyed and wakes every worker via the
// interrupt channel. Callers must have already unregistered every
// handler (spec.md §4.6's precondition) — Destroy does not do it for
// them.
func (p *Pool) Destroy() error {
	p.mu.Lock()
	if p.destroyed {
		p.mu.Unlock()
		return nil
	}
	if len(p.handlers) != 0 || p.changes.len() != 0 {
		p.mu.Unlock()
		return ErrNotEmpty
	}
	p.destroyed = true
	p.mu.Unlock()

	return p.poller.SetInterrupt()
}

// JoinWithAllThreads blocks until every worker goroutine has exited. Must
// be called after Destroy. Safe without locking: threads is only mutated
// by the pool during construction or by the leader under lock, and once
// destroyed no further mutation occurs (spec.md §4.6).
func (p *Pool) JoinWithAllThreads() {
	for _, h := range p.threads {
		<-h.done
	}
	if err := p.poller.Close(); err != nil {
		p.log.Error("failed closing epoll/interrupt descriptors", zap.String("prefix", p.prefix), zap.Error(err))
	}
}
