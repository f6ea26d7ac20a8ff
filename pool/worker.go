package pool

import (
	"github.com/fzft/leaderpool/internal/epoll"
	"github.com/fzft/leaderpool/wire"
	"go.uber.org/zap"
)

// runWorker is the reactor loop body (spec.md §4.5). Every worker
// goroutine runs this; at any moment exactly one of them (the "leader")
// is blocked inside the epoll wait (p.poller.Wait).
func (p *Pool) runWorker() {
	if p.sizeMax > 1 {
		p.mu.Lock()
		for !p.promote {
			p.promoteCond.Wait()
		}
		p.promote = false
		p.mu.Unlock()
	}

	ready := make([]int, 0, 128)

	for {
		var err error
		ready, err = p.poller.Wait(ready, p.waitTimeoutMs())
		if err != nil {
			if err == epoll.ErrInterrupted {
				continue
			}
			p.log.Error("readiness wait failed", zap.String("prefix", p.prefix), zap.Error(err))
			continue
		}

		if len(ready) == 0 {
			// Only reachable when timeoutSeconds > 0: the idle timeout
			// fired. Disable it and fall through to the shutdown dispatch.
			p.mu.Lock()
			p.timeoutSeconds = 0
			p.mu.Unlock()
			p.dispatchShutdown()
			if p.sizeExit() {
				return
			}
			continue
		}

		readySet := make(map[Fd]struct{}, len(ready))
		for _, fd := range ready {
			readySet[Fd(fd)] = struct{}{}
		}

		var handler EventHandler
		finished := false

		p.mu.Lock()
		if _, interrupted := readySet[p.ready.interruptFd]; interrupted {
			if p.destroyed {
				// Don't clear the interrupt: every other worker must
				// still observe it readable when it wakes. Force-promote
				// a follower so it can observe the same thing and exit
				// in turn, then this worker is done.
				p.promote = true
				p.promoteCond.Signal()
				p.mu.Unlock()
				return
			}

			if err := p.poller.ClearInterrupt(); err != nil {
				p.log.Error("clear interrupt failed: fatal, handing off to a follower", zap.String("prefix", p.prefix), zap.Error(err))
				p.promote = true
				p.promoteCond.Signal()
				p.mu.Unlock()
				return
			}

			ch := p.changes.pop()
			if ch.handler != nil {
				p.handlers[ch.fd] = ch.handler
				p.ready.add(ch.fd)
				if err := p.poller.Add(int(ch.fd)); err != nil {
					p.log.Error("register fd failed", zap.String("prefix", p.prefix), zap.Int("fd", int(ch.fd)), zap.Error(err))
				}
				p.mu.Unlock()
				continue
			}

			handler = p.handlers[ch.fd]
			delete(p.handlers, ch.fd)
			p.ready.remove(ch.fd)
			if err := p.poller.Remove(int(ch.fd)); err != nil {
				p.log.Error("unregister fd failed", zap.String("prefix", p.prefix), zap.Int("fd", int(ch.fd)), zap.Error(err))
			}
			finished = true
			p.mu.Unlock()
		} else {
			fd, ok := p.ready.pickReady(readySet)
			if !ok {
				p.mu.Unlock()
				p.log.Error("readiness wait returned fds but none matched the round-robin scan",
					zap.String("prefix", p.prefix))
				continue
			}
			h, ok := p.handlers[fd]
			if !ok {
				p.mu.Unlock()
				p.log.Error("descriptor not registered", zap.String("prefix", p.prefix), zap.Int("fd", int(fd)))
				continue
			}
			handler = h
			p.mu.Unlock()
		}

		// Outside the lock from here on.
		if finished {
			p.dispatchFinished(handler)
			// No continue: finished() must call PromoteFollower() itself.
		} else {
			if !p.dispatchMessage(handler) {
				// Timeout / DatagramLimitError, or an error already handed
				// to Exception: Message was not called, no follower was
				// promoted, this thread is still the leader. Go straight
				// back to the wait without touching size policy.
				continue
			}
			// No continue: Message() must call PromoteFollower() itself.
		}

		if p.sizeExit() {
			return
		}
	}
}

// waitTimeoutMs converts the configured idle timeout to epoll_wait's
// millisecond convention, -1 meaning block indefinitely.
func (p *Pool) waitTimeoutMs() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.timeoutSeconds > 0 {
		return p.timeoutSeconds * 1000
	}
	return -1
}

// dispatchShutdown invokes the external object-adapter-factory shutdown
// hook exactly once, after promoting a follower so the new leader's wait
// runs concurrently with this call (spec.md §4.5 step 5).
func (p *Pool) dispatchShutdown() {
	p.PromoteFollower()
	if p.inst.Shutdown != nil {
		p.inst.Shutdown()
	}
}

// dispatchFinished calls handler.Finished, catching and logging any
// handler-side panic the way spec.md §7 requires transport/handler errors
// to be caught and swallowed rather than killing the worker.
func (p *Pool) dispatchFinished(h EventHandler) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("panic in handler Finished", zap.String("prefix", p.prefix), zap.String("handler", h.String()), zap.Any("panic", r))
		}
	}()
	h.Finished(p)
}

// dispatchMessage runs the framer (if the handler wants framed reads) and
// hands the resulting stream to handler.Message, implementing the error
// taxonomy of spec.md §7. It returns false whenever Message was not called
// (a Timeout, a DatagramLimitError, or any other framer error, which is
// first passed to h.Exception); the caller treats that as "no handler was
// promoted, stay the leader."
//
// A successfully framed stream, and any framer failure other than a
// Timeout, drains the handler's stream before returning — the
// Go stand-in for the original's stream.swap(handler->_stream) (original
// ThreadPool.cpp's read()), which leaves the handler's own buffer empty so
// the next readiness wake starts a fresh frame instead of re-parsing the
// one just delivered.
func (p *Pool) dispatchMessage(h EventHandler) bool {
	if h.Readable() {
		err := wire.ReadFrame(h, h.Stream(), p.inst.MessageSizeMax, h.Datagram())
		if err != nil {
			if _, ok := err.(*wire.TimeoutError); ok {
				return false
			}
			if dl, ok := err.(*wire.DatagramLimitError); ok {
				if p.inst.WarnDatagrams {
					p.log.Warn("datagram exceeds configured limit",
						zap.String("prefix", p.prefix), zap.String("handler", h.String()),
						zap.Int("got", dl.Got), zap.Int("want", dl.Want))
				}
				h.Stream().Reset()
				return false
			}
			h.Stream().Reset()
			h.Exception(err)
			return false
		}
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				p.log.Error("panic in handler Message", zap.String("prefix", p.prefix), zap.String("handler", h.String()), zap.Any("panic", r))
			}
		}()
		if err := h.Message(h.Stream(), p); err != nil {
			p.log.Error("handler Message returned an error", zap.String("prefix", p.prefix), zap.String("handler", h.String()), zap.Error(err))
		}
	}()
	if h.Readable() {
		h.Stream().Reset()
	}
	return true
}
