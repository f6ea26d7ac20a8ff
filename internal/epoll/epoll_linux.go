//go:build linux
// +build linux

// Package epoll wraps the Linux epoll(7) readiness primitive and the
// self-pipe used to wake a blocked waiter. It is adapted from the teacher
// codebase's poll_unix.go / register_unix.go EpollCtl wrappers, generalized
// to register arbitrary descriptors instead of only redis client sockets,
// and to expose a single blocking Wait call instead of owning its own loop.
package epoll

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

const readEvents = unix.EPOLLPRI | unix.EPOLLIN

// Poller is a thin epoll_create1/epoll_ctl/epoll_wait wrapper plus a
// non-blocking self-pipe, the two OS primitives the pool's readiness loop
// and interrupt channel are built on.
type Poller struct {
	epfd int

	pipeRead  int
	pipeWrite int
}

// New creates an epoll instance and an associated self-pipe, registering
// the pipe's read end for readiness so it always participates in Wait.
func New() (*Poller, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, os.NewSyscallError("epoll_create1", err)
	}

	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		_ = unix.Close(epfd)
		return nil, os.NewSyscallError("pipe2", err)
	}

	p := &Poller{epfd: epfd, pipeRead: fds[0], pipeWrite: fds[1]}
	if err := p.Add(fds[0]); err != nil {
		_ = p.Close()
		return nil, err
	}
	return p, nil
}

// InterruptFd returns the self-pipe's read end — the fd the pool's
// readiness set always contains.
func (p *Poller) InterruptFd() int { return p.pipeRead }

// Add registers fd for read readiness.
func (p *Poller) Add(fd int) error {
	ev := unix.EpollEvent{Fd: int32(fd), Events: readEvents}
	return os.NewSyscallError("epoll_ctl add", unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, &ev))
}

// Remove deregisters fd.
func (p *Poller) Remove(fd int) error {
	return os.NewSyscallError("epoll_ctl del", unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil))
}

// Wait blocks until at least one registered fd is readable or timeoutMs
// elapses (timeoutMs < 0 blocks indefinitely, 0 returns immediately). The
// returned slice of ready fds is only valid until the next Wait call.
func (p *Poller) Wait(out []int, timeoutMs int) (ready []int, err error) {
	var events [128]unix.EpollEvent
	n, err := unix.EpollWait(p.epfd, events[:], timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return nil, ErrInterrupted
		}
		return nil, os.NewSyscallError("epoll_wait", err)
	}

	out = out[:0]
	for i := 0; i < n; i++ {
		out = append(out, int(events[i].Fd))
	}
	return out, nil
}

// SetInterrupt writes exactly one byte to the self-pipe, retrying on
// EINTR, guaranteeing the waiter observes InterruptFd() as readable.
func (p *Poller) SetInterrupt() error {
	var b [1]byte
	for {
		_, err := unix.Write(p.pipeWrite, b[:])
		if err == nil {
			return nil
		}
		if err == unix.EINTR {
			continue
		}
		return os.NewSyscallError("write", err)
	}
}

// ClearInterrupt consumes exactly one byte from the self-pipe, retrying on
// EINTR. EAGAIN (nothing queued — a benign race with a concurrent
// SetInterrupt) is not an error.
func (p *Poller) ClearInterrupt() error {
	var b [1]byte
	for {
		_, err := unix.Read(p.pipeRead, b[:])
		if err == nil {
			return nil
		}
		if err == unix.EINTR {
			continue
		}
		if err == unix.EAGAIN {
			return nil
		}
		return os.NewSyscallError("read", err)
	}
}

// Close releases the epoll fd and both ends of the self-pipe.
func (p *Poller) Close() error {
	var errs []error
	if err := unix.Close(p.epfd); err != nil {
		errs = append(errs, fmt.Errorf("close epoll fd: %w", err))
	}
	if err := unix.Close(p.pipeRead); err != nil {
		errs = append(errs, fmt.Errorf("close pipe read end: %w", err))
	}
	if err := unix.Close(p.pipeWrite); err != nil {
		errs = append(errs, fmt.Errorf("close pipe write end: %w", err))
	}
	if len(errs) == 0 {
		return nil
	}
	return joinErrors(errs)
}
