//go:build !linux
// +build !linux

// Stub for unsupported platforms: the pool's readiness primitive is
// Linux epoll only, matching the teacher codebase's own poll_unix.go
// (which carries the same linux build tag and no other-OS counterpart).

package epoll

import "errors"

// Poller is declared here so the package still type-checks on other
// platforms; none of its methods are usable.
type Poller struct{}

// New always fails on non-Linux platforms.
func New() (*Poller, error) {
	return nil, errors.New("epoll: this platform is not supported")
}

func (p *Poller) InterruptFd() int { return -1 }

func (p *Poller) Add(fd int) error { return errors.New("epoll: unsupported") }

func (p *Poller) Remove(fd int) error { return errors.New("epoll: unsupported") }

func (p *Poller) Wait(out []int, timeoutMs int) ([]int, error) {
	return nil, errors.New("epoll: unsupported")
}

func (p *Poller) SetInterrupt() error { return errors.New("epoll: unsupported") }

func (p *Poller) ClearInterrupt() error { return errors.New("epoll: unsupported") }

func (p *Poller) Close() error { return nil }
