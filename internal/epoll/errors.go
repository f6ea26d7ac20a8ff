package epoll

import (
	"errors"

	"go.uber.org/multierr"
)

// ErrInterrupted is returned by Wait when epoll_wait was interrupted by an
// asynchronous signal (EINTR) — never a real readiness result, never a
// timeout, just "try again."
var ErrInterrupted = errors.New("epoll: interrupted")

// joinErrors aggregates independent close failures the way destroy-time
// cleanup needs to: report every failure, not just the first.
func joinErrors(errs []error) error {
	return multierr.Combine(errs...)
}
