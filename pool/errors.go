package pool

import "errors"

// ErrDestroyed is returned by Register/Unregister once the pool has been
// destroyed.
var ErrDestroyed = errors.New("pool: destroyed")

// ErrNotEmpty is returned by Destroy if called while handlers or pending
// changes still exist — the caller must unregister everything first
// (spec.md §4.6's destroy() precondition).
var ErrNotEmpty = errors.New("pool: handlers or pending changes still present")

// SpawnError wraps a worker-goroutine spawn failure raised at
// construction time, after the pool has destroyed and joined whatever
// workers it did manage to start.
type SpawnError struct {
	Err error
}

func (e *SpawnError) Error() string { return "pool: spawn worker: " + e.Err.Error() }
func (e *SpawnError) Unwrap() error { return e.Err }
