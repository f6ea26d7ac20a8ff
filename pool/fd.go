package pool

// Fd is an opaque descriptor identifier, comparable for min/max ordering
// the way the readiness set needs (spec.md §3).
type Fd int32

// InvalidFd is the sentinel "no descriptor" value.
const InvalidFd Fd = -1
