// Package pool implements a Leader/Follower I/O thread pool: a small,
// elastic set of goroutines that share a single epoll readiness wait,
// hand off leadership before dispatching so at most one goroutine ever
// blocks in the wait, and frame/dispatch application messages to
// registered EventHandlers.
//
// # Leader/Follower
//
// Exactly one worker is "leader" at a time — the one blocked inside the
// epoll wait. Before it processes anything it found, it promotes a
// follower (PromoteFollower) to become the new leader; the actual
// dispatch then runs concurrently with the new leader's wait. When
// SizeMax is 1 this handoff is skipped entirely: the lone worker
// dispatches sequentially between waits.
//
// # Registration
//
// Register and Unregister never touch the descriptor set directly —
// they queue a change and write one byte to a self-pipe. The leader
// drains exactly one queued change per wake, applies it to the
// descriptor set under the pool's lock, and only then either continues
// the loop (on an add) or dispatches Finished (on a remove).
//
// # Sizing
//
// Size is both the initial and minimum worker count. PromoteFollower
// spawns one more worker, up to SizeMax, when every running worker is
// busy dispatching. After each dispatch a worker updates the load (an EWMA
// of in-flight dispatches) and exits if the pool is above Size and the
// truncated load plus one is below the running count; the handles of
// workers that have already exited are reaped on that same path.
package pool
