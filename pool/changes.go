package pool

import "github.com/eapache/queue"

// change is one entry of the pending-changes queue (spec.md §3 C3):
// Handler set means "add"; Handler nil means "remove".
type change struct {
	fd      Fd
	handler EventHandler
}

// changeQueue is the FIFO of deferred register/unregister mutations,
// backed by eapache/queue's ring buffer instead of a hand-rolled slice —
// exactly the shape spec.md §4.3's "ordered queue" calls for, with O(1)
// push/pop instead of a slice's amortized-but-occasionally-O(n) append.
type changeQueue struct {
	q *queue.Queue
}

func newChangeQueue() *changeQueue {
	return &changeQueue{q: queue.New()}
}

func (c *changeQueue) push(ch change) {
	c.q.Add(ch)
}

// pop removes and returns the oldest entry. It panics if the queue is
// empty. The worker pops without checking len(): it pops once per consumed
// interrupt byte, and Register/Unregister push one entry before writing
// each byte.
func (c *changeQueue) pop() change {
	v := c.q.Peek()
	c.q.Remove()
	return v.(change)
}

func (c *changeQueue) len() int {
	return c.q.Length()
}
