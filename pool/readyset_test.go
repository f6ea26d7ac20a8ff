package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadySetRoundRobinAdvancesPastLast(t *testing.T) {
	r := newReadySet(99)
	r.add(3)
	r.add(5)
	r.add(7)

	ready := map[Fd]struct{}{3: {}, 5: {}, 7: {}}

	fd, ok := r.pickReady(ready)
	assert.True(t, ok)
	assert.Equal(t, Fd(3), fd)

	fd, ok = r.pickReady(ready)
	assert.True(t, ok)
	assert.Equal(t, Fd(5), fd)

	fd, ok = r.pickReady(ready)
	assert.True(t, ok)
	assert.Equal(t, Fd(7), fd)

	// Wraps back to the lowest fd rather than starving it.
	fd, ok = r.pickReady(ready)
	assert.True(t, ok)
	assert.Equal(t, Fd(3), fd)
}

func TestReadySetRoundRobinSkipsNotReady(t *testing.T) {
	r := newReadySet(99)
	r.add(3)
	r.add(5)
	r.add(7)
	r.lastFd = 3

	fd, ok := r.pickReady(map[Fd]struct{}{7: {}})
	assert.True(t, ok)
	assert.Equal(t, Fd(7), fd)
}

func TestReadySetPickReadyGivesUpAfterTwoWraps(t *testing.T) {
	r := newReadySet(99)
	r.add(3)
	r.add(5)

	// Ready reports an fd that isn't actually part of the monitored range
	// [3, 99] (the interrupt fd 99 bounds the top).
	_, ok := r.pickReady(map[Fd]struct{}{200: {}})
	assert.False(t, ok)
}

func TestReadySetRemoveCollapsesRangeToInterruptFd(t *testing.T) {
	r := newReadySet(99)
	r.add(3)
	r.remove(3)

	assert.Equal(t, Fd(99), r.minFd)
	assert.Equal(t, Fd(99), r.maxFd)
}

func TestReadySetRemoveRecomputesExtent(t *testing.T) {
	r := newReadySet(99)
	r.add(3)
	r.add(5)
	r.add(10)
	r.remove(10)

	// The interrupt fd (99) stays in the set, so it still bounds the top.
	assert.Equal(t, Fd(3), r.minFd)
	assert.Equal(t, Fd(99), r.maxFd)
}
