package pool

// readySet tracks the extent of the descriptor set the pool's single
// waiter monitors, and implements the round-robin fairness policy of
// spec.md §4.2. The actual OS-level registration lives in internal/epoll;
// this type only tracks bookkeeping (min/max/last) needed to pick a fair
// winner among a batch of ready descriptors without starving
// high-numbered ones.
type readySet struct {
	interruptFd Fd
	maxFd       Fd
	minFd       Fd
	lastFd      Fd

	fds map[Fd]struct{}
}

func newReadySet(interruptFd Fd) *readySet {
	return &readySet{
		interruptFd: interruptFd,
		maxFd:       interruptFd,
		minFd:       interruptFd,
		lastFd:      InvalidFd,
		fds:         map[Fd]struct{}{interruptFd: {}},
	}
}

// add records fd as part of the monitored set and extends min/max.
func (r *readySet) add(fd Fd) {
	r.fds[fd] = struct{}{}
	if fd > r.maxFd {
		r.maxFd = fd
	}
	if fd < r.minFd {
		r.minFd = fd
	}
}

// remove drops fd from the set and recomputes min/max. On removal of the
// last non-interrupt descriptor, both collapse back to the interrupt fd.
func (r *readySet) remove(fd Fd) {
	delete(r.fds, fd)

	r.maxFd = r.interruptFd
	r.minFd = r.interruptFd
	for other := range r.fds {
		if other == r.interruptFd {
			continue
		}
		if other > r.maxFd {
			r.maxFd = other
		}
		if other < r.minFd {
			r.minFd = other
		}
	}
}

// pickReady selects one fd from ready using round-robin starting just
// after lastFd, wrapping at the active [minFd, maxFd] range. It returns
// false if two full passes over ready found nothing — a defensive,
// shouldn't-happen outcome the caller logs and ignores.
func (r *readySet) pickReady(ready map[Fd]struct{}) (Fd, bool) {
	if len(ready) == 0 {
		return InvalidFd, false
	}

	if r.lastFd < r.minFd-1 || r.lastFd == InvalidFd {
		r.lastFd = r.minFd - 1
	}

	loops := 0
	cur := r.lastFd
	for {
		cur++
		if cur > r.maxFd {
			loops++
			cur = r.minFd
		}
		if _, ok := ready[cur]; ok {
			r.lastFd = cur
			return cur, true
		}
		if loops > 1 {
			return InvalidFd, false
		}
	}
}
