package pool

// sizeExit implements the elastic-shrink / reap / re-acquire-follower-wait
// step of the reactor loop (spec.md §4.5 step 6, §4.6 "Elastic shrink").
// It returns true if the calling worker should exit now.
//
// When SizeMax == 1 the Leader/Follower machinery is elided entirely: the
// lone worker never waits on the promote condvar, so this is a no-op.
func (p *Pool) sizeExit() bool {
	if p.sizeMax <= 1 {
		return false
	}

	p.mu.Lock()

	if !p.destroyed {
		p.reapDeadWorkersLocked()

		p.load = p.load*(1-loadFactor) + float64(p.inUse)*loadFactor

		if p.running > p.size {
			load := int(p.load + 1)
			if load < p.running {
				p.inUse--
				p.running--
				p.mu.Unlock()
				return true
			}
		}

		p.inUse--
	}

	for !p.promote {
		p.promoteCond.Wait()
	}
	p.promote = false
	p.mu.Unlock()
	return false
}

// reapDeadWorkersLocked drops worker handles whose goroutine has already
// exited from the threads slice. Called with mu held.
func (p *Pool) reapDeadWorkersLocked() {
	alive := p.threads[:0]
	for _, h := range p.threads {
		if h.alive() {
			alive = append(alive, h)
		}
	}
	p.threads = alive
}
