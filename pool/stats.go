package pool

// Stats is a point-in-time snapshot of a pool's sizing state, useful for
// admin tooling and diagnostics. It never blocks on pool activity beyond
// the brief lock acquisition needed to read the fields.
type Stats struct {
	Size, SizeMax, SizeWarn int
	Running, InUse          int
	Load                    float64
	Registered              int
}

// Stats returns a snapshot of the pool's current sizing state.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		Size:       p.size,
		SizeMax:    p.sizeMax,
		SizeWarn:   p.sizeWarn,
		Running:    p.running,
		InUse:      p.inUse,
		Load:       p.load,
		Registered: len(p.handlers),
	}
}
