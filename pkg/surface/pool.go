package surface

// Pool holds one surface per configured display entry, created eagerly at
// initialization and destroyed together on teardown or config reload.
type Pool struct {
	surfaces []Surface
}

// NewPool creates count surfaces using factory.
func NewPool(count int, factory Factory) *Pool {
	p := &Pool{surfaces: make([]Surface, count)}
	for i := range p.surfaces {
		p.surfaces[i] = factory()
	}
	return p
}

// Len returns the number of surfaces.
func (p *Pool) Len() int { return len(p.surfaces) }

// At returns the surface at index i, or nil when out of range.
func (p *Pool) At(i int) Surface {
	if i < 0 || i >= len(p.surfaces) {
		return nil
	}
	return p.surfaces[i]
}

// DestroyAll tears down every surface. The pool is unusable afterwards.
func (p *Pool) DestroyAll() {
	for _, s := range p.surfaces {
		s.Destroy()
	}
	p.surfaces = nil
}
