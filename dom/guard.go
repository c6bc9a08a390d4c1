package dom

import "github.com/jsonval/jsonval/errors"

// The guard types make multi-step mutations all-or-nothing. Each carries a
// committed flag; rollback is deferred at the start of the mutation and
// becomes a no-op once commit has been called. Any early error return
// therefore restores the container to its exact pre-call state.

// constructGuard wraps an array under construction. Rollback releases
// whatever the partially run constructor produced.
type constructGuard struct {
	a         *Array
	committed bool
}

func beginConstruct(a *Array) *constructGuard {
	return &constructGuard{a: a}
}

func (g *constructGuard) commit() {
	g.committed = true
}

func (g *constructGuard) rollback() {
	if g.committed {
		return
	}
	g.a.buf.release(g.a.res)
}

// assignGuard wraps an in-place reassignment. Creation moves the target's
// current buffer into the guard, leaving the target empty for the new
// content to be built into. Rollback releases the failed attempt and puts
// the original buffer back; commit releases the original.
type assignGuard struct {
	a         *Array
	saved     buffer
	committed bool
}

func beginAssign(a *Array) *assignGuard {
	g := &assignGuard{a: a}
	g.saved.adopt(&a.buf)
	return g
}

func (g *assignGuard) commit() {
	g.committed = true
	g.saved.release(g.a.res)
}

func (g *assignGuard) rollback() {
	if g.committed {
		return
	}
	g.a.buf.exchange(&g.saved)
	g.saved.release(g.a.res)
}

// insertGuard implements "insert n elements at index pos" as a transaction.
// Construction reserves capacity, relocates the tail rightward to open a
// gap, and speculatively counts the gap into the array's size. The caller
// then constructs the new elements through emplace. Rollback destroys the
// elements built so far, shrinks the size back and closes the gap, restoring
// the pre-insert sequence exactly.
type insertGuard struct {
	a         *Array
	pos       int
	n         int
	built     int
	committed bool
}

func beginInsert(a *Array, pos, n int) (*insertGuard, error) {
	if err := a.reserve(a.buf.size+n, errors.PhaseInsert); err != nil {
		return nil, err
	}
	if tail := a.buf.size - pos; tail > 0 {
		relocate(a.buf.at(pos+n), a.buf.at(pos), tail)
	}
	a.buf.size += n
	return &insertGuard{a: a, pos: pos, n: n}, nil
}

// emplace copy-constructs src into the next gap slot using the array's
// resource.
func (g *insertGuard) emplace(src *Value) error {
	v, err := src.CloneTo(g.a.res)
	if err != nil {
		return err
	}
	*g.a.buf.at(g.pos + g.built) = v
	g.built++
	return nil
}

func (g *insertGuard) commit() {
	g.committed = true
}

func (g *insertGuard) rollback() {
	if g.committed {
		return
	}
	b := &g.a.buf
	for i := g.built - 1; i >= 0; i-- {
		b.at(g.pos + i).Release()
	}
	b.size -= g.n
	if tail := b.size - g.pos; tail > 0 {
		relocate(b.at(g.pos), b.at(g.pos+g.n), tail)
	}
}
