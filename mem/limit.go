package mem

import (
	"sync"
	"unsafe"

	jsonval "github.com/jsonval/jsonval"
	"github.com/jsonval/jsonval/errors"
)

// Limit wraps a resource with a byte budget. Allocations that would push
// outstanding bytes past the budget fail with an allocation error without
// reaching the inner resource. Useful for capping document memory and for
// deterministic failure injection in tests.
type Limit struct {
	inner  jsonval.Resource
	mu     sync.Mutex
	budget int
	used   int
}

// NewLimit wraps inner with a budget of n bytes.
func NewLimit(inner jsonval.Resource, n int) *Limit {
	return &Limit{inner: inner, budget: n}
}

func (l *Limit) Allocate(size, align int) (unsafe.Pointer, error) {
	l.mu.Lock()
	if l.used+size > l.budget {
		used := l.used
		l.mu.Unlock()
		return nil, errors.New(errors.PhaseAlloc, errors.KindAllocation).
			Detail("budget exhausted: %d bytes requested, %d of %d in use", size, used, l.budget).
			Build()
	}
	l.used += size
	l.mu.Unlock()

	p, err := l.inner.Allocate(size, align)
	if err != nil {
		l.mu.Lock()
		l.used -= size
		l.mu.Unlock()
		return nil, err
	}
	return p, nil
}

func (l *Limit) Deallocate(ptr unsafe.Pointer, size, align int) {
	l.inner.Deallocate(ptr, size, align)
	l.mu.Lock()
	l.used -= size
	l.mu.Unlock()
}

func (l *Limit) NeedsExplicitFree() bool { return l.inner.NeedsExplicitFree() }

// Remaining returns the unused portion of the budget.
func (l *Limit) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.budget - l.used
}
