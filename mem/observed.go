package mem

import (
	"sync"
	"unsafe"

	jsonval "github.com/jsonval/jsonval"
)

// Op identifies a resource operation in an Event.
type Op uint8

const (
	OpAllocate Op = iota
	OpDeallocate
)

func (o Op) String() string {
	switch o {
	case OpAllocate:
		return "allocate"
	case OpDeallocate:
		return "deallocate"
	default:
		return "invalid"
	}
}

// Event describes one resource operation.
type Event struct {
	Err   error // non-nil for failed allocations
	Size  int
	Align int
	Op    Op
}

// Observer receives notifications about resource operations.
type Observer interface {
	OnResourceEvent(Event)
}

// Observed wraps a resource and publishes every operation to subscribers.
type Observed struct {
	inner     jsonval.Resource
	obsMu     sync.RWMutex
	observers []Observer
}

// NewObserved wraps inner with observer support.
func NewObserved(inner jsonval.Resource) *Observed {
	return &Observed{inner: inner}
}

func (o *Observed) Allocate(size, align int) (unsafe.Pointer, error) {
	p, err := o.inner.Allocate(size, align)
	o.notify(Event{Op: OpAllocate, Size: size, Align: align, Err: err})
	return p, err
}

func (o *Observed) Deallocate(ptr unsafe.Pointer, size, align int) {
	o.inner.Deallocate(ptr, size, align)
	o.notify(Event{Op: OpDeallocate, Size: size, Align: align})
}

func (o *Observed) NeedsExplicitFree() bool { return o.inner.NeedsExplicitFree() }

// Subscribe adds an observer for resource events.
func (o *Observed) Subscribe(obs Observer) {
	o.obsMu.Lock()
	defer o.obsMu.Unlock()
	o.observers = append(o.observers, obs)
}

// Unsubscribe removes an observer.
func (o *Observed) Unsubscribe(obs Observer) {
	o.obsMu.Lock()
	defer o.obsMu.Unlock()
	for i, cur := range o.observers {
		if cur == obs {
			o.observers = append(o.observers[:i], o.observers[i+1:]...)
			return
		}
	}
}

func (o *Observed) notify(e Event) {
	o.obsMu.RLock()
	defer o.obsMu.RUnlock()
	for _, obs := range o.observers {
		obs.OnResourceEvent(e)
	}
}
