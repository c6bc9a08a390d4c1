package dom

import (
	"math"
	"unsafe"

	jsonval "github.com/jsonval/jsonval"
	"github.com/jsonval/jsonval/errors"
)

const (
	valueSize  = int(unsafe.Sizeof(Value{}))
	valueAlign = int(unsafe.Alignof(Value{}))

	// minBufferCapacity is the smallest capacity any allocation grants.
	// Tuned for bulk-build workloads where tiny first allocations would
	// otherwise churn through several reallocations.
	minBufferCapacity = 16
)

// MaxSize is the maximum number of elements an array can hold.
const MaxSize = math.MaxInt32

// buffer is the raw storage descriptor for an array: a block of capacity
// element slots of which the first size are constructed. Slots in
// [size, cap) are uninitialized memory.
//
// Invariants: size <= cap; ptr == nil exactly when cap == 0.
type buffer struct {
	ptr  unsafe.Pointer
	size int
	cap  int
}

func (b *buffer) at(i int) *Value {
	return (*Value)(unsafe.Add(b.ptr, uintptr(i)*uintptr(valueSize)))
}

// allocate obtains a fresh block of at least capacity slots from res and
// makes b an empty buffer over it. capacity is rounded up to
// minBufferCapacity.
func (b *buffer) allocate(capacity int, res jsonval.Resource, phase errors.Phase) error {
	if capacity > MaxSize {
		return errors.LengthExceeded(phase, capacity, MaxSize)
	}
	if capacity < minBufferCapacity {
		capacity = minBufferCapacity
	}
	p, err := res.Allocate(capacity*valueSize, valueAlign)
	if err != nil {
		return errors.Wrap(phase, errors.KindAllocation, err, "element buffer")
	}
	b.ptr = p
	b.size = 0
	b.cap = capacity
	return nil
}

// release destroys the buffer's live elements and returns the block to res.
// When the resource does not need explicit freeing, per-element destruction
// and deallocation are skipped entirely and only the bookkeeping is reset;
// the resource contract guarantees mass teardown is safe.
func (b *buffer) release(res jsonval.Resource) {
	if b.ptr != nil && res.NeedsExplicitFree() {
		for i := b.size - 1; i >= 0; i-- {
			b.at(i).Release()
		}
		res.Deallocate(b.ptr, b.cap*valueSize, valueAlign)
	}
	b.ptr = nil
	b.size = 0
	b.cap = 0
}

// adopt transfers other's block into b, leaving other empty. Ownership
// moves; nothing is copied or destroyed.
func (b *buffer) adopt(other *buffer) {
	*b = *other
	other.ptr = nil
	other.size = 0
	other.cap = 0
}

// exchange swaps the two descriptors field-wise.
func (b *buffer) exchange(other *buffer) {
	*b, *other = *other, *b
}

// indexOf computes the slot index of p. The result is invalidated by any
// operation that may reallocate, so capture it first.
func (b *buffer) indexOf(p *Value) int {
	return int((uintptr(unsafe.Pointer(p)) - uintptr(b.ptr)) / uintptr(valueSize))
}
