package mem

import (
	"sync"
	"unsafe"

	"github.com/jsonval/jsonval/errors"
)

// Heap is a general-purpose resource over the Go heap. Each allocation is a
// distinct block, freed individually. Safe for use from multiple goroutines.
type Heap struct {
	mu     sync.Mutex
	blocks map[unsafe.Pointer][]byte
}

// Default is a shared heap resource and can be used anywhere a Resource is
// required.
var Default = NewHeap()

// NewHeap creates a new heap resource.
func NewHeap() *Heap {
	return &Heap{blocks: make(map[unsafe.Pointer][]byte)}
}

// Allocate returns a block of size bytes aligned to align. The block stays
// reachable from the heap's block map until Deallocate.
func (h *Heap) Allocate(size, align int) (unsafe.Pointer, error) {
	if size <= 0 || align <= 0 {
		return nil, errors.InvalidInput(errors.PhaseAlloc, "non-positive size or alignment")
	}
	buf := make([]byte, size+align)
	addr := uintptr(unsafe.Pointer(&buf[0]))
	off := 0
	if r := int(addr) & (align - 1); r != 0 {
		off = align - r
	}
	p := unsafe.Pointer(&buf[off])

	h.mu.Lock()
	h.blocks[p] = buf
	h.mu.Unlock()
	return p, nil
}

// Deallocate releases the block at ptr. Unknown pointers are ignored.
func (h *Heap) Deallocate(ptr unsafe.Pointer, size, align int) {
	h.mu.Lock()
	delete(h.blocks, ptr)
	h.mu.Unlock()
}

// NeedsExplicitFree reports true: heap blocks are freed one by one.
func (h *Heap) NeedsExplicitFree() bool { return true }

// Live returns the number of blocks currently allocated.
func (h *Heap) Live() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.blocks)
}
