package jsonval

import "unsafe"

// Resource is an opaque handle to an allocator. All container storage is
// obtained through it as raw, uninitialized memory.
//
// Implementations must keep every live allocation reachable from the
// Resource value itself until Deallocate is called (or, for resources that
// do not need explicit freeing, until mass release). Containers store
// element payloads inside raw blocks that the garbage collector does not
// scan, so the resource's own bookkeeping is what keeps them alive.
type Resource interface {
	// Allocate returns a block of at least size bytes aligned to align.
	// On failure the error carries errors.KindAllocation.
	Allocate(size, align int) (unsafe.Pointer, error)

	// Deallocate releases a block previously returned by Allocate with the
	// same size and align.
	Deallocate(ptr unsafe.Pointer, size, align int)

	// NeedsExplicitFree reports whether stored elements must be destroyed
	// one by one before their block is released. Resources returning false
	// guarantee that dropping all bookkeeping at once is safe for any
	// element they ever backed (arena-style mass teardown).
	NeedsExplicitFree() bool
}

// SameResource reports whether two handles refer to the same underlying
// allocator instance. Containers sharing a resource may adopt each other's
// buffers instead of deep-copying.
func SameResource(a, b Resource) bool {
	return a == b
}
