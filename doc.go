// Package jsonval provides the value model core of a JSON document library:
// an allocator-aware, transactionally mutated array container together with
// the memory-resource abstraction it allocates from.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	jsonval/             Root package with the core Resource interface
//	├── dom/             Value element type and the Array container: buffer
//	│                    management, growth policy, transactional mutation
//	├── mem/             Memory-resource implementations: heap, arena,
//	│                    counting, limit, observed, zap logging wrapper
//	├── guestmem/        Resource backed by a WebAssembly guest's linear
//	│                    memory (wazero)
//	└── errors/          Structured error types for debugging
//
// # Quick Start
//
// Build an array over the default heap resource:
//
//	a := dom.NewArray(mem.Default)
//	v := dom.Int64Value(42, mem.Default)
//	if err := a.Insert(0, 1, &v); err != nil {
//	    log.Fatal(err)
//	}
//	defer a.Release()
//
// Or bind every allocation to an arena and tear the whole document down in
// one step:
//
//	arena := mem.NewArena(0)
//	defer arena.Release()
//	a, _ := dom.NewArrayNulls(100, arena)
//
// # Memory Model
//
// All element storage is obtained from a Resource as raw, uninitialized
// memory. Slots beyond an array's length are uninitialized; construction and
// destruction of individual slots are explicit operations. A Resource must
// keep every live allocation reachable from itself until it is deallocated
// or mass-released, so raw blocks are never collected while a container
// still points into them.
//
// # Failure Model
//
// Every multi-step mutation either fully succeeds or leaves the container
// exactly as it was before the call. Operations that cannot be rolled back
// consistently (relocation, destruction, erase) are required never to fail.
//
// # Thread Safety
//
// Containers are NOT safe for concurrent use. A Resource may be shared by
// many containers; implementations in mem/ add their own locking.
package jsonval
