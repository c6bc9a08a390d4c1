// Package mem provides memory-resource implementations for the jsonval
// containers.
//
// Two primary resources cover most workloads:
//
//   - Heap: general-purpose, frees blocks individually. The package-level
//     Default is a shared Heap.
//   - Arena: chunked bump allocator for build-once documents. Individual
//     deallocation is a no-op; the whole arena is released in one step.
//
// Wrappers compose over any resource: Counting adds call and byte counters,
// Limit enforces a byte budget, Observed publishes lifecycle events to
// subscribers, and Logging writes allocation traffic to a zap logger.
//
// # Mass-teardown contract
//
// A resource whose NeedsExplicitFree returns false declares that dropping
// all of its bookkeeping at once, without running any per-element
// destruction, is safe for every element it ever backed. Containers rely on
// this to skip destructor walks on release. A custom resource must only
// return false if its elements never own anything outside the resource
// itself; violating the contract silently leaks whatever those elements
// hold.
//
// # Reachability
//
// Containers store element payloads inside raw blocks the garbage collector
// does not scan. Every implementation in this package therefore keeps its
// live blocks reachable from the resource value itself (a block map for
// Heap, the chunk list for Arena) until they are deallocated or released.
// Custom resources must do the same.
package mem
