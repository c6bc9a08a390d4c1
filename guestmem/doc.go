// Package guestmem provides a memory resource backed by a WebAssembly
// guest's linear memory, executed with wazero.
//
// The resource instantiates a minimal module whose only export is a linear
// memory with identical minimum and maximum page counts. Because the memory
// can never grow, wazero never relocates its backing buffer, so host-side
// pointers into it stay valid for the life of the guest.
//
// Allocation is a bump pointer over the guest memory: Deallocate is a no-op
// and NeedsExplicitFree reports false, so containers tear the whole region
// down at once. Reset reclaims everything in O(1); Close shuts the wazero
// runtime down and retires the resource.
//
// Values placed in guest memory may reference host-allocated payloads; those
// payloads stay reachable through their own resource's bookkeeping, same as
// for every other resource in this module.
package guestmem
