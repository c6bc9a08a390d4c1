// Package dom implements the array variant of the JSON value model: a
// growable container of heterogeneous Value elements backed by raw memory
// from a jsonval.Resource.
//
// The container owns a single contiguous buffer. Slots below the array's
// length hold constructed elements; slots between length and capacity are
// uninitialized memory. Construction and destruction of individual slots are
// explicit operations.
//
// # Transactional mutation
//
// Every multi-step mutation is wrapped in a guard object with an explicit
// commit flag. The guard's rollback runs on every non-committed exit path
// and restores the container to its exact pre-call state, so construction,
// assignment, insertion and growing resize are all-or-nothing. Erase,
// PopBack and Clear rely only on operations that cannot fail and therefore
// never fail themselves.
//
// # Relocation
//
// Moving a run of elements between buffer locations never fails. Value is
// trivially relocatable (it holds no interior self-references), so the hot
// path is a single overlap-safe bulk copy. The element-by-element fallback
// preserves the same overlap ordering for element types that cannot be bulk
// moved.
package dom
