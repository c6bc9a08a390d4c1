package dom

import "unsafe"

// valueTriviallyRelocatable gates the bulk relocation path. Value holds no
// pointer into itself, so moving its raw bytes to a new location and
// forgetting the old one is equivalent to move-then-destroy.
const valueTriviallyRelocatable = true

// relocate transfers n elements from src to dst. The ranges may overlap.
// After the call the source slots are uninitialized and must not be
// destroyed. relocate never fails: a partially relocated run has no
// consistent rollback.
func relocate(dst, src *Value, n int) {
	if n <= 0 || dst == src {
		return
	}
	if valueTriviallyRelocatable {
		// copy has memmove semantics, so overlap is handled.
		copy(unsafe.Slice(dst, n), unsafe.Slice(src, n))
		return
	}
	relocateByElement(dst, src, n)
}

// relocateByElement moves one element at a time, choosing the iteration
// direction a bulk memory move would use: high to low when dst overlaps the
// source range from above (shifting right), low to high otherwise.
func relocateByElement(dst, src *Value, n int) {
	d := unsafe.Slice(dst, n)
	s := unsafe.Slice(src, n)
	da := uintptr(unsafe.Pointer(dst))
	sa := uintptr(unsafe.Pointer(src))
	if da > sa && da < sa+uintptr(n)*uintptr(valueSize) {
		for i := n - 1; i >= 0; i-- {
			d[i] = s[i]
			s[i] = Value{}
		}
		return
	}
	for i := 0; i < n; i++ {
		d[i] = s[i]
		s[i] = Value{}
	}
}
