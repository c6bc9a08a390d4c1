package dom

import (
	"fmt"

	jsonval "github.com/jsonval/jsonval"
	"github.com/jsonval/jsonval/errors"
)

// Array is a growable sequence of Values sharing one resource. It
// exclusively owns its buffer; every live element is bound to the array's
// resource.
//
// Mutations are either strongly fail-safe (on error the array is observably
// unchanged), guaranteed never to fail, or explicitly documented as
// best-effort. An Array must not be used from multiple goroutines.
type Array struct {
	res jsonval.Resource
	buf buffer
}

// NewArray returns an empty array bound to res. No memory is allocated
// until the first element is added.
func NewArray(res jsonval.Resource) *Array {
	return &Array{res: res}
}

// NewArrayNulls returns an array of n null values.
func NewArrayNulls(n int, res jsonval.Resource) (*Array, error) {
	a := &Array{res: res}
	g := beginConstruct(a)
	defer g.rollback()

	if n > 0 {
		if err := a.buf.allocate(n, res, errors.PhaseConstruct); err != nil {
			return nil, err
		}
		for i := 0; i < n; i++ {
			*a.buf.at(i) = NullValue(res)
			a.buf.size++
		}
	}
	g.commit()
	return a, nil
}

// NewArrayFill returns an array holding n copies of v.
func NewArrayFill(n int, v *Value, res jsonval.Resource) (*Array, error) {
	a := &Array{res: res}
	g := beginConstruct(a)
	defer g.rollback()

	if n > 0 {
		if err := a.buf.allocate(n, res, errors.PhaseConstruct); err != nil {
			return nil, err
		}
		for i := 0; i < n; i++ {
			c, err := v.CloneTo(res)
			if err != nil {
				return nil, err
			}
			*a.buf.at(i) = c
			a.buf.size++
		}
	}
	g.commit()
	return a, nil
}

// FromValues returns an array holding copies of vals, in order. The callers'
// values are not adopted; they keep ownership of their own payloads.
func FromValues(res jsonval.Resource, vals ...Value) (*Array, error) {
	a := &Array{res: res}
	g := beginConstruct(a)
	defer g.rollback()

	if len(vals) > 0 {
		if err := a.buf.allocate(len(vals), res, errors.PhaseConstruct); err != nil {
			return nil, err
		}
		for i := range vals {
			c, err := vals[i].CloneTo(res)
			if err != nil {
				return nil, err
			}
			*a.buf.at(i) = c
			a.buf.size++
		}
	}
	g.commit()
	return a, nil
}

// CopyArray returns a deep copy of other over other's own resource.
func CopyArray(other *Array) (*Array, error) {
	return CopyArrayTo(other, other.res)
}

// CopyArrayTo returns a deep copy of other with every element rebound to
// res.
func CopyArrayTo(other *Array, res jsonval.Resource) (*Array, error) {
	a := &Array{res: res}
	g := beginConstruct(a)
	defer g.rollback()

	if err := a.copyElements(other, errors.PhaseConstruct); err != nil {
		return nil, err
	}
	g.commit()
	return a, nil
}

// MoveArrayTo transfers other's content into a new array bound to res. When
// the resources are identity-equal the buffer is adopted directly and other
// is left empty; this path cannot fail. Otherwise the content is deep-copied
// and other is left unmodified.
func MoveArrayTo(other *Array, res jsonval.Resource) (*Array, error) {
	if jsonval.SameResource(other.res, res) {
		a := &Array{res: res}
		a.buf.adopt(&other.buf)
		return a, nil
	}
	return CopyArrayTo(other, res)
}

// copyElements fills the empty receiver with clones of other's elements.
func (a *Array) copyElements(other *Array, phase errors.Phase) error {
	n := other.buf.size
	if n == 0 {
		return nil
	}
	if err := a.buf.allocate(n, a.res, phase); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		c, err := other.buf.at(i).CloneTo(a.res)
		if err != nil {
			return err
		}
		*a.buf.at(i) = c
		a.buf.size++
	}
	return nil
}

// CopyFrom replaces the array's content with a deep copy of other's.
// All-or-nothing: on failure the original content is intact.
func (a *Array) CopyFrom(other *Array) error {
	if a == other {
		return nil
	}
	if a.res == nil {
		return errors.Retired(errors.PhaseAssign, "array")
	}
	g := beginAssign(a)
	defer g.rollback()

	if err := a.copyElements(other, errors.PhaseAssign); err != nil {
		return err
	}
	g.commit()
	return nil
}

// MoveFrom replaces the array's content with other's. When the resources are
// identity-equal the buffer changes hands without allocating and other is
// left empty; this path cannot fail. Otherwise it degrades to a deep copy
// and other is unmodified.
func (a *Array) MoveFrom(other *Array) error {
	if a == other {
		return nil
	}
	if a.res == nil {
		return errors.Retired(errors.PhaseAssign, "array")
	}
	if jsonval.SameResource(a.res, other.res) {
		a.buf.release(a.res)
		a.buf.adopt(&other.buf)
		return nil
	}
	return a.CopyFrom(other)
}

// AssignValues replaces the array's content with copies of vals.
// All-or-nothing.
func (a *Array) AssignValues(vals ...Value) error {
	if a.res == nil {
		return errors.Retired(errors.PhaseAssign, "array")
	}
	g := beginAssign(a)
	defer g.rollback()

	if len(vals) > 0 {
		if err := a.buf.allocate(len(vals), a.res, errors.PhaseAssign); err != nil {
			return err
		}
		for i := range vals {
			c, err := vals[i].CloneTo(a.res)
			if err != nil {
				return err
			}
			*a.buf.at(i) = c
			a.buf.size++
		}
	}
	g.commit()
	return nil
}

// Len returns the number of live elements.
func (a *Array) Len() int { return a.buf.size }

// Cap returns the element capacity of the current buffer.
func (a *Array) Cap() int { return a.buf.cap }

// Resource returns the array's resource handle.
func (a *Array) Resource() jsonval.Resource { return a.res }

// At returns the element at index i. It panics if i is out of range, like a
// slice access.
func (a *Array) At(i int) *Value {
	if i < 0 || i >= a.buf.size {
		panic(fmt.Sprintf("dom: index %d out of range [0:%d]", i, a.buf.size))
	}
	return a.buf.at(i)
}

// IndexOf returns the index of an element pointer obtained from At or Each.
// The result is invalidated by any operation that may reallocate.
func (a *Array) IndexOf(v *Value) int {
	return a.buf.indexOf(v)
}

// Each calls fn for every live element in order until fn returns false.
func (a *Array) Each(fn func(i int, v *Value) bool) {
	for i := 0; i < a.buf.size; i++ {
		if !fn(i, a.buf.at(i)) {
			return
		}
	}
}

// reserve grows the buffer to hold at least n elements, at least doubling
// the previous non-zero capacity. Existing elements are relocated; element
// pointers and captured indexes into the old buffer are invalidated.
func (a *Array) reserve(n int, phase errors.Phase) error {
	if n <= a.buf.cap {
		return nil
	}
	if n > MaxSize {
		return errors.LengthExceeded(phase, n, MaxSize)
	}
	newCap := a.buf.cap * 2
	if a.buf.cap > MaxSize/2 {
		newCap = MaxSize
	}
	if newCap < n {
		newCap = n
	}

	var nb buffer
	if err := nb.allocate(newCap, a.res, phase); err != nil {
		return err
	}
	if a.buf.size > 0 {
		relocate(nb.at(0), a.buf.at(0), a.buf.size)
	}
	nb.size = a.buf.size

	// The old slots were relocated out; drop the block without destroying.
	a.buf.size = 0
	a.buf.release(a.res)
	a.buf.adopt(&nb)
	return nil
}

// Reserve ensures capacity for at least n elements. A no-op when n does not
// exceed the current capacity; it performs zero allocations in that case.
func (a *Array) Reserve(n int) error {
	if a.res == nil {
		return errors.Retired(errors.PhaseResize, "array")
	}
	return a.reserve(n, errors.PhaseResize)
}

// ShrinkToFit reduces capacity toward the current size. Best-effort: it
// never reports failure, and an allocation failure leaves the array
// unchanged. An empty array releases its buffer entirely.
func (a *Array) ShrinkToFit() {
	b := &a.buf
	if b.cap == b.size {
		return
	}
	if b.size == 0 {
		b.release(a.res)
		return
	}
	if b.size <= 2 && b.cap <= 3 {
		return
	}
	target := b.size
	if target < minBufferCapacity {
		target = minBufferCapacity
	}
	if target >= b.cap {
		return
	}

	var nb buffer
	if err := nb.allocate(target, a.res, errors.PhaseResize); err != nil {
		return
	}
	relocate(nb.at(0), b.at(0), b.size)
	nb.size = b.size
	b.size = 0
	b.release(a.res)
	b.adopt(&nb)
}

// Clear destroys all live elements in place. Capacity is unchanged. Clear
// never fails.
func (a *Array) Clear() {
	for i := a.buf.size - 1; i >= 0; i-- {
		a.buf.at(i).Release()
	}
	a.buf.size = 0
}

// Insert inserts n copies of v at index i. All-or-nothing: if any copy
// fails, the array is restored to its exact pre-call state. v must not
// point into a itself; insertion may relocate the elements it aliases.
func (a *Array) Insert(i, n int, v *Value) error {
	if err := a.checkInsert(i, n); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	g, err := beginInsert(a, i, n)
	if err != nil {
		return err
	}
	defer g.rollback()

	for k := 0; k < n; k++ {
		if err := g.emplace(v); err != nil {
			return err
		}
	}
	g.commit()
	return nil
}

// InsertValues inserts copies of vals at index i. All-or-nothing.
func (a *Array) InsertValues(i int, vals ...Value) error {
	if err := a.checkInsert(i, len(vals)); err != nil {
		return err
	}
	if len(vals) == 0 {
		return nil
	}
	g, err := beginInsert(a, i, len(vals))
	if err != nil {
		return err
	}
	defer g.rollback()

	for k := range vals {
		if err := g.emplace(&vals[k]); err != nil {
			return err
		}
	}
	g.commit()
	return nil
}

func (a *Array) checkInsert(i, n int) error {
	if a.res == nil {
		return errors.Retired(errors.PhaseInsert, "array")
	}
	if i < 0 || i > a.buf.size {
		return errors.OutOfBounds(errors.PhaseInsert, i, a.buf.size)
	}
	if n < 0 {
		return errors.InvalidInput(errors.PhaseInsert, "negative element count")
	}
	// Checked before forming size+n, which would wrap for huge counts.
	if n > MaxSize-a.buf.size {
		return errors.LengthExceeded(errors.PhaseInsert, n, MaxSize)
	}
	return nil
}

// Erase removes the element at index i, closing the gap. Erase never fails;
// it panics if i is out of range.
func (a *Array) Erase(i int) {
	a.EraseRange(i, i+1)
}

// EraseRange removes the elements in [first, last), closing the gap. It
// never fails; it panics if the range is invalid.
func (a *Array) EraseRange(first, last int) {
	if first < 0 || last < first || last > a.buf.size {
		panic(fmt.Sprintf("dom: erase range [%d:%d] out of range [0:%d]", first, last, a.buf.size))
	}
	n := last - first
	if n == 0 {
		return
	}
	for i := last - 1; i >= first; i-- {
		a.buf.at(i).Release()
	}
	if tail := a.buf.size - last; tail > 0 {
		relocate(a.buf.at(first), a.buf.at(last), tail)
	}
	a.buf.size -= n
}

// PopBack destroys the last element. It panics on an empty array.
func (a *Array) PopBack() {
	if a.buf.size == 0 {
		panic("dom: PopBack on empty array")
	}
	a.buf.at(a.buf.size - 1).Release()
	a.buf.size--
}

// Resize sets the length to n, destroying trailing elements when shrinking
// and appending nulls when growing. Strongly fail-safe: existing elements
// are never touched by a failed grow.
func (a *Array) Resize(n int) error {
	null := NullValue(a.res)
	return a.ResizeWith(n, &null)
}

// ResizeWith sets the length to n, filling new slots with copies of v. If
// constructing a new element fails partway, only the elements added by this
// call are destroyed and the length is restored; prior content is untouched.
// v must not point into a itself; growth may relocate the elements it
// aliases.
func (a *Array) ResizeWith(n int, v *Value) error {
	if a.res == nil {
		return errors.Retired(errors.PhaseResize, "array")
	}
	if n < 0 {
		return errors.InvalidInput(errors.PhaseResize, "negative length")
	}
	b := &a.buf
	if n <= b.size {
		for i := b.size - 1; i >= n; i-- {
			b.at(i).Release()
		}
		b.size = n
		return nil
	}

	if err := a.reserve(n, errors.PhaseResize); err != nil {
		return err
	}
	old := b.size
	for b.size < n {
		c, err := v.CloneTo(a.res)
		if err != nil {
			for i := b.size - 1; i >= old; i-- {
				b.at(i).Release()
			}
			b.size = old
			return err
		}
		*b.at(b.size) = c
		b.size++
	}
	return nil
}

// Swap exchanges the contents of the two arrays. With identity-equal
// resources this is a metadata-only buffer exchange: no allocation, no
// element moves, and it cannot fail.
//
// With different resources each side's content must be rebuilt on the other
// side's resource, which allocates and copies. If either rebind fails the
// error is returned and both arrays are left valid and unswapped.
func (a *Array) Swap(other *Array) error {
	if a == other {
		return nil
	}
	if a.res == nil || other.res == nil {
		return errors.Retired(errors.PhaseSwap, "array")
	}
	if jsonval.SameResource(a.res, other.res) {
		a.buf.exchange(&other.buf)
		return nil
	}

	ours, err := CopyArrayTo(other, a.res)
	if err != nil {
		return wrapSwap(err)
	}
	theirs, err := CopyArrayTo(a, other.res)
	if err != nil {
		ours.buf.release(ours.res)
		return wrapSwap(err)
	}

	a.replaceWith(ours)
	other.replaceWith(theirs)
	return nil
}

// wrapSwap adds the swap phase to a rebind failure while keeping the
// cause's own kind visible to errors.Is matching.
func wrapSwap(err error) error {
	kind := errors.KindOf(err)
	if kind == "" {
		kind = errors.KindAllocation
	}
	return errors.Wrap(errors.PhaseSwap, kind, err, "rebind contents")
}

// replaceWith destructively installs t's buffer, retiring t. Both sides must
// share a resource; the operation cannot fail.
func (a *Array) replaceWith(t *Array) {
	a.buf.release(a.res)
	a.buf.adopt(&t.buf)
	t.res = nil
}

// Release destroys all content and returns the array's resource handle. The
// array is retired: further mutations fail with a retired error.
func (a *Array) Release() jsonval.Resource {
	res := a.res
	if res != nil {
		a.buf.release(res)
	}
	a.res = nil
	return res
}
