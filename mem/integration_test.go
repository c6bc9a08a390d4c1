package mem_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jsonval/jsonval/dom"
	"github.com/jsonval/jsonval/errors"
	"github.com/jsonval/jsonval/mem"
)

// Arrays over an instrumented heap must return every byte they take.
func TestArrayOverHeap_BalancedTraffic(t *testing.T) {
	h := mem.NewHeap()
	c := mem.NewCounting(h)

	a := dom.NewArray(c)
	for i := 0; i < 20; i++ {
		v, err := dom.StringValue(fmt.Sprintf("payload-%02d", i), c)
		if err != nil {
			t.Fatalf("StringValue: %v", err)
		}
		if err := a.InsertValues(a.Len(), v); err != nil {
			t.Fatalf("InsertValues: %v", err)
		}
		v.Release()
	}
	if a.Len() != 20 {
		t.Fatalf("Len() = %d, want 20", a.Len())
	}
	a.Release()

	s := c.Stats()
	if s.Failures != 0 {
		t.Errorf("Failures = %d, want 0", s.Failures)
	}
	if s.BytesInUse != 0 {
		t.Errorf("BytesInUse = %d after Release, want 0", s.BytesInUse)
	}
	if s.Allocs != s.Deallocs {
		t.Errorf("Allocs = %d, Deallocs = %d, want balanced", s.Allocs, s.Deallocs)
	}
	if h.Live() != 0 {
		t.Errorf("Live() = %d, want 0", h.Live())
	}
}

// Appending one element at a time reallocates the buffer a logarithmic
// number of times.
func TestArrayGrowth_AmortizedReallocation(t *testing.T) {
	c := mem.NewCounting(mem.NewHeap())

	a := dom.NewArray(c)
	for i := 0; i < 40; i++ {
		v := dom.Int64Value(int64(i), c)
		if err := a.InsertValues(a.Len(), v); err != nil {
			t.Fatalf("InsertValues: %v", err)
		}
	}

	// Capacity runs 16 -> 32 -> 64: three buffer allocations for 40 appends.
	if got := c.Stats().Allocs; got != 3 {
		t.Errorf("Allocs = %d for 40 appends, want 3", got)
	}
	if a.Cap() != 64 {
		t.Errorf("Cap() = %d, want 64", a.Cap())
	}
	a.Release()
}

// Releasing an array over an arena performs no per-element teardown; the
// arena reclaims everything at once.
func TestArrayOverArena_MassTeardown(t *testing.T) {
	arena := mem.NewArena(0)
	c := mem.NewCounting(arena)

	a := dom.NewArray(c)
	for i := 0; i < 10; i++ {
		v, err := dom.StringValue(strings.Repeat("x", 100), c)
		if err != nil {
			t.Fatalf("StringValue: %v", err)
		}
		if err := a.InsertValues(a.Len(), v); err != nil {
			t.Fatalf("InsertValues: %v", err)
		}
	}
	a.Release()

	if got := c.Stats().Deallocs; got != 0 {
		t.Errorf("Deallocs = %d over arena, want 0", got)
	}
	arena.Release()
}

func TestArrayOverLimit_BufferAllocationFails(t *testing.T) {
	h := mem.NewHeap()
	l := mem.NewLimit(h, 16)

	a := dom.NewArray(l)
	v := dom.Int64Value(7, l)
	err := a.InsertValues(0, v)
	if !errors.IsAllocation(err) {
		t.Fatalf("InsertValues = %v, want allocation error", err)
	}
	if a.Len() != 0 {
		t.Errorf("Len() = %d after failed insert, want 0", a.Len())
	}
	if got := l.Remaining(); got != 16 {
		t.Errorf("Remaining() = %d, want 16", got)
	}
	if h.Live() != 0 {
		t.Errorf("Live() = %d, want 0", h.Live())
	}
}

// A clone failure partway through an insert refunds the full budget.
func TestArrayOverLimit_PartialInsertRefunds(t *testing.T) {
	h := mem.NewHeap()
	l := mem.NewLimit(h, 4096)

	a := dom.NewArray(l)
	if err := a.Reserve(16); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	r := l.Remaining()
	if r < 4 {
		t.Fatalf("Remaining() = %d, too small for the scenario", r)
	}

	// Two payloads of just over half the remaining budget: the first clone
	// fits, the second cannot.
	src := mem.NewHeap()
	big := strings.Repeat("y", r/2+1)
	v1, err := dom.StringValue(big, src)
	if err != nil {
		t.Fatalf("StringValue: %v", err)
	}
	v2, err := dom.StringValue(big, src)
	if err != nil {
		t.Fatalf("StringValue: %v", err)
	}

	err = a.InsertValues(0, v1, v2)
	if !errors.IsAllocation(err) {
		t.Fatalf("InsertValues = %v, want allocation error", err)
	}
	if a.Len() != 0 {
		t.Errorf("Len() = %d after rollback, want 0", a.Len())
	}
	if got := l.Remaining(); got != r {
		t.Errorf("Remaining() = %d after rollback, want %d", got, r)
	}

	// The array stays usable within the budget.
	small := dom.Int64Value(1, l)
	if err := a.InsertValues(0, small, small); err != nil {
		t.Fatalf("InsertValues after rollback: %v", err)
	}
	if a.Len() != 2 {
		t.Errorf("Len() = %d, want 2", a.Len())
	}
	a.Release()
	v1.Release()
	v2.Release()
}
