package mem

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	jsonval "github.com/jsonval/jsonval"
	"github.com/jsonval/jsonval/errors"
)

var (
	_ jsonval.Resource = (*Heap)(nil)
	_ jsonval.Resource = (*Arena)(nil)
	_ jsonval.Resource = (*Counting)(nil)
	_ jsonval.Resource = (*Limit)(nil)
	_ jsonval.Resource = (*Observed)(nil)
	_ jsonval.Resource = (*Logging)(nil)
)

func TestCounting_TracksAllocationTraffic(t *testing.T) {
	c := NewCounting(NewHeap())

	p1, err := c.Allocate(100, 8)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	p2, err := c.Allocate(50, 8)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	c.Deallocate(p2, 50, 8)

	s := c.Stats()
	if s.Allocs != 2 || s.Deallocs != 1 {
		t.Errorf("Allocs/Deallocs = %d/%d, want 2/1", s.Allocs, s.Deallocs)
	}
	if s.BytesAllocated != 150 || s.BytesFreed != 50 {
		t.Errorf("BytesAllocated/Freed = %d/%d, want 150/50", s.BytesAllocated, s.BytesFreed)
	}
	if s.BytesInUse != 100 {
		t.Errorf("BytesInUse = %d, want 100", s.BytesInUse)
	}
	if s.MaxBytesInUse != 150 {
		t.Errorf("MaxBytesInUse = %d, want 150", s.MaxBytesInUse)
	}

	c.Deallocate(p1, 100, 8)
	if got := c.Stats().BytesInUse; got != 0 {
		t.Errorf("BytesInUse = %d after freeing all, want 0", got)
	}
}

func TestCounting_CountsFailures(t *testing.T) {
	c := NewCounting(NewLimit(NewHeap(), 10))

	if _, err := c.Allocate(100, 8); err == nil {
		t.Fatal("Allocate beyond budget should fail")
	}
	s := c.Stats()
	if s.Failures != 1 || s.Allocs != 0 {
		t.Errorf("Failures/Allocs = %d/%d, want 1/0", s.Failures, s.Allocs)
	}
}

func TestLimit_EnforcesBudget(t *testing.T) {
	l := NewLimit(NewHeap(), 128)

	p, err := l.Allocate(100, 8)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if got := l.Remaining(); got != 28 {
		t.Errorf("Remaining() = %d, want 28", got)
	}

	_, err = l.Allocate(29, 8)
	if !errors.IsAllocation(err) {
		t.Fatalf("Allocate beyond budget = %v, want allocation error", err)
	}

	l.Deallocate(p, 100, 8)
	if got := l.Remaining(); got != 128 {
		t.Errorf("Remaining() = %d after free, want 128", got)
	}
	if _, err := l.Allocate(128, 8); err != nil {
		t.Errorf("Allocate after free: %v", err)
	}
}

type recordingObserver struct {
	events []Event
}

func (r *recordingObserver) OnResourceEvent(e Event) {
	r.events = append(r.events, e)
}

func TestObserved_PublishesEvents(t *testing.T) {
	o := NewObserved(NewLimit(NewHeap(), 64))
	rec := &recordingObserver{}
	o.Subscribe(rec)

	p, err := o.Allocate(32, 8)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if _, err := o.Allocate(64, 8); err == nil {
		t.Fatal("Allocate beyond budget should fail")
	}
	o.Deallocate(p, 32, 8)

	if len(rec.events) != 3 {
		t.Fatalf("got %d events, want 3", len(rec.events))
	}
	if rec.events[0].Op != OpAllocate || rec.events[0].Err != nil || rec.events[0].Size != 32 {
		t.Errorf("event 0 = %+v", rec.events[0])
	}
	if rec.events[1].Op != OpAllocate || rec.events[1].Err == nil {
		t.Errorf("event 1 = %+v, want failed allocate", rec.events[1])
	}
	if rec.events[2].Op != OpDeallocate {
		t.Errorf("event 2 = %+v, want deallocate", rec.events[2])
	}

	o.Unsubscribe(rec)
	if _, err := o.Allocate(16, 8); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if len(rec.events) != 3 {
		t.Errorf("observer still notified after Unsubscribe")
	}
}

func TestLogging_WritesAllocationTraffic(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewLogging(NewLimit(NewHeap(), 64), zap.New(core))

	p, err := l.Allocate(32, 8)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	l.Deallocate(p, 32, 8)
	if _, err := l.Allocate(128, 8); err == nil {
		t.Fatal("Allocate beyond budget should fail")
	}

	if got := logs.FilterMessage("allocate").Len(); got != 1 {
		t.Errorf("allocate logs = %d, want 1", got)
	}
	if got := logs.FilterMessage("deallocate").Len(); got != 1 {
		t.Errorf("deallocate logs = %d, want 1", got)
	}
	warns := logs.FilterMessage("allocate failed")
	if warns.Len() != 1 {
		t.Fatalf("failure logs = %d, want 1", warns.Len())
	}
	if warns.All()[0].Level != zap.WarnLevel {
		t.Errorf("failure logged at %v, want warn", warns.All()[0].Level)
	}
}

func TestOp_String(t *testing.T) {
	if OpAllocate.String() != "allocate" || OpDeallocate.String() != "deallocate" {
		t.Error("Op.String() mismatch")
	}
	if Op(9).String() != "invalid" {
		t.Error("unknown Op should stringify as invalid")
	}
}
