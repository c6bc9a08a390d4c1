package mem

import (
	"sync"
	"unsafe"

	jsonval "github.com/jsonval/jsonval"
)

// Stats is a snapshot of a Counting resource's counters.
type Stats struct {
	Allocs         uint64 // successful allocations
	Deallocs       uint64 // deallocations
	Failures       uint64 // failed allocations
	BytesAllocated uint64 // total bytes handed out
	BytesFreed     uint64 // total bytes returned
	BytesInUse     int64  // currently outstanding bytes
	MaxBytesInUse  int64  // high-water mark of outstanding bytes
}

// Counting wraps a resource with allocation counters. It is the instrumented
// resource used to verify container allocation behavior.
type Counting struct {
	inner jsonval.Resource
	mu    sync.Mutex
	stats Stats
}

// NewCounting wraps inner with counters.
func NewCounting(inner jsonval.Resource) *Counting {
	return &Counting{inner: inner}
}

func (c *Counting) Allocate(size, align int) (unsafe.Pointer, error) {
	p, err := c.inner.Allocate(size, align)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.stats.Failures++
		return nil, err
	}
	c.stats.Allocs++
	c.stats.BytesAllocated += uint64(size)
	c.stats.BytesInUse += int64(size)
	if c.stats.BytesInUse > c.stats.MaxBytesInUse {
		c.stats.MaxBytesInUse = c.stats.BytesInUse
	}
	return p, nil
}

func (c *Counting) Deallocate(ptr unsafe.Pointer, size, align int) {
	c.inner.Deallocate(ptr, size, align)

	c.mu.Lock()
	c.stats.Deallocs++
	c.stats.BytesFreed += uint64(size)
	c.stats.BytesInUse -= int64(size)
	c.mu.Unlock()
}

func (c *Counting) NeedsExplicitFree() bool { return c.inner.NeedsExplicitFree() }

// Stats returns a snapshot of the counters.
func (c *Counting) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// ResetStats zeroes the counters. Outstanding-byte tracking restarts from
// zero, so only call this between workloads.
func (c *Counting) ResetStats() {
	c.mu.Lock()
	c.stats = Stats{}
	c.mu.Unlock()
}
