package mem

import (
	"sync"
	"unsafe"

	"github.com/jsonval/jsonval/errors"
)

// DefaultChunkSize is the default chunk size for new arenas (64 KiB).
const DefaultChunkSize = 1 << 16

// chunk is a single backing block within an arena.
type chunk struct {
	buf    []byte
	offset int
}

// Arena is a chunked bump allocator. Deallocate is a no-op; the arena is
// torn down as a whole with Release, and NeedsExplicitFree is false so
// containers skip per-element destruction on top of it. Typical usage:
// build a document, read it, release the arena in one step.
type Arena struct {
	mu        sync.Mutex
	chunks    []chunk
	chunkSize int
	inUse     int
	released  bool
}

// NewArena creates a new Arena with the specified chunk size.
// If chunkSize <= 0, DefaultChunkSize is used.
func NewArena(chunkSize int) *Arena {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Arena{chunkSize: chunkSize}
}

// Allocate returns size bytes aligned to align from the current chunk,
// growing the arena when it does not fit.
func (a *Arena) Allocate(size, align int) (unsafe.Pointer, error) {
	if size <= 0 || align <= 0 {
		return nil, errors.InvalidInput(errors.PhaseAlloc, "non-positive size or alignment")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.released {
		return nil, errors.Retired(errors.PhaseAlloc, "arena")
	}

	if n := len(a.chunks); n > 0 {
		if p, ok := a.bump(&a.chunks[n-1], size, align); ok {
			return p, nil
		}
	}

	grow := a.chunkSize
	if size+align > grow {
		grow = size + align
	}
	a.chunks = append(a.chunks, chunk{buf: make([]byte, grow)})
	p, _ := a.bump(&a.chunks[len(a.chunks)-1], size, align)
	return p, nil
}

// bump carves size bytes at align out of c, reporting whether it fit.
func (a *Arena) bump(c *chunk, size, align int) (unsafe.Pointer, bool) {
	base := uintptr(unsafe.Pointer(&c.buf[0]))
	off := c.offset
	if r := (int(base) + off) & (align - 1); r != 0 {
		off += align - r
	}
	if off+size > len(c.buf) {
		return nil, false
	}
	c.offset = off + size
	a.inUse += size
	return unsafe.Pointer(&c.buf[off]), true
}

// Deallocate is a no-op: arena memory is reclaimed by Release.
func (a *Arena) Deallocate(ptr unsafe.Pointer, size, align int) {}

// NeedsExplicitFree reports false: the arena guarantees mass teardown.
func (a *Arena) NeedsExplicitFree() bool { return false }

// Reset discards all allocations but keeps the chunks for reuse. Every
// pointer previously handed out becomes invalid.
func (a *Arena) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.chunks {
		a.chunks[i].offset = 0
	}
	a.inUse = 0
}

// Release frees all chunks. The arena rejects further allocation.
func (a *Arena) Release() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.chunks = nil
	a.inUse = 0
	a.released = true
}

// Metrics contains statistical information about an arena.
type Metrics struct {
	BytesInUse  int     // bytes currently allocated
	Capacity    int     // total capacity of all chunks in bytes
	NumChunks   int     // number of chunks
	ChunkSize   int     // default chunk size
	Utilization float64 // ratio of used to total capacity (0.0-1.0)
}

// Metrics returns a snapshot of arena statistics.
func (a *Arena) Metrics() Metrics {
	a.mu.Lock()
	defer a.mu.Unlock()
	capacity := 0
	for _, c := range a.chunks {
		capacity += len(c.buf)
	}
	m := Metrics{
		BytesInUse: a.inUse,
		Capacity:   capacity,
		NumChunks:  len(a.chunks),
		ChunkSize:  a.chunkSize,
	}
	if capacity > 0 {
		m.Utilization = float64(a.inUse) / float64(capacity)
	}
	return m
}
