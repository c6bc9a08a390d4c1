package guestmem

import (
	"context"
	"sync"
	"unsafe"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	jsonval "github.com/jsonval/jsonval"
	"github.com/jsonval/jsonval/errors"
)

// PageSize is the WebAssembly linear memory page size in bytes.
const PageSize = 64 * 1024

// DefaultPages is the guest memory size used when no config is given: 1 MiB.
const DefaultPages = 16

// Config holds configuration for guest creation.
type Config struct {
	// Pages fixes the guest memory size in 64 KiB pages. The memory is
	// created with equal minimum and maximum so it can never move.
	// 0 means DefaultPages.
	Pages uint32

	// Logger receives instantiation and teardown events. Nil uses the
	// package logger, which is a no-op unless configured with SetLogger.
	Logger *zap.Logger
}

// Guest is a memory resource that places allocations inside a wazero
// guest's linear memory. It is a bump allocator: Deallocate does nothing
// and the whole region is reclaimed by Reset or Close.
type Guest struct {
	runtime wazero.Runtime
	mod     api.Module
	log     *zap.Logger

	mu     sync.Mutex
	base   unsafe.Pointer
	size   int
	offset int
	closed bool
}

// New instantiates a guest module and returns a resource over its exported
// linear memory.
func New(ctx context.Context, cfg *Config) (*Guest, error) {
	pages := uint32(DefaultPages)
	var log *zap.Logger
	if cfg != nil {
		if cfg.Pages > 0 {
			pages = cfg.Pages
		}
		log = cfg.Logger
	}
	if log == nil {
		log = Logger()
	}

	rt := wazero.NewRuntime(ctx)
	mod, err := rt.Instantiate(ctx, moduleBinary(pages))
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Wrap(errors.PhaseGuest, errors.KindAllocation, err, "instantiate guest module")
	}

	mem := mod.Memory()
	view, ok := mem.Read(0, mem.Size())
	if !ok || len(view) == 0 {
		_ = rt.Close(ctx)
		return nil, errors.New(errors.PhaseGuest, errors.KindAllocation).
			Detail("guest memory not readable").
			Build()
	}

	log.Debug("guest memory ready",
		zap.Uint32("pages", pages),
		zap.Int("bytes", len(view)))

	return &Guest{
		runtime: rt,
		mod:     mod,
		log:     log,
		base:    unsafe.Pointer(unsafe.SliceData(view)),
		size:    len(view),
	}, nil
}

func (g *Guest) Allocate(size, align int) (unsafe.Pointer, error) {
	if size <= 0 || align <= 0 || align&(align-1) != 0 {
		return nil, errors.InvalidInput(errors.PhaseGuest, "allocation size and alignment must be positive powers of two")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return nil, errors.Retired(errors.PhaseGuest, "guest resource")
	}

	addr := uintptr(g.base) + uintptr(g.offset)
	pad := 0
	if r := int(addr) & (align - 1); r != 0 {
		pad = align - r
	}
	if g.offset+pad+size > g.size {
		return nil, errors.New(errors.PhaseGuest, errors.KindAllocation).
			Detail("guest memory exhausted: %d bytes requested, %d of %d in use", size, g.offset, g.size).
			Build()
	}
	p := unsafe.Add(g.base, g.offset+pad)
	g.offset += pad + size
	return p, nil
}

// Deallocate is a no-op; guest memory is reclaimed by Reset or Close.
func (g *Guest) Deallocate(ptr unsafe.Pointer, size, align int) {}

func (g *Guest) NeedsExplicitFree() bool { return false }

// Size returns the guest memory size in bytes.
func (g *Guest) Size() int { return g.size }

// InUse returns the number of bytes currently allocated, padding included.
func (g *Guest) InUse() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.offset
}

// Reset reclaims all allocations at once. Outstanding pointers into the
// guest memory become invalid.
func (g *Guest) Reset() {
	g.mu.Lock()
	g.offset = 0
	g.mu.Unlock()
}

// Close shuts the wazero runtime down and retires the resource. Allocate
// fails afterward.
func (g *Guest) Close(ctx context.Context) error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil
	}
	g.closed = true
	g.base = nil
	g.size = 0
	g.offset = 0
	g.mu.Unlock()

	g.log.Debug("guest memory closed")
	return g.runtime.Close(ctx)
}

var _ jsonval.Resource = (*Guest)(nil)

// moduleBinary builds the smallest module that exports a fixed-size linear
// memory: a header, a memory section with min == max, and an export section
// naming it "memory".
func moduleBinary(pages uint32) []byte {
	b := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

	memSec := append([]byte{0x01, 0x01}, uleb128(pages)...)
	memSec = append(memSec, uleb128(pages)...)
	b = append(b, section(0x05, memSec)...)

	expSec := []byte{0x01, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00}
	b = append(b, section(0x07, expSec)...)
	return b
}

func section(id byte, body []byte) []byte {
	s := append([]byte{id}, uleb128(uint32(len(body)))...)
	return append(s, body...)
}

func uleb128(v uint32) []byte {
	var b []byte
	for {
		c := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			c |= 0x80
		}
		b = append(b, c)
		if v == 0 {
			return b
		}
	}
}
