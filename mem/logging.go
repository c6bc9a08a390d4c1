package mem

import (
	"unsafe"

	"go.uber.org/zap"

	jsonval "github.com/jsonval/jsonval"
)

// Logging wraps a resource and writes allocation traffic to a zap logger:
// Debug for successful operations, Warn for failed allocations.
type Logging struct {
	inner jsonval.Resource
	log   *zap.Logger
}

// NewLogging wraps inner with logging. A nil logger falls back to the
// package logger, which is a no-op unless configured with SetLogger.
func NewLogging(inner jsonval.Resource, log *zap.Logger) *Logging {
	if log == nil {
		log = Logger()
	}
	return &Logging{inner: inner, log: log}
}

func (l *Logging) Allocate(size, align int) (unsafe.Pointer, error) {
	p, err := l.inner.Allocate(size, align)
	if err != nil {
		l.log.Warn("allocate failed",
			zap.Int("size", size),
			zap.Int("align", align),
			zap.Error(err))
		return nil, err
	}
	l.log.Debug("allocate",
		zap.Int("size", size),
		zap.Int("align", align))
	return p, nil
}

func (l *Logging) Deallocate(ptr unsafe.Pointer, size, align int) {
	l.inner.Deallocate(ptr, size, align)
	l.log.Debug("deallocate",
		zap.Int("size", size),
		zap.Int("align", align))
}

func (l *Logging) NeedsExplicitFree() bool { return l.inner.NeedsExplicitFree() }
