package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which container operation the error occurred in
type Phase string

const (
	PhaseAlloc     Phase = "alloc"     // raw resource allocation
	PhaseConstruct Phase = "construct" // container or element construction
	PhaseAssign    Phase = "assign"    // whole-container reassignment
	PhaseInsert    Phase = "insert"    // positional insertion
	PhaseResize    Phase = "resize"    // resize / reserve
	PhaseSwap      Phase = "swap"      // cross-resource swap
	PhaseGuest     Phase = "guest"     // guest-memory resource operations
)

// Kind categorizes the error
type Kind string

const (
	KindAllocation   Kind = "allocation"
	KindLength       Kind = "length"
	KindOutOfBounds  Kind = "out_of_bounds"
	KindRetired      Kind = "retired"
	KindInvalidInput Kind = "invalid_input"
)

// Error is the structured error type used throughout the library
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		if t.Phase != "" && e.Phase != t.Phase {
			return false
		}
		return e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size, align int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
	}
}

// LengthExceeded creates an error for element counts beyond the representable maximum
func LengthExceeded(phase Phase, n, max int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindLength,
		Detail: fmt.Sprintf("requested %d elements exceeds maximum %d", n, max),
		Value:  n,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// Retired creates an error for operations on a released container or resource
func Retired(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindRetired,
		Detail: fmt.Sprintf("%s used after release", what),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with phase and kind context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// KindOf returns the kind carried by err, or the empty Kind when err does
// not wrap a structured error
func KindOf(err error) Kind {
	var e *Error
	if as(err, &e) {
		return e.Kind
	}
	return ""
}

// IsAllocation reports whether err is an allocation failure from any phase
func IsAllocation(err error) bool {
	var e *Error
	return as(err, &e) && e.Kind == KindAllocation
}

// IsLength reports whether err is a length error from any phase
func IsLength(err error) bool {
	var e *Error
	return as(err, &e) && e.Kind == KindLength
}
