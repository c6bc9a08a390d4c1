// Package errors provides structured error types for the jsonval library.
//
// Errors are categorized by Phase (which container operation failed) and
// Kind (error category). The Error type carries the offending value and a
// cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseInsert, errors.KindAllocation).
//		Detail("reserve %d elements", n).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.AllocationFailed(errors.PhaseAlloc, size, align)
//	err := errors.LengthExceeded(errors.PhaseResize, n, max)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
