package errors

import "errors"

// as is a thin wrapper around the standard library so the package's own
// name does not shadow it at call sites.
func as(err error, target any) bool {
	return errors.As(err, target)
}
