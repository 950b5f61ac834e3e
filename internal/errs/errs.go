// Package errs defines the failure taxonomy shared by the analyzers and the
// git data provider. Callers test the kind with errors.Is.
package errs

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrInvalidInput marks malformed or missing parameters.
	ErrInvalidInput = errors.New("invalid input")
	// ErrRepository marks a branch, ref or path the repository could not resolve.
	ErrRepository = errors.New("repository error")
	// ErrComputation marks an internal invariant violated during analysis.
	ErrComputation = errors.New("computation error")
)

// InvalidInput returns an error marked as ErrInvalidInput.
func InvalidInput(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrInvalidInput)
}

// Repository wraps cause with a message naming the entity that failed and
// marks it as ErrRepository.
func Repository(cause error, format string, args ...interface{}) error {
	if cause == nil {
		return errors.Mark(errors.Newf(format, args...), ErrRepository)
	}
	return errors.Mark(errors.Wrapf(cause, format, args...), ErrRepository)
}

// Computation returns an error marked as ErrComputation.
func Computation(format string, args ...interface{}) error {
	return errors.Mark(errors.AssertionFailedf(format, args...), ErrComputation)
}

// Kind returns a short label for err's category, or "unknown".
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrRepository):
		return "repository"
	case errors.Is(err, ErrComputation):
		return "computation"
	default:
		return "unknown"
	}
}
