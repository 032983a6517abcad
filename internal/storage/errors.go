package storage

import "errors"

// Failure kinds raised by stores and the layers built on them.
// Detecting code wraps one of these with context; callers match with errors.Is.
var (
	// ErrIO means the backing store could not be read or written.
	ErrIO = errors.New("storage i/o failure")

	// ErrDecode means the backing content is not a valid encoded collection.
	ErrDecode = errors.New("storage decode failure")

	// ErrConflict means an add would violate a uniqueness invariant.
	ErrConflict = errors.New("conflict")

	// ErrNotFound means the record does not exist or is not owned by the caller.
	ErrNotFound = errors.New("not found")

	// ErrValidation means required fields are missing or malformed.
	ErrValidation = errors.New("validation failed")
)

// Kind returns a short label for the failure kind of err, for metrics and logs.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrIO):
		return "io"
	case errors.Is(err, ErrDecode):
		return "decode"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrValidation):
		return "validation"
	default:
		return "error"
	}
}
