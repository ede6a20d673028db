package models

import "errors"

// Error kinds reported by the engine. Every rejected command wraps exactly one of
// these with a detail message, e.g. fmt.Errorf("%w: match 42 already decided", ErrConflict).
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrCapacity     = errors.New("capacity exceeded")
	ErrPrecondition = errors.New("precondition failed")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrNoOp         = errors.New("no-op request")

	// ErrInsufficientEntrants is a capacity error: errors.Is(err, ErrCapacity) holds for it too.
	ErrInsufficientEntrants error = &subKindError{msg: "insufficient entrants", parent: ErrCapacity}
)

type subKindError struct {
	msg    string
	parent error
}

func (e *subKindError) Error() string { return e.msg }
func (e *subKindError) Unwrap() error { return e.parent }

// ErrorKind returns the machine-readable kind of an engine error, or "internal"
// for anything that is not part of the taxonomy.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInsufficientEntrants):
		return "insufficient_entrants"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrCapacity):
		return "capacity"
	case errors.Is(err, ErrPrecondition):
		return "precondition"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrNoOp):
		return "no_op"
	default:
		return "internal"
	}
}
