package backend

import (
	"errors"
	"fmt"
)

// Kinds of backend failures. Every error returned by a backend wraps one of them.
var (
	// ErrNotFound is returned when the path does not exist.
	ErrNotFound = errors.New("not found")
	// ErrPermissionDenied is returned when the credentials are refused.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrNetwork is returned when the backend could not be reached.
	ErrNetwork = errors.New("network error")
	// ErrOther is returned for every other failure.
	ErrOther = errors.New("backend error")
)

// Error is the error returned by backends.
type Error struct {
	Op   string
	Path string
	Kind error
	Err  error
}

// NewError builds an Error. A nil kind is replaced by ErrOther.
func NewError(op, path string, kind error, err error) *Error {
	if kind == nil {
		kind = ErrOther
	}
	return &Error{Op: op, Path: path, Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Kind)
	}
	return fmt.Sprintf("%s %s: %s: %s", e.Op, e.Path, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind of the error so errors.Is(err, ErrNotFound) works.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// KindOf returns the kind of err, or ErrOther when err is not a backend error.
// It returns nil for a nil error.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return ErrOther
}

// IsNotFound reports whether err is a not found failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
