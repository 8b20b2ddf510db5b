// Package serrors provides kinded errors. A kind classifies a failure
// (not found, unavailable, empty, ...) independently of its cause, so callers
// can branch on errors.Is(err, serrors.ErrUnavailable) without knowing whether
// the browser, the database or a file produced it.
package serrors

import (
	"errors"
	"fmt"
)

// Kind is implemented by the error kinds created with NewKind.
type Kind interface {
	error
	isKind()
}

type kind struct{ s string }

func (k kind) Error() string { return k.s }
func (k kind) isKind()       {}

// NewKind creates a new comparable error kind.
func NewKind(name string) Kind { return kind{s: name} }

// Kinds used across the monitor. They are sentinels and match through
// errors.Is/As on the Error wrapper defined in this package.
var (
	// ErrNotFound indicates a stored list or file does not exist.
	ErrNotFound = NewKind("NOT_FOUND")
	// ErrBadRequest indicates invalid input such as an unparseable URL or an unknown option.
	ErrBadRequest = NewKind("BAD_REQUEST")
	// ErrConflict indicates a state conflict, e.g. a domain claimed by two sets.
	ErrConflict = NewKind("CONFLICT")
	// ErrInternal indicates an unexpected failure inside the process.
	ErrInternal = NewKind("INTERNAL")
	// ErrTimeout indicates the operation did not finish in its time budget.
	ErrTimeout = NewKind("TIMEOUT")
	// ErrUnavailable indicates a collaborator (browser, database) went away.
	ErrUnavailable = NewKind("UNAVAILABLE")
	// ErrEmpty indicates there was nothing to act on, e.g. an export with no domains.
	ErrEmpty = NewKind("EMPTY")
)

// Error carries a kind, an optional cause and an optional message.
// errors.Is and errors.As match either the kind or the cause.
//
// Error() renders "<msg>: <err>", "<msg>", "<err>" or the kind name,
// depending on which parts are set.
type Error struct {
	kind Kind  // semantic kind sentinel
	err  error // wrapped error (optional)
	msg  string
}

// With constructs a new semantic error with the given kind and an arbitrary
// human-readable message. Use Wrap if you also want to wrap a concrete cause.
func With(k Kind, msgFmt string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(msgFmt, args...)}
}

// Wrap constructs a new semantic error with the given kind, wraps the provided
// cause (err) and allows adding an arbitrary message.
func Wrap(k Kind, err error, msgFmt string, args ...any) *Error {
	return &Error{kind: k, err: err, msg: fmt.Sprintf(msgFmt, args...)}
}

// KindOnly creates an error carrying only the kind.
func KindOnly(k Kind) *Error { return &Error{kind: k} }

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	default:
		if e.kind != nil {
			return e.kind.Error()
		}

		return "unknown error"
	}
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error { return e.err }

// Is matches either the kind sentinel or the wrapped error.
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return e == nil && target == nil
	}
	if e.kind != nil && errors.Is(e.kind, target) {
		return true
	}
	if e.err != nil && errors.Is(e.err, target) {
		return true
	}

	return false
}

// As matches either the kind sentinel or the wrapped error.
func (e *Error) As(target any) bool {
	if e == nil || target == nil {
		return false
	}
	if e.kind != nil && errors.As(e.kind, target) {
		return true
	}
	if e.err != nil && errors.As(e.err, target) {
		return true
	}

	return false
}

// Kind returns the semantic kind sentinel associated with this error, or nil.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the arbitrary message attached to this error.
func (e *Error) Message() string { return e.msg }

// Cause returns the wrapped cause (may be nil).
func (e *Error) Cause() error { return e.err }
