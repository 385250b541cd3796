// Package apperr defines the domain error taxonomy shared by all
// services. Every failure surfaced to a caller carries a stable,
// machine-readable kind plus a human-readable message naming the
// violated invariant.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure.
type Kind string

const (
	// KindNotFound means the target entity does not exist.
	KindNotFound Kind = "not_found"
	// KindForbidden means the actor lacks authority over the target.
	KindForbidden Kind = "forbidden"
	// KindConflict means the action violates a uniqueness or
	// already-terminal invariant.
	KindConflict Kind = "conflict"
	// KindFailedPrecondition means the action requires a state the
	// entity is not currently in (wrong status, out-of-sequence stop).
	KindFailedPrecondition Kind = "failed_precondition"
	// KindValidation means the input shape is malformed.
	KindValidation Kind = "validation"
	// KindInternal covers unexpected failures (storage unavailable).
	KindInternal Kind = "internal"
)

// Error is a typed domain error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an error with an explicit kind.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return New(KindNotFound, format, args...)
}

func Forbidden(format string, args ...interface{}) *Error {
	return New(KindForbidden, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return New(KindConflict, format, args...)
}

func FailedPrecondition(format string, args ...interface{}) *Error {
	return New(KindFailedPrecondition, format, args...)
}

func Validation(format string, args ...interface{}) *Error {
	return New(KindValidation, format, args...)
}

// Internal wraps an unexpected failure, keeping the cause for logs.
func Internal(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf reports the kind of err, or KindInternal for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
