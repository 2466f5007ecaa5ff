// Package apperror defines the error kinds surfaced by the booking core.
//
// Repositories wrap driver errors with fmt.Errorf; services translate them
// into an *Error carrying a Kind so the HTTP layer can pick a status code
// without matching on message text.
package apperror

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound              Kind = "NotFound"
	KindInvalidArgument       Kind = "InvalidArgument"
	KindPreconditionFailed    Kind = "PreconditionFailed"
	KindInsufficientInventory Kind = "InsufficientInventory"
	KindUnauthorized          Kind = "Unauthorized"
	KindForbidden             Kind = "Forbidden"
	KindConflict              Kind = "Conflict"
	KindIntegrityFault        Kind = "IntegrityFault"
	KindInternal              Kind = "Internal"
)

// Error is a classified application error. Message is safe to show to
// clients; Err holds the underlying cause and is only ever logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by kind, so errors.Is(err, apperror.ErrNotFound)
// holds for any NotFound error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// Kind sentinels for errors.Is checks.
var (
	ErrNotFound              = &Error{Kind: KindNotFound}
	ErrInvalidArgument       = &Error{Kind: KindInvalidArgument}
	ErrPreconditionFailed    = &Error{Kind: KindPreconditionFailed}
	ErrInsufficientInventory = &Error{Kind: KindInsufficientInventory}
	ErrUnauthorized          = &Error{Kind: KindUnauthorized}
	ErrForbidden             = &Error{Kind: KindForbidden}
	ErrConflict              = &Error{Kind: KindConflict}
	ErrIntegrityFault        = &Error{Kind: KindIntegrityFault}
)

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

func InvalidArgument(format string, args ...any) *Error {
	return New(KindInvalidArgument, format, args...)
}

func PreconditionFailed(format string, args ...any) *Error {
	return New(KindPreconditionFailed, format, args...)
}

func InsufficientInventory(format string, args ...any) *Error {
	return New(KindInsufficientInventory, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return New(KindUnauthorized, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return New(KindForbidden, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return New(KindConflict, format, args...)
}

// KindOf reports the kind of the first *Error in err's chain, or
// KindInternal for anything unclassified.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// MessageOf returns the client-facing message of err. Unclassified errors
// never leak their text.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind != KindInternal && appErr.Kind != KindIntegrityFault {
		return appErr.Message
	}
	return "Internal server error"
}
