package store

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a store error with an HTTP status code.
type Error struct {
	Code    int    // HTTP status code
	Message string // User-facing message
	Err     error  // Underlying error (optional)

	// kind identifies which sentinel this error derives from, so
	// errors.Is keeps matching after WithMessage/WithCause.
	kind string
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPCode returns the HTTP status code associated with this error.
func (e *Error) HTTPCode() int { return e.Code }

// Is reports whether target matches this error's sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.kind != "" || t.kind != "" {
		return e.kind == t.kind
	}
	return e.Code == t.Code && e.Message == t.Message
}

// WithMessage returns a new error with a custom message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{
		Code:    e.Code,
		Message: msg,
		Err:     e.Err,
		kind:    e.kind,
	}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
		kind:    e.kind,
	}
}

// IsNotFound reports whether err derives from ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Sentinel errors returned by store implementations.
var (
	ErrNotFound = &Error{
		Code:    http.StatusNotFound,
		Message: "resource not found",
		kind:    "not_found",
	}

	ErrAlreadyExists = &Error{
		Code:    http.StatusConflict,
		Message: "resource already exists",
		kind:    "already_exists",
	}

	ErrInvalidInput = &Error{
		Code:    http.StatusBadRequest,
		Message: "invalid input",
		kind:    "invalid_input",
	}

	// ErrUsernameTaken distinguishes a username uniqueness violation from
	// other conflicts so provisioning can retry with a fresh candidate.
	ErrUsernameTaken = &Error{
		Code:    http.StatusConflict,
		Message: "username already taken",
		kind:    "username_taken",
	}

	// ErrExternalIDExists signals a provisioning race: another request
	// already created the row for this external identity.
	ErrExternalIDExists = &Error{
		Code:    http.StatusConflict,
		Message: "user already exists for this identity",
		kind:    "external_id_exists",
	}
)
