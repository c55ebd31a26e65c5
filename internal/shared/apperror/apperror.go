// Package apperror defines the error taxonomy shared by every domain.
// Domains declare sentinel *Error values in their model/errors.go and the
// HTTP layer maps the Kind to a status code.
package apperror

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindInvalidTransition
	KindOutOfStock
	KindConflict
	KindUnauthorized
	KindForbidden
	KindTooManyRequests
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindInvalidTransition:
		return "invalid_transition"
	case KindOutOfStock:
		return "out_of_stock"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindTooManyRequests:
		return "too_many_requests"
	default:
		return "internal"
	}
}

// HTTPStatus maps a kind to its response code
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindInvalidTransition, KindOutOfStock:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a Kind, a client-facing message and an optional cause
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Validation(message string) *Error        { return New(KindValidation, message) }
func NotFound(message string) *Error          { return New(KindNotFound, message) }
func InvalidTransition(message string) *Error { return New(KindInvalidTransition, message) }
func OutOfStock(message string) *Error        { return New(KindOutOfStock, message) }
func Conflict(message string) *Error          { return New(KindConflict, message) }
func Unauthorized(message string) *Error      { return New(KindUnauthorized, message) }
func Forbidden(message string) *Error         { return New(KindForbidden, message) }
func TooManyRequests(message string) *Error   { return New(KindTooManyRequests, message) }

// Internal wraps an unexpected failure; its message is never shown to clients
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Err: err}
}

// Wrap keeps the kind of err (a sentinel usually) under a more specific message.
// errors.Is(result, err) still holds.
func Wrap(err error, message string) *Error {
	return &Error{Kind: KindOf(err), Message: message, Err: err}
}

// FromValidation turns an ozzo-validation error (or any error) into a
// validation error. nil stays nil.
func FromValidation(err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	return &Error{Kind: KindValidation, Message: err.Error(), Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, KindInternal otherwise
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
