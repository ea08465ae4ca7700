package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services
var (
	ErrFeeNotFound       = errors.New("fee record not found")
	ErrBookNotFound      = errors.New("book not found")
	ErrTimetableNotFound = errors.New("timetable not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateISBN     = errors.New("a book with this isbn already exists")
	ErrTimetableExists   = errors.New("a timetable for this class, term and session already exists")
)

// Kind classifies an error for HTTP translation.
type Kind string

const (
	KindValidation Kind = "VALIDATION_ERROR"
	KindNotFound   Kind = "NOT_FOUND"
	KindForbidden  Kind = "FORBIDDEN"
	KindConflict   Kind = "CONFLICT"
	KindInternal   Kind = "INTERNAL_ERROR"
)

// Error carries a kind, a client-safe message and the wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error with the given kind and message.
func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from an error chain, defaulting to KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf extracts the client-safe message from an error chain. Internal
// errors never expose their cause.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}

func Validation(message string) *Error {
	return New(KindValidation, message, nil)
}

func Validationf(format string, args ...interface{}) *Error {
	return New(KindValidation, fmt.Sprintf(format, args...), nil)
}

func NotFound(message string, err error) *Error {
	return New(KindNotFound, message, err)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, message, nil)
}

func Conflict(message string, err error) *Error {
	return New(KindConflict, message, err)
}

func Internal(err error) *Error {
	return New(KindInternal, "internal server error", err)
}

// Wrap helpers for the common lookups

func WrapFeeNotFound(feeID string) *Error {
	return NotFound(fmt.Sprintf("fee record %s not found", feeID), ErrFeeNotFound)
}

func WrapBookNotFound(bookID string) *Error {
	return NotFound(fmt.Sprintf("book %s not found", bookID), ErrBookNotFound)
}

func WrapTimetableNotFound(id string) *Error {
	return NotFound(fmt.Sprintf("timetable %s not found", id), ErrTimetableNotFound)
}
