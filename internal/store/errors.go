package store

import (
	"fmt"
	"net/http"
)

// Error is a persistence error with an HTTP status code.
type Error struct {
	Code    int    // HTTP status code
	Message string // User-facing message
	Err     error  // Underlying error (optional)
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same code and message, so sentinels
// survive WithCause wrapping under errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// HTTPCode returns the HTTP status code associated with this error.
func (e *Error) HTTPCode() int { return e.Code }

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
	}
}

// Sentinel errors. The identity taxonomy stays distinct down here;
// the service layer decides what callers may learn.
var (
	ErrUserNotFound = &Error{
		Code:    http.StatusNotFound,
		Message: "user not found",
	}

	ErrEmailExists = &Error{
		Code:    http.StatusConflict,
		Message: "email already in use",
	}

	ErrWrongPassword = &Error{
		Code:    http.StatusUnauthorized,
		Message: "wrong password",
	}

	ErrQuestionNotFound = &Error{
		Code:    http.StatusNotFound,
		Message: "question not found",
	}

	ErrMessageNotFound = &Error{
		Code:    http.StatusNotFound,
		Message: "message not found",
	}

	ErrTagNotFound = &Error{
		Code:    http.StatusNotFound,
		Message: "tag not found",
	}

	ErrAdminNotFound = &Error{
		Code:    http.StatusNotFound,
		Message: "admin not found",
	}

	ErrAlreadyExists = &Error{
		Code:    http.StatusConflict,
		Message: "resource already exists",
	}

	// ErrInvalidTransition rejects question status writes that move
	// against the one-way lifecycle.
	ErrInvalidTransition = &Error{
		Code:    http.StatusConflict,
		Message: "invalid status transition",
	}

	// ErrStorageFailure surfaces serialization or I/O faults as a
	// distinct kind instead of an unhandled crash.
	ErrStorageFailure = &Error{
		Code:    http.StatusInternalServerError,
		Message: "storage failure",
	}
)
